package main

import (
	"context"
	"net/http"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/desidict/backend/internal/auth"
	"github.com/desidict/backend/internal/config"
	"github.com/desidict/backend/internal/handlers"
	"github.com/desidict/backend/internal/logger"
	appMiddleware "github.com/desidict/backend/internal/middleware"
	"github.com/desidict/backend/internal/services"
)

func main() {
	logger.Init()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var (
		wordSvc services.WordService
		userSvc services.UserService
		voteSvc services.VoteService
	)

	if cfg.MongoURI != "" {
		mongoWords, err := services.NewMongoWordService(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect word store")
		}
		defer mongoWords.Close(context.Background())

		mongoUsers, err := services.NewMongoUserService(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect user store")
		}
		defer mongoUsers.Close(context.Background())

		mongoVotes, err := services.NewMongoVoteService(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect vote store")
		}
		defer mongoVotes.Close(context.Background())

		wordSvc, userSvc, voteSvc = mongoWords, mongoUsers, mongoVotes
	} else {
		log.Warn().Msg("MONGO_URI not set, using in-memory stores")
		memUsers := services.NewMemoryUserService()
		memWords := services.NewMemoryWordService(memUsers)
		wordSvc, userSvc = memWords, memUsers
		voteSvc = services.NewMemoryVoteService(memWords, memUsers)
	}

	sessions := auth.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL)

	google := auth.NewGoogleVerifier(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	if google == nil {
		log.Warn().Msg("Google OAuth not configured, login disabled")
	}

	var fbClient *fbauth.Client
	if cfg.FirebaseProjectID != "" {
		client, err := appMiddleware.NewFirebaseAuthClient(ctx, appMiddleware.FirebaseAuthConfig{
			ProjectID:       cfg.FirebaseProjectID,
			CredentialsJSON: cfg.FirebaseCredentialsJSON,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Firebase auth unavailable, bearer tokens disabled")
		} else {
			fbClient = client
		}
	}

	adminEmails := cfg.AdminEmailSet()

	wordHandler := handlers.NewWordHandler(wordSvc, userSvc, cfg.PageSize)
	voteHandler := handlers.NewVoteHandler(voteSvc)
	authHandler := handlers.NewAuthHandler(sessions, google, userSvc, adminEmails, cfg.AdminPasswordHash)
	adminHandler := handlers.NewAdminHandler(wordSvc)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(appMiddleware.SessionAuth(sessions, fbClient, adminEmails))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/", wordHandler.ListWords)
	r.Get("/search/", wordHandler.SearchWords)

	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.RequireUser)
		r.Get("/addword", wordHandler.AddWordForm)
		r.Post("/postword", wordHandler.SubmitWord)
		r.Post("/upvote/{wordID}", voteHandler.Upvote)
		r.Post("/downvote/{wordID}", voteHandler.Downvote)
		r.Post("/undo_upvote/{wordID}", voteHandler.UndoUpvote)
		r.Post("/undo_downvote/{wordID}", voteHandler.UndoDownvote)
	})

	r.Route("/user", func(r chi.Router) {
		r.Get("/", authHandler.LoginPage)
		r.Get("/login", authHandler.Login)
		r.Get("/callback", authHandler.Callback)
		r.Post("/callback", authHandler.Callback)
		r.Get("/logout", authHandler.Logout)
		r.With(appMiddleware.RequireUser).Get("/protected_area", authHandler.ProtectedArea)
		r.Post("/admin/login", authHandler.AdminLogin)
	})

	r.Route("/adminDashboard", func(r chi.Router) {
		r.Use(appMiddleware.RequireUser)
		r.Use(appMiddleware.RequireAdmin)
		r.Get("/", adminHandler.Dashboard)
		r.Post("/{action}/{wordID}/", adminHandler.Moderate)
	})

	log.Info().Str("addr", cfg.ServerAddress).Msg("Server starting")
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
