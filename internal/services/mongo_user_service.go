package services

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/desidict/backend/internal/models"
)

type MongoUserService struct {
	client    *mongo.Client
	db        *mongo.Database
	usersColl *mongo.Collection
}

func NewMongoUserService(ctx context.Context, mongoURI, dbName string) (*MongoUserService, error) {
	tlsCfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		MaxVersion: tls.VersionTLS12,
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI).SetTLSConfig(tlsCfg))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	users := db.Collection("users")

	_, _ = users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "google_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	log.Info().Str("db", dbName).Msg("MongoDB connected (users)")
	return &MongoUserService{client: client, db: db, usersColl: users}, nil
}

func (s *MongoUserService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// GetOrCreate returns the user for the given identity, creating the record
// on first login. Concurrent first logins race on the unique google_id
// index; the loser re-fetches.
func (s *MongoUserService) GetOrCreate(ctx context.Context, ident *models.Identity) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var user models.User
	err := s.usersColl.FindOne(ctx, bson.M{"google_id": ident.Subject}).Decode(&user)
	if err == nil {
		return &user, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	user = models.User{
		ID:            uuid.New().String(),
		GoogleID:      ident.Subject,
		Name:          ident.Name,
		Email:         ident.Email,
		Picture:       ident.Picture,
		EmailVerified: ident.EmailVerified,
		WordsAuthor:   []string{},
		Upvotes:       []string{},
		Downvotes:     []string{},
		CreatedAt:     time.Now().UTC(),
	}
	if _, err := s.usersColl.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			var existing models.User
			if err2 := s.usersColl.FindOne(ctx, bson.M{"google_id": ident.Subject}).Decode(&existing); err2 == nil {
				return &existing, nil
			}
		}
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserService) GetBySubject(ctx context.Context, subject string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var user models.User
	if err := s.usersColl.FindOne(ctx, bson.M{"google_id": subject}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
