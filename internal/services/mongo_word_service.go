package services

import (
	"context"
	"crypto/tls"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/desidict/backend/internal/models"
)

type MongoWordService struct {
	client    *mongo.Client
	db        *mongo.Database
	wordsColl *mongo.Collection
	usersColl *mongo.Collection
}

type mongoWordDoc struct {
	ID           string            `bson:"_id"`
	Word         string            `bson:"word"`
	Definition   string            `bson:"definition"`
	Language     string            `bson:"language"`
	PartOfSpeech string            `bson:"part_of_speech"`
	Gender       string            `bson:"gender,omitempty"`
	Conjugates   string            `bson:"conjugates,omitempty"`
	UsageExample string            `bson:"usage_example,omitempty"`
	Synonyms     string            `bson:"synonyms,omitempty"`
	Antonyms     string            `bson:"antonyms,omitempty"`
	Region       string            `bson:"region,omitempty"`
	ZipCode      string            `bson:"zip_code,omitempty"`
	AuthorID     string            `bson:"author_id"`
	AuthorEmail  string            `bson:"author_email,omitempty"`
	UserHandle   string            `bson:"user_handle"`
	Upvotes      int               `bson:"upvotes"`
	Downvotes    int               `bson:"downvotes"`
	Status       models.WordStatus `bson:"status"`
	PostedAt     time.Time         `bson:"posted_at"`
}

func NewMongoWordService(ctx context.Context, mongoURI, dbName string) (*MongoWordService, error) {
	// Atlas occasionally fails TLS negotiation in some environments unless we force TLS 1.2.
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
	words := db.Collection("words")
	users := db.Collection("users")

	svc := &MongoWordService{
		client:    client,
		db:        db,
		wordsColl: words,
		usersColl: users,
	}

	// Best-effort indexes.
	_, _ = words.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "word", Value: "text"}, {Key: "definition", Value: "text"}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "upvotes", Value: -1}}},
		{Keys: bson.D{{Key: "posted_at", Value: -1}}},
	})

	log.Info().Str("db", dbName).Msg("MongoDB connected (words)")
	return svc, nil
}

func (s *MongoWordService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func wordDocToModel(d mongoWordDoc) *models.Word {
	return &models.Word{
		ID:           d.ID,
		Word:         d.Word,
		Definition:   d.Definition,
		Language:     d.Language,
		PartOfSpeech: d.PartOfSpeech,
		Gender:       d.Gender,
		Conjugates:   d.Conjugates,
		UsageExample: d.UsageExample,
		Synonyms:     d.Synonyms,
		Antonyms:     d.Antonyms,
		Region:       d.Region,
		ZipCode:      d.ZipCode,
		AuthorID:     d.AuthorID,
		AuthorEmail:  d.AuthorEmail,
		UserHandle:   d.UserHandle,
		Upvotes:      d.Upvotes,
		Downvotes:    d.Downvotes,
		Status:       d.Status,
		PostedAt:     d.PostedAt,
	}
}

// listSort orders pages by popularity, then recency. The last key only makes
// pagination deterministic when two words share a timestamp.
var listSort = bson.D{
	{Key: "upvotes", Value: -1},
	{Key: "posted_at", Value: -1},
	{Key: "_id", Value: -1},
}

func (s *MongoWordService) Submit(ctx context.Context, author models.Author, req *models.SubmitWordRequest) (*models.Word, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	doc := mongoWordDoc{
		ID:           uuid.New().String(),
		Word:         req.Word,
		Definition:   req.Definition,
		Language:     req.Language,
		PartOfSpeech: req.PartOfSpeech,
		Gender:       req.Gender,
		Conjugates:   req.Conjugates,
		UsageExample: req.UsageExample,
		Synonyms:     req.Synonyms,
		Antonyms:     req.Antonyms,
		Region:       req.Region,
		ZipCode:      req.ZipCode,
		AuthorID:     author.Subject,
		AuthorEmail:  author.Email,
		UserHandle:   req.Handle(author.Name),
		Upvotes:      0,
		Downvotes:    0,
		Status:       models.WordStatusPending,
		PostedAt:     time.Now().UTC(),
	}

	if _, err := s.wordsColl.InsertOne(ctx, doc); err != nil {
		return nil, err
	}

	// Back-reference on the author. Not atomic with the insert above; on
	// failure the word stays behind as an orphan and the caller hears
	// about it.
	if _, err := s.usersColl.UpdateOne(ctx,
		bson.M{"google_id": author.Subject},
		bson.M{"$addToSet": bson.M{"words_author": doc.ID}},
	); err != nil {
		return nil, fmt.Errorf("record author reference for word %s: %w", doc.ID, err)
	}

	return wordDocToModel(doc), nil
}

func (s *MongoWordService) GetByID(ctx context.Context, id string) (*models.Word, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var doc mongoWordDoc
	if err := s.wordsColl.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrWordNotFound
		}
		return nil, err
	}
	return wordDocToModel(doc), nil
}

func (s *MongoWordService) ListApproved(ctx context.Context, page, pageSize int) ([]*models.Word, int, error) {
	filter := bson.M{"status": models.WordStatusApproved}
	return s.listPage(ctx, filter, page, pageSize)
}

func (s *MongoWordService) Search(ctx context.Context, query string, page, pageSize int) ([]*models.Word, int, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []*models.Word{}, 0, nil
	}
	filter := bson.M{
		"status": models.WordStatusApproved,
		"$text":  bson.M{"$search": query},
	}
	return s.listPage(ctx, filter, page, pageSize)
}

func (s *MongoWordService) listPage(ctx context.Context, filter bson.M, page, pageSize int) ([]*models.Word, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if page < 1 {
		page = 1
	}
	offset := int64((page - 1) * pageSize)

	total, err := s.wordsColl.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))

	cur, err := s.wordsColl.Find(
		ctx,
		filter,
		options.Find().SetSort(listSort).SetSkip(offset).SetLimit(int64(pageSize)),
	)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	out := make([]*models.Word, 0, pageSize)
	for cur.Next(ctx) {
		var doc mongoWordDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, err
		}
		out = append(out, wordDocToModel(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, 0, err
	}
	return out, totalPages, nil
}

func (s *MongoWordService) ListPending(ctx context.Context) ([]*models.Word, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cur, err := s.wordsColl.Find(
		ctx,
		bson.M{"status": models.WordStatusPending},
		options.Find().SetSort(bson.D{{Key: "posted_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*models.Word, 0)
	for cur.Next(ctx) {
		var doc mongoWordDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, wordDocToModel(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoWordService) SetStatus(ctx context.Context, wordID string, status models.WordStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Missing word ids are a no-op, matching the moderation dashboard's
	// fire-and-forget semantics.
	_, err := s.wordsColl.UpdateOne(ctx,
		bson.M{"_id": wordID},
		bson.M{"$set": bson.M{"status": status}},
	)
	return err
}
