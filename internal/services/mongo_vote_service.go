package services

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoVoteService reconciles words.upvotes/downvotes counters with the
// membership sets on users. The counter moves only when the set update
// reported a modification, which keeps repeated votes idempotent, and
// decrements carry a "> 0" filter so counters cannot go negative. There is
// no transaction across the two collections: a crash between the set write
// and the counter write leaves them out of sync until the next vote on
// that word.
type MongoVoteService struct {
	client    *mongo.Client
	db        *mongo.Database
	wordsColl *mongo.Collection
	usersColl *mongo.Collection
}

const (
	fieldUpvotes   = "upvotes"
	fieldDownvotes = "downvotes"
)

func NewMongoVoteService(ctx context.Context, mongoURI, dbName string) (*MongoVoteService, error) {
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

	log.Info().Str("db", dbName).Msg("MongoDB connected (votes)")
	return &MongoVoteService{
		client:    client,
		db:        db,
		wordsColl: db.Collection("words"),
		usersColl: db.Collection("users"),
	}, nil
}

func (s *MongoVoteService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoVoteService) Upvote(ctx context.Context, wordID, subject string) error {
	return s.vote(ctx, wordID, subject, fieldUpvotes, fieldDownvotes)
}

func (s *MongoVoteService) Downvote(ctx context.Context, wordID, subject string) error {
	return s.vote(ctx, wordID, subject, fieldDownvotes, fieldUpvotes)
}

func (s *MongoVoteService) UndoUpvote(ctx context.Context, wordID, subject string) error {
	return s.undo(ctx, wordID, subject, fieldUpvotes)
}

func (s *MongoVoteService) UndoDownvote(ctx context.Context, wordID, subject string) error {
	return s.undo(ctx, wordID, subject, fieldDownvotes)
}

func (s *MongoVoteService) vote(ctx context.Context, wordID, subject, field, opposite string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.ensureWord(ctx, wordID); err != nil {
		return err
	}

	// Clear any vote the other way first so a word id never sits in both
	// sets of one user.
	res, err := s.usersColl.UpdateOne(ctx,
		bson.M{"google_id": subject},
		bson.M{"$pull": bson.M{opposite: wordID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	if res.ModifiedCount == 1 {
		if err := s.decrement(ctx, wordID, opposite); err != nil {
			return err
		}
	}

	res, err = s.usersColl.UpdateOne(ctx,
		bson.M{"google_id": subject},
		bson.M{"$addToSet": bson.M{field: wordID}},
	)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		// Already voted; counter stays put.
		return nil
	}

	_, err = s.wordsColl.UpdateOne(ctx,
		bson.M{"_id": wordID},
		bson.M{"$inc": bson.M{field: 1}},
	)
	return err
}

func (s *MongoVoteService) undo(ctx context.Context, wordID, subject, field string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.ensureWord(ctx, wordID); err != nil {
		return err
	}

	res, err := s.usersColl.UpdateOne(ctx,
		bson.M{"google_id": subject},
		bson.M{"$pull": bson.M{field: wordID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	if res.ModifiedCount == 0 {
		// Nothing to undo.
		return nil
	}

	return s.decrement(ctx, wordID, field)
}

func (s *MongoVoteService) decrement(ctx context.Context, wordID, field string) error {
	_, err := s.wordsColl.UpdateOne(ctx,
		bson.M{"_id": wordID, field: bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{field: -1}},
	)
	return err
}

func (s *MongoVoteService) ensureWord(ctx context.Context, wordID string) error {
	err := s.wordsColl.FindOne(ctx,
		bson.M{"_id": wordID},
		options.FindOne().SetProjection(bson.M{"_id": 1}),
	).Err()
	if err == mongo.ErrNoDocuments {
		return ErrWordNotFound
	}
	return err
}
