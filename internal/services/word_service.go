package services

import (
	"context"
	"errors"

	"github.com/desidict/backend/internal/models"
)

var (
	ErrWordNotFound = errors.New("word not found")
	ErrUserNotFound = errors.New("user not found")
)

// WordService owns word submission, public listing/search, and moderation.
//
// Submit performs two writes: the word insert and the author's words_author
// back-reference. They are not jointly atomic; when the second write fails
// the word stays behind as an orphan and the error is surfaced to the
// caller rather than rolled back.
type WordService interface {
	Submit(ctx context.Context, author models.Author, req *models.SubmitWordRequest) (*models.Word, error)
	GetByID(ctx context.Context, id string) (*models.Word, error)

	// ListApproved returns one page of approved words sorted by upvotes
	// descending, newest first within a tie, plus the total page count.
	ListApproved(ctx context.Context, page, pageSize int) ([]*models.Word, int, error)
	// Search is ListApproved restricted to a full-text match on word and
	// definition content. An empty result is not an error; its page count
	// is zero.
	Search(ctx context.Context, query string, page, pageSize int) ([]*models.Word, int, error)

	// ListPending is the moderation queue.
	ListPending(ctx context.Context) ([]*models.Word, error)
	// SetStatus transitions a word to approved or declined. A missing word
	// id is a silent no-op.
	SetStatus(ctx context.Context, wordID string, status models.WordStatus) error
}

// UserService owns the users collection. Users are created on first login
// and never deleted.
type UserService interface {
	GetOrCreate(ctx context.Context, ident *models.Identity) (*models.User, error)
	GetBySubject(ctx context.Context, subject string) (*models.User, error)
}

// VoteService reconciles the vote counters on words with the membership
// sets on users. Each single-document update is atomic; the pair is not,
// so a crash between the two leaves counter and set briefly out of sync.
//
// Counters only move when the membership set actually changed: repeated
// votes are idempotent, undo without a prior vote is a no-op, and counters
// never go below zero. Voting one way first clears a vote the other way.
type VoteService interface {
	Upvote(ctx context.Context, wordID, subject string) error
	UndoUpvote(ctx context.Context, wordID, subject string) error
	Downvote(ctx context.Context, wordID, subject string) error
	UndoDownvote(ctx context.Context, wordID, subject string) error
}
