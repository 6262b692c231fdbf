package services

import (
	"context"

	"github.com/desidict/backend/internal/models"
)

// MemoryVoteService mirrors MongoVoteService's guard semantics against the
// in-memory stores. Both store locks are held for the whole mutation, words
// before users, so counters and membership sets never drift apart.
type MemoryVoteService struct {
	words *MemoryWordService
	users *MemoryUserService
}

func NewMemoryVoteService(words *MemoryWordService, users *MemoryUserService) *MemoryVoteService {
	return &MemoryVoteService{words: words, users: users}
}

func (s *MemoryVoteService) Upvote(ctx context.Context, wordID, subject string) error {
	return s.vote(ctx, wordID, subject, voteUp)
}

func (s *MemoryVoteService) Downvote(ctx context.Context, wordID, subject string) error {
	return s.vote(ctx, wordID, subject, voteDown)
}

func (s *MemoryVoteService) UndoUpvote(ctx context.Context, wordID, subject string) error {
	return s.undo(ctx, wordID, subject, voteUp)
}

func (s *MemoryVoteService) UndoDownvote(ctx context.Context, wordID, subject string) error {
	return s.undo(ctx, wordID, subject, voteDown)
}

type voteSide int

const (
	voteUp voteSide = iota
	voteDown
)

func (s *MemoryVoteService) vote(_ context.Context, wordID, subject string, side voteSide) error {
	s.words.mu.Lock()
	defer s.words.mu.Unlock()
	s.users.mu.Lock()
	defer s.users.mu.Unlock()

	word, user, err := s.lookup(wordID, subject)
	if err != nil {
		return err
	}

	set, opposite := &user.Upvotes, &user.Downvotes
	counter, oppCounter := &word.Upvotes, &word.Downvotes
	if side == voteDown {
		set, opposite = opposite, set
		counter, oppCounter = oppCounter, counter
	}

	// Clear any vote the other way first so a word id never sits in both
	// sets of one user.
	if removeMember(opposite, wordID) && *oppCounter > 0 {
		*oppCounter--
	}

	if !addMember(set, wordID) {
		// Already voted; counter stays put.
		return nil
	}
	*counter++
	return nil
}

func (s *MemoryVoteService) undo(_ context.Context, wordID, subject string, side voteSide) error {
	s.words.mu.Lock()
	defer s.words.mu.Unlock()
	s.users.mu.Lock()
	defer s.users.mu.Unlock()

	word, user, err := s.lookup(wordID, subject)
	if err != nil {
		return err
	}

	set, counter := &user.Upvotes, &word.Upvotes
	if side == voteDown {
		set, counter = &user.Downvotes, &word.Downvotes
	}

	if !removeMember(set, wordID) {
		// Nothing to undo.
		return nil
	}
	if *counter > 0 {
		*counter--
	}
	return nil
}

// lookup returns the live records. Callers hold both store locks.
func (s *MemoryVoteService) lookup(wordID, subject string) (*models.Word, *models.User, error) {
	word, ok := s.words.words[wordID]
	if !ok {
		return nil, nil, ErrWordNotFound
	}
	user, ok := s.users.bySubject[subject]
	if !ok {
		return nil, nil, ErrUserNotFound
	}
	return word, user, nil
}

func addMember(set *[]string, id string) bool {
	for _, v := range *set {
		if v == id {
			return false
		}
	}
	*set = append(*set, id)
	return true
}

func removeMember(set *[]string, id string) bool {
	for i, v := range *set {
		if v == id {
			*set = append((*set)[:i], (*set)[i+1:]...)
			return true
		}
	}
	return false
}
