package services

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/desidict/backend/internal/models"
)

// MemoryWordService is the in-memory stand-in for MongoWordService. Search
// uses a folded substring match where Mongo has a text index; the sorting
// and paging semantics are identical.
type MemoryWordService struct {
	mu    sync.RWMutex
	words map[string]*models.Word
	users *MemoryUserService
}

func NewMemoryWordService(users *MemoryUserService) *MemoryWordService {
	return &MemoryWordService{
		words: make(map[string]*models.Word),
		users: users,
	}
}

func (s *MemoryWordService) Submit(_ context.Context, author models.Author, req *models.SubmitWordRequest) (*models.Word, error) {
	s.mu.Lock()
	word := &models.Word{
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
	s.words[word.ID] = word
	s.mu.Unlock()

	if s.users != nil {
		s.users.mu.Lock()
		if u, ok := s.users.bySubject[author.Subject]; ok {
			addMember(&u.WordsAuthor, word.ID)
		}
		s.users.mu.Unlock()
	}

	c := *word
	return &c, nil
}

func (s *MemoryWordService) GetByID(_ context.Context, id string) (*models.Word, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	word, ok := s.words[id]
	if !ok {
		return nil, ErrWordNotFound
	}
	c := *word
	return &c, nil
}

func (s *MemoryWordService) ListApproved(_ context.Context, page, pageSize int) ([]*models.Word, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return paginate(s.collect(func(w *models.Word) bool {
		return w.Status == models.WordStatusApproved
	}), page, pageSize)
}

func (s *MemoryWordService) Search(_ context.Context, query string, page, pageSize int) ([]*models.Word, int, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []*models.Word{}, 0, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return paginate(s.collect(func(w *models.Word) bool {
		if w.Status != models.WordStatusApproved {
			return false
		}
		return strings.Contains(strings.ToLower(w.Word), query) ||
			strings.Contains(strings.ToLower(w.Definition), query)
	}), page, pageSize)
}

func (s *MemoryWordService) ListPending(_ context.Context) ([]*models.Word, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.collect(func(w *models.Word) bool {
		return w.Status == models.WordStatusPending
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].PostedAt.Before(out[j].PostedAt)
	})
	return out, nil
}

func (s *MemoryWordService) SetStatus(_ context.Context, wordID string, status models.WordStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Missing ids are a no-op, like the Mongo implementation.
	if word, ok := s.words[wordID]; ok {
		word.Status = status
	}
	return nil
}

func (s *MemoryWordService) collect(keep func(*models.Word) bool) []*models.Word {
	out := make([]*models.Word, 0)
	for _, w := range s.words {
		if keep(w) {
			c := *w
			out = append(out, &c)
		}
	}
	return out
}

func paginate(words []*models.Word, page, pageSize int) ([]*models.Word, int, error) {
	sort.Slice(words, func(i, j int) bool {
		a, b := words[i], words[j]
		if a.Upvotes != b.Upvotes {
			return a.Upvotes > b.Upvotes
		}
		if !a.PostedAt.Equal(b.PostedAt) {
			return a.PostedAt.After(b.PostedAt)
		}
		return a.ID > b.ID
	})

	totalPages := int(math.Ceil(float64(len(words)) / float64(pageSize)))

	if page < 1 {
		page = 1
	}
	offset := (page - 1) * pageSize
	if offset >= len(words) {
		return []*models.Word{}, totalPages, nil
	}
	end := offset + pageSize
	if end > len(words) {
		end = len(words)
	}
	return words[offset:end], totalPages, nil
}
