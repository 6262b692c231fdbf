package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/desidict/backend/internal/models"
)

// MemoryUserService is the in-memory stand-in for MongoUserService, used in
// tests and when no MONGO_URI is configured.
type MemoryUserService struct {
	mu        sync.RWMutex
	bySubject map[string]*models.User
}

func NewMemoryUserService() *MemoryUserService {
	return &MemoryUserService{
		bySubject: make(map[string]*models.User),
	}
}

func (s *MemoryUserService) GetOrCreate(_ context.Context, ident *models.Identity) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, ok := s.bySubject[ident.Subject]; ok {
		return copyUser(user), nil
	}

	user := &models.User{
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
	s.bySubject[ident.Subject] = user
	return copyUser(user), nil
}

func (s *MemoryUserService) GetBySubject(_ context.Context, subject string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.bySubject[subject]
	if !ok {
		return nil, ErrUserNotFound
	}
	return copyUser(user), nil
}

func copyUser(u *models.User) *models.User {
	c := *u
	c.WordsAuthor = append([]string{}, u.WordsAuthor...)
	c.Upvotes = append([]string{}, u.Upvotes...)
	c.Downvotes = append([]string{}, u.Downvotes...)
	return &c
}
