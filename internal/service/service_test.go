package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/meeplemeet/meeplemeet/internal/model"
	"github.com/meeplemeet/meeplemeet/internal/repository"
)

// In-memory doubles for the persistence and delivery edges, so the use-case
// tests exercise only the service logic.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (r *fakeUserRepo) Create(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) ByID(id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) ByEmail(email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) UpdatePasswordHash(id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now()
	return nil
}

func (r *fakeUserRepo) IncrementHostedEvents(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.HostedEventsCount++
	return nil
}

func (r *fakeUserRepo) List() ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *u)
	}
	return users, nil
}

type fakeResetRepo struct {
	mu     sync.Mutex
	byHash map[string]*model.ResetToken
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{byHash: map[string]*model.ResetToken{}}
}

func (r *fakeResetRepo) Create(token *model.ResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	cp := *token
	r.byHash[token.TokenHash] = &cp
	return nil
}

func (r *fakeResetRepo) Consume(tokenHash string) (*model.ResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byHash[tokenHash]
	if !ok || t.IsUsed() || t.IsExpired() {
		return nil, repository.ErrTokenNotFound
	}
	now := time.Now()
	t.UsedAt = &now
	cp := *t
	return &cp, nil
}

func (r *fakeResetRepo) ByUser(userID string) ([]model.ResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tokens := []model.ResetToken{}
	for _, t := range r.byHash {
		if t.UserID == userID {
			tokens = append(tokens, *t)
		}
	}
	return tokens, nil
}

func (r *fakeResetRepo) DeleteExpired(olderThan time.Duration) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := time.Now().Add(-olderThan)
	var deleted int64
	for hash, t := range r.byHash {
		if (t.UsedAt != nil && t.UsedAt.Before(cutoff)) || t.ExpiresAt.Before(cutoff) {
			delete(r.byHash, hash)
			deleted++
		}
	}
	return deleted, nil
}

type sentMail struct {
	to  string
	url string
}

type fakeMailer struct {
	mu      sync.Mutex
	sendErr error
	sent    []sentMail
}

func (m *fakeMailer) SendPasswordResetEmail(email, resetURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMail{to: email, url: resetURL})
	return nil
}
