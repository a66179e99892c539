package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Alias1177/CryptoPredict/models"
)

type expiring[T any] struct {
	value     T
	expiresAt time.Time
}

func (e expiring[T]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryStore is an in-process SessionStore.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]expiring[models.Session]
	results  map[string]expiring[models.PredictionResult]
	accounts map[string]models.Account
	now      func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]expiring[models.Session]),
		results:  make(map[string]expiring[models.PredictionResult]),
		accounts: make(map[string]models.Account),
		now:      time.Now,
	}
}

func (m *MemoryStore) deadline(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return m.now().Add(ttl)
}

func (m *MemoryStore) SaveSession(ctx context.Context, s models.Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = expiring[models.Session]{value: s, expiresAt: m.deadline(ttl)}
	return nil
}

func (m *MemoryStore) LoadSession(ctx context.Context, token string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[token]
	if !ok {
		return nil, models.ErrNotFound
	}
	if e.expired(m.now()) {
		delete(m.sessions, token)
		delete(m.results, token)
		return nil, models.ErrNotFound
	}
	s := e.value
	return &s, nil
}

func (m *MemoryStore) DeleteSession(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	delete(m.results, token)
	return nil
}

func (m *MemoryStore) CreateAccount(ctx context.Context, a models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(a.User.Email)
	if _, ok := m.accounts[key]; ok {
		return models.ErrAlreadyExists
	}
	m.accounts[key] = a
	return nil
}

func (m *MemoryStore) LoadAccount(ctx context.Context, email string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[strings.ToLower(email)]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &a, nil
}

func (m *MemoryStore) SaveResult(ctx context.Context, token string, r *models.PredictionResult, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[token] = expiring[models.PredictionResult]{value: *r, expiresAt: m.deadline(ttl)}
	return nil
}

func (m *MemoryStore) LastResult(ctx context.Context, token string) (*models.PredictionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.results[token]
	if !ok || e.expired(m.now()) {
		return nil, models.ErrNotFound
	}
	r := e.value
	return &r, nil
}
