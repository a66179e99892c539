package models

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by stores when a key does not exist or has expired.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned by create operations when the key is taken.
var ErrAlreadyExists = errors.New("already exists")

// PredictionClient turns a request into forecast text.
type PredictionClient interface {
	Complete(ctx context.Context, req PredictionRequest) (string, error)
}

// SessionStore keeps sessions, accounts and each session's last result.
type SessionStore interface {
	SaveSession(ctx context.Context, s Session, ttl time.Duration) error
	LoadSession(ctx context.Context, token string) (*Session, error)
	DeleteSession(ctx context.Context, token string) error
	// CreateAccount stores a only if no account with the same email exists.
	CreateAccount(ctx context.Context, a Account) error
	LoadAccount(ctx context.Context, email string) (*Account, error)
	SaveResult(ctx context.Context, token string, r *PredictionResult, ttl time.Duration) error
	LastResult(ctx context.Context, token string) (*PredictionResult, error)
}

// HistoryStore persists completed predictions.
type HistoryStore interface {
	SavePrediction(ctx context.Context, r *PredictionResult) error
	ListPredictions(ctx context.Context, userID string, limit int) ([]PredictionResult, error)
}

// EventPublisher announces completed predictions to other systems.
type EventPublisher interface {
	PublishPrediction(ctx context.Context, r *PredictionResult) error
}
