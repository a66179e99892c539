// Package auth implements the mock account flow: login, registration,
// logout and per-session state kept in an injected SessionStore.
package auth

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Alias1177/CryptoPredict/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountExists      = errors.New("an account with this email already exists")
	ErrSessionNotFound    = errors.New("session not found")
	ErrEmailRequired      = errors.New("email is required")
)

const avatarURL = "https://img.heroui.chat/image/avatar?w=200&h=200&u=%d"

// Recorder observes auth actions.
type Recorder interface {
	ObserveAuth(action string, err error)
}

// Options configures a Service.
type Options struct {
	// SimulatedDelay is waited before login and registration complete.
	SimulatedDelay time.Duration
	SessionTTL     time.Duration
	Metrics        Recorder
	Now            func() time.Time
	AvatarSeed     func() int
}

// Service issues sessions backed by a models.SessionStore.
type Service struct {
	store  models.SessionStore
	opts   Options
	logger zerolog.Logger
}

// NewService creates a Service.
func NewService(store models.SessionStore, opts Options) *Service {
	if opts.SessionTTL == 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.AvatarSeed == nil {
		opts.AvatarSeed = func() int { return rand.Intn(20) }
	}
	return &Service{
		store:  store,
		opts:   opts,
		logger: log.With().Str("component", "auth").Logger(),
	}
}

// Login starts a session. Unknown emails are accepted as demo users; a
// registered email must match its password.
func (s *Service) Login(ctx context.Context, email, password string) (sess *models.Session, err error) {
	defer s.observe("login", &err)

	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	user := models.User{
		ID:     "user-1",
		Name:   localPart(email),
		Email:  email,
		Avatar: fmt.Sprintf(avatarURL, s.opts.AvatarSeed()),
	}

	account, err := s.store.LoadAccount(ctx, email)
	switch {
	case err == nil:
		if bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)) != nil {
			return nil, ErrInvalidCredentials
		}
		user = account.User
	case errors.Is(err, models.ErrNotFound):
	default:
		return nil, fmt.Errorf("load account: %w", err)
	}

	return s.startSession(ctx, user)
}

// Register creates an account and starts a session for it.
func (s *Service) Register(ctx context.Context, name, email, password string) (sess *models.Session, err error) {
	defer s.observe("register", &err)

	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	if _, err := s.store.LoadAccount(ctx, email); err == nil {
		return nil, ErrAccountExists
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("load account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:     fmt.Sprintf("user-%d", s.opts.Now().UnixMilli()),
		Name:   name,
		Email:  email,
		Avatar: fmt.Sprintf(avatarURL, s.opts.AvatarSeed()),
	}
	if err := s.store.CreateAccount(ctx, models.Account{User: user, PasswordHash: hash}); err != nil {
		if errors.Is(err, models.ErrAlreadyExists) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	return s.startSession(ctx, user)
}

// Logout ends the session. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) (err error) {
	defer s.observe("logout", &err)

	if err := s.store.DeleteSession(ctx, token); err != nil && !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Current returns the session for token.
func (s *Service) Current(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}
	sess, err := s.store.LoadSession(ctx, token)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

// SaveResult replaces the session's last prediction result.
func (s *Service) SaveResult(ctx context.Context, token string, r *models.PredictionResult) error {
	return s.store.SaveResult(ctx, token, r, s.opts.SessionTTL)
}

// LastResult returns the session's last prediction result.
func (s *Service) LastResult(ctx context.Context, token string) (*models.PredictionResult, error) {
	return s.store.LastResult(ctx, token)
}

func (s *Service) startSession(ctx context.Context, user models.User) (*models.Session, error) {
	now := s.opts.Now()
	sess := models.Session{
		Token:     uuid.NewString(),
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(s.opts.SessionTTL),
	}
	if err := s.store.SaveSession(ctx, sess, s.opts.SessionTTL); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("Session started")
	return &sess, nil
}

func (s *Service) wait(ctx context.Context) error {
	if s.opts.SimulatedDelay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.opts.SimulatedDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Service) observe(action string, err *error) {
	if *err != nil {
		s.logger.Warn().Err(*err).Str("action", action).Msg("Auth action failed")
	}
	if s.opts.Metrics != nil {
		s.opts.Metrics.ObserveAuth(action, *err)
	}
}

func localPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}
