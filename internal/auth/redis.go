package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Alias1177/CryptoPredict/models"
	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
	Prefix   string
}

// RedisStore is a SessionStore backed by Redis. Values are JSON documents.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects and pings Redis.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Prefix == "" {
		cfg.Prefix = "cryptopredict"
	}
	if cfg.PoolSize == 0 {
		cfg.PoolSize = 10
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{client: client, prefix: cfg.Prefix}, nil
}

// Close closes the Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) key(kind, id string) string {
	return r.prefix + ":" + kind + ":" + id
}

func (r *RedisStore) set(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if ttl < 0 {
		ttl = 0
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *RedisStore) get(ctx context.Context, key string, dest any) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.ErrNotFound
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

func (r *RedisStore) SaveSession(ctx context.Context, s models.Session, ttl time.Duration) error {
	return r.set(ctx, r.key("session", s.Token), s, ttl)
}

func (r *RedisStore) LoadSession(ctx context.Context, token string) (*models.Session, error) {
	var s models.Session
	if err := r.get(ctx, r.key("session", token), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *RedisStore) DeleteSession(ctx context.Context, token string) error {
	return r.client.Del(ctx, r.key("session", token), r.key("result", token)).Err()
}

func (r *RedisStore) CreateAccount(ctx context.Context, a models.Account) error {
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	ok, err := r.client.SetNX(ctx, r.key("account", strings.ToLower(a.User.Email)), data, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return models.ErrAlreadyExists
	}
	return nil
}

func (r *RedisStore) LoadAccount(ctx context.Context, email string) (*models.Account, error) {
	var a models.Account
	if err := r.get(ctx, r.key("account", strings.ToLower(email)), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *RedisStore) SaveResult(ctx context.Context, token string, res *models.PredictionResult, ttl time.Duration) error {
	return r.set(ctx, r.key("result", token), res, ttl)
}

func (r *RedisStore) LastResult(ctx context.Context, token string) (*models.PredictionResult, error) {
	var res models.PredictionResult
	if err := r.get(ctx, r.key("result", token), &res); err != nil {
		return nil, err
	}
	return &res, nil
}
