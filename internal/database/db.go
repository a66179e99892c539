package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Alias1177/CryptoPredict/models"
	_ "github.com/lib/pq"
)

// DefaultListLimit caps ListPredictions when no positive limit is given.
const DefaultListLimit = 20

// DB represents a database connection
type DB struct {
	*sql.DB
}

// ConnectionParams holds PostgreSQL connection parameters
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// New creates a new database connection
func New(ctx context.Context, params ConnectionParams) (*DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		params.Host, params.Port, params.User, params.Password, params.DBName, params.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := createTables(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &DB{db}, nil
}

// createTables creates the necessary tables if they don't exist
func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS predictions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL DEFAULT '',
			symbol TEXT NOT NULL,
			name TEXT NOT NULL,
			icon TEXT NOT NULL,
			current_price NUMERIC NOT NULL,
			predicted_price TEXT NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			timeframe TEXT NOT NULL,
			prediction_date TEXT NOT NULL,
			outcome TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS predictions_user_created_idx
		ON predictions (user_id, created_at DESC)
	`)
	return err
}

// SavePrediction stores a completed prediction
func (db *DB) SavePrediction(ctx context.Context, r *models.PredictionResult) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO predictions (
			id, user_id, symbol, name, icon, current_price, predicted_price,
			confidence, timeframe, prediction_date, outcome, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO NOTHING
	`,
		r.ID, r.UserID, r.Crypto.Symbol, r.Crypto.Name, r.Crypto.Icon, r.CurrentPrice, r.PredictedPrice,
		r.Confidence, r.Timeframe, r.PredictionDate, r.Outcome, r.CreatedAt)

	return err
}

// ListPredictions returns the newest predictions first. An empty userID lists every user.
func (db *DB) ListPredictions(ctx context.Context, userID string, limit int) ([]models.PredictionResult, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := db.QueryContext(ctx, `
		SELECT
			id, user_id, symbol, name, icon, current_price, predicted_price,
			confidence, timeframe, prediction_date, outcome, created_at
		FROM predictions
		WHERE $1 = '' OR user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []models.PredictionResult{}
	for rows.Next() {
		var r models.PredictionResult
		if err := rows.Scan(
			&r.ID, &r.UserID, &r.Crypto.Symbol, &r.Crypto.Name, &r.Crypto.Icon, &r.CurrentPrice, &r.PredictedPrice,
			&r.Confidence, &r.Timeframe, &r.PredictionDate, &r.Outcome, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		r.Forecast = models.ParseForecast(r.PredictedPrice)
		r.SupportFactors = []string{}
		results = append(results, r)
	}

	return results, rows.Err()
}
