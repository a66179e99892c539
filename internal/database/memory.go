package database

import (
	"context"
	"sync"

	"github.com/Alias1177/CryptoPredict/models"
)

// MemoryHistory keeps predictions in process memory, newest last.
type MemoryHistory struct {
	mu      sync.RWMutex
	results []models.PredictionResult
	max     int
}

// NewMemoryHistory keeps at most max results; zero means unbounded.
func NewMemoryHistory(max int) *MemoryHistory {
	return &MemoryHistory{max: max}
}

func (m *MemoryHistory) SavePrediction(ctx context.Context, r *models.PredictionResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.results = append(m.results, *r)
	if m.max > 0 && len(m.results) > m.max {
		m.results = m.results[len(m.results)-m.max:]
	}
	return nil
}

func (m *MemoryHistory) ListPredictions(ctx context.Context, userID string, limit int) ([]models.PredictionResult, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.PredictionResult{}
	for i := len(m.results) - 1; i >= 0 && len(out) < limit; i-- {
		if userID == "" || m.results[i].UserID == userID {
			out = append(out, m.results[i])
		}
	}
	return out, nil
}
