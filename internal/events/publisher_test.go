package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Alias1177/CryptoPredict/models"
)

func TestNewPredictionEvent(t *testing.T) {
	created := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	r := &models.PredictionResult{
		ID:             "abc",
		UserID:         "user-1",
		Crypto:         models.CryptoInfo{Symbol: models.SymbolSOL},
		PredictedPrice: "150",
		Forecast:       models.ParseForecast("150"),
		Confidence:     80,
		Timeframe:      models.Timeframe3M,
		CreatedAt:      created,
	}

	b, err := json.Marshal(NewPredictionEvent(r))
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"type":            "prediction.completed",
		"id":              "abc",
		"user_id":         "user-1",
		"symbol":          "SOL",
		"timeframe":       "3M",
		"confidence":      float64(80),
		"predicted_price": "150",
		"forecast_kind":   "numeric",
		"created_at":      "2026-10-18T09:30:00Z",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}
	if _, ok := got["outcome"]; ok {
		t.Errorf("outcome should be omitted on success")
	}
}

func TestNewKafkaPublisherRequiresConfig(t *testing.T) {
	if _, err := NewKafkaPublisher(ProducerConfig{Topic: "predictions"}); err == nil {
		t.Error("expected error without brokers")
	}
	if _, err := NewKafkaPublisher(ProducerConfig{Brokers: []string{"localhost:9092"}}); err == nil {
		t.Error("expected error without topic")
	}
	p, err := NewKafkaPublisher(ProducerConfig{Brokers: []string{"localhost:9092"}, Topic: "predictions"})
	if err != nil {
		t.Fatal(err)
	}
	p.Close()
}

func TestPublishBoundedByPublishTimeout(t *testing.T) {
	p, err := NewKafkaPublisher(ProducerConfig{
		Brokers:        []string{"127.0.0.1:1"},
		Topic:          "predictions",
		MaxAttempts:    10,
		PublishTimeout: 200 * time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	start := time.Now()
	err = p.PublishPrediction(context.Background(), &models.PredictionResult{
		ID:     "abc",
		Crypto: models.CryptoInfo{Symbol: models.SymbolBTC},
	})
	if err == nil {
		t.Fatal("PublishPrediction() to an unreachable broker returned nil error")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("PublishPrediction() took %v, want it bounded by PublishTimeout", elapsed)
	}
}

func TestNoop(t *testing.T) {
	if err := (Noop{}).PublishPrediction(context.Background(), &models.PredictionResult{}); err != nil {
		t.Error(err)
	}
}
