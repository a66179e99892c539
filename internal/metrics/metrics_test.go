package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/Alias1177/CryptoPredict/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.ObservePrediction("BTC", models.ErrorKindNone, time.Second)
	r.ObservePrediction("BTC", models.ErrorKindNone, time.Second)
	r.ObservePrediction("BTC", models.ErrorKindUnauthorized, time.Millisecond)
	r.ObserveAuth("login", nil)
	r.ObserveAuth("login", errors.New("bad password"))
	r.ObserveHTTP("POST", "/api/v1/predictions", 200)

	if got := testutil.ToFloat64(r.predictions.WithLabelValues("BTC", "ok")); got != 2 {
		t.Errorf("ok predictions = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.predictions.WithLabelValues("BTC", "unauthorized")); got != 1 {
		t.Errorf("unauthorized predictions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.authEvents.WithLabelValues("login", "error")); got != 1 {
		t.Errorf("failed logins = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.httpRequests.WithLabelValues("POST", "/api/v1/predictions", "200")); got != 1 {
		t.Errorf("http requests = %v, want 1", got)
	}
}

func TestNewOnSeparateRegistries(t *testing.T) {
	New(prometheus.NewRegistry())
	New(prometheus.NewRegistry())
}
