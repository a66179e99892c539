package metrics

import (
	"strconv"
	"time"

	"github.com/Alias1177/CryptoPredict/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder collects prediction, auth and HTTP metrics with Prometheus.
type Recorder struct {
	predictions  *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	authEvents   *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		predictions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptopredict_predictions_total",
				Help: "Total number of predictions by symbol and outcome",
			},
			[]string{"symbol", "outcome"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cryptopredict_prediction_duration_seconds",
				Help:    "Duration of completions calls in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"symbol"},
		),
		authEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptopredict_auth_events_total",
				Help: "Login, register and logout attempts",
			},
			[]string{"action", "result"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptopredict_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
	}
}

// ObservePrediction records one prediction. An empty outcome is counted as "ok".
func (r *Recorder) ObservePrediction(symbol string, outcome models.ErrorKind, elapsed time.Duration) {
	label := string(outcome)
	if outcome == models.ErrorKindNone {
		label = "ok"
	}
	r.predictions.WithLabelValues(symbol, label).Inc()
	r.latency.WithLabelValues(symbol).Observe(elapsed.Seconds())
}

// ObserveAuth records an auth action.
func (r *Recorder) ObserveAuth(action string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.authEvents.WithLabelValues(action, result).Inc()
}

// ObserveHTTP records a served request. path should be the route template.
func (r *Recorder) ObserveHTTP(method, path string, status int) {
	r.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}
