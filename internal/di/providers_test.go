package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Alias1177/CryptoPredict/internal/config"
	"github.com/Alias1177/CryptoPredict/internal/database"
	"github.com/Alias1177/CryptoPredict/internal/events"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Auth.SimulatedDelay = 0
	return cfg
}

func TestInitializeCoreInMemory(t *testing.T) {
	cfg := testConfig(t)

	core, err := InitializeCore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("InitializeCore() error = %v", err)
	}
	defer core.Close()

	if _, ok := core.History.(*database.MemoryHistory); !ok {
		t.Errorf("History = %T, want memory history", core.History)
	}

	srv := ProvideHTTPServer(cfg, core)
	for _, path := range []string{"/healthz", "/metrics"} {
		rec := httptest.NewRecorder()
		srv.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d", path, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("runtime collectors not registered")
	}
}

func TestProvidePublisherDisabled(t *testing.T) {
	pub, closeFn, err := ProvidePublisher(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	defer closeFn()
	if _, ok := pub.(events.Noop); !ok {
		t.Errorf("publisher = %T, want Noop", pub)
	}
}

func TestInitializeCoreRedisUnavailable(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.Backend = "redis"
	cfg.Redis.Addr = "127.0.0.1:1"

	if _, err := InitializeCore(context.Background(), cfg); err == nil {
		t.Error("InitializeCore() should fail when Redis is unreachable")
	}
}
