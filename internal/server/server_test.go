package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

type routes map[string]echo.HandlerFunc

func (r routes) RegisterRoutes(e *echo.Echo) {
	for path, h := range r {
		e.GET(path, h)
	}
}

type observed struct {
	method, path string
	status       int
}

type recorder struct{ calls []observed }

func (r *recorder) ObserveHTTP(method, path string, status int) {
	r.calls = append(r.calls, observed{method, path, status})
}

func serve(e *echo.Echo, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRecoverWritesEnvelope(t *testing.T) {
	s := NewServer([]Handler{routes{
		"/boom": func(c echo.Context) error { panic("boom") },
	}})

	rec := serve(s.Echo(), http.MethodGet, "/boom")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Status != 500 {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestPanicCountedByMetrics(t *testing.T) {
	obs := &recorder{}
	s := NewServer([]Handler{routes{
		"/boom": func(c echo.Context) error { panic("boom") },
	}}, WithMetrics(obs, "", nil))

	rec := serve(s.Echo(), http.MethodGet, "/boom")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if len(obs.calls) != 1 || obs.calls[0] != (observed{http.MethodGet, "/boom", http.StatusInternalServerError}) {
		t.Errorf("observed = %+v", obs.calls)
	}
}

func TestStartFailsOnBusyPort(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer busy.Close()
	port := busy.Addr().(*net.TCPAddr).Port

	s := NewServer(nil, WithHost("127.0.0.1"), WithPort(port))
	if err := s.Start(); err == nil {
		s.Stop(context.Background())
		t.Fatal("Start() on a bound port returned nil error")
	}
}

func TestStartServesAndStops(t *testing.T) {
	s := NewServer([]Handler{routes{
		"/ping": func(c echo.Context) error { return SuccessResponse(c, "pong") },
	}}, WithHost("127.0.0.1"), WithPort(0))
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	resp, err := http.Get(fmt.Sprintf("http://%s/ping", s.Addr()))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	if err := s.Stop(context.Background()); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	obs := &recorder{}
	s := NewServer(nil, WithMetrics(obs, "", nil))

	rec := serve(s.Echo(), http.MethodGet, "/nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Message != "Not Found" {
		t.Errorf("body = %s", rec.Body.String())
	}
	if len(obs.calls) != 1 || obs.calls[0].status != http.StatusNotFound {
		t.Errorf("observed = %+v", obs.calls)
	}
}

func TestMetricsObservesRouteTemplate(t *testing.T) {
	obs := &recorder{}
	s := NewServer([]Handler{routes{
		"/items/:id": func(c echo.Context) error { return SuccessResponse(c, c.Param("id")) },
	}}, WithMetrics(obs, "", nil))

	serve(s.Echo(), http.MethodGet, "/items/42")
	if len(obs.calls) != 1 || obs.calls[0] != (observed{http.MethodGet, "/items/:id", http.StatusOK}) {
		t.Errorf("observed = %+v", obs.calls)
	}
}

func TestCORSPreflight(t *testing.T) {
	s := NewServer([]Handler{routes{"/x": func(c echo.Context) error { return c.NoContent(http.StatusOK) }}})

	rec := serve(s.Echo(), http.MethodOptions, "/x")
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "http://localhost:3000" {
		t.Errorf("allow origin = %q", got)
	}
	if !strings.Contains(rec.Header().Get(echo.HeaderAccessControlAllowHeaders), echo.HeaderAuthorization) {
		t.Errorf("allow headers = %q", rec.Header().Get(echo.HeaderAccessControlAllowHeaders))
	}

	s = NewServer([]Handler{routes{"/x": func(c echo.Context) error { return c.NoContent(http.StatusOK) }}}, WithCORS(false))
	rec = serve(s.Echo(), http.MethodGet, "/x")
	if rec.Header().Get(echo.HeaderAccessControlAllowOrigin) != "" {
		t.Error("CORS headers set while disabled")
	}
}

func TestAppErrorResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	if err := AppErrorResponse(c, ConflictError("taken")); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d", rec.Code)
	}
	var resp struct {
		Status int        `json:"status"`
		Data   []AppError `json:"data"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Status != http.StatusConflict || len(resp.Data) != 1 || resp.Data[0].Code != "ERR_CONFLICT" {
		t.Errorf("body = %s", rec.Body.String())
	}
}
