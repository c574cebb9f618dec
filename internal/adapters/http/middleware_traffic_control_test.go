package httpadapter

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

func TestTrafficControlRateLimitAnswers429(t *testing.T) {
	handler := trafficControlMiddleware(TrafficControlConfig{
		RequestsPerSecond: 1,
		Burst:             1,
	}, okHandler())

	res1 := httptest.NewRecorder()
	handler.ServeHTTP(res1, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if res1.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", res1.Code)
	}

	res2 := httptest.NewRecorder()
	handler.ServeHTTP(res2, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if res2.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", res2.Code)
	}
	if res2.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header for 429 response")
	}
}

func TestTrafficControlConcurrencyLimitAnswers503(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	slow := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		started <- struct{}{}
		<-release
		w.WriteHeader(http.StatusOK)
	})
	handler := trafficControlMiddleware(TrafficControlConfig{MaxConcurrent: 1}, slow)

	go func() {
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	}()
	<-started

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	close(release)

	if res.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", res.Code)
	}
}

func TestTrafficControlDisabledPassesThrough(t *testing.T) {
	handler := trafficControlMiddleware(TrafficControlConfig{}, okHandler())

	for i := 0; i < 50; i++ {
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		if res.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, res.Code)
		}
	}
}
