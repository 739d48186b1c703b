package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newLimitedHandler(t *testing.T, limit int, window time.Duration) (http.Handler, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	config := RateLimitConfig{
		RequestsPerWindow: limit,
		Window:            window,
		KeyPrefix:         "ratelimit",
	}
	return RateLimitMiddleware(redisClient, config, zap.NewNop())(okHandler()), mr
}

func TestProperty_RateLimitingBlocksExcessiveRequests(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("requests beyond the window limit get 429", prop.ForAll(
		func(limit int, excess int) bool {
			handler, _ := newLimitedHandler(t, limit, time.Minute)

			allowed, blocked := 0, 0
			for i := 0; i < limit+excess; i++ {
				req := httptest.NewRequest("GET", "/api/catalog", nil)
				req.RemoteAddr = "192.168.1.100:52000"
				w := httptest.NewRecorder()
				handler.ServeHTTP(w, req)

				switch w.Code {
				case http.StatusOK:
					allowed++
				case http.StatusTooManyRequests:
					blocked++
					if w.Header().Get("Retry-After") == "" {
						return false
					}
				}
			}
			return allowed == limit && blocked == excess
		},
		gen.IntRange(5, 20),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRateLimit_PortDoesNotSplitClients(t *testing.T) {
	handler, _ := newLimitedHandler(t, 2, time.Minute)

	codes := make([]int, 0, 3)
	for _, port := range []string{"40001", "40002", "40003"} {
		req := httptest.NewRequest("GET", "/api/catalog", nil)
		req.RemoteAddr = "10.0.0.7:" + port
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("expected 200,200,429 got %v", codes)
	}
}

func TestRateLimit_AuthenticatedSubjectIsTheKey(t *testing.T) {
	handler, mr := newLimitedHandler(t, 5, time.Minute)

	req := httptest.NewRequest("GET", "/api/admin/orders", nil)
	req.RemoteAddr = "10.0.0.8:1234"
	req = req.WithContext(context.WithValue(req.Context(), SubjectKey, "admin@shop.test"))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !mr.Exists("ratelimit:admin@shop.test") {
		t.Errorf("expected counter keyed by subject, keys: %v", mr.Keys())
	}
	if mr.Exists("ratelimit:10.0.0.8") {
		t.Errorf("did not expect counter keyed by IP")
	}
}

func TestRateLimit_WindowExpiryResetsCounter(t *testing.T) {
	handler, mr := newLimitedHandler(t, 1, time.Second)

	send := func() int {
		req := httptest.NewRequest("GET", "/api/catalog", nil)
		req.RemoteAddr = "10.0.0.9:1"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	if code := send(); code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", code)
	}
	if code := send(); code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", code)
	}

	mr.FastForward(2 * time.Second)

	if code := send(); code != http.StatusOK {
		t.Errorf("after window: expected 200, got %d", code)
	}
}

func TestRateLimit_FailsOpenWhenRedisIsDown(t *testing.T) {
	handler, mr := newLimitedHandler(t, 1, time.Minute)
	mr.SetError("ERR server unavailable")

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/api/catalog", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 with redis down, got %d", i, w.Code)
		}
	}
}

func TestRateLimit_HeadersAreSet(t *testing.T) {
	handler, _ := newLimitedHandler(t, 10, time.Minute)

	req := httptest.NewRequest("GET", "/api/catalog", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Header().Get("X-RateLimit-Limit") != "10" {
		t.Errorf("unexpected limit header %q", w.Header().Get("X-RateLimit-Limit"))
	}
	if w.Header().Get("X-RateLimit-Remaining") != "9" {
		t.Errorf("unexpected remaining header %q", w.Header().Get("X-RateLimit-Remaining"))
	}
}
