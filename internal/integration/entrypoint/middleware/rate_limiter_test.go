package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func testContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	c.Request.RemoteAddr = "192.0.2.1:55000"
	return c, recorder
}

func TestRateLimiter_Memory(t *testing.T) {
	t.Run("allows up to the limit then rejects", func(t *testing.T) {
		rl := NewRateLimiter(nil, 5, time.Minute)

		for i := 0; i < 5; i++ {
			allowed, err := rl.allow(nil, "192.0.2.1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !allowed {
				t.Fatalf("attempt %d should be allowed", i+1)
			}
		}
		allowed, err := rl.allow(nil, "192.0.2.1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if allowed {
			t.Error("sixth attempt should be rejected")
		}
	})

	t.Run("counters are per client", func(t *testing.T) {
		rl := NewRateLimiter(nil, 1, time.Minute)

		if allowed, _ := rl.allow(nil, "192.0.2.1"); !allowed {
			t.Error("first client first attempt should be allowed")
		}
		if allowed, _ := rl.allow(nil, "192.0.2.1"); allowed {
			t.Error("first client second attempt should be rejected")
		}
		if allowed, _ := rl.allow(nil, "192.0.2.2"); !allowed {
			t.Error("second client should be unaffected")
		}
	})

	t.Run("window expiry resets the count", func(t *testing.T) {
		rl := NewRateLimiter(nil, 1, 10*time.Millisecond)

		if allowed, _ := rl.allow(nil, "192.0.2.1"); !allowed {
			t.Error("first attempt should be allowed")
		}
		if allowed, _ := rl.allow(nil, "192.0.2.1"); allowed {
			t.Error("second attempt should be rejected")
		}

		time.Sleep(20 * time.Millisecond)
		if allowed, _ := rl.allow(nil, "192.0.2.1"); !allowed {
			t.Error("expected fresh window after expiry")
		}
	})

	t.Run("cleanup drops expired records", func(t *testing.T) {
		rl := NewRateLimiter(nil, 5, 10*time.Millisecond)
		rl.allowMemory("192.0.2.1")

		time.Sleep(20 * time.Millisecond)
		rl.Cleanup()

		rl.mu.Lock()
		defer rl.mu.Unlock()
		if len(rl.attempts) != 0 {
			t.Errorf("expected empty attempt map, got %d entries", len(rl.attempts))
		}
	})

	t.Run("zero config falls back to defaults", func(t *testing.T) {
		rl := NewRateLimiter(nil, 0, 0)
		if rl.maxAttempts != DefaultMaxLoginAttempts {
			t.Errorf("expected default attempts, got %d", rl.maxAttempts)
		}
		if rl.window != DefaultLoginWindow {
			t.Errorf("expected default window, got %s", rl.window)
		}
	})
}

func TestRateLimiter_Redis(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	t.Run("counts in redis and rejects over the limit", func(t *testing.T) {
		rl := NewRateLimiter(client, 5, time.Minute)

		c, _ := testContext(t)
		for i := 0; i < 5; i++ {
			allowed, err := rl.allow(c, "192.0.2.1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !allowed {
				t.Fatalf("attempt %d should be allowed", i+1)
			}
		}
		allowed, err := rl.allow(c, "192.0.2.1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if allowed {
			t.Error("sixth attempt should be rejected")
		}

		if ttl := server.TTL("rate_limit:login:192.0.2.1"); ttl != time.Minute {
			t.Errorf("expected minute TTL on the counter, got %s", ttl)
		}
	})

	t.Run("reset clears all counters", func(t *testing.T) {
		rl := NewRateLimiter(client, 1, time.Minute)

		c, _ := testContext(t)
		rl.allow(c, "192.0.2.1")
		if allowed, _ := rl.allow(c, "192.0.2.1"); allowed {
			t.Fatal("expected client exhausted")
		}

		if err := rl.Reset(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if allowed, _ := rl.allow(c, "192.0.2.1"); !allowed {
			t.Error("expected fresh counter after reset")
		}
	})

	t.Run("window expiry in redis resets the count", func(t *testing.T) {
		rl := NewRateLimiter(client, 1, time.Minute)

		c, _ := testContext(t)
		rl.allow(c, "192.0.2.9")
		if allowed, _ := rl.allow(c, "192.0.2.9"); allowed {
			t.Fatal("expected client exhausted")
		}

		server.FastForward(2 * time.Minute)
		if allowed, _ := rl.allow(c, "192.0.2.9"); !allowed {
			t.Error("expected fresh counter after the window")
		}
	})
}

func TestRateLimiter_Middleware(t *testing.T) {
	t.Run("over-limit requests get 429", func(t *testing.T) {
		rl := NewRateLimiter(nil, 1, time.Minute)
		handler := rl.Middleware()

		first, firstRecorder := testContext(t)
		handler(first)
		if firstRecorder.Code != http.StatusOK {
			t.Errorf("expected first request through, got %d", firstRecorder.Code)
		}

		second, secondRecorder := testContext(t)
		handler(second)
		if secondRecorder.Code != http.StatusTooManyRequests {
			t.Errorf("expected 429, got %d", secondRecorder.Code)
		}
		if !second.IsAborted() {
			t.Error("expected chain aborted")
		}
	})

	t.Run("redis failure fails open", func(t *testing.T) {
		server := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: server.Addr()})
		defer client.Close()
		server.Close()

		rl := NewRateLimiter(client, 1, time.Minute)
		handler := rl.Middleware()

		for i := 0; i < 3; i++ {
			c, recorder := testContext(t)
			handler(c)
			if recorder.Code == http.StatusTooManyRequests {
				t.Fatal("expected requests through when counting fails")
			}
		}
	})
}
