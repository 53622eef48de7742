package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"wanderlust/internal/database/redis/repository"
	cErr "wanderlust/internal/pkg/error"
	"wanderlust/internal/pkg/response"
	"wanderlust/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// memoryLimiter 以記憶體模擬固定視窗計數
type memoryLimiter struct {
	mu       sync.Mutex
	counts   map[string]int
	resets   []string
	err      error
	ttl      int64
	subjects []string
}

func newMemoryLimiter() *memoryLimiter {
	return &memoryLimiter{counts: map[string]int{}, ttl: 900}
}

func (l *memoryLimiter) Consume(ctx context.Context, subject string, windowSeconds int64, limitCount int) (int, int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subjects = append(l.subjects, subject)
	if l.err != nil {
		return 0, 0, l.err
	}
	l.counts[subject]++
	if l.counts[subject] > limitCount {
		return 0, l.ttl, repository.ErrRateLimitExceeded
	}
	return limitCount - l.counts[subject], l.ttl, nil
}

func (l *memoryLimiter) Reset(ctx context.Context, subject string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.counts, subject)
	l.resets = append(l.resets, subject)
	return nil
}

func newThrottleEngine(limiter *memoryLimiter, attempts int, handler gin.HandlerFunc) *gin.Engine {
	conf := testConfig()
	conf.Auth.LoginAttempts = attempts
	throttle := NewLoginThrottle(zap.NewNop(), &telemetry.Trace{}, &telemetry.Metric{}, conf, limiter)
	engine := newEnvelopeEngine(conf)
	engine.POST("/auth/signin", throttle.Guard(), handler)
	return engine
}

func signin(engine *gin.Engine, email string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(`{"email":"`+email+`","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestLoginThrottle_BlocksAfterLimit(t *testing.T) {
	limiter := newMemoryLimiter()
	engine := newThrottleEngine(limiter, 2, func(c *gin.Context) {
		response.AbortWithError(c, cErr.AuthFailed())
	})

	for i := 0; i < 2; i++ {
		if rec := signin(engine, "asha@example.com"); rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, rec.Code)
		}
	}
	rec := signin(engine, "ASHA@example.com ")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "900" {
		t.Errorf("expected Retry-After 900, got %q", rec.Header().Get("Retry-After"))
	}
	if body := decodeEnvelope(t, rec); body.Code != cErr.RATE_LIMIT_EXCEEDED {
		t.Errorf("unexpected code %d", body.Code)
	}

	// 其他帳號不受影響
	if rec := signin(engine, "other@example.com"); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected other subject to pass through, got %d", rec.Code)
	}
	if len(limiter.resets) != 0 {
		t.Errorf("failed sign-ins must not reset the counter")
	}
}

func TestLoginThrottle_SubjectHidesEmail(t *testing.T) {
	limiter := newMemoryLimiter()
	engine := newThrottleEngine(limiter, 5, func(c *gin.Context) {
		response.Success(c, gin.H{})
	})
	signin(engine, "asha@example.com")

	if len(limiter.subjects) != 1 {
		t.Fatalf("expected one consume, got %d", len(limiter.subjects))
	}
	if strings.Contains(limiter.subjects[0], "asha") {
		t.Errorf("subject must not contain the raw email: %q", limiter.subjects[0])
	}
}

func TestLoginThrottle_ResetOnSuccess(t *testing.T) {
	limiter := newMemoryLimiter()
	var bodySeen string
	engine := newThrottleEngine(limiter, 5, func(c *gin.Context) {
		var payload struct {
			Email string `json:"email"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			response.AbortWithError(c, cErr.BadRequestBody(err.Error()))
			return
		}
		bodySeen = payload.Email
		response.Success(c, gin.H{})
	})

	rec := signin(engine, "asha@example.com")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if bodySeen != "asha@example.com" {
		t.Errorf("handler should still read the body, got %q", bodySeen)
	}
	if len(limiter.resets) != 1 {
		t.Errorf("expected counter reset after success, got %d", len(limiter.resets))
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "4" {
		t.Errorf("unexpected remaining header %q", rec.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestLoginThrottle_FailsOpen(t *testing.T) {
	limiter := newMemoryLimiter()
	limiter.err = errors.New("redis: connection refused")
	engine := newThrottleEngine(limiter, 1, func(c *gin.Context) {
		response.Success(c, gin.H{})
	})

	for i := 0; i < 3; i++ {
		if rec := signin(engine, "asha@example.com"); rec.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200 while redis is down, got %d", i+1, rec.Code)
		}
	}
}

// body 超過讀取上限時，handler 仍拿到完整內容
func TestLoginThrottle_LargeBodyPassesThroughIntact(t *testing.T) {
	limiter := newMemoryLimiter()
	var received []byte
	engine := newThrottleEngine(limiter, 5, func(c *gin.Context) {
		received, _ = io.ReadAll(c.Request.Body)
		response.AbortWithError(c, cErr.AuthFailed())
	})

	payload := `{"email":"asha@example.com","password":"x","note":"` + strings.Repeat("a", 80<<10) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if string(received) != payload {
		t.Fatalf("handler received %d bytes, want %d", len(received), len(payload))
	}
}
