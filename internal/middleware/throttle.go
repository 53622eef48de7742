package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strconv"

	"wanderlust/config"
	"wanderlust/internal/core"
	"wanderlust/internal/database/mongodb/model"
	"wanderlust/internal/database/redis/repository"
	cErr "wanderlust/internal/pkg/error"
	"wanderlust/internal/pkg/response"
	"wanderlust/internal/telemetry"
	"wanderlust/utils/fingerprint"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoginLimiter 由 redis LoginThrottleRepository 實作
type LoginLimiter interface {
	Consume(ctx context.Context, subject string, windowSeconds int64, limitCount int) (int, int64, error)
	Reset(ctx context.Context, subject string) error
}

type LoginThrottle struct {
	logger  *zap.Logger
	trace   *telemetry.Trace
	metric  *telemetry.Metric
	limiter LoginLimiter
	auth    config.Auth
}

func NewLoginThrottle(
	logger *zap.Logger,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	conf *config.Configuration,
	limiter LoginLimiter,
) *LoginThrottle {
	return &LoginThrottle{
		logger:  logger,
		trace:   trace,
		metric:  metric,
		limiter: limiter,
		auth:    conf.Auth.WithDefaults(),
	}
}

// Guard 以 email 指紋 + client IP 做固定視窗計數；Redis 失敗時不阻擋登入
func (m *LoginThrottle) Guard() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanThrottleMiddleware))

		email := peekEmail(c)
		subject := fingerprint.Of(model.NormalizeEmail(email), m.auth.SessionSecret) + ":" + c.ClientIP()

		remaining, ttlSec, err := m.limiter.Consume(ctx, subject, m.auth.LoginWindowSeconds, m.auth.LoginAttempts)
		meta := core.TraceThrottleMeta{
			Subject:   subject,
			Limit:     m.auth.LoginAttempts,
			WindowSec: m.auth.LoginWindowSeconds,
			Remaining: remaining,
			TTL:       ttlSec,
			Op:        "guard",
		}
		m.trace.ApplyTraceAttributes(span, meta)

		switch {
		case errors.Is(err, repository.ErrRateLimitExceeded):
			c.Header("X-RateLimit-Limit", strconv.Itoa(m.auth.LoginAttempts))
			c.Header("X-RateLimit-Remaining", "0")
			if ttlSec > 0 {
				c.Header("X-RateLimit-Reset", strconv.FormatInt(ttlSec, 10))
				c.Header("Retry-After", strconv.FormatInt(ttlSec, 10))
			}
			if m.metric != nil && m.metric.LoginThrottledTotal != nil {
				m.metric.LoginThrottledTotal.WithLabelValues(c.FullPath()).Inc()
			}
			m.metric.AuthEvent("signin", "throttled", "rate_limited")
			rateErr := cErr.RateLimitExceeded("too many sign-in attempts, try again later")
			end(rateErr)
			response.AbortWithError(c, rateErr)
			return
		case err != nil:
			// 讀取錯誤不阻斷主流程
			m.logger.Warn("login throttle unavailable", zap.Error(err))
			end(nil)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(m.auth.LoginAttempts))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if ttlSec > 0 {
			c.Header("X-RateLimit-Reset", strconv.FormatInt(ttlSec, 10))
		}
		end(nil)

		c.Next()

		// 登入成功才清除計數
		if len(c.Errors) == 0 && c.Writer.Status() < 400 {
			if err := m.limiter.Reset(ctx, subject); err != nil {
				m.logger.Warn("reset login throttle failed", zap.Error(err))
			}
		}
	}
}

// peekEmail 讀出 body 的 email 後回填，讓 handler 仍能綁定
func peekEmail(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}
	body := c.Request.Body
	data, err := io.ReadAll(io.LimitReader(body, 64<<10))
	// 超過上限的部分接回去，handler 讀到的是完整 body
	c.Request.Body = readCloser{Reader: io.MultiReader(bytes.NewReader(data), body), Closer: body}
	if err != nil {
		return ""
	}
	var payload struct {
		Email string `json:"email"`
	}
	_ = json.Unmarshal(data, &payload)
	return payload.Email
}

type readCloser struct {
	io.Reader
	io.Closer
}
