package middleware

import (
	"strings"

	"wanderlust/internal/database/redis/repository"
	"wanderlust/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewTraceEntry,
	NewCors,
	NewLogger,
	NewRecovery,
	NewResponse,
	NewSession,
	NewLoginThrottle,
	NewDecompress,
	wire.Bind(new(SessionValidator), new(*service.SessionService)),
	wire.Bind(new(LoginLimiter), new(*repository.LoginThrottleRepository)),
)

const (
	contextRequestIDKey = "requestID"
	headerRequestID     = "X-Request-ID"
)

// 運維路徑：不追蹤、不記錄、不包裝回應
func isOperationalPath(endpoint string) bool {
	return strings.HasPrefix(endpoint, "/swagger") ||
		strings.HasPrefix(endpoint, "/metrics") ||
		strings.HasPrefix(endpoint, "/version") ||
		strings.HasPrefix(endpoint, "/health") ||
		strings.HasPrefix(endpoint, "/debug/pprof")
}

// requestID 由 TraceEntry 設定；未經過時（例如測試）即時產生
func requestID(c *gin.Context) string {
	if v, ok := c.Get(contextRequestIDKey); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	id := newRequestID()
	c.Set(contextRequestIDKey, id)
	return id
}

func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
