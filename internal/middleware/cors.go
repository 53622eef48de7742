package middleware

import (
	"wanderlust/config"
	"wanderlust/internal/core"
	"wanderlust/internal/telemetry"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Cors struct {
	trace *telemetry.Trace
	conf  *config.Configuration
}

func NewCors(trace *telemetry.Trace, conf *config.Configuration) *Cors {
	return &Cors{trace: trace, conf: conf}
}

// corsConfig 有指定來源才允許 credentials（session cookie）
func (m *Cors) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", "Content-Encoding", "Authorization", headerRequestID},
		ExposeHeaders: []string{headerRequestID, "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
	}
	if len(m.conf.App.CorsAllowOrigins) > 0 {
		cfg.AllowOrigins = m.conf.App.CorsAllowOrigins
		cfg.AllowCredentials = true
	} else {
		cfg.AllowAllOrigins = true
	}
	return cfg
}

// CorsHandler 套用 CORS，並把設定寫入 span（運維路徑只套用不追蹤）
func (m *Cors) CorsHandler() gin.HandlerFunc {
	cfg := m.corsConfig()
	corsHandler := cors.New(cfg)

	type corsMeta struct {
		AllowOrigins []string `trace:"http.cors.allow_origins"`
		AllowAll     bool     `trace:"http.cors.allow_all_origins"`
		AllowMethods []string `trace:"http.cors.allow_methods"`
		AllowHeaders []string `trace:"http.cors.allow_headers"`
		AllowCreds   bool     `trace:"http.cors.allow_credentials"`
	}

	return func(c *gin.Context) {
		if isOperationalPath(c.FullPath()) {
			corsHandler(c)
			return
		}

		_, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanCorsMiddleware))
		m.trace.ApplyTraceAttributes(span, corsMeta{
			AllowOrigins: cfg.AllowOrigins,
			AllowAll:     cfg.AllowAllOrigins,
			AllowMethods: cfg.AllowMethods,
			AllowHeaders: cfg.AllowHeaders,
			AllowCreds:   cfg.AllowCredentials,
		})
		end(nil)

		// 內部會呼叫 c.Next()
		corsHandler(c)
	}
}
