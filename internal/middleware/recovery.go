package middleware

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"
	"unicode/utf8"

	"wanderlust/config"
	"wanderlust/internal/core"
	"wanderlust/internal/database/fluentd/model"
	"wanderlust/internal/database/fluentd/repository"
	cErr "wanderlust/internal/pkg/error"
	res "wanderlust/internal/pkg/response"
	"wanderlust/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Recovery struct {
	logger            *zap.Logger
	trace             *telemetry.Trace
	metric            *telemetry.Metric
	config            *config.Configuration
	fluentdRepository *repository.LogRepository
}

func NewRecovery(
	logger *zap.Logger,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	config *config.Configuration,
	fluentdRepository *repository.LogRepository,
) *Recovery {
	return &Recovery{
		logger:            logger,
		trace:             trace,
		metric:            metric,
		config:            config,
		fluentdRepository: fluentdRepository,
	}
}

// ErrorHandler 將 panic 與 c.Errors 統一輸出為錯誤信封
func (middleware *Recovery) ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestTime := time.Now()
		if startTime, exists := c.Get("requestDuration"); exists {
			if t, ok := startTime.(time.Time); ok {
				requestTime = t
			}
		}
		reqID := requestID(c)

		// panic recover 必須在 c.Next() 之前註冊
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			duration := time.Since(requestTime)
			ctx, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanRecoveryMiddleware))
			traceID := span.SpanContext().TraceID()
			spanID := span.SpanContext().SpanID()

			meta := core.TracePanicMeta{
				Path:       c.Request.URL.Path,
				Method:     c.Request.Method,
				ClientIP:   c.ClientIP(),
				UserAgent:  c.Request.UserAgent(),
				DurationMs: float64(duration.Milliseconds()),
				Message:    toSafeString(fmt.Sprint(rec)),
				Stack:      toSafeStack(debug.Stack()),
				Status:     http.StatusInternalServerError,
			}
			middleware.trace.ApplyTraceAttributes(span, meta)

			middleware.logger.Error("[PANIC] Recovered",
				zap.String("path", meta.Path),
				zap.String("method", meta.Method),
				zap.String("client_ip", meta.ClientIP),
				zap.String("user_agent", meta.UserAgent),
				zap.Duration("duration", duration),
				zap.String("panic", meta.Message),
				zap.String("stacktrace", meta.Stack),
				zap.String("requestId", reqID),
				zap.String("spanId", fmt.Sprintf("%x", spanID[:])),
				zap.String("traceId", fmt.Sprintf("%x", traceID[:])),
			)

			// 對外只回通用訊息，不帶 panic 內容
			err := cErr.InternalServer("unexpected error")
			end(err)
			if !c.Writer.Written() {
				res.FailByErr(c, reqID, err)
			}
			middleware.ship(ctx, reqID, err, "panic", duration, c.FullPath())
			c.Abort()
		}()

		c.Next()

		// 非 panic 的 gin errors（若尚未回寫）
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		duration := time.Since(requestTime)
		ctx, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanRecoveryMiddleware))
		defer end(nil)
		traceID := span.SpanContext().TraceID()
		spanID := span.SpanContext().SpanID()

		// 找第一個 *cErr.Error
		for _, e := range c.Errors {
			appErr, ok := e.Err.(*cErr.Error)
			if !ok {
				continue
			}
			middleware.trace.ApplyTraceAttributes(span, core.TraceErrorMeta{
				Code:       appErr.ErrorCode(),
				Message:    appErr.Error(),
				Detail:     appErr.ErrorDesc(),
				DurationMs: float64(duration.Milliseconds()),
				Status:     appErr.HttpCode(),
			})
			logFields := []zap.Field{
				zap.Int("code", appErr.ErrorCode()),
				zap.Int("status", appErr.HttpCode()),
				zap.String("data", appErr.ErrorDesc()),
				zap.Duration("duration", duration),
				zap.String("requestId", reqID),
				zap.String("spanId", fmt.Sprintf("%x", spanID[:])),
				zap.String("traceId", fmt.Sprintf("%x", traceID[:])),
			}
			if appErr.HttpCode() >= http.StatusInternalServerError {
				middleware.logger.Error(appErr.Error(), logFields...)
			} else {
				middleware.logger.Warn(appErr.Error(), logFields...)
			}
			res.FailByErr(c, reqID, appErr)
			middleware.ship(ctx, reqID, appErr, appErr.Error(), duration, c.FullPath())
			c.Abort()
			return
		}

		// 其餘未知錯誤：細節只進日誌
		unknown := c.Errors.String()
		middleware.trace.ApplyTraceAttributes(span, core.TraceErrorMeta{
			Code:       cErr.INTERNAL_ERROR,
			Message:    "unknown-error",
			Detail:     toSafeString(unknown),
			DurationMs: float64(duration.Milliseconds()),
			Status:     http.StatusInternalServerError,
		})
		middleware.logger.Error("[ERROR] unknown",
			zap.String("error", toSafeString(unknown)),
			zap.Duration("duration", duration),
			zap.String("requestId", reqID),
			zap.String("spanId", fmt.Sprintf("%x", spanID[:])),
			zap.String("traceId", fmt.Sprintf("%x", traceID[:])),
		)
		err := cErr.InternalServer("internal error")
		res.FailByErr(c, reqID, err)
		middleware.ship(ctx, reqID, err, "unknown", duration, c.FullPath())
		c.Abort()
	}
}

// ship 錯誤回應寫入 fluentd 與 metrics
func (middleware *Recovery) ship(ctx context.Context, reqID string, appErr *cErr.Error, reason string, duration time.Duration, endpoint string) {
	err := middleware.fluentdRepository.LogResponse(ctx, model.ResponseLog{
		RequestID:   reqID,
		ProjectName: middleware.config.App.Name,
		Code:        appErr.ErrorCode(),
		StatusCode:  appErr.HttpCode(),
		Error:       appErr.Error(),
		ResponseTS:  time.Now().UTC().Format("2006-01-02 15:04:05.999999 UTC"),
		Version:     middleware.config.App.Version,
	})
	if err != nil {
		middleware.logger.Warn("ship response log failed", zap.Error(err))
	}
	if middleware.metric != nil && middleware.metric.ResponseFailTotal != nil && middleware.metric.HttpRequestDuration != nil {
		middleware.metric.ResponseFailTotal.WithLabelValues(endpoint, reason).Inc()
		middleware.metric.HttpRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	}
}

func toSafeString(s string) string {
	const max = 8000
	if !utf8.ValidString(s) {
		return fmt.Sprintf("(non-utf8, %d bytes)", len(s))
	}
	if len(s) > max {
		return s[:max] + "…"
	}
	return s
}

func toSafeStack(b []byte) string {
	const max = 16000
	if len(b) > max {
		b = b[:max]
	}
	return toSafeString(string(b))
}
