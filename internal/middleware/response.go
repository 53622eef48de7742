package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"wanderlust/config"
	"wanderlust/internal/core"
	"wanderlust/internal/database/fluentd/model"
	"wanderlust/internal/database/fluentd/repository"
	cErr "wanderlust/internal/pkg/error"
	"wanderlust/internal/pkg/response"
	"wanderlust/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Response struct {
	logger            *zap.Logger
	trace             *telemetry.Trace
	metric            *telemetry.Metric
	config            *config.Configuration
	fluentdRepository *repository.LogRepository
}

func NewResponse(
	logger *zap.Logger,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	config *config.Configuration,
	fluentdRepository *repository.LogRepository,
) *Response {
	return &Response{
		logger:            logger,
		trace:             trace,
		metric:            metric,
		config:            config,
		fluentdRepository: fluentdRepository,
	}
}

// FormatHandler 把 handler 以 c.Set("data") 放入的結果包成成功信封
func (middleware *Response) FormatHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		endpoint := c.FullPath()
		if isOperationalPath(endpoint) {
			c.Next()
			return
		}

		requestTime := time.Now()
		if startTime, exists := c.Get("requestDuration"); exists {
			if t, ok := startTime.(time.Time); ok {
				requestTime = t
			}
		} else {
			c.Set("requestDuration", requestTime)
		}

		c.Next()

		// 有錯誤交由 Recovery 處理；已寫出（例如 health）就不再包裝
		if len(c.Errors) > 0 || c.Writer.Written() {
			return
		}

		statusCode := c.Writer.Status()
		if statusCode >= http.StatusBadRequest {
			response.AbortWithError(c, cErr.MapHttpStatusToError(statusCode, "request error"))
			return
		}

		ctx, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanResponseMiddleware))
		defer end(nil)

		data, _ := c.Get("data")
		if data == nil {
			data = map[string]any{}
		}
		msg, _ := c.Get("message")
		message := "Request Success"
		if s, ok := msg.(string); ok && s != "" {
			message = s
		}

		duration := time.Since(requestTime)
		reqID := requestID(c)
		traceID := span.SpanContext().TraceID()
		spanID := span.SpanContext().SpanID()

		middleware.trace.ApplyTraceAttributes(span, core.TraceResponseMeta{
			Path:       c.Request.URL.Path,
			Method:     c.Request.Method,
			Status:     statusCode,
			Message:    message,
			Code:       cErr.SUCCESS,
			DurationMs: float64(duration.Milliseconds()),
			Data:       safePreviewJSON(data, 2000),
		})

		middleware.logger.Info("[Response] "+message,
			zap.String("requestId", reqID),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Int("status", statusCode),
			zap.Duration("duration", duration),
			zap.String("spanId", fmt.Sprintf("%x", spanID[:])),
			zap.String("traceId", fmt.Sprintf("%x", traceID[:])),
		)

		// 回應內容可能含 session token，fluentd 只記錄狀態
		if err := middleware.fluentdRepository.LogResponse(ctx, model.ResponseLog{
			RequestID:   reqID,
			ProjectName: middleware.config.App.Name,
			Code:        cErr.SUCCESS,
			StatusCode:  statusCode,
			ResponseTS:  time.Now().UTC().Format("2006-01-02 15:04:05.999999 UTC"),
			Version:     middleware.config.App.Version,
		}); err != nil {
			middleware.logger.Warn("ship response log failed", zap.Error(err))
		}
		if middleware.metric != nil && middleware.metric.ResponseSuccessTotal != nil && middleware.metric.HttpRequestDuration != nil {
			middleware.metric.ResponseSuccessTotal.
				WithLabelValues(endpoint, strconv.Itoa(statusCode)).
				Inc()
		}

		res := response.Response{
			Success:     true,
			RequestID:   reqID,
			Code:        cErr.SUCCESS,
			Data:        data,
			Message:     "OK",
			Description: message,
		}
		jsonBytes, err := json.Marshal(res)
		if err != nil {
			response.AbortWithError(c, cErr.InternalServer("marshal response failed"))
			return
		}

		c.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		c.Writer.WriteHeader(statusCode) // handler 可能設了 201
		if _, werr := c.Writer.Write(jsonBytes); werr != nil {
			middleware.logger.Warn("write response failed", zap.Error(werr))
		}
	}
}

// safePreviewJSON 序列化為 JSON 字串並限制長度；token 欄位不進 span
func safePreviewJSON(data any, max int) string {
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Sprintf("[marshal error: %v]", err)
	}
	return redactJSON(b, max)
}
