package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"
	"unicode/utf8"

	"wanderlust/config"
	"wanderlust/internal/core"
	"wanderlust/internal/database/fluentd/model"
	"wanderlust/internal/database/fluentd/repository"
	"wanderlust/internal/telemetry"
	"wanderlust/utils/fingerprint"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const redacted = "[REDACTED]"

// 請求 body 中不可寫入日誌的欄位（比對時不分大小寫）
var sensitiveBodyKeys = map[string]struct{}{
	"password":    {},
	"idtoken":     {},
	"token":       {},
	"accesstoken": {},
}

var sensitiveHeaders = map[string]struct{}{
	"authorization": {},
	"cookie":        {},
}

type Logger struct {
	logger            *zap.Logger
	trace             *telemetry.Trace
	config            *config.Configuration
	fluentdRepository *repository.LogRepository
}

func NewLogger(
	logger *zap.Logger,
	trace *telemetry.Trace,
	config *config.Configuration,
	fluentdRepository *repository.LogRepository,
) *Logger {
	return &Logger{
		logger:            logger,
		trace:             trace,
		config:            config,
		fluentdRepository: fluentdRepository,
	}
}

// LoggerHandler 記錄每個請求；密碼、token 等欄位先遮蔽再輸出
func (m *Logger) LoggerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		endpoint := c.FullPath()
		if isOperationalPath(endpoint) {
			c.Next()
			return
		}

		ctx, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanLoggerMiddleware))

		requestTime := time.Now().UTC()
		if startTime, exists := c.Get("requestDuration"); exists {
			if t, ok := startTime.(time.Time); ok {
				requestTime = t
			}
		}

		mediaType, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))
		encoding := strings.TrimSpace(c.GetHeader("Content-Encoding"))

		var bodyRaw string
		switch {
		case encoding != "" && !strings.EqualFold(encoding, "identity"):
			bodyRaw = fmt.Sprintf("(%s encoded, %d bytes)", encoding, c.Request.ContentLength)
		case isBinaryContent(mediaType):
			bodyRaw = fmt.Sprintf("(binary %s, %d bytes)", mediaType, c.Request.ContentLength)
		case c.Request.Body != nil && c.Request.ContentLength != 0:
			// 讀完整 body 後回填，確保下游仍可讀取
			data, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(data))
			if strings.HasPrefix(mediaType, "application/json") {
				bodyRaw = redactJSON(data, 2000)
			} else {
				bodyRaw = toSafePreview(data, 2000)
			}
		}

		headerMap := make(map[string]string, len(c.Request.Header))
		for k, v := range c.Request.Header {
			lk := strings.ToLower(k)
			if _, secret := sensitiveHeaders[lk]; secret {
				headerMap[lk] = redacted
				continue
			}
			headerMap[lk] = strings.Join(v, ",")
		}

		paramsMap := make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			paramsMap[p.Key] = p.Value
		}

		method := c.Request.Method
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		reqID := requestID(c)
		traceID := span.SpanContext().TraceID()
		spanID := span.SpanContext().SpanID()

		m.trace.ApplyTraceAttributes(span, core.LoggerRequestMeta{
			Method:     method,
			Path:       path,
			FullPath:   endpoint,
			Query:      query,
			Body:       bodyRaw,
			Scheme:     c.Request.URL.Scheme,
			Host:       c.Request.Host,
			UserAgent:  c.Request.UserAgent(),
			ContentLen: c.Request.ContentLength,
			Proto:      c.Request.Proto,
			ClientIP:   c.ClientIP(),
			Headers:    headerMap,
			Params:     paramsMap,
		})

		logFields := []zap.Field{
			zap.String("requestId", reqID),
			zap.String("method", method),
			zap.String("path", path),
			zap.Any("headers", headerMap),
		}
		if query != "" {
			logFields = append(logFields, zap.String("query", query))
		}
		if len(paramsMap) > 0 {
			logFields = append(logFields, zap.Any("params", paramsMap))
		}
		if bodyRaw != "" {
			logFields = append(logFields, zap.String("body", bodyRaw))
		}
		logFields = append(logFields,
			zap.String("spanId", fmt.Sprintf("%x", spanID[:])),
			zap.String("traceId", fmt.Sprintf("%x", traceID[:])),
		)
		m.logger.Info("[Request] logging middleware message", logFields...)

		if err := m.fluentdRepository.LogRequest(ctx, model.RequestLog{
			RequestID:   reqID,
			Method:      method,
			Path:        path,
			ProjectName: m.config.App.Name,
			RequestTS:   requestTime.UTC().Format("2006-01-02 15:04:05.999999 UTC"),
			Body:        bodyRaw,
			IPHash:      fingerprint.Of(c.ClientIP(), m.config.Auth.SessionSecret),
			UserAgent:   c.Request.UserAgent(),
			Version:     m.config.App.Version,
		}); err != nil {
			m.logger.Warn("ship request log failed", zap.Error(err))
		}
		end(nil)
		c.Next()
	}
}

// redactJSON 遮蔽敏感欄位後輸出；無法解析時只保留長度資訊
func redactJSON(data []byte, max int) string {
	var body any
	if err := json.Unmarshal(data, &body); err != nil {
		return fmt.Sprintf("(invalid json, %d bytes)", len(data))
	}
	out, err := json.Marshal(redactValue(body))
	if err != nil {
		return fmt.Sprintf("(unencodable json, %d bytes)", len(data))
	}
	return toSafePreview(out, max)
}

func redactValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for key, value := range t {
			if _, secret := sensitiveBodyKeys[strings.ToLower(key)]; secret {
				t[key] = redacted
				continue
			}
			t[key] = redactValue(value)
		}
		return t
	case []any:
		for i := range t {
			t[i] = redactValue(t[i])
		}
		return t
	default:
		return v
	}
}

// 僅對文字內容做安全預覽：UTF-8 直接截斷；非 UTF-8 只記錄長度
func toSafePreview(b []byte, max int) string {
	if len(b) == 0 {
		return ""
	}
	if !utf8.Valid(b) {
		return fmt.Sprintf("(non-utf8, %d bytes)", len(b))
	}
	if len(b) > max {
		return string(b[:max]) + "…"
	}
	return string(b)
}

func isBinaryContent(mediaType string) bool {
	return strings.HasPrefix(mediaType, "multipart/") ||
		strings.HasPrefix(mediaType, "image/") ||
		strings.HasPrefix(mediaType, "audio/") ||
		strings.HasPrefix(mediaType, "video/") ||
		mediaType == "application/octet-stream"
}
