package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"wanderlust/config"
	"wanderlust/internal/database/client"
	"wanderlust/internal/database/fluentd/repository"
	"wanderlust/internal/pkg/response"
	"wanderlust/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Configuration {
	return &config.Configuration{
		App:  config.App{Name: "wanderlust-test", Version: "0.0.1"},
		Auth: config.Auth{SessionSecret: "middleware-test-secret"},
	}
}

// newEnvelopeEngine 掛上與正式環境相同順序的信封相關 middleware
func newEnvelopeEngine(conf *config.Configuration) *gin.Engine {
	trace := &telemetry.Trace{}
	metric := &telemetry.Metric{}
	logRepo := repository.NewLogRepository(conf, &client.NoopClient{})

	engine := gin.New()
	engine.Use(
		NewTraceEntry(trace, metric, conf).Handler(),
		NewRecovery(zap.NewNop(), trace, metric, conf, logRepo).ErrorHandler(),
		NewResponse(zap.NewNop(), trace, metric, conf, logRepo).FormatHandler(),
	)
	return engine
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode envelope: %v (body=%s)", err, rec.Body.String())
	}
	return body
}
