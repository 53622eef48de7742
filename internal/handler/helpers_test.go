package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"wanderlust/config"
	"wanderlust/internal/core"
	"wanderlust/internal/database/client"
	"wanderlust/internal/database/fluentd/repository"
	"wanderlust/internal/middleware"
	cErr "wanderlust/internal/pkg/error"
	"wanderlust/internal/pkg/response"
	"wanderlust/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	adminID = "650000000000000000000001"
	userID  = "650000000000000000000002"
)

// tokenValidator 以固定 token 對應身分
type tokenValidator map[string]*core.SessionClaims

func (v tokenValidator) Validate(ctx context.Context, token string) (*core.SessionClaims, error) {
	if claims, ok := v[token]; ok {
		return claims, nil
	}
	return nil, cErr.InvalidSession("session is invalid or expired")
}

func testConfig() *config.Configuration {
	return &config.Configuration{
		App:  config.App{Name: "wanderlust-test"},
		Auth: config.Auth{SessionSecret: "handler-test-secret", CookieName: "session_token"},
	}
}

type testServer struct {
	engine  *gin.Engine
	session *middleware.Session
	trace   *telemetry.Trace
	conf    *config.Configuration
}

func newTestServer() *testServer {
	conf := testConfig()
	trace := &telemetry.Trace{}
	metric := &telemetry.Metric{}
	logRepo := repository.NewLogRepository(conf, &client.NoopClient{})
	validator := tokenValidator{
		"admin-token": {IdentityID: adminID, Role: core.RoleAdmin, Email: "admin@example.com", Name: "Admin"},
		"user-token":  {IdentityID: userID, Role: core.RoleUser, Email: "asha@example.com", Name: "Asha Rao"},
	}

	engine := gin.New()
	engine.Use(
		middleware.NewTraceEntry(trace, metric, conf).Handler(),
		middleware.NewRecovery(zap.NewNop(), trace, metric, conf, logRepo).ErrorHandler(),
		middleware.NewResponse(zap.NewNop(), trace, metric, conf, logRepo).FormatHandler(),
	)
	return &testServer{
		engine:  engine,
		session: middleware.NewSession(zap.NewNop(), trace, conf, validator),
		trace:   trace,
		conf:    conf,
	}
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	response.Response
	Data json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return body
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}
