package repository

import (
	"context"
	"testing"

	"wanderlust/config"
	"wanderlust/internal/core"
	"wanderlust/internal/database/fluentd/model"
)

type recordingClient struct {
	tags     []string
	messages []any
}

func (r *recordingClient) Post(ctx context.Context, tag string, message any) error {
	r.tags = append(r.tags, tag)
	r.messages = append(r.messages, message)
	return nil
}

func (r *recordingClient) Close() error { return nil }

func TestLogRepository_LogAuthEvent(t *testing.T) {
	conf := &config.Configuration{App: config.App{Name: "wanderlust", Version: "2.1.0"}}
	rec := &recordingClient{}
	repo := NewLogRepository(conf, rec)

	err := repo.LogAuthEvent(context.Background(), model.AuthEventLog{
		Event:   "credential_sign_in",
		Outcome: "failure",
		Reason:  "password_mismatch",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rec.tags) != 1 || rec.tags[0] != string(core.FluentdAuthEvent) {
		t.Fatalf("unexpected tags: %v", rec.tags)
	}
	msg, ok := rec.messages[0].(map[string]any)
	if !ok {
		t.Fatalf("expected map message, got %T", rec.messages[0])
	}
	if msg["version"] != "2.1.0" {
		t.Errorf("expected version 2.1.0, got %v", msg["version"])
	}
	if msg["project_name"] != "wanderlust" {
		t.Errorf("expected project name to be filled, got %v", msg["project_name"])
	}
	if msg["logged_at"] == "" || msg["logged_at"] == nil {
		t.Error("expected logged_at to be set")
	}
}

func TestLogRepository_DefaultVersion(t *testing.T) {
	rec := &recordingClient{}
	repo := NewLogRepository(&config.Configuration{}, rec)

	if err := repo.LogRequest(context.Background(), model.RequestLog{RequestID: "r1", Path: "/hotels", Method: "GET"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msg := rec.messages[0].(map[string]any)
	if msg["version"] != "1.0.0" {
		t.Errorf("expected default version, got %v", msg["version"])
	}
	if rec.tags[0] != string(core.FluentdRequest) {
		t.Errorf("unexpected tag %s", rec.tags[0])
	}
}
