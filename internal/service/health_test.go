package service

import (
	"context"
	"errors"
	"testing"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthService_CheckDependencies(t *testing.T) {
	up := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	svc := newHealthService(map[string]Pinger{"mongodb": up, "redis": down})
	if !svc.IsLive() || svc.IsReady() {
		t.Fatalf("expected live and not ready on start")
	}
	svc.SetReady(true)
	if !svc.IsReady() {
		t.Fatalf("expected ready after SetReady")
	}

	status, healthy := svc.CheckDependencies(context.Background())
	if healthy {
		t.Fatalf("expected unhealthy when redis is down")
	}
	if status["mongodb"] != "up" || status["redis"] != "down" {
		t.Fatalf("unexpected status: %+v", status)
	}
}
