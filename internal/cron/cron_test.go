package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"wanderlust/config"

	"go.uber.org/zap"
)

type countingReconciler struct {
	calls chan struct{}
	err   error
}

func (r *countingReconciler) ReconcileProfiles(ctx context.Context) (int, int, error) {
	r.calls <- struct{}{}
	return 3, 1, r.err
}

func newTestCron(spec string, reconciler ProfileReconciler) *Cron {
	conf := &config.Configuration{Cron: config.Cron{ProfileReconcileSpec: spec}}
	return NewCron(zap.NewNop(), conf, reconciler)
}

func TestCron_RunsReconcileJob(t *testing.T) {
	reconciler := &countingReconciler{calls: make(chan struct{}, 4), err: errors.New("mongo down")}
	c := newTestCron("@every 1s", reconciler)
	if err := c.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	defer c.Stop(context.Background())

	select {
	case <-reconciler.calls:
	case <-time.After(3 * time.Second):
		t.Fatal("reconcile job did not run")
	}
}

func TestCron_InvalidSpec(t *testing.T) {
	c := newTestCron("not a spec", &countingReconciler{calls: make(chan struct{}, 1)})
	if err := c.Run(); err == nil {
		t.Fatal("expected invalid spec to be rejected")
	}
}

func TestCron_DisabledWhenSpecEmpty(t *testing.T) {
	c := newTestCron("", &countingReconciler{calls: make(chan struct{}, 1)})
	if err := c.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(c.server.Entries()) != 0 {
		t.Errorf("expected no scheduled entries")
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Errorf("stop: %v", err)
	}
}
