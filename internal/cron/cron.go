package cron

import (
	"context"
	"time"

	"wanderlust/config"
	"wanderlust/internal/service"

	"github.com/google/wire"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var ProviderSet = wire.NewSet(NewCron, wire.Bind(new(ProfileReconciler), new(*service.IdentityService)))

// ProfileReconciler 由 service.IdentityService 實作
type ProfileReconciler interface {
	ReconcileProfiles(ctx context.Context) (scanned int, repaired int, err error)
}

type Cron struct {
	logger     *zap.Logger
	server     *cron.Cron
	spec       string
	reconciler ProfileReconciler
}

// NewCron .
func NewCron(logger *zap.Logger, conf *config.Configuration, reconciler ProfileReconciler) *Cron {
	server := cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
	)

	return &Cron{
		logger:     logger,
		server:     server,
		spec:       conf.Cron.ProfileReconcileSpec,
		reconciler: reconciler,
	}
}

func (c *Cron) Run() error {
	if c.spec != "" {
		if _, err := c.server.AddFunc(c.spec, c.reconcileProfiles); err != nil {
			return err
		}
		c.logger.Info("profile reconcile job scheduled", zap.String("spec", c.spec))
	}

	c.server.Start()
	return nil
}

// Stop 等待執行中的 job 結束，或 ctx 到期
func (c *Cron) Stop(ctx context.Context) error {
	done := c.server.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Cron) reconcileProfiles() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if _, _, err := c.reconciler.ReconcileProfiles(ctx); err != nil {
		c.logger.Error("profile reconcile job failed", zap.Error(err))
	}
}
