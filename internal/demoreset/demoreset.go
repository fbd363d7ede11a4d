// Package demoreset periodically resets the content store back to the
// seed data, for long-running demo deployments.
package demoreset

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"github.com/rajdev-xr/spire-thread-nexus/pkg/config"
	"github.com/rajdev-xr/spire-thread-nexus/pkg/logger"
	"github.com/rajdev-xr/spire-thread-nexus/pkg/store"
)

// Start starts the reset scheduler if enabled. Returns a cancel func.
func Start(ctx context.Context, cfg config.DemoConfig, st *store.Store) (context.CancelFunc, error) {
	if !cfg.ResetEnabled {
		logger.Info("demo_reset_disabled")
		return func() {}, nil
	}

	// map empty cron to default daily @04:00
	cronExpr := cfg.ResetCron
	if cronExpr == "" {
		cronExpr = "0 4 * * *"
	}
	if !gronx.IsValid(cronExpr) {
		logger.Error("demo_reset_invalid_cron", "cron", cfg.ResetCron)
		return nil, fmt.Errorf("invalid demo reset cron expression: %s", cfg.ResetCron)
	}

	logger.Info("demo_reset_enabled", "cron", cronExpr)
	ctx2, cancel := context.WithCancel(ctx)
	go runScheduler(ctx2, cronExpr, st)
	return cancel, nil
}

// runScheduler uses gronx to compute the next tick for the configured cron
// expression and sleeps until that time.
func runScheduler(ctx context.Context, cronExpr string, st *store.Store) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("demo_reset_scheduler_stopping")
			return
		default:
		}

		now := time.Now().UTC()
		next, err := gronx.NextTickAfter(cronExpr, now, false)
		if err != nil {
			logger.Error("demo_reset_nexttick_failed", "cron", cronExpr, "error", err)
			// fallback sleep then retry
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				logger.Info("demo_reset_scheduler_stopping")
				return
			}
			continue
		}

		select {
		case <-time.After(time.Until(next)):
			st.ResetToSeed()
			logger.Info("demo_reset_ran", "cron", cronExpr)
		case <-ctx.Done():
			logger.Info("demo_reset_scheduler_stopping")
			return
		}
	}
}
