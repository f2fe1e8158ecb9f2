// Package workers runs the periodic maintenance jobs.
package workers

import (
	"context"
	"time"

	"dispatchhub_backend/internal/logger"
	"dispatchhub_backend/internal/services"

	"github.com/robfig/cron/v3"
)

// BillingWorker sweeps expired boosts and subscriptions on a cron schedule.
type BillingWorker struct {
	billing  *services.BillingService
	schedule string
	cron     *cron.Cron
}

func NewBillingWorker(billing *services.BillingService, schedule string) *BillingWorker {
	return &BillingWorker{
		billing:  billing,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start registers the sweep and starts the scheduler. An initial sweep runs
// immediately so a restart does not delay expiry by a full interval.
func (w *BillingWorker) Start() error {
	if _, err := w.cron.AddFunc(w.schedule, w.sweep); err != nil {
		return err
	}
	w.cron.Start()
	go w.sweep()

	logger.Info("billing worker started", "schedule", w.schedule)
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (w *BillingWorker) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	logger.Info("billing worker stopped")
}

func (w *BillingWorker) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	boosts, subscriptions, err := w.billing.ExpireEntitlements(ctx, time.Now())
	logger.WorkerLog("billing", "expiry_sweep", err)
	if err == nil && (boosts > 0 || subscriptions > 0) {
		logger.Info("expired entitlements",
			"boosts", boosts,
			"subscriptions", subscriptions,
		)
	}
}
