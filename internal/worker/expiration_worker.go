package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron"
	"go.uber.org/zap"

	"github.com/fieldready/locate-service/internal/config"
	"github.com/fieldready/locate-service/internal/events"
	"github.com/fieldready/locate-service/internal/repository"
)

// ExpirationWorker periodically persists EXPIRED on lapsed tickets and
// raises advance notice for tickets nearing the end of their legal window.
// The read-time staleness check in the evaluator never depends on this
// sweep; it only keeps stored state and notifications current.
type ExpirationWorker struct {
	tickets  repository.TicketRepository
	dispatch events.Dispatcher
	logger   *zap.Logger
	cfg      config.ExpirationConfig
	cron     *cron.Cron
}

// NewExpirationWorker constructs the worker.
func NewExpirationWorker(tickets repository.TicketRepository, dispatch events.Dispatcher, logger *zap.Logger, cfg config.ExpirationConfig) *ExpirationWorker {
	return &ExpirationWorker{
		tickets:  tickets,
		dispatch: dispatch,
		logger:   logger,
		cfg:      cfg,
		cron:     cron.New(),
	}
}

// Start schedules the sweep. No-op when disabled.
func (w *ExpirationWorker) Start() error {
	if !w.cfg.Enabled {
		w.logger.Info("expiration sweep disabled")
		return nil
	}
	if err := w.cron.AddFunc(w.cfg.SweepSchedule, w.sweep); err != nil {
		return err
	}
	w.cron.Start()
	w.logger.Info("expiration sweep scheduled", zap.String("schedule", w.cfg.SweepSchedule))
	return nil
}

// Stop halts the schedule.
func (w *ExpirationWorker) Stop() {
	w.cron.Stop()
}

// Sweep runs one pass immediately. Exposed for the boot-time catch-up run.
func (w *ExpirationWorker) Sweep(ctx context.Context) {
	w.runSweep(ctx)
}

func (w *ExpirationWorker) sweep() {
	w.runSweep(context.Background())
}

func (w *ExpirationWorker) runSweep(ctx context.Context) {
	now := time.Now()

	expired, err := w.tickets.MarkExpired(ctx, now)
	if err != nil {
		w.logger.Error("expiration sweep failed", zap.Error(err))
		return
	}
	for _, ticket := range expired {
		w.publish(ctx, events.Event{
			Type:           events.EventTicketExpired,
			TicketID:       ticket.ID,
			OrganizationID: ticket.OrganizationID,
			Payload: events.TicketExpirationPayload{
				TicketNumber: ticket.TicketNumber,
				ExpiresAt:    ticket.ExpiresAt,
			},
		})
	}

	expiring, err := w.tickets.ListExpiringBetween(ctx, now, now.Add(w.cfg.WarnWindow()))
	if err != nil {
		w.logger.Error("expiring-soon scan failed", zap.Error(err))
		return
	}
	for _, ticket := range expiring {
		w.publish(ctx, events.Event{
			Type:           events.EventTicketExpiringSoon,
			TicketID:       ticket.ID,
			OrganizationID: ticket.OrganizationID,
			Payload: events.TicketExpirationPayload{
				TicketNumber: ticket.TicketNumber,
				ExpiresAt:    ticket.ExpiresAt,
			},
		})
	}

	if len(expired) > 0 || len(expiring) > 0 {
		w.logger.Info("expiration sweep complete",
			zap.Int("expired", len(expired)),
			zap.Int("expiring_soon", len(expiring)))
	}
}

func (w *ExpirationWorker) publish(ctx context.Context, event events.Event) {
	if w.dispatch == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = w.dispatch.Publish(ctx, event)
}
