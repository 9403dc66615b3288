package jobs

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// assignmentSchedule fires every five seconds. One pending order is processed
// per tick, so a burst of unassigned orders drains gradually instead of
// hammering the geocoding provider.
const assignmentSchedule = "*/5 * * * * *"

// OrderAssignmentJob retries courier assignment for orders that are still
// pending.
type OrderAssignmentJob struct {
	handler commands.AssignOrderCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewOrderAssignmentJob creates the retry job for pending orders.
func NewOrderAssignmentJob(handler commands.AssignOrderCommandHandler, logger *slog.Logger) *OrderAssignmentJob {
	return &OrderAssignmentJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "order_assignment_job"),
	}
}

// Start begins the assignment retry schedule.
func (j *OrderAssignmentJob) Start() error {
	_, err := j.cron.AddFunc(assignmentSchedule, func() {
		ctx := context.Background()
		cmd := commands.NewAssignOrderCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			// An empty pending queue is the normal steady state
			if !errors.Is(err, commands.ErrNoOrderFound) {
				j.logger.ErrorContext(ctx, "Order assignment job failed", "error", err)
			}
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Order assignment job started")
	return nil
}

// Stop stops the assignment retry schedule.
func (j *OrderAssignmentJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Order assignment job stopped")
}
