package commands

import (
	"context"
	"errors"

	"dispatch/internal/pkg/errs"
)

// ErrNoOrderFound is returned when no pending order is waiting for assignment.
var ErrNoOrderFound = errors.New("no order found")

// AssignOrderCommandHandler retries assignment for orders that were created
// while no courier qualified. It picks the oldest pending order and runs the
// assignment engine over it in a fresh transaction.
type AssignOrderCommandHandler struct {
	uowFactory UoWFactory
	assigner   OrderAssigner
}

// NewAssignOrderCommandHandler creates a handler for assignment retries.
func NewAssignOrderCommandHandler(uowFactory UoWFactory, assigner OrderAssigner) AssignOrderCommandHandler {
	return AssignOrderCommandHandler{
		uowFactory: uowFactory,
		assigner:   assigner,
	}
}

// Handle processes one assignment attempt.
// Returns ErrNoOrderFound when the pending queue is empty. A pool with no
// eligible courier is not an error: the order simply stays pending for the
// next attempt.
func (h AssignOrderCommandHandler) Handle(ctx context.Context, command AssignOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderEntity, err := uow.OrderRepository().GetFirstInPendingStatus(ctx)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrNoOrderFound
	}
	if err != nil {
		return err
	}

	if _, err = h.assigner.Assign(ctx, uow, orderEntity); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
