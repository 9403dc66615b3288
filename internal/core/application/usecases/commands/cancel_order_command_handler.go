package commands

import (
	"context"
)

// CancelOrderCommandHandler withdraws a Pending or Assigned order. When a
// courier was already assigned its slot is freed and its route re-optimized
// over the remaining active orders.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
	assigner   OrderAssigner
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(uowFactory UoWFactory, assigner OrderAssigner) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		assigner:   assigner,
	}
}

// Handle processes the order cancellation command.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	courierRepo := uow.CourierRepository()

	orderEntity, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	assignedCourierID := orderEntity.Courier()

	if err = orderEntity.Cancel(); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, orderEntity); err != nil {
		return err
	}

	if assignedCourierID != nil {
		courierEntity, getErr := courierRepo.Get(ctx, *assignedCourierID)
		if getErr != nil {
			return getErr
		}
		if err = courierEntity.CompleteOrder(orderEntity.ID()); err != nil {
			return err
		}

		h.assigner.refreshRoute(ctx, orderRepo, courierEntity)

		if err = courierRepo.Update(ctx, courierEntity); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
