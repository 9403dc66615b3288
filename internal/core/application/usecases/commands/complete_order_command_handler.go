package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// CompleteOrderCommandHandler marks an order delivered and releases the
// courier's slot. The courier's route is re-optimized over its remaining
// active orders; a failed re-optimization keeps the stale route and is only
// logged, matching the assignment flow.
type CompleteOrderCommandHandler struct {
	uowFactory UoWFactory
	assigner   OrderAssigner
}

// NewCompleteOrderCommandHandler creates a handler for order completion.
func NewCompleteOrderCommandHandler(uowFactory UoWFactory, assigner OrderAssigner) CompleteOrderCommandHandler {
	return CompleteOrderCommandHandler{
		uowFactory: uowFactory,
		assigner:   assigner,
	}
}

// Handle processes the order completion command.
// An Assigned order is moved through InTransit to Delivered in one step.
func (h CompleteOrderCommandHandler) Handle(ctx context.Context, cmd CompleteOrderCommand) error {
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

	if orderEntity.Status() == order.Assigned {
		if err = orderEntity.Start(); err != nil {
			return err
		}
	}
	if err = orderEntity.Deliver(); err != nil {
		return err
	}

	courierEntity, err := courierRepo.Get(ctx, *orderEntity.Courier())
	if err != nil {
		return err
	}
	if err = courierEntity.CompleteOrder(orderEntity.ID()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, orderEntity); err != nil {
		return err
	}

	h.assigner.refreshRoute(ctx, orderRepo, courierEntity)

	if err = courierRepo.Update(ctx, courierEntity); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
