package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// CreateOrderCommandHandler handles order placement. The new order and its
// courier assignment run in one transaction: the order is persisted in
// Pending status and the assignment engine is invoked immediately. A "no
// courier found" outcome still commits the pending order; only persistence
// failures roll the whole unit back.
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	assigner   OrderAssigner
}

// NewCreateOrderCommandHandler creates a handler for order placement.
func NewCreateOrderCommandHandler(uowFactory UoWFactory, assigner OrderAssigner) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		assigner:   assigner,
	}
}

// Handle processes the order creation command.
// Creates the order, persists it, and attempts courier assignment within the
// same transaction.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
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

	orderEntity, err := order.NewOrder(cmd.OrderID(), cmd.RestaurantAddress(), cmd.DeliveryAddress())
	if err != nil {
		return err
	}

	if err = uow.OrderRepository().Add(ctx, orderEntity); err != nil {
		return err
	}

	if _, err = h.assigner.Assign(ctx, uow, orderEntity); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
