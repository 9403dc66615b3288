package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetFirstInPendingStatus retrieves the oldest order still waiting for a
	// courier. Used by the assignment retry job to pick up orders left
	// unassigned when no courier qualified at creation time.
	GetFirstInPendingStatus(ctx context.Context) (*order.Order, error)

	// GetActiveByCourier retrieves a courier's orders in Assigned or InTransit
	// status. The route optimizer runs over exactly this set.
	GetActiveByCourier(ctx context.Context, courierID kernel.UUID) ([]*order.Order, error)
}
