// Package ports defines the contracts between the application core and its
// infrastructure collaborators: persistence, geocoding, distance lookup, and
// caching. These interfaces enable dependency inversion and testability.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates.
type CourierRepository interface {
	// Add persists a new courier aggregate to storage.
	// The courier must be valid and not already exist in the repository.
	Add(ctx context.Context, courier *courier.Courier) error

	// Update persists changes to an existing courier aggregate.
	// The courier must exist in the repository and be valid.
	Update(ctx context.Context, courier *courier.Courier) error

	// Get retrieves a courier aggregate by its unique identifier.
	// Returns the complete courier including its order load and current route.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetAllAvailable retrieves the candidate pool for assignment: every
	// courier with availability on and an order count below capacity.
	// When called inside a transaction the returned rows are locked until
	// commit, so concurrent assignment attempts serialize on the pool.
	GetAllAvailable(ctx context.Context) ([]*courier.Courier, error)
}
