package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrGetActiveOrdersQueryIsNotConstructed = errors.New(
	"GetActiveOrdersQuery must be created via NewGetActiveOrdersQuery constructor",
)

// GetActiveOrdersQuery retrieves orders that are still in flight.
// By default it covers Pending, Assigned, and InTransit orders; callers may
// narrow the filter to specific statuses.
type GetActiveOrdersQuery struct { //nolint:recvcheck //using for validation
	statuses []order.Status

	guard guard.ConstructorGuard
}

// NewGetActiveOrdersQuery creates a query for in-flight orders.
// Without arguments it covers every non-final status.
func NewGetActiveOrdersQuery(statuses ...order.Status) (GetActiveOrdersQuery, error) {
	query := GetActiveOrdersQuery{
		guard: guard.NewConstructorGuard(),
	}

	if len(statuses) == 0 {
		statuses = []order.Status{order.Pending, order.Assigned, order.InTransit}
	}
	if err := query.setStatuses(statuses); err != nil {
		return GetActiveOrdersQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrdersQueryIsNotConstructed)
}

// Statuses returns the status filter of the query.
func (q GetActiveOrdersQuery) Statuses() []order.Status {
	out := make([]order.Status, len(q.statuses))
	copy(out, q.statuses)
	return out
}

func (q *GetActiveOrdersQuery) setStatuses(statuses []order.Status) error {
	for _, s := range statuses {
		if err := s.Validate(); err != nil {
			return err
		}
	}

	q.statuses = statuses
	return nil
}

// GetActiveOrdersQueryResponse represents order information in the read model.
type GetActiveOrdersQueryResponse struct {
	ID                kernel.UUID
	CourierID         *kernel.UUID
	RestaurantAddress string
	DeliveryAddress   string
	Status            string
}
