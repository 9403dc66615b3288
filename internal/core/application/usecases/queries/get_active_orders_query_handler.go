package queries

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GetActiveOrdersQueryHandler retrieves in-flight orders from the database.
// Filters by status server-side so the pending queue and per-courier workload
// views stay cheap as the orders table grows.
type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveOrdersQueryHandler creates a handler for in-flight order queries.
// Requires a GORM database connection for query execution.
func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

// Handle executes the query to retrieve in-flight orders.
// Results are sorted oldest-first to match assignment retry order.
func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]GetActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	statuses := make([]int64, 0, len(query.Statuses()))
	for _, s := range query.Statuses() {
		statuses = append(statuses, int64(s))
	}

	orders := make([]GetActiveOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			courier_id,
			restaurant_address,
			delivery_address,
			status
		FROM orders
		WHERE status = ANY(?)
		ORDER BY created_at, id
	`, pq.Array(statuses)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var orderResp GetActiveOrdersQueryResponse
		var id uuid.UUID
		var courierID *uuid.UUID
		var status int

		err = rows.Scan(
			&id,
			&courierID,
			&orderResp.RestaurantAddress,
			&orderResp.DeliveryAddress,
			&status,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		orderResp.ID = orderID

		if courierID != nil {
			cID, courierErr := kernel.UUIDFromBytes((*courierID)[:])
			if courierErr != nil {
				return nil, courierErr
			}
			orderResp.CourierID = &cID
		}

		orderResp.Status = order.Status(status).String()
		orders = append(orders, orderResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
