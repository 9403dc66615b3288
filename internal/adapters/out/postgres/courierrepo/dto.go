// Package courierrepo provides data transfer objects and mapping functions for courier persistence.
// This package implements the repository pattern for the courier domain aggregate, handling
// the conversion between domain entities and database representations.
package courierrepo

import (
	"encoding/json"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CourierDTO represents the database structure for persisting courier aggregates.
// Taken order IDs are stored as a text array so availability filtering can
// happen in SQL without joining the orders table; the planned route is a
// jsonb document since it is only ever read and written whole.
type CourierDTO struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name          string         `gorm:"type:varchar(255);not null"`
	Location      LocationDTO    `gorm:"embedded;embeddedPrefix:location_"`
	Available     bool           `gorm:"not null"`
	ServiceRadius float64        `gorm:"not null"`
	OrderIDs      pq.StringArray `gorm:"type:text[]"`
	Route         []byte         `gorm:"type:jsonb"`
	RouteDistance float64        `gorm:"not null"`
}

// TableName specifies the database table name for courier entities.
// Overrides GORM's default naming convention to use "couriers" instead of "courier_dtos".
func (CourierDTO) TableName() string {
	return "couriers"
}

// LocationDTO represents the embedded location coordinates within the courier table.
// Stores the courier's current position.
type LocationDTO struct {
	Latitude  float64 `gorm:"not null"`
	Longitude float64 `gorm:"not null"`
}

// routePointDTO is a single waypoint inside the jsonb route document.
type routePointDTO struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// fromDomain converts a courier domain aggregate to its database representation.
func fromDomain(courier *courier.Courier) (CourierDTO, error) {
	orderIDs := make(pq.StringArray, 0, courier.OrderCount())
	for _, id := range courier.OrderIDs() {
		orderIDs = append(orderIDs, id.String())
	}

	routePoints := make([]routePointDTO, 0, len(courier.Route()))
	for _, point := range courier.Route() {
		routePoints = append(routePoints, routePointDTO{
			Latitude:  point.Lat(),
			Longitude: point.Lng(),
		})
	}
	route, err := json.Marshal(routePoints)
	if err != nil {
		return CourierDTO{}, err
	}

	return CourierDTO{
		ID:   courier.ID().Bytes(),
		Name: courier.Name(),
		Location: LocationDTO{
			Latitude:  courier.Location().Lat(),
			Longitude: courier.Location().Lng(),
		},
		Available:     courier.IsAvailable(),
		ServiceRadius: courier.ServiceRadius(),
		OrderIDs:      orderIDs,
		Route:         route,
		RouteDistance: courier.RouteDistance(),
	}, nil
}

// toDomain converts a database DTO to a courier domain aggregate.
// Reconstructs the complete aggregate including taken orders and the planned
// route using RestoreCourier.
func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewGeoPoint(dto.Location.Latitude, dto.Location.Longitude)
	if err != nil {
		return nil, err
	}

	orderIDs := make([]kernel.UUID, 0, len(dto.OrderIDs))
	for _, raw := range dto.OrderIDs {
		orderID, idErr := kernel.UUIDFromString(raw)
		if idErr != nil {
			return nil, idErr
		}
		orderIDs = append(orderIDs, orderID)
	}

	route, err := routeToDomain(dto.Route)
	if err != nil {
		return nil, err
	}

	return courier.RestoreCourier(
		id,
		dto.Name,
		location,
		dto.Available,
		dto.ServiceRadius,
		orderIDs,
		route,
		dto.RouteDistance,
	)
}

// routeToDomain decodes the jsonb route document into waypoints.
// A missing document restores as an empty route.
func routeToDomain(raw []byte) ([]kernel.GeoPoint, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var points []routePointDTO
	if err := json.Unmarshal(raw, &points); err != nil {
		return nil, err
	}

	route := make([]kernel.GeoPoint, 0, len(points))
	for _, p := range points {
		waypoint, err := kernel.NewGeoPoint(p.Latitude, p.Longitude)
		if err != nil {
			return nil, err
		}
		route = append(route, waypoint)
	}

	return route, nil
}
