// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Pickup and dropoff coordinates are nullable because geocoding happens during
// assignment, after the order row already exists. CreatedAt drives the
// oldest-first ordering of the pending queue.
type OrderDTO struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CourierID         *uuid.UUID `gorm:"type:uuid;index"`
	RestaurantAddress string     `gorm:"type:varchar(512);not null"`
	DeliveryAddress   string     `gorm:"type:varchar(512);not null"`
	PickupLatitude    *float64
	PickupLongitude   *float64
	DropoffLatitude   *float64
	DropoffLongitude  *float64
	Status            int       `gorm:"index"`
	CreatedAt         time.Time `gorm:"autoCreateTime;index"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order domain aggregate to its database representation.
// Maps all order attributes including optional courier assignment and
// resolved route coordinates.
func fromDomain(order *order.Order) OrderDTO {
	var courierID *uuid.UUID
	if id := order.Courier(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	dto := OrderDTO{
		ID:                order.ID().Bytes(),
		CourierID:         courierID,
		RestaurantAddress: order.RestaurantAddress(),
		DeliveryAddress:   order.DeliveryAddress(),
		Status:            int(order.Status()),
	}

	if pickup := order.PickupPoint(); pickup != nil {
		lat, lng := pickup.Lat(), pickup.Lng()
		dto.PickupLatitude, dto.PickupLongitude = &lat, &lng
	}
	if dropoff := order.DropoffPoint(); dropoff != nil {
		lat, lng := dropoff.Lat(), dropoff.Lng()
		dto.DropoffLatitude, dto.DropoffLongitude = &lat, &lng
	}

	return dto
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including status and courier assignment using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}

		courierID = &cID
	}

	pickup, err := pointToDomain(dto.PickupLatitude, dto.PickupLongitude)
	if err != nil {
		return nil, err
	}
	dropoff, err := pointToDomain(dto.DropoffLatitude, dto.DropoffLongitude)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		dto.RestaurantAddress,
		dto.DeliveryAddress,
		pickup,
		dropoff,
		order.Status(dto.Status),
		courierID,
	)
}

// pointToDomain assembles an optional coordinate pair into a geo point.
func pointToDomain(lat, lng *float64) (*kernel.GeoPoint, error) {
	if lat == nil || lng == nil {
		return nil, nil
	}

	point, err := kernel.NewGeoPoint(*lat, *lng)
	if err != nil {
		return nil, err
	}

	return &point, nil
}
