package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrRestaurantAddressIsRequired = errors.New("restaurant address is required")
	ErrDeliveryAddressIsRequired   = errors.New("delivery address is required")
)

// CreateOrderCommand represents a request to place a new delivery order.
// Carries the free-text addresses; geocoding happens later during assignment.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID           kernel.UUID
	restaurantAddress string
	deliveryAddress   string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place a new order.
// Automatically generates a unique ID for the order.
func NewCreateOrderCommand(restaurantAddress, deliveryAddress string) (CreateOrderCommand, error) {
	command := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(kernel.NewUUID()),
		command.setRestaurantAddress(restaurantAddress),
		command.setDeliveryAddress(deliveryAddress),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the generated order ID from the command.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// RestaurantAddress returns the free-text pickup address.
func (c CreateOrderCommand) RestaurantAddress() string {
	return c.restaurantAddress
}

// DeliveryAddress returns the free-text customer address.
func (c CreateOrderCommand) DeliveryAddress() string {
	return c.deliveryAddress
}

func (c *CreateOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.orderID = id
	return nil
}

func (c *CreateOrderCommand) setRestaurantAddress(address string) error {
	if address == "" {
		return ErrRestaurantAddressIsRequired
	}

	c.restaurantAddress = address
	return nil
}

func (c *CreateOrderCommand) setDeliveryAddress(address string) error {
	if address == "" {
		return ErrDeliveryAddressIsRequired
	}

	c.deliveryAddress = address
	return nil
}
