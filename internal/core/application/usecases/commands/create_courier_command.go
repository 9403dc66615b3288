package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrCreateCourierCommandIsNotConstructed = errors.New(
		"CreateCourierCommand must be created via NewCreateCourierCommand constructor",
	)
	ErrNameIsRequired         = errors.New("name is required")
	ErrServiceRadiusIsInvalid = errors.New("service radius must be greater than 0")
)

// CreateCourierCommand represents a request to register a new courier.
// Encapsulates all data needed to create a courier entity ready for assignment.
type CreateCourierCommand struct { //nolint:recvcheck //using for validation
	courierID     kernel.UUID
	name          string
	location      kernel.GeoPoint
	serviceRadius float64

	guard guard.ConstructorGuard
}

// NewCreateCourierCommand creates a command to register a new courier.
// Automatically generates a unique ID for the courier.
// Validates that name is not empty, the location is a constructed point, and
// the service radius is positive.
func NewCreateCourierCommand(name string, location kernel.GeoPoint, serviceRadius float64) (CreateCourierCommand, error) {
	command := CreateCourierCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setCourierID(kernel.NewUUID()),
		command.setName(name),
		command.setLocation(location),
		command.setServiceRadius(serviceRadius),
	); err != nil {
		return CreateCourierCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateCourierCommandIsNotConstructed if validation fails.
func (c CreateCourierCommand) Validate() error {
	return c.guard.Validate(ErrCreateCourierCommandIsNotConstructed)
}

// CourierID returns the generated courier ID from the command.
func (c CreateCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Name returns the courier name from the command.
func (c CreateCourierCommand) Name() string {
	return c.name
}

// Location returns the courier location from the command.
func (c CreateCourierCommand) Location() kernel.GeoPoint {
	return c.location
}

// ServiceRadius returns the courier's service radius in meters.
func (c CreateCourierCommand) ServiceRadius() float64 {
	return c.serviceRadius
}

func (c *CreateCourierCommand) setCourierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.courierID = id
	return nil
}

func (c *CreateCourierCommand) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}

	c.name = name
	return nil
}

func (c *CreateCourierCommand) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}

	c.location = location
	return nil
}

func (c *CreateCourierCommand) setServiceRadius(radius float64) error {
	if radius <= 0 {
		return ErrServiceRadiusIsInvalid
	}

	c.serviceRadius = radius
	return nil
}
