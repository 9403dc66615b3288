package order

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// Domain errors for order operations.
var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
	// ErrRestaurantAddressIsRequired is returned when creating an order without a pickup address.
	ErrRestaurantAddressIsRequired = errs.NewValueIsRequiredError("restaurant address")
	// ErrDeliveryAddressIsRequired is returned when creating an order without a delivery address.
	ErrDeliveryAddressIsRequired = errs.NewValueIsRequiredError("delivery address")
)

// Order represents a delivery order in the system. It is the aggregate root that
// manages the order lifecycle from creation through assignment to delivery.
//
// Order follows these invariants:
//   - Must have a valid unique identifier
//   - Must have non-empty restaurant and delivery addresses
//   - Has at most one assigned courier at a time
//   - Once Assigned, the courier reference is immutable until cancellation
//   - Status transitions follow the rules defined on Status
//
// Pickup and dropoff coordinates are optional: they are filled in as addresses
// are geocoded. The route optimizer requires both to be present.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// courierID is the assigned courier's ID (nil if unassigned)
	courierID *kernel.UUID

	// restaurantAddress is the free-text pickup address
	restaurantAddress string

	// deliveryAddress is the free-text customer drop-off address
	deliveryAddress string

	// pickup is the geocoded restaurant location (nil until resolved)
	pickup *kernel.GeoPoint

	// dropoff is the geocoded customer location (nil until resolved)
	dropoff *kernel.GeoPoint

	// status represents the current state in the order lifecycle
	status Status

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates a new Order in Pending status with validation. This is the
// only way to create a fresh Order, ensuring all business invariants hold.
//
// Parameters:
//   - id: Unique identifier for the order (must be valid UUID)
//   - restaurantAddress: Free-text pickup address (must be non-empty)
//   - deliveryAddress: Free-text customer address (must be non-empty)
//
// Returns:
//   - *Order: The created order if all validations pass
//   - error: Validation error if any parameter is invalid
func NewOrder(id kernel.UUID, restaurantAddress string, deliveryAddress string) (*Order, error) {
	order := &Order{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setRestaurantAddress(restaurantAddress),
		order.setDeliveryAddress(deliveryAddress),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// RestoreOrder reconstructs an Order aggregate from persistent storage.
// Unlike NewOrder, it accepts any valid status and an optional courier
// reference, validating their consistency before returning.
func RestoreOrder(
	id kernel.UUID,
	restaurantAddress string,
	deliveryAddress string,
	pickup *kernel.GeoPoint,
	dropoff *kernel.GeoPoint,
	status Status,
	courierID *kernel.UUID,
) (*Order, error) {
	order := &Order{
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setRestaurantAddress(restaurantAddress),
		order.setDeliveryAddress(deliveryAddress),
		order.setStatus(status, courierID),
	); err != nil {
		return nil, err
	}

	if pickup != nil {
		if err := order.SetPickupPoint(*pickup); err != nil {
			return nil, err
		}
	}
	if dropoff != nil {
		if err := order.SetDropoffPoint(*dropoff); err != nil {
			return nil, err
		}
	}

	return order, nil
}

// Validate ensures the Order instance was properly constructed through a constructor.
// This prevents bypassing validation by directly instantiating the struct.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// ValidateAssign reports whether the order can currently be assigned.
func (o *Order) ValidateAssign() error {
	return o.status.ValidateAssign()
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// RestaurantAddress returns the free-text pickup address.
func (o *Order) RestaurantAddress() string {
	return o.restaurantAddress
}

// DeliveryAddress returns the free-text customer drop-off address.
func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

// PickupPoint returns the geocoded restaurant location, or nil if unresolved.
func (o *Order) PickupPoint() *kernel.GeoPoint {
	return o.pickup
}

// DropoffPoint returns the geocoded customer location, or nil if unresolved.
func (o *Order) DropoffPoint() *kernel.GeoPoint {
	return o.dropoff
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// Courier returns the assigned courier's ID, or nil if no courier is assigned.
func (o *Order) Courier() *kernel.UUID {
	return o.courierID
}

// SetPickupPoint stores the geocoded restaurant location on the order.
func (o *Order) SetPickupPoint(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}

	o.pickup = &point
	return nil
}

// SetDropoffPoint stores the geocoded customer location on the order.
func (o *Order) SetDropoffPoint(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}

	o.dropoff = &point
	return nil
}

// HasRoutePoints reports whether both pickup and dropoff coordinates are resolved.
// The route optimizer can only consider orders for which this holds.
func (o *Order) HasRoutePoints() bool {
	return o.pickup != nil && o.dropoff != nil
}

// Assign assigns the order to a courier and updates the status to Assigned.
//
// Business rules enforced:
//   - The courier ID must be valid
//   - The order must be in Pending status
//   - Once assigned, the courier reference is immutable until cancellation
//
// Returns an error if the courier ID is invalid or the transition is not allowed.
func (o *Order) Assign(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Assign()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.courierID = &courierID
	return nil
}

// Start marks the order as picked up and in transit to the customer.
func (o *Order) Start() error {
	newStatus, err := o.status.Start()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Deliver marks the order as delivered.
// Delivered is the final state in the order lifecycle.
func (o *Order) Deliver() error {
	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Cancel withdraws the order and releases its courier reference, if any.
// Only Pending and Assigned orders may be cancelled.
func (o *Order) Cancel() error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.courierID = nil
	return nil
}

// setID validates and sets the order's unique identifier.
func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

// setRestaurantAddress validates and sets the pickup address.
func (o *Order) setRestaurantAddress(address string) error {
	if address == "" {
		return ErrRestaurantAddressIsRequired
	}
	o.restaurantAddress = address
	return nil
}

// setDeliveryAddress validates and sets the customer address.
func (o *Order) setDeliveryAddress(address string) error {
	if address == "" {
		return ErrDeliveryAddressIsRequired
	}
	o.deliveryAddress = address
	return nil
}

// setStatus validates and sets the status together with its courier reference.
// Used during restoration only; live transitions go through Assign/Start/Deliver/Cancel.
func (o *Order) setStatus(status Status, courierID *kernel.UUID) error {
	if err := status.Validate(); err != nil {
		return err
	}

	if courierID != nil {
		if err := courierID.Validate(); err != nil {
			return err
		}
	}

	if err := status.ValidateCanHaveCourier(courierID != nil); err != nil {
		return err
	}

	o.status = status
	o.courierID = courierID
	return nil
}
