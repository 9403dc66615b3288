package courier

import (
	"errors"
	"math"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// MaxActiveOrders is the maximum number of orders a courier may carry at once.
// Taking the last slot turns the courier's availability off automatically.
const MaxActiveOrders = 3

// Domain errors for courier operations.
var (
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrServiceRadiusIsRequired is returned when the service radius is not positive.
	ErrServiceRadiusIsRequired = errs.NewValueIsRequiredError("service radius")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
	// ErrCourierAtCapacity is returned when taking an order would exceed MaxActiveOrders.
	ErrCourierAtCapacity = errors.New("courier is at order capacity")
	// ErrCourierUnavailable is returned when assigning an order to an unavailable courier.
	ErrCourierUnavailable = errors.New("courier is not available")
	// ErrOrderAlreadyTaken is returned when the courier already carries the order.
	ErrOrderAlreadyTaken = errors.New("order is already taken by this courier")
	// ErrOrderNotTaken is returned when completing an order the courier does not carry.
	ErrOrderNotTaken = errors.New("order is not taken by this courier")
)

// Courier represents a delivery courier in the system.
// It is an aggregate root that manages courier identity, availability,
// order load, and the optimized route across its active orders.
//
// Business rules:
//   - Courier must have a valid UUID, non-empty name, and positive service radius
//   - A courier carries at most MaxActiveOrders orders at a time
//   - Taking the last available slot turns availability off
//   - Completing an order frees a slot and turns availability back on
//   - The service radius bounds how far away an order's pickup may be;
//     it never participates in ranking between eligible couriers
type Courier struct {
	// id uniquely identifies the courier
	id kernel.UUID
	// name is the human-readable name of the courier
	name string
	// location is the courier's current geographic position
	location kernel.GeoPoint
	// available reports whether the courier accepts new orders
	available bool
	// serviceRadius is the maximum pickup distance the courier serves, in meters
	serviceRadius float64
	// orderIDs are the orders currently carried by the courier
	orderIDs []kernel.UUID
	// route is the optimized visiting sequence across active order points
	route []kernel.GeoPoint
	// routeDistance is the total length of route, in meters
	routeDistance float64
	// guard ensures the courier was properly constructed
	guard guard.ConstructorGuard
}

// NewCourier creates a new Courier with the specified parameters.
// A fresh courier starts available, with no orders and no route.
//
// Parameters:
//   - id: Unique identifier for the courier (must be valid UUID)
//   - name: Human-readable name (must be non-empty)
//   - location: Current geographic position (must be a constructed GeoPoint)
//   - serviceRadius: Maximum pickup distance in meters (must be positive)
//
// Returns:
//   - *Courier: A fully initialized courier ready for assignment
//   - error: Validation error if any parameter is invalid (aggregated for multiple issues)
func NewCourier(id kernel.UUID, name string, location kernel.GeoPoint, serviceRadius float64) (*Courier, error) {
	courier := &Courier{
		available: true,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		courier.setID(id),
		courier.setName(name),
		courier.setLocation(location),
		courier.setServiceRadius(serviceRadius),
	); err != nil {
		return nil, err
	}

	return courier, nil
}

// RestoreCourier reconstructs a Courier aggregate from persistent storage.
// Unlike NewCourier, it restores availability, the carried order set, and the
// last optimized route exactly as they were persisted.
//
// The restored courier must still satisfy the capacity invariant: the order
// set may not exceed MaxActiveOrders, and a courier at capacity may not be
// marked available.
func RestoreCourier(
	id kernel.UUID,
	name string,
	location kernel.GeoPoint,
	available bool,
	serviceRadius float64,
	orderIDs []kernel.UUID,
	route []kernel.GeoPoint,
	routeDistance float64,
) (*Courier, error) {
	courier := &Courier{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		courier.setID(id),
		courier.setName(name),
		courier.setLocation(location),
		courier.setServiceRadius(serviceRadius),
		courier.setOrderIDs(orderIDs),
		courier.setAvailability(available),
		courier.setRoute(route, routeDistance),
	); err != nil {
		return nil, err
	}

	return courier, nil
}

// IsEqual compares two couriers by their unique identifiers.
func (c *Courier) IsEqual(other *Courier) bool {
	if other == nil {
		return false
	}
	return c.id.IsEqual(other.id)
}

// Validate checks if the Courier was properly constructed using a constructor.
// The zero value of Courier is invalid and fails this validation.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// ID returns the unique identifier of the courier.
func (c *Courier) ID() kernel.UUID {
	return c.id
}

// Name returns the human-readable name of the courier.
func (c *Courier) Name() string {
	return c.name
}

// Location returns the courier's current geographic position.
func (c *Courier) Location() kernel.GeoPoint {
	return c.location
}

// IsAvailable reports whether the courier currently accepts new orders.
func (c *Courier) IsAvailable() bool {
	return c.available
}

// ServiceRadius returns the maximum pickup distance the courier serves, in meters.
func (c *Courier) ServiceRadius() float64 {
	return c.serviceRadius
}

// OrderCount returns the number of orders the courier currently carries.
func (c *Courier) OrderCount() int {
	return len(c.orderIDs)
}

// OrderIDs returns the orders currently carried by the courier.
// The returned slice is a copy to prevent external modification.
func (c *Courier) OrderIDs() []kernel.UUID {
	out := make([]kernel.UUID, len(c.orderIDs))
	copy(out, c.orderIDs)
	return out
}

// Route returns the optimized visiting sequence across active order points.
// The returned slice is a copy to prevent external modification.
func (c *Courier) Route() []kernel.GeoPoint {
	out := make([]kernel.GeoPoint, len(c.route))
	copy(out, c.route)
	return out
}

// RouteDistance returns the total length of the current route, in meters.
func (c *Courier) RouteDistance() float64 {
	return c.routeDistance
}

// CanServe reports whether a pickup at the given travel distance falls within
// the courier's service radius. The distance is a travel distance in meters,
// as produced by the distance matrix; an unreachable (+Inf) distance is never
// within any radius.
func (c *Courier) CanServe(distance float64) bool {
	return !math.IsNaN(distance) && distance <= c.serviceRadius
}

// CanTakeOrder checks if the courier can accept a specific order without
// actually taking it. The check covers availability and order capacity only;
// the service radius gate requires a travel distance and is applied via CanServe.
//
// Returns false with no error when the courier is unavailable or at capacity.
func (c *Courier) CanTakeOrder(o *order.Order) (bool, error) {
	if err := o.Validate(); err != nil {
		return false, err
	}

	return c.available && len(c.orderIDs) < MaxActiveOrders, nil
}

// TakeOrder assigns an order to the courier.
//
// Business rules:
//   - The courier must be available and below MaxActiveOrders
//   - The same order cannot be taken twice
//   - Taking the last available slot turns availability off
//
// Returns ErrCourierUnavailable, ErrCourierAtCapacity, or ErrOrderAlreadyTaken
// when the corresponding rule is violated.
func (c *Courier) TakeOrder(o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}

	if !c.available {
		return ErrCourierUnavailable
	}
	if len(c.orderIDs) >= MaxActiveOrders {
		return ErrCourierAtCapacity
	}
	if c.carriesOrder(o.ID()) {
		return ErrOrderAlreadyTaken
	}

	c.orderIDs = append(c.orderIDs, o.ID())
	if len(c.orderIDs) == MaxActiveOrders {
		c.available = false
	}
	return nil
}

// CompleteOrder removes a delivered or cancelled order from the courier's load.
// Freeing a slot turns availability back on.
//
// Returns ErrOrderNotTaken if the courier does not carry the order.
func (c *Courier) CompleteOrder(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	for i, id := range c.orderIDs {
		if id.IsEqual(orderID) {
			c.orderIDs = append(c.orderIDs[:i], c.orderIDs[i+1:]...)
			c.available = true
			return nil
		}
	}

	return ErrOrderNotTaken
}

// SetLocation updates the courier's current geographic position.
func (c *Courier) SetLocation(location kernel.GeoPoint) error {
	return c.setLocation(location)
}

// SetAvailability flips the courier's availability flag.
// A courier at capacity cannot be marked available.
func (c *Courier) SetAvailability(available bool) error {
	return c.setAvailability(available)
}

// SetRoute stores a newly optimized route and its total distance.
// Passing an empty route with zero distance clears the current route.
func (c *Courier) SetRoute(route []kernel.GeoPoint, distance float64) error {
	return c.setRoute(route, distance)
}

// carriesOrder reports whether the courier currently carries the given order.
func (c *Courier) carriesOrder(orderID kernel.UUID) bool {
	for _, id := range c.orderIDs {
		if id.IsEqual(orderID) {
			return true
		}
	}
	return false
}

// setID sets the courier's unique identifier with validation.
func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.id = id
	return nil
}

// setName sets the courier's name with validation.
func (c *Courier) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}

	c.name = name
	return nil
}

// setLocation sets the courier's current location with validation.
func (c *Courier) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}

	c.location = location
	return nil
}

// setServiceRadius sets the courier's service radius with validation.
func (c *Courier) setServiceRadius(radius float64) error {
	if math.IsNaN(radius) || radius <= 0 {
		return ErrServiceRadiusIsRequired
	}

	c.serviceRadius = radius
	return nil
}

// setOrderIDs sets the carried order set during restoration.
func (c *Courier) setOrderIDs(orderIDs []kernel.UUID) error {
	if len(orderIDs) > MaxActiveOrders {
		return errs.NewValueIsInvalidError("order count exceeds capacity")
	}

	for _, id := range orderIDs {
		if err := id.Validate(); err != nil {
			return err
		}
	}

	c.orderIDs = make([]kernel.UUID, len(orderIDs))
	copy(c.orderIDs, orderIDs)
	return nil
}

// setAvailability sets the availability flag, enforcing the capacity invariant.
func (c *Courier) setAvailability(available bool) error {
	if available && len(c.orderIDs) >= MaxActiveOrders {
		return ErrCourierAtCapacity
	}

	c.available = available
	return nil
}

// setRoute sets the optimized route and its total distance with validation.
func (c *Courier) setRoute(route []kernel.GeoPoint, distance float64) error {
	if math.IsNaN(distance) || distance < 0 {
		return errs.NewValueIsInvalidError("route distance is negative")
	}

	for _, point := range route {
		if err := point.Validate(); err != nil {
			return err
		}
	}

	c.route = make([]kernel.GeoPoint, len(route))
	copy(c.route, route)
	c.routeDistance = distance
	return nil
}
