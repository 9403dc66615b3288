package commands

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// Constructor validation errors for OrderAssigner.
var (
	ErrGeocoderIsRequired             = errs.NewValueIsRequiredError("geocoder")
	ErrDistanceMatrixClientIsRequired = errs.NewValueIsRequiredError("distance matrix client")
	ErrLoggerIsRequired               = errs.NewValueIsRequiredError("logger")
)

// OrderAssigner is the courier assignment engine. It runs inside the caller's
// unit of work so that the order mutation, the courier mutation, and the route
// refresh commit or roll back as one.
//
// Failure policy:
//   - Geocode and distance lookup failures are converted into a "no
//     assignment" outcome (nil courier, nil error); order creation must
//     succeed even when no courier can be found
//   - Route optimization failures are logged and never propagated; the
//     courier keeps its previous route
//   - Persistence failures propagate so the enclosing transaction aborts
type OrderAssigner struct {
	geocoder  ports.Geocoder
	distances ports.DistanceMatrixClient
	selector  services.CourierSelector
	optimizer services.RouteOptimizer
	logger    *slog.Logger
}

// NewOrderAssigner creates an assignment engine from its collaborators.
func NewOrderAssigner(
	geocoder ports.Geocoder,
	distances ports.DistanceMatrixClient,
	optimizer services.RouteOptimizer,
	logger *slog.Logger,
) (OrderAssigner, error) {
	if geocoder == nil {
		return OrderAssigner{}, ErrGeocoderIsRequired
	}
	if distances == nil {
		return OrderAssigner{}, ErrDistanceMatrixClientIsRequired
	}
	if logger == nil {
		return OrderAssigner{}, ErrLoggerIsRequired
	}

	return OrderAssigner{
		geocoder:  geocoder,
		distances: distances,
		selector:  services.NewCourierSelector(),
		optimizer: optimizer,
		logger:    logger,
	}, nil
}

// Assign finds the best courier for a pending order and executes the
// assignment within the given unit of work. The order must already be
// persisted; Assign updates it in place.
//
// Returns (nil, nil) when no courier could be assigned: the restaurant could
// not be geocoded, the candidate pool is empty, the distance lookup failed,
// or no candidate passed the radius gate. The order stays Pending in all of
// those cases.
func (a OrderAssigner) Assign(ctx context.Context, uow UoW, o *order.Order) (*courier.Courier, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if err := o.ValidateAssign(); err != nil {
		return nil, err
	}

	pickup, err := a.geocoder.Resolve(ctx, o.RestaurantAddress())
	if err != nil {
		a.logger.Warn("restaurant geocoding failed, leaving order pending",
			"order_id", o.ID().String(), "error", err)
		return nil, nil
	}
	if err = o.SetPickupPoint(pickup); err != nil {
		return nil, err
	}

	// The drop-off coordinate only feeds route optimization; its absence must
	// not block assignment.
	if dropoff, resolveErr := a.geocoder.Resolve(ctx, o.DeliveryAddress()); resolveErr != nil {
		a.logger.Warn("delivery address geocoding failed",
			"order_id", o.ID().String(), "error", resolveErr)
	} else if err = o.SetDropoffPoint(dropoff); err != nil {
		return nil, err
	}

	courierRepo := uow.CourierRepository()
	orderRepo := uow.OrderRepository()

	pool, err := courierRepo.GetAllAvailable(ctx)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		a.logger.Info("no available couriers", "order_id", o.ID().String())
		return nil, nil
	}

	candidates, err := a.rankCandidates(ctx, pickup, pool)
	if err != nil {
		a.logger.Warn("distance lookup failed, leaving order pending",
			"order_id", o.ID().String(), "error", err)
		return nil, nil
	}

	selected, err := a.selector.Dispatch(o, candidates)
	if errors.Is(err, services.ErrCourierNotFound) {
		a.logger.Info("no courier within service radius", "order_id", o.ID().String())
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	a.refreshRoute(ctx, orderRepo, selected)

	if err = courierRepo.Update(ctx, selected); err != nil {
		return nil, err
	}

	return selected, nil
}

// rankCandidates pairs each pool member with its travel distance from the
// restaurant. Unreachable couriers carry the +Inf sentinel and fail the
// radius gate naturally.
func (a OrderAssigner) rankCandidates(
	ctx context.Context,
	pickup kernel.GeoPoint,
	pool []*courier.Courier,
) ([]services.Candidate, error) {
	destinations := make([]kernel.GeoPoint, len(pool))
	for i, c := range pool {
		destinations[i] = c.Location()
	}

	results, err := a.distances.Distances(ctx, pickup, destinations)
	if err != nil {
		return nil, err
	}

	candidates := make([]services.Candidate, len(pool))
	for i, c := range pool {
		candidates[i] = services.Candidate{Courier: c, Distance: results[i].Distance}
	}
	return candidates, nil
}

// refreshRoute reruns the optimizer over the courier's active orders and
// stores the result on the aggregate. Any failure keeps the previous route.
func (a OrderAssigner) refreshRoute(ctx context.Context, orderRepo ports.OrderRepository, c *courier.Courier) {
	active, err := orderRepo.GetActiveByCourier(ctx, c.ID())
	if err != nil {
		a.logger.Warn("route optimization skipped: loading active orders failed",
			"courier_id", c.ID().String(), "error", err)
		return
	}

	plan, err := a.optimizer.Optimize(c.Location(), active)
	if err != nil {
		a.logger.Warn("route optimization failed, keeping previous route",
			"courier_id", c.ID().String(), "error", err)
		return
	}

	if err = c.SetRoute(plan.Waypoints, plan.TotalDistance); err != nil {
		a.logger.Warn("route optimization produced an invalid route",
			"courier_id", c.ID().String(), "error", err)
	}
}
