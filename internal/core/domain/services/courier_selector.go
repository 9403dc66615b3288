package services

import (
	"errors"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/order"
)

// ErrCourierNotFound is returned when no suitable courier is available for an order.
// This occurs when the candidate pool is empty or every candidate is excluded by
// its own service radius.
var ErrCourierNotFound = errors.New("courier not found")

// Candidate pairs a courier with its travel distance from the restaurant,
// as reported by the distance matrix. An unreachable courier carries a
// +Inf distance and never passes the radius gate.
type Candidate struct {
	Courier  *courier.Courier
	Distance float64
}

// CourierSelector is a domain service responsible for picking the best courier
// for a new order and executing the assignment on both aggregates.
//
// Selection policy:
//   - The travel distance is an eligibility gate only: a candidate is excluded
//     when the distance exceeds its own service radius, and never ranked by it
//   - Among eligible candidates the one with the fewest active orders wins;
//     a far-but-empty courier beats a near-but-busy one
//   - Ties on order count break to the nearest candidate, then to the lowest
//     courier ID, so repeated runs over the same pool are deterministic
type CourierSelector struct{}

// NewCourierSelector creates a new CourierSelector instance.
func NewCourierSelector() CourierSelector {
	return CourierSelector{}
}

// Dispatch finds the best courier among the candidates and assigns the order to it.
// Both the order and the selected courier are mutated: the order moves to Assigned
// and the courier takes the order, possibly turning its availability off.
//
// Parameters:
//   - o: The order to be dispatched (must be valid and in Pending status)
//   - candidates: Couriers paired with their travel distance from the restaurant
//
// Returns:
//   - *courier.Courier: The courier assigned to the order
//   - error: ErrCourierNotFound if no candidate qualifies, or validation errors
func (s CourierSelector) Dispatch(o *order.Order, candidates []Candidate) (*courier.Courier, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	if err := o.ValidateAssign(); err != nil {
		return nil, err
	}

	best, err := s.findBestCourier(o, candidates)
	if err != nil {
		return nil, err
	}

	if err = best.TakeOrder(o); err != nil {
		return nil, err
	}

	if err = o.Assign(best.ID()); err != nil {
		return nil, err
	}

	return best, nil
}

// findBestCourier filters the candidates through the radius gate and selects
// the least-loaded eligible courier.
func (s CourierSelector) findBestCourier(o *order.Order, candidates []Candidate) (*courier.Courier, error) {
	var (
		best         *courier.Courier
		bestDistance float64
	)

	for _, candidate := range candidates {
		c := candidate.Courier
		if err := c.Validate(); err != nil {
			return nil, err
		}

		free, err := c.CanTakeOrder(o)
		if err != nil {
			return nil, err
		}
		if !free {
			continue
		}

		if !c.CanServe(candidate.Distance) {
			continue
		}

		if best == nil || s.beats(c, candidate.Distance, best, bestDistance) {
			best = c
			bestDistance = candidate.Distance
		}
	}

	if best == nil {
		return nil, ErrCourierNotFound
	}

	return best, nil
}

// beats reports whether the challenger outranks the current best candidate.
// Order count decides; distance and then courier ID only break exact ties.
func (s CourierSelector) beats(challenger *courier.Courier, challengerDistance float64, best *courier.Courier, bestDistance float64) bool {
	if challenger.OrderCount() != best.OrderCount() {
		return challenger.OrderCount() < best.OrderCount()
	}
	if challengerDistance != bestDistance {
		return challengerDistance < bestDistance
	}
	return challenger.ID().String() < best.ID().String()
}
