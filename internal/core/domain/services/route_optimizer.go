package services

import (
	"errors"
	"math"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// Ant colony parameters. Tuned for waypoint sets of up to a few dozen points;
// a courier at capacity contributes at most 2*MaxActiveOrders waypoints.
const (
	antCount         = 10
	iterationCount   = 100
	pheromoneWeight  = 1.0 // alpha: influence of accumulated pheromone
	heuristicWeight  = 2.0 // beta: influence of inverse distance
	evaporationRate  = 0.5
	depositConstant  = 100.0 // Q: pheromone deposited per tour, scaled by 1/length
	initialPheromone = 1.0
)

// Domain errors for route optimization.
var (
	// ErrMissingWaypoints is returned when an order lacks a geocoded pickup or
	// drop-off coordinate, making route construction impossible.
	ErrMissingWaypoints = errors.New("order is missing pickup or dropoff coordinates")
	// ErrRandIsRequired is returned when constructing an optimizer without a
	// random source.
	ErrRandIsRequired = errs.NewValueIsRequiredError("random source")
)

// Rand is the source of randomness for the optimizer's weighted draws.
// *math/rand.Rand satisfies it; tests inject a seeded instance for
// reproducible tours.
type Rand interface {
	Float64() float64
}

// RoutePlan is the result of a route optimization: the ordered waypoints the
// courier should visit (the courier's own position excluded) and the total
// travel distance of the tour including the leg from the courier's position
// to the first waypoint.
type RoutePlan struct {
	Waypoints     []kernel.GeoPoint
	TotalDistance float64
}

// RouteOptimizer computes a near-optimal visiting order over a courier's
// active pickup and drop-off waypoints using ant-colony optimization.
//
// For each optimization call a fresh pheromone matrix is built: simulated
// ants repeatedly construct tours from the courier's position, preferring
// edges that are short and that previous short tours traversed. Shorter tours
// deposit more pheromone, biasing later ants toward them, while evaporation
// keeps early random choices from dominating.
//
// The algorithm is randomized: repeated calls with identical input may return
// different routes, but every returned tour visits each waypoint exactly once.
type RouteOptimizer struct {
	rnd Rand
}

// NewRouteOptimizer creates a RouteOptimizer using the given random source.
// Production wiring passes a rand.Rand seeded from the clock; tests pass a
// fixed-seed source for deterministic results.
func NewRouteOptimizer(rnd Rand) (RouteOptimizer, error) {
	if rnd == nil {
		return RouteOptimizer{}, ErrRandIsRequired
	}
	return RouteOptimizer{rnd: rnd}, nil
}

// Optimize computes a visiting order over the pickup and drop-off points of
// the given orders, starting from the courier's current position.
//
// The waypoint set is built by appending, for each order in input order, its
// pickup coordinate followed by its drop-off coordinate. The courier position
// is a fixed start point and never revisited, so the returned plan holds
// exactly 2*len(orders) waypoints.
//
// Returns ErrMissingWaypoints if any order lacks a geocoded coordinate pair;
// the caller keeps the courier's previous route in that case. An empty order
// set yields an empty plan.
func (ro RouteOptimizer) Optimize(courierPosition kernel.GeoPoint, orders []*order.Order) (*RoutePlan, error) {
	if err := courierPosition.Validate(); err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return &RoutePlan{}, nil
	}

	waypoints := make([]kernel.GeoPoint, 0, 1+2*len(orders))
	waypoints = append(waypoints, courierPosition)
	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return nil, err
		}
		if !o.HasRoutePoints() {
			return nil, ErrMissingWaypoints
		}
		waypoints = append(waypoints, *o.PickupPoint(), *o.DropoffPoint())
	}

	distances, err := buildDistanceMatrix(waypoints)
	if err != nil {
		return nil, err
	}

	bestTour, bestLength := ro.runColony(distances)

	plan := &RoutePlan{
		Waypoints:     make([]kernel.GeoPoint, 0, len(bestTour)-1),
		TotalDistance: bestLength,
	}
	for _, idx := range bestTour[1:] {
		plan.Waypoints = append(plan.Waypoints, waypoints[idx])
	}
	return plan, nil
}

// runColony executes the ant colony over the given distance matrix and
// returns the best tour (as waypoint indices, starting at 0) with its length.
func (ro RouteOptimizer) runColony(distances [][]float64) ([]int, float64) {
	n := len(distances)

	pheromone := make([][]float64, n)
	for i := range pheromone {
		pheromone[i] = make([]float64, n)
		for j := range pheromone[i] {
			pheromone[i][j] = initialPheromone
		}
	}

	var (
		bestTour   []int
		bestLength = math.Inf(1)
	)

	for iter := 0; iter < iterationCount; iter++ {
		tours := make([][]int, 0, antCount)
		lengths := make([]float64, 0, antCount)

		for ant := 0; ant < antCount; ant++ {
			tour := ro.buildTour(distances, pheromone)
			length := tourLength(tour, distances)
			tours = append(tours, tour)
			lengths = append(lengths, length)

			if length < bestLength {
				bestLength = length
				bestTour = tour
			}
		}

		for i := range pheromone {
			for j := range pheromone[i] {
				pheromone[i][j] *= 1 - evaporationRate
			}
		}
		for i, tour := range tours {
			if lengths[i] == 0 || math.IsInf(lengths[i], 1) {
				continue
			}
			deposit := depositConstant / lengths[i]
			for k := 0; k < len(tour)-1; k++ {
				pheromone[tour[k]][tour[k+1]] += deposit
			}
		}
	}

	return bestTour, bestLength
}

// buildTour constructs one complete tour starting at index 0, choosing each
// next waypoint by a weighted random draw over pheromone and inverse distance.
func (ro RouteOptimizer) buildTour(distances, pheromone [][]float64) []int {
	n := len(distances)
	visited := make([]bool, n)
	tour := make([]int, 1, n)
	tour[0] = 0
	visited[0] = true

	current := 0
	for len(tour) < n {
		next := ro.pickNext(current, visited, distances, pheromone)
		visited[next] = true
		tour = append(tour, next)
		current = next
	}

	return tour
}

// pickNext draws the next unvisited waypoint with probability proportional to
// pheromone^alpha * (1/distance)^beta. Falls back to the first unvisited
// waypoint if every candidate weight degenerates to zero.
func (ro RouteOptimizer) pickNext(current int, visited []bool, distances, pheromone [][]float64) int {
	n := len(distances)
	weights := make([]float64, n)
	total := 0.0

	for j := 0; j < n; j++ {
		if visited[j] {
			continue
		}
		d := distances[current][j]
		if d == 0 || math.IsInf(d, 1) {
			// Coincident waypoints would divide by zero; treat them as
			// maximally attractive via a tiny stand-in distance.
			d = 1e-12
		}
		w := math.Pow(pheromone[current][j], pheromoneWeight) * math.Pow(1/d, heuristicWeight)
		weights[j] = w
		total += w
	}

	if total > 0 && !math.IsInf(total, 1) {
		r := ro.rnd.Float64() * total
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			r -= weights[j]
			if r <= 0 {
				return j
			}
		}
	}

	for j := 0; j < n; j++ {
		if !visited[j] {
			return j
		}
	}
	return current
}

// buildDistanceMatrix precomputes pairwise straight-line distances over the
// waypoints. Self-edges are infinite so no tour ever traverses them.
func buildDistanceMatrix(waypoints []kernel.GeoPoint) ([][]float64, error) {
	n := len(waypoints)
	distances := make([][]float64, n)
	for i := range distances {
		distances[i] = make([]float64, n)
		for j := range distances[i] {
			if i == j {
				distances[i][j] = math.Inf(1)
				continue
			}
			d, err := waypoints[i].EuclideanDistance(waypoints[j])
			if err != nil {
				return nil, err
			}
			distances[i][j] = d
		}
	}
	return distances, nil
}

// tourLength sums the consecutive-leg distances of a tour.
func tourLength(tour []int, distances [][]float64) float64 {
	total := 0.0
	for k := 0; k < len(tour)-1; k++ {
		total += distances[tour[k]][tour[k+1]]
	}
	return total
}
