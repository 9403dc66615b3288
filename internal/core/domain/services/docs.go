// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the dispatch system. It implements complex
// business workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - CourierSelector: selects and assigns the best courier for a new order
//   - RouteOptimizer: computes a near-optimal visiting order over a courier's
//     active pickup and drop-off waypoints using ant-colony optimization
//
// Domain services coordinate between aggregates, implementing business logic that
// spans multiple bounded contexts following Domain-Driven Design principles.
package services
