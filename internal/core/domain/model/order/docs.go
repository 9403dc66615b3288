// Package order implements the Order aggregate root and its lifecycle.
//
// An order is created in Pending status with a restaurant pickup address and a
// customer delivery address. The assignment engine moves it to Assigned when a
// courier accepts it; the delivery flow then advances it through InTransit to
// Delivered. Pending and Assigned orders may be Cancelled.
package order
