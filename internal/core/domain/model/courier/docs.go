// Package courier implements the Courier aggregate root.
//
// A courier has a geographic location, a service radius limiting how far away
// an order's restaurant may be, and an availability flag. A courier carries at
// most MaxActiveOrders orders at a time; reaching the cap turns availability
// off until an order completes. The courier also holds its current optimized
// route, recalculated whenever the set of active orders changes.
package courier
