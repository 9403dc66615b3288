package commands_test

import (
	"errors"
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAssignOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewAssignOrderCommand()

	testOrder := testPendingOrder(t)
	// Courier already carrying two orders: this assignment fills the last slot.
	testCourier := loadedCourier(t, "Alice", 10000, 2)
	pickup := testGeoPoint(t, 41.03, 28.98)
	dropoff := testGeoPoint(t, 41.05, 29.02)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)
	geocoder := new(MockGeocoder)
	distances := new(MockDistanceMatrixClient)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("CourierRepository").Return(courierRepo)
	orderRepo.On("GetFirstInPendingStatus", ctx).Return(testOrder, nil).Once()
	geocoder.On("Resolve", ctx, testOrder.RestaurantAddress()).Return(pickup, nil).Once()
	geocoder.On("Resolve", ctx, testOrder.DeliveryAddress()).Return(dropoff, nil).Once()
	courierRepo.On("GetAllAvailable", ctx).Return([]*courier.Courier{testCourier}, nil).Once()
	distances.On("Distances", ctx, pickup, mock.Anything).
		Return([]ports.DistanceResult{{Distance: 3000}}, nil).Once()
	orderRepo.On("Update", ctx, testOrder).Return(nil).Once()
	orderRepo.On("GetActiveByCourier", ctx, testCourier.ID()).
		Return([]*order.Order{testOrder}, nil).Once()
	courierRepo.On("Update", ctx, testCourier).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignOrderCommandHandler(factory, testAssigner(t, geocoder, distances))
	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Assigned, testOrder.Status())
	assert.True(t, testOrder.Courier().IsEqual(testCourier.ID()))
	assert.Equal(t, courier.MaxActiveOrders, testCourier.OrderCount())
	assert.False(t, testCourier.IsAvailable(), "third order must flip availability off")
	assert.Len(t, testCourier.Route(), 2, "route covers the order's pickup and dropoff")
	assert.Positive(t, testCourier.RouteDistance())
	orderRepo.AssertExpectations(t)
	courierRepo.AssertExpectations(t)
	geocoder.AssertExpectations(t)
	distances.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestAssignOrderCommandHandler_Handle_GeocodeMiss(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewAssignOrderCommand()

	testOrder := testPendingOrder(t)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	geocoder := new(MockGeocoder)
	distances := new(MockDistanceMatrixClient)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("CourierRepository").Return(new(MockCourierRepository))
	orderRepo.On("GetFirstInPendingStatus", ctx).Return(testOrder, nil).Once()
	geocoder.On("Resolve", ctx, testOrder.RestaurantAddress()).
		Return(nil, errs.NewObjectNotFoundError("address", testOrder.RestaurantAddress())).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignOrderCommandHandler(factory, testAssigner(t, geocoder, distances))
	err := handler.Handle(ctx, cmd)

	require.NoError(t, err, "geocode failure is a no-assignment outcome, not an error")
	assert.Equal(t, order.Pending, testOrder.Status())
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	distances.AssertNotCalled(t, "Distances", mock.Anything, mock.Anything, mock.Anything)
}

func TestAssignOrderCommandHandler_Handle_DistanceLookupFailure(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewAssignOrderCommand()

	testOrder := testPendingOrder(t)
	testCourier := loadedCourier(t, "Alice", 10000, 1)
	pickup := testGeoPoint(t, 41.03, 28.98)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)
	geocoder := new(MockGeocoder)
	distances := new(MockDistanceMatrixClient)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("CourierRepository").Return(courierRepo)
	orderRepo.On("GetFirstInPendingStatus", ctx).Return(testOrder, nil).Once()
	geocoder.On("Resolve", ctx, testOrder.RestaurantAddress()).Return(pickup, nil).Once()
	geocoder.On("Resolve", ctx, testOrder.DeliveryAddress()).
		Return(testGeoPoint(t, 41.05, 29.02), nil).Once()
	courierRepo.On("GetAllAvailable", ctx).Return([]*courier.Courier{testCourier}, nil).Once()
	distances.On("Distances", ctx, pickup, mock.Anything).
		Return(nil, errs.NewDistanceLookupError("request timed out")).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignOrderCommandHandler(factory, testAssigner(t, geocoder, distances))
	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Pending, testOrder.Status())
	assert.Equal(t, 1, testCourier.OrderCount(), "no courier state is mutated")
	courierRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAssignOrderCommandHandler_Handle_NoCourierInRadius(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewAssignOrderCommand()

	testOrder := testPendingOrder(t)
	// Sole candidate is 5000m away but only serves 2000m.
	testCourier := loadedCourier(t, "Zoe", 2000, 0)
	pickup := testGeoPoint(t, 41.03, 28.98)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)
	geocoder := new(MockGeocoder)
	distances := new(MockDistanceMatrixClient)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("CourierRepository").Return(courierRepo)
	orderRepo.On("GetFirstInPendingStatus", ctx).Return(testOrder, nil).Once()
	geocoder.On("Resolve", ctx, testOrder.RestaurantAddress()).Return(pickup, nil).Once()
	geocoder.On("Resolve", ctx, testOrder.DeliveryAddress()).
		Return(testGeoPoint(t, 41.05, 29.02), nil).Once()
	courierRepo.On("GetAllAvailable", ctx).Return([]*courier.Courier{testCourier}, nil).Once()
	distances.On("Distances", ctx, pickup, mock.Anything).
		Return([]ports.DistanceResult{{Distance: 5000}}, nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignOrderCommandHandler(factory, testAssigner(t, geocoder, distances))
	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Pending, testOrder.Status())
	assert.Zero(t, testCourier.OrderCount())
}

func TestAssignOrderCommandHandler_Handle_NoOrderFound(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewAssignOrderCommand()

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	orderRepo.On("GetFirstInPendingStatus", ctx).Return(nil, errs.ErrObjectNotFound).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignOrderCommandHandler(
		factory, testAssigner(t, new(MockGeocoder), new(MockDistanceMatrixClient)))
	err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrNoOrderFound)
}

func TestAssignOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	factory := new(MockUoWFactory)

	handler := commands.NewAssignOrderCommandHandler(
		factory, testAssigner(t, new(MockGeocoder), new(MockDistanceMatrixClient)))
	err := handler.Handle(ctx, commands.AssignOrderCommand{})

	require.ErrorIs(t, err, commands.ErrAssignOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestAssignOrderCommandHandler_Handle_UpdateOrderError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewAssignOrderCommand()

	testOrder := testPendingOrder(t)
	testCourier := loadedCourier(t, "Alice", 10000, 0)
	pickup := testGeoPoint(t, 41.03, 28.98)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)
	geocoder := new(MockGeocoder)
	distances := new(MockDistanceMatrixClient)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("CourierRepository").Return(courierRepo)
	orderRepo.On("GetFirstInPendingStatus", ctx).Return(testOrder, nil).Once()
	geocoder.On("Resolve", ctx, testOrder.RestaurantAddress()).Return(pickup, nil).Once()
	geocoder.On("Resolve", ctx, testOrder.DeliveryAddress()).
		Return(testGeoPoint(t, 41.05, 29.02), nil).Once()
	courierRepo.On("GetAllAvailable", ctx).Return([]*courier.Courier{testCourier}, nil).Once()
	distances.On("Distances", ctx, pickup, mock.Anything).
		Return([]ports.DistanceResult{{Distance: 1000}}, nil).Once()
	orderRepo.On("Update", ctx, testOrder).Return(errors.New("update error")).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignOrderCommandHandler(factory, testAssigner(t, geocoder, distances))
	err := handler.Handle(ctx, cmd)

	require.EqualError(t, err, "update error")
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestAssignOrderCommandHandler_Handle_OptimizerFailureDoesNotBlock(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewAssignOrderCommand()

	testOrder := testPendingOrder(t)
	testCourier := loadedCourier(t, "Alice", 10000, 0)
	pickup := testGeoPoint(t, 41.03, 28.98)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)
	geocoder := new(MockGeocoder)
	distances := new(MockDistanceMatrixClient)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("CourierRepository").Return(courierRepo)
	orderRepo.On("GetFirstInPendingStatus", ctx).Return(testOrder, nil).Once()
	geocoder.On("Resolve", ctx, testOrder.RestaurantAddress()).Return(pickup, nil).Once()
	// Delivery address cannot be geocoded: assignment proceeds, optimizer cannot.
	geocoder.On("Resolve", ctx, testOrder.DeliveryAddress()).
		Return(nil, errs.NewUnavailableError("geocoding")).Once()
	courierRepo.On("GetAllAvailable", ctx).Return([]*courier.Courier{testCourier}, nil).Once()
	distances.On("Distances", ctx, pickup, mock.Anything).
		Return([]ports.DistanceResult{{Distance: 1000}}, nil).Once()
	orderRepo.On("Update", ctx, testOrder).Return(nil).Once()
	orderRepo.On("GetActiveByCourier", ctx, testCourier.ID()).
		Return([]*order.Order{testOrder}, nil).Once()
	courierRepo.On("Update", ctx, testCourier).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignOrderCommandHandler(factory, testAssigner(t, geocoder, distances))
	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Assigned, testOrder.Status())
	assert.Empty(t, testCourier.Route(), "previous route stays untouched on optimizer failure")
}
