package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewCancelOrderCommand(t *testing.T) {
	t.Run("creates command with valid order ID", func(t *testing.T) {
		id := kernel.NewUUID()

		cmd, err := commands.NewCancelOrderCommand(id)

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.True(t, cmd.OrderID().IsEqual(id))
	})

	t.Run("zero-value command fails validation", func(t *testing.T) {
		var cmd commands.CancelOrderCommand

		require.ErrorIs(t, cmd.Validate(), commands.ErrCancelOrderCommandIsNotConstructed)
	})
}

func TestCancelOrderCommandHandler_Handle_PendingOrder(t *testing.T) {
	ctx := t.Context()
	testOrder := testPendingOrder(t)
	cmd, err := commands.NewCancelOrderCommand(testOrder.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("CourierRepository").Return(courierRepo)
	orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once()
	orderRepo.On("Update", ctx, testOrder).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCancelOrderCommandHandler(
		factory, testAssigner(t, new(MockGeocoder), new(MockDistanceMatrixClient)))
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, testOrder.Status())
	courierRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestCancelOrderCommandHandler_Handle_AssignedOrderFreesCourier(t *testing.T) {
	ctx := t.Context()

	testCourier := loadedCourier(t, "Alice", 10000, 0)
	testOrder := testPendingOrder(t)
	require.NoError(t, testCourier.TakeOrder(testOrder))
	require.NoError(t, testOrder.Assign(testCourier.ID()))

	cmd, err := commands.NewCancelOrderCommand(testOrder.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("CourierRepository").Return(courierRepo)
	orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once()
	orderRepo.On("Update", ctx, testOrder).Return(nil).Once()
	courierRepo.On("Get", ctx, testCourier.ID()).Return(testCourier, nil).Once()
	orderRepo.On("GetActiveByCourier", ctx, testCourier.ID()).
		Return([]*order.Order{}, nil).Once()
	courierRepo.On("Update", ctx, testCourier).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCancelOrderCommandHandler(
		factory, testAssigner(t, new(MockGeocoder), new(MockDistanceMatrixClient)))
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, testOrder.Status())
	assert.Nil(t, testOrder.Courier())
	assert.Zero(t, testCourier.OrderCount())
	orderRepo.AssertExpectations(t)
	courierRepo.AssertExpectations(t)
}

func TestCancelOrderCommandHandler_Handle_InTransitOrderFails(t *testing.T) {
	ctx := t.Context()

	testOrder := testPendingOrder(t)
	require.NoError(t, testOrder.Assign(kernel.NewUUID()))
	require.NoError(t, testOrder.Start())

	cmd, err := commands.NewCancelOrderCommand(testOrder.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("CourierRepository").Return(new(MockCourierRepository))
	orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCancelOrderCommandHandler(
		factory, testAssigner(t, new(MockGeocoder), new(MockDistanceMatrixClient)))
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Equal(t, order.InTransit, testOrder.Status())
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
