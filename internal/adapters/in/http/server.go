// Package http exposes the dispatch API over Echo.
package http

import (
	"errors"
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createCourierHandler commands.CreateCourierCommandHandler
	createOrderHandler   commands.CreateOrderCommandHandler
	assignOrderHandler   commands.AssignOrderCommandHandler
	completeOrderHandler commands.CompleteOrderCommandHandler
	cancelOrderHandler   commands.CancelOrderCommandHandler

	// Query handlers
	getAllCouriersHandler  queries.GetAllCouriersQueryHandler
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createCourierHandler commands.CreateCourierCommandHandler,
	createOrderHandler commands.CreateOrderCommandHandler,
	assignOrderHandler commands.AssignOrderCommandHandler,
	completeOrderHandler commands.CompleteOrderCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	getAllCouriersHandler queries.GetAllCouriersQueryHandler,
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler,
) *Server {
	return &Server{
		createCourierHandler:   createCourierHandler,
		createOrderHandler:     createOrderHandler,
		assignOrderHandler:     assignOrderHandler,
		completeOrderHandler:   completeOrderHandler,
		cancelOrderHandler:     cancelOrderHandler,
		getAllCouriersHandler:  getAllCouriersHandler,
		getActiveOrdersHandler: getActiveOrdersHandler,
	}
}

// RegisterRoutes binds all API endpoints onto the Echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/couriers", s.CreateCourier)
	api.GET("/couriers", s.GetCouriers)
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/active", s.GetActiveOrders)
	api.POST("/orders/assign", s.AssignOrder)
	api.POST("/orders/:id/complete", s.CompleteOrder)
	api.POST("/orders/:id/cancel", s.CancelOrder)
}

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewCourierRequest is the JSON body for courier registration.
type NewCourierRequest struct {
	Name          string       `json:"name"`
	Location      LocationBody `json:"location"`
	ServiceRadius float64      `json:"service_radius"`
}

// LocationBody is a coordinate pair in request and response bodies.
type LocationBody struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// NewOrderRequest is the JSON body for order creation.
type NewOrderRequest struct {
	RestaurantAddress string `json:"restaurant_address"`
	DeliveryAddress   string `json:"delivery_address"`
}

// CreatedResponse carries the identifier of a newly created resource.
type CreatedResponse struct {
	ID string `json:"id"`
}

// CourierResponse is one courier in the monitoring read model.
type CourierResponse struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Location      LocationBody `json:"location"`
	Available     bool         `json:"available"`
	ServiceRadius float64      `json:"service_radius"`
	OrderCount    int          `json:"order_count"`
	RouteDistance float64      `json:"route_distance"`
}

// OrderResponse is one in-flight order in the read model.
type OrderResponse struct {
	ID                string  `json:"id"`
	CourierID         *string `json:"courier_id,omitempty"`
	RestaurantAddress string  `json:"restaurant_address"`
	DeliveryAddress   string  `json:"delivery_address"`
	Status            string  `json:"status"`
}

// CreateCourier handles POST /api/v1/couriers - registers a new courier.
func (s *Server) CreateCourier(ctx echo.Context) error {
	var req NewCourierRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	location, err := kernel.NewGeoPoint(req.Location.Latitude, req.Location.Longitude)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid courier location: " + err.Error(),
		})
	}

	cmd, err := commands.NewCreateCourierCommand(req.Name, location, req.ServiceRadius)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid courier data: " + err.Error(),
		})
	}

	if handleErr := s.createCourierHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return s.commandError(ctx, handleErr, "Failed to create courier")
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: cmd.CourierID().String()})
}

// GetCouriers handles GET /api/v1/couriers - retrieves all couriers.
func (s *Server) GetCouriers(ctx echo.Context) error {
	query := queries.NewGetAllCouriersQuery()

	couriers, err := s.getAllCouriersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve couriers",
		})
	}

	response := make([]CourierResponse, len(couriers))
	for i, courier := range couriers {
		response[i] = CourierResponse{
			ID:   courier.ID.String(),
			Name: courier.Name,
			Location: LocationBody{
				Latitude:  courier.Location.Lat(),
				Longitude: courier.Location.Lng(),
			},
			Available:     courier.Available,
			ServiceRadius: courier.ServiceRadius,
			OrderCount:    courier.OrderCount,
			RouteDistance: courier.RouteDistance,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// CreateOrder handles POST /api/v1/orders - creates a new order and attempts
// an immediate courier assignment.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req NewOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewCreateOrderCommand(req.RestaurantAddress, req.DeliveryAddress)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order data: " + err.Error(),
		})
	}

	if handleErr := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return s.commandError(ctx, handleErr, "Failed to create order")
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: cmd.OrderID().String()})
}

// GetActiveOrders handles GET /api/v1/orders/active - retrieves in-flight orders.
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	query, err := queries.NewGetActiveOrdersQuery()
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to build orders query",
		})
	}

	orders, err := s.getActiveOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve orders",
		})
	}

	response := make([]OrderResponse, len(orders))
	for i, order := range orders {
		var courierID *string
		if order.CourierID != nil {
			id := order.CourierID.String()
			courierID = &id
		}

		response[i] = OrderResponse{
			ID:                order.ID.String(),
			CourierID:         courierID,
			RestaurantAddress: order.RestaurantAddress,
			DeliveryAddress:   order.DeliveryAddress,
			Status:            order.Status,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// AssignOrder handles POST /api/v1/orders/assign - runs one assignment attempt
// over the oldest pending order. The background job performs the same call on
// a schedule; this endpoint exists for operational nudges.
func (s *Server) AssignOrder(ctx echo.Context) error {
	cmd := commands.NewAssignOrderCommand()

	if handleErr := s.assignOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		if errors.Is(handleErr, commands.ErrNoOrderFound) {
			return ctx.JSON(http.StatusNotFound, ErrorResponse{
				Code:    http.StatusNotFound,
				Message: "No pending orders to assign",
			})
		}
		return s.commandError(ctx, handleErr, "Failed to assign order")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CompleteOrder handles POST /api/v1/orders/:id/complete - marks an order delivered.
func (s *Server) CompleteOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order ID",
		})
	}

	cmd, err := commands.NewCompleteOrderCommand(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order data: " + err.Error(),
		})
	}

	if handleErr := s.completeOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return s.commandError(ctx, handleErr, "Failed to complete order")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/:id/cancel - cancels an order and
// frees its courier.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order ID",
		})
	}

	cmd, err := commands.NewCancelOrderCommand(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order data: " + err.Error(),
		})
	}

	if handleErr := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return s.commandError(ctx, handleErr, "Failed to cancel order")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// commandError maps domain failures onto HTTP statuses.
func (s *Server) commandError(ctx echo.Context, err error, message string) error {
	status := http.StatusInternalServerError

	var notFoundErr *errs.ObjectNotFoundError
	var invalidErr *errs.ValueIsInvalidError
	var requiredErr *errs.ValueIsRequiredError
	var rangeErr *errs.ValueIsOutOfRangeError
	switch {
	case errors.As(err, &notFoundErr):
		status = http.StatusNotFound
	case errors.As(err, &invalidErr), errors.As(err, &requiredErr), errors.As(err, &rangeErr):
		status = http.StatusBadRequest
	}

	return ctx.JSON(status, ErrorResponse{
		Code:    status,
		Message: message + ": " + err.Error(),
	})
}
