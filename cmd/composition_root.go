package cmd

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"dispatch/internal/adapters/out/geo"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/rediscache"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/services"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	assigner   commands.OrderAssigner
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (CompositionRoot, error) {
	geoTimeout, err := time.ParseDuration(config.GeoTimeout)
	if err != nil || geoTimeout <= 0 {
		geoTimeout = 10 * time.Second
	}
	geocodeTTL, err := time.ParseDuration(config.GeocodeTTL)
	if err != nil || geocodeTTL <= 0 {
		geocodeTTL = geo.DefaultGeocodeTTL
	}

	geocodeProvider, err := geo.NewHTTPGeocodeProvider(config.GeoBaseURL, config.GeoAPIKey, geoTimeout)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("create geocode provider: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
	})
	cacheStore, err := rediscache.NewStore(redisClient)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("create cache store: %w", err)
	}

	geocoder, err := geo.NewCachedGeocoder(geocodeProvider, cacheStore, geocodeTTL, logger)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("create geocoder: %w", err)
	}

	distanceMatrix, err := geo.NewHTTPDistanceMatrixClient(config.GeoBaseURL, config.GeoAPIKey, geoTimeout)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("create distance matrix client: %w", err)
	}

	optimizer, err := services.NewRouteOptimizer(rand.New(rand.NewSource(time.Now().UnixNano())))
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("create route optimizer: %w", err)
	}

	assigner, err := commands.NewOrderAssigner(geocoder, distanceMatrix, optimizer, logger)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("create order assigner: %w", err)
	}

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		assigner:   assigner,
		logger:     logger,
	}, nil
}

func (c *CompositionRoot) CreateCreateCourierCommandHandler() commands.CreateCourierCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateCourierCommandHandler(f)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.crossAggregateUoWFactory(), c.assigner)
}

func (c *CompositionRoot) CreateAssignOrderCommandHandler() commands.AssignOrderCommandHandler {
	return commands.NewAssignOrderCommandHandler(c.crossAggregateUoWFactory(), c.assigner)
}

func (c *CompositionRoot) CreateCompleteOrderCommandHandler() commands.CompleteOrderCommandHandler {
	return commands.NewCompleteOrderCommandHandler(c.crossAggregateUoWFactory(), c.assigner)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.crossAggregateUoWFactory(), c.assigner)
}

func (c *CompositionRoot) CreateGetAllCouriersQueryHandler() queries.GetAllCouriersQueryHandler {
	return queries.NewGetAllCouriersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) crossAggregateUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
