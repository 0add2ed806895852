package app

import (
	"context"
	"database/sql"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"evmarket/internal/config"
	httpserver "evmarket/internal/http"
	"evmarket/internal/http/handlers"
	"evmarket/internal/redisstore"
	"evmarket/internal/repository"
	"evmarket/internal/service"
	"evmarket/internal/ws"
	"evmarket/libs/db"
	libredis "evmarket/libs/redis"
)

// App wires marketplace service dependencies.
type App struct {
	server *httpserver.Server
	db     *sql.DB
	redis  *goredis.Client
	logger *zap.Logger
}

// New constructs application graph.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgresDB(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	if err := repository.Migrate(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	var redisClient *goredis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = libredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
	} else {
		logger.Warn("redis not configured, station cache and payment ledger disabled")
	}

	stationRepo := repository.NewStationRepository(sqlDB)
	bookingRepo := repository.NewBookingRepository(sqlDB)
	userRepo := repository.NewUserRepository(sqlDB)

	var (
		stationCache  service.StationCache
		paymentLedger service.PaymentLedger
		verifier      service.PaymentVerifier
	)
	if redisClient != nil {
		stationCache = redisstore.NewStationCache(redisClient, cfg.Cache.StationTTL)
		ledger := redisstore.NewPaymentLedger(redisClient, cfg.Payment.LedgerTTL)
		paymentLedger = ledger
		verifier = ledger
	}

	hub := ws.NewHub(logger)
	go hub.Run()

	stationService := service.NewStationService(stationRepo, stationCache, logger)
	paymentService := service.NewPaymentService(paymentLedger, logger, cfg.Payment.Delay, cfg.Payment.SuccessRate)
	bookingService := service.NewBookingService(stationRepo, bookingRepo, verifier, hub, logger)
	userService := service.NewUserService(userRepo, logger)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		Stations: handlers.NewStationsHandlers(stationService, logger),
		Bookings: handlers.NewBookingsHandlers(bookingService, logger),
		Payments: handlers.NewPaymentsHandlers(paymentService, logger),
		Users:    handlers.NewUsersHandlers(userService, logger),
		Events:   handlers.NewEventsHandler(hub, logger),
		Health:   handlers.NewHealthHandler(),
	}, logger)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server: server,
		db:     sqlDB,
		redis:  redisClient,
		logger: logger,
	}, nil
}

// Run starts HTTP server.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
