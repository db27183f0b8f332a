package app

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"parkhub/internal/cache"
	"parkhub/internal/config"
	"parkhub/internal/db"
	httpserver "parkhub/internal/http"
	"parkhub/internal/http/handlers"
	"parkhub/internal/http/middleware"
	"parkhub/internal/jobs"
	"parkhub/internal/password"
	"parkhub/internal/redisclient"
	"parkhub/internal/repository"
	"parkhub/internal/service"
	"parkhub/internal/ws"
)

// App wires the API server dependency graph.
type App struct {
	server      *httpserver.Server
	db          *sql.DB
	redisClient *redis.Client
	producer    *jobs.Producer
	logger      *zap.Logger
}

// New constructs the application graph. Redis and Kafka are optional
// collaborators: if either is unreachable at startup the app runs without
// caching or export jobs respectively.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	var redisClient *redis.Client
	var cc service.Cache
	if client, err := redisclient.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		logger.Warn("redis unavailable, caching disabled", zap.Error(err))
	} else {
		redisClient = client
		cc = cache.New(client, logger)
	}

	var producer *jobs.Producer
	var queue service.Queue
	if p, err := jobs.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger); err != nil {
		logger.Warn("job queue unavailable, exports disabled", zap.Error(err))
	} else {
		producer = p
		queue = p
	}

	hub := ws.NewHub(logger)

	userRepo := repository.NewUserRepository(sqlDB)
	lotRepo := repository.NewLotRepository(sqlDB)
	bookingRepo := repository.NewBookingRepository(sqlDB)
	statsRepo := repository.NewStatsRepository(sqlDB)

	hasher := password.NewBcryptHasher(0)
	tokens := service.NewTokenService(cfg.JWT.Secret, cfg.TokenTTL())

	authService := service.NewAuthService(userRepo, hasher, tokens, cc, logger)
	parkingService := service.NewParkingService(lotRepo, cc, hub, logger)
	bookingService := service.NewBookingService(bookingRepo, lotRepo, cc, queue, hub, logger)
	adminService := service.NewAdminService(statsRepo, userRepo, cc, logger)

	routes := httpserver.Routes{
		Register:     handlers.NewRegisterHandler(authService),
		Login:        handlers.NewLoginHandler(authService),
		ListLots:     handlers.NewAvailableLotsHandler(parkingService),
		Book:         handlers.NewBookHandler(bookingService),
		Release:      handlers.NewReleaseHandler(bookingService),
		Bookings:     handlers.NewBookingsHandler(bookingService),
		UserSummary:  handlers.NewUserSummaryHandler(bookingService),
		ExportCSV:    handlers.NewExportHandler(bookingService),
		CreateLot:    handlers.NewCreateLotHandler(parkingService),
		AdminLots:    handlers.NewAdminLotsHandler(parkingService),
		LotDetail:    handlers.NewLotDetailHandler(parkingService),
		UpdateLot:    handlers.NewUpdateLotHandler(parkingService),
		DeleteLot:    handlers.NewDeleteLotHandler(parkingService),
		AdminSummary: handlers.NewAdminSummaryHandler(adminService),
		AdminUsers:   handlers.NewAdminUsersHandler(adminService),
		Occupancy:    hub.Handler(),
		Health:       handlers.NewHealthHandler(),
	}

	router := httpserver.NewRouter(routes, middleware.Auth(tokens))
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server:      server,
		db:          sqlDB,
		redisClient: redisClient,
		producer:    producer,
		logger:      logger,
	}, nil
}

// Run starts HTTP server.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("failed to close job producer", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
