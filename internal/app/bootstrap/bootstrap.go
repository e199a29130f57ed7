package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	channelservice "shopsync/contexts/community/channel-service"
	channelpostgres "shopsync/contexts/community/channel-service/adapters/postgres"
	channelworkers "shopsync/contexts/community/channel-service/application/workers"
	chatservice "shopsync/contexts/community/chat-service"
	chatpostgres "shopsync/contexts/community/chat-service/adapters/postgres"
	chatworkers "shopsync/contexts/community/chat-service/application/workers"
	roomservice "shopsync/contexts/community/room-service"
	roompostgres "shopsync/contexts/community/room-service/adapters/postgres"
	roomworkers "shopsync/contexts/community/room-service/application/workers"
	userservice "shopsync/contexts/identity/user-service"
	userpostgres "shopsync/contexts/identity/user-service/adapters/postgres"
	cartservice "shopsync/contexts/shopping/cart-service"
	cartpostgres "shopsync/contexts/shopping/cart-service/adapters/postgres"
	cartredis "shopsync/contexts/shopping/cart-service/adapters/redis"
	cartworkers "shopsync/contexts/shopping/cart-service/application/workers"
	catalogservice "shopsync/contexts/shopping/catalog-service"
	catalogpostgres "shopsync/contexts/shopping/catalog-service/adapters/postgres"
	"shopsync/internal/platform/config"
	"shopsync/internal/platform/db"
	"shopsync/internal/platform/httpserver"
	"shopsync/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres        *db.Postgres
	outboxRelay     cartworkers.OutboxRelay
	chatConsumer    chatworkers.CartEventConsumer
	roomConsumer    roomworkers.CartActivityConsumer
	channelConsumer channelworkers.CartTrendingConsumer
	pollInterval    time.Duration
	logger          *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	switch cfg.StorageDriver {
	case "memory":
		server := httpserver.New(
			cartservice.NewInMemoryModule(logger),
			catalogservice.NewInMemoryModule(logger),
			roomservice.NewInMemoryModule(logger),
			channelservice.NewInMemoryModule(logger),
			chatservice.NewInMemoryModule(logger),
			userservice.NewInMemoryModule(logger),
			logger,
			normalizeAddr(cfg.HTTPPort),
		)
		return &APIApp{server: server, logger: logger}, nil
	case "postgres":
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	cartRepo := cartpostgres.NewRepository(pg.DB, logger)
	cartDeps := cartservice.Dependencies{
		Repo:   cartRepo,
		Outbox: cartRepo,
		Clock:  cartpostgres.SystemClock{},
		IDGen:  cartpostgres.UUIDGenerator{},
		Logger: logger,
	}
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		cartDeps.Cache = cartredis.NewSnapshotCache(client, cfg.CartCacheTTL, logger)
	}
	cartModule := cartservice.NewModule(cartDeps)

	catalogModule := catalogservice.NewModule(catalogservice.Dependencies{
		Repo:   catalogpostgres.NewRepository(pg.DB, logger),
		Clock:  catalogpostgres.SystemClock{},
		IDGen:  catalogpostgres.UUIDGenerator{},
		Logger: logger,
	})

	roomModule := roomservice.NewModule(roomservice.Dependencies{
		Repo:   roompostgres.NewRepository(pg.DB, logger),
		Clock:  roompostgres.SystemClock{},
		IDGen:  roompostgres.UUIDGenerator{},
		Logger: logger,
	})

	channelModule := channelservice.NewModule(channelservice.Dependencies{
		Repo:   channelpostgres.NewRepository(pg.DB, logger),
		Clock:  channelpostgres.SystemClock{},
		IDGen:  channelpostgres.UUIDGenerator{},
		Logger: logger,
	})

	chatRepo := chatpostgres.NewRepository(pg.DB, logger)
	chatModule := chatservice.NewModule(chatservice.Dependencies{
		Repo:           chatRepo,
		Idempotency:    chatRepo,
		EventDedup:     chatRepo,
		Clock:          chatpostgres.SystemClock{},
		IdempotencyTTL: 24 * time.Hour,
		Logger:         logger,
	})

	userModule := userservice.NewModule(userservice.Dependencies{
		Repo:   userpostgres.NewRepository(pg.DB, logger),
		Clock:  userpostgres.SystemClock{},
		IDGen:  userpostgres.UUIDGenerator{},
		Logger: logger,
	})

	server := httpserver.New(
		cartModule,
		catalogModule,
		roomModule,
		channelModule,
		chatModule,
		userModule,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	cartRepo := cartpostgres.NewRepository(pg.DB, logger)

	chatRepo := chatpostgres.NewRepository(pg.DB, logger)
	chatModule := chatservice.NewModule(chatservice.Dependencies{
		Repo:           chatRepo,
		Idempotency:    chatRepo,
		EventDedup:     chatRepo,
		Clock:          chatpostgres.SystemClock{},
		IdempotencyTTL: 24 * time.Hour,
		Logger:         logger,
	})

	roomModule := roomservice.NewModule(roomservice.Dependencies{
		Repo:   roompostgres.NewRepository(pg.DB, logger),
		Clock:  roompostgres.SystemClock{},
		IDGen:  roompostgres.UUIDGenerator{},
		Logger: logger,
	})

	channelModule := channelservice.NewModule(channelservice.Dependencies{
		Repo:   channelpostgres.NewRepository(pg.DB, logger),
		Clock:  channelpostgres.SystemClock{},
		IDGen:  channelpostgres.UUIDGenerator{},
		Logger: logger,
	})

	return &WorkerApp{
		postgres: pg,
		outboxRelay: cartworkers.OutboxRelay{
			Outbox:    cartRepo,
			Publisher: kafka,
			Clock:     cartpostgres.SystemClock{},
			Topic:     "cart.events",
			BatchSize: 100,
			Logger:    logger,
		},
		chatConsumer: chatworkers.CartEventConsumer{
			Subscriber: kafka,
			Chat:       chatModule.Service,
			Logger:     logger,
		},
		roomConsumer: roomworkers.CartActivityConsumer{
			Subscriber: kafka,
			Rooms:      roomModule.Service,
			Logger:     logger,
		},
		channelConsumer: channelworkers.CartTrendingConsumer{
			Subscriber: kafka,
			Channels:   channelModule.Service,
			Logger:     logger,
		},
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if err := w.chatConsumer.Start(ctx); err != nil {
		return err
	}
	if err := w.roomConsumer.Start(ctx); err != nil {
		return err
	}
	if err := w.channelConsumer.Start(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
