package chatservice

import (
	"log/slog"
	"time"

	httpadapter "shopsync/contexts/community/chat-service/adapters/http"
	"shopsync/contexts/community/chat-service/adapters/memory"
	"shopsync/contexts/community/chat-service/application"
	"shopsync/contexts/community/chat-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repo           ports.Repository
	Idempotency    ports.IdempotencyStore
	EventDedup     ports.EventDedupStore
	Clock          ports.Clock
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:           deps.Repo,
		Idempotency:    deps.Idempotency,
		EventDedup:     deps.EventDedup,
		Clock:          deps.Clock,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Chat:   service,
			Logger: deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repo:           store,
		Idempotency:    store,
		EventDedup:     store,
		Clock:          store,
		IdempotencyTTL: 24 * time.Hour,
		Logger:         logger,
	})
	module.Store = store
	return module
}
