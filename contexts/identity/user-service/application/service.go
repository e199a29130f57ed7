package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainerrors "shopsync/contexts/identity/user-service/domain/errors"
	"shopsync/contexts/identity/user-service/ports"
)

const maxDisplayNameLength = 64

type Service struct {
	Repo   ports.Repository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// CreateUser mints an anonymous identity. Display name is optional; callers
// that skip it get an id-only user they can name later.
func (s Service) CreateUser(ctx context.Context, displayName string) (ports.User, error) {
	displayName = strings.TrimSpace(displayName)
	if len(displayName) > maxDisplayNameLength {
		return ports.User{}, domainerrors.ErrInvalidRequest
	}
	userID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.User{}, err
	}
	now := s.now()
	user, err := s.Repo.CreateUser(ctx, ports.User{
		UserID:      userID,
		DisplayName: displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return ports.User{}, err
	}
	resolveLogger(s.Logger).Info("user created",
		"event", "user_created",
		"module", "identity/user-service",
		"layer", "application",
		"user_id", user.UserID,
	)
	return user, nil
}

func (s Service) GetUser(ctx context.Context, userID string) (ports.User, error) {
	if strings.TrimSpace(userID) == "" {
		return ports.User{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.GetUser(ctx, strings.TrimSpace(userID))
}

func (s Service) UpdateDisplayName(ctx context.Context, userID string, displayName string) (ports.User, error) {
	userID = strings.TrimSpace(userID)
	displayName = strings.TrimSpace(displayName)
	if userID == "" || displayName == "" || len(displayName) > maxDisplayNameLength {
		return ports.User{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.UpdateDisplayName(ctx, userID, displayName, s.now())
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
