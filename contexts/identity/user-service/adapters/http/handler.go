package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"shopsync/contexts/identity/user-service/application"
	"shopsync/contexts/identity/user-service/ports"
	httptransport "shopsync/contexts/identity/user-service/transport/http"
)

type Handler struct {
	Users  application.Service
	Logger *slog.Logger
}

func (h Handler) CreateUserHandler(ctx context.Context, req httptransport.CreateUserRequest) (httptransport.UserResponse, error) {
	user, err := h.Users.CreateUser(ctx, req.DisplayName)
	if err != nil {
		return httptransport.UserResponse{}, err
	}
	return mapUser(user), nil
}

func (h Handler) GetUserHandler(ctx context.Context, userID string) (httptransport.UserResponse, error) {
	user, err := h.Users.GetUser(ctx, userID)
	if err != nil {
		return httptransport.UserResponse{}, err
	}
	return mapUser(user), nil
}

func (h Handler) UpdateDisplayNameHandler(
	ctx context.Context,
	userID string,
	req httptransport.UpdateDisplayNameRequest,
) (httptransport.UserResponse, error) {
	user, err := h.Users.UpdateDisplayName(ctx, userID, req.DisplayName)
	if err != nil {
		return httptransport.UserResponse{}, err
	}
	return mapUser(user), nil
}

func mapUser(user ports.User) httptransport.UserResponse {
	return httptransport.UserResponse{
		UserID:      user.UserID,
		DisplayName: user.DisplayName,
		CreatedAt:   user.CreatedAt.UTC().Format(time.RFC3339),
	}
}
