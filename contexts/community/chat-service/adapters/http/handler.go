package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"shopsync/contexts/community/chat-service/application"
	"shopsync/contexts/community/chat-service/ports"
	httptransport "shopsync/contexts/community/chat-service/transport/http"
)

type Handler struct {
	Chat   application.Service
	Logger *slog.Logger
}

func (h Handler) PostMessageHandler(
	ctx context.Context,
	roomID string,
	channelID string,
	userID string,
	displayName string,
	idempotencyKey string,
	req httptransport.PostMessageRequest,
) (httptransport.MessageResponse, error) {
	input := ports.CreateMessageInput{
		RoomID:      roomID,
		ChannelID:   channelID,
		UserID:      userID,
		DisplayName: displayName,
		Kind:        ports.MessageKind(req.Kind),
		Content:     req.Content,
	}
	if req.Product != nil {
		input.Product = &ports.ProductRef{
			ProductID: req.Product.ProductID,
			Name:      req.Product.Name,
			Brand:     req.Product.Brand,
			UnitPrice: req.Product.UnitPrice,
			ImageURL:  req.Product.ImageURL,
		}
	}
	message, err := h.Chat.PostMessage(ctx, idempotencyKey, input)
	if err != nil {
		return httptransport.MessageResponse{}, err
	}
	return mapMessage(message), nil
}

func (h Handler) ListMessagesHandler(
	ctx context.Context,
	roomID string,
	channelID string,
	afterSequence int64,
	limit int,
) (httptransport.MessageListResponse, error) {
	messages, err := h.Chat.ListMessages(ctx, ports.ListMessagesInput{
		RoomID:        roomID,
		ChannelID:     channelID,
		AfterSequence: afterSequence,
		Limit:         limit,
	})
	if err != nil {
		return httptransport.MessageListResponse{}, err
	}
	items := make([]httptransport.MessageResponse, 0, len(messages))
	for _, message := range messages {
		items = append(items, mapMessage(message))
	}
	return httptransport.MessageListResponse{Items: items}, nil
}

func (h Handler) ReactHandler(
	ctx context.Context,
	messageID string,
	idempotencyKey string,
	req httptransport.ReactRequest,
) (httptransport.MessageResponse, error) {
	message, err := h.Chat.ReactToMessage(ctx, idempotencyKey, messageID, ports.ReactionKind(req.Kind))
	if err != nil {
		return httptransport.MessageResponse{}, err
	}
	return mapMessage(message), nil
}

func mapMessage(message ports.Message) httptransport.MessageResponse {
	out := httptransport.MessageResponse{
		MessageID:      message.MessageID,
		RoomID:         message.RoomID,
		ChannelID:      message.ChannelID,
		UserID:         message.UserID,
		DisplayName:    message.DisplayName,
		Kind:           string(message.Kind),
		Content:        message.Content,
		Likes:          message.Likes,
		Hearts:         message.Hearts,
		SequenceNumber: message.SequenceNumber,
		CreatedAt:      message.CreatedAt.UTC().Format(time.RFC3339),
	}
	if message.Product != nil {
		out.Product = &httptransport.ProductRefDTO{
			ProductID: message.Product.ProductID,
			Name:      message.Product.Name,
			Brand:     message.Product.Brand,
			UnitPrice: message.Product.UnitPrice,
			ImageURL:  message.Product.ImageURL,
		}
	}
	return out
}
