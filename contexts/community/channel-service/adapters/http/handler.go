package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"shopsync/contexts/community/channel-service/application"
	"shopsync/contexts/community/channel-service/ports"
	httptransport "shopsync/contexts/community/channel-service/transport/http"
)

type Handler struct {
	Channels application.Service
	Logger   *slog.Logger
}

func (h Handler) CreateChannelHandler(ctx context.Context, req httptransport.CreateChannelRequest) (httptransport.ChannelResponse, error) {
	channel, err := h.Channels.CreateChannel(ctx, application.CreateChannelInput{
		Name:        req.Name,
		Logo:        req.Logo,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		return httptransport.ChannelResponse{}, err
	}
	return mapChannel(channel), nil
}

func (h Handler) GetChannelHandler(ctx context.Context, channelID string) (httptransport.ChannelResponse, error) {
	channel, err := h.Channels.GetChannel(ctx, channelID)
	if err != nil {
		return httptransport.ChannelResponse{}, err
	}
	return mapChannel(channel), nil
}

func (h Handler) ListChannelsHandler(ctx context.Context, category string) (httptransport.ChannelListResponse, error) {
	channels, err := h.Channels.ListChannels(ctx, category)
	if err != nil {
		return httptransport.ChannelListResponse{}, err
	}
	items := make([]httptransport.ChannelResponse, 0, len(channels))
	for _, channel := range channels {
		items = append(items, mapChannel(channel))
	}
	return httptransport.ChannelListResponse{Items: items}, nil
}

func (h Handler) JoinChannelHandler(ctx context.Context, channelID string, userID string) (httptransport.ChannelResponse, error) {
	channel, err := h.Channels.JoinChannel(ctx, channelID, userID)
	if err != nil {
		return httptransport.ChannelResponse{}, err
	}
	return mapChannel(channel), nil
}

func (h Handler) LeaveChannelHandler(ctx context.Context, channelID string, userID string) (httptransport.ChannelResponse, error) {
	channel, err := h.Channels.LeaveChannel(ctx, channelID, userID)
	if err != nil {
		return httptransport.ChannelResponse{}, err
	}
	return mapChannel(channel), nil
}

func mapChannel(channel ports.Channel) httptransport.ChannelResponse {
	return httptransport.ChannelResponse{
		ChannelID:     channel.ChannelID,
		Name:          channel.Name,
		Logo:          channel.Logo,
		Category:      channel.Category,
		Description:   channel.Description,
		MemberCount:   len(channel.MemberIDs),
		TrendingCount: channel.TrendingCount,
		CreatedAt:     channel.CreatedAt.UTC().Format(time.RFC3339),
	}
}
