package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"shopsync/contexts/shopping/cart-service/application"
	"shopsync/contexts/shopping/cart-service/domain/cart"
	"shopsync/contexts/shopping/cart-service/ports"
	httptransport "shopsync/contexts/shopping/cart-service/transport/http"
)

type Handler struct {
	Carts  application.Service
	Logger *slog.Logger
}

func (h Handler) GetCartHandler(ctx context.Context, scope ports.Scope) (httptransport.CartResponse, error) {
	snapshot, err := h.Carts.GetCart(ctx, scope)
	if err != nil {
		return httptransport.CartResponse{}, err
	}
	return mapCart(snapshot), nil
}

func (h Handler) AddItemHandler(
	ctx context.Context,
	scope ports.Scope,
	userID string,
	displayName string,
	req httptransport.AddItemRequest,
) (httptransport.CartResponse, error) {
	var addedBy *cart.Contributor
	if userID != "" {
		addedBy = &cart.Contributor{
			UserID:      userID,
			DisplayName: displayName,
		}
	}
	snapshot, err := h.Carts.AddItem(ctx, scope, cart.Product{
		ProductID:   req.ProductID,
		Name:        req.Name,
		Brand:       req.Brand,
		UnitPrice:   req.UnitPrice,
		ImageURL:    req.ImageURL,
		PurchaseURL: req.PurchaseURL,
	}, addedBy)
	if err != nil {
		return httptransport.CartResponse{}, err
	}
	return mapCart(snapshot), nil
}

func (h Handler) ChangeQuantityHandler(
	ctx context.Context,
	scope ports.Scope,
	itemID string,
	req httptransport.ChangeQuantityRequest,
) (httptransport.CartResponse, error) {
	snapshot, err := h.Carts.ChangeQuantity(ctx, scope, itemID, req.Delta)
	if err != nil {
		return httptransport.CartResponse{}, err
	}
	return mapCart(snapshot), nil
}

func (h Handler) RemoveItemHandler(ctx context.Context, scope ports.Scope, itemID string) (httptransport.CartResponse, error) {
	snapshot, err := h.Carts.RemoveItem(ctx, scope, itemID)
	if err != nil {
		return httptransport.CartResponse{}, err
	}
	return mapCart(snapshot), nil
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	scope ports.Scope,
	itemID string,
	userID string,
	req httptransport.VoteRequest,
) (httptransport.CartResponse, error) {
	snapshot, err := h.Carts.CastVote(ctx, scope, itemID, cart.VoteDirection(req.Direction), userID)
	if err != nil {
		return httptransport.CartResponse{}, err
	}
	return mapCart(snapshot), nil
}

func (h Handler) RetractVoteHandler(
	ctx context.Context,
	scope ports.Scope,
	itemID string,
	userID string,
	req httptransport.VoteRequest,
) (httptransport.CartResponse, error) {
	snapshot, err := h.Carts.RetractVote(ctx, scope, itemID, cart.VoteDirection(req.Direction), userID)
	if err != nil {
		return httptransport.CartResponse{}, err
	}
	return mapCart(snapshot), nil
}

func (h Handler) ReactHandler(
	ctx context.Context,
	scope ports.Scope,
	itemID string,
	req httptransport.ReactionRequest,
) (httptransport.CartResponse, error) {
	snapshot, err := h.Carts.React(ctx, scope, itemID, cart.ReactionKind(req.Kind))
	if err != nil {
		return httptransport.CartResponse{}, err
	}
	return mapCart(snapshot), nil
}

func (h Handler) TopItemsHandler(ctx context.Context, scope ports.Scope, limit int) (httptransport.RankedItemsResponse, error) {
	items, err := h.Carts.TopItems(ctx, scope, limit)
	if err != nil {
		return httptransport.RankedItemsResponse{}, err
	}
	return httptransport.RankedItemsResponse{
		Items: mapItems(items),
	}, nil
}

func (h Handler) TotalsHandler(ctx context.Context, scope ports.Scope) (httptransport.TotalsResponse, error) {
	totals, err := h.Carts.Totals(ctx, scope)
	if err != nil {
		return httptransport.TotalsResponse{}, err
	}
	return httptransport.TotalsResponse{
		TotalValue:           totals.TotalValue,
		TotalItemCount:       totals.TotalItemCount,
		DistinctProductCount: totals.DistinctProductCount,
	}, nil
}

func mapCart(snapshot cart.Cart) httptransport.CartResponse {
	return httptransport.CartResponse{
		CartID:    snapshot.CartID,
		RoomID:    snapshot.RoomID,
		ChannelID: snapshot.ChannelID,
		Items:     mapItems(snapshot.Items),
		UpdatedAt: snapshot.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func mapItems(items []cart.LineItem) []httptransport.LineItemDTO {
	dtos := make([]httptransport.LineItemDTO, 0, len(items))
	for _, item := range items {
		dto := httptransport.LineItemDTO{
			ItemID:      item.ItemID,
			ProductID:   item.Product.ProductID,
			Name:        item.Product.Name,
			Brand:       item.Product.Brand,
			UnitPrice:   item.Product.UnitPrice,
			ImageURL:    item.Product.ImageURL,
			PurchaseURL: item.Product.PurchaseURL,
			Quantity:    item.Quantity,
			Votes: httptransport.VotesDTO{
				Up:         item.Votes.Up,
				Down:       item.Votes.Down,
				UpVoters:   item.Votes.UpVoters,
				DownVoters: item.Votes.DownVoters,
			},
			Reactions: httptransport.ReactionsDTO{
				Like:     item.Reactions.Like,
				Heart:    item.Reactions.Heart,
				Fire:     item.Reactions.Fire,
				Comments: item.Reactions.Comments,
			},
			Score:   item.Score(),
			AddedAt: item.AddedAt.UTC().Format(time.RFC3339),
		}
		if item.AddedBy != nil {
			dto.AddedBy = &httptransport.ContributorDTO{
				UserID:      item.AddedBy.UserID,
				DisplayName: item.AddedBy.DisplayName,
				Avatar:      item.AddedBy.Avatar,
			}
		}
		dtos = append(dtos, dto)
	}
	return dtos
}
