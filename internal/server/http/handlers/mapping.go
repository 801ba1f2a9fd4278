package handlers

import (
	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/server/http/dto"
)

func orderDraftFromRequest(req dto.CreateOrderRequest, idempotencyKey string) model.OrderDraft {
	items := make([]model.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, model.OrderLine{
			ProductID:    item.ProductID,
			ProductTitle: item.ProductTitle,
			ProductImage: item.ProductImage,
			Quantity:     item.Quantity,
			Price:        item.Price,
			SellerID:     item.SellerID,
		})
	}
	return model.OrderDraft{
		Items:           items,
		ShippingAddress: model.ShippingAddress(req.ShippingAddress),
		PaymentMethod:   req.PaymentMethod,
		ShippingCost:    req.ShippingCost,
		TaxAmount:       req.TaxAmount,
		IdempotencyKey:  idempotencyKey,
	}
}

func orderResponse(order *model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for _, line := range order.Items {
		items = append(items, dto.OrderItemResponse{
			ProductID:    line.ProductID,
			ProductTitle: line.ProductTitle,
			ProductImage: line.ProductImage,
			Quantity:     line.Quantity,
			Price:        line.Price,
			SellerID:     line.SellerID,
		})
	}
	return dto.OrderResponse{
		ID:              order.ID,
		OrderNumber:     order.Number,
		BuyerID:         order.BuyerID,
		Items:           items,
		ShippingAddress: dto.Address(order.ShippingAddress),
		PaymentMethod:   order.PaymentMethod,
		Status:          string(order.Status),
		Subtotal:        order.Subtotal,
		ShippingCost:    order.ShippingCost,
		TaxAmount:       order.TaxAmount,
		TotalAmount:     order.TotalAmount,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func ordersResponse(orders []model.Order) []dto.OrderResponse {
	resp := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, orderResponse(&orders[i]))
	}
	return resp
}

func reviewResponse(review *model.Review) dto.ReviewResponse {
	return dto.ReviewResponse{
		ID:        review.ID,
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Text:      review.Text,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
}

func reviewsResponse(reviews []model.Review) []dto.ReviewResponse {
	resp := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		resp = append(resp, reviewResponse(&reviews[i]))
	}
	return resp
}

func productResponse(product *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:        product.ID,
		SellerID:  product.SellerID,
		Title:     product.Title,
		Price:     product.Price,
		Stock:     product.Stock,
		CreatedAt: product.CreatedAt,
	}
}
