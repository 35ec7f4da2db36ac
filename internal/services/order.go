package service

import (
	"context"
	"database/sql"
	"errors"

	appErrors "github.com/farmmart/farmmart-platform/internal/errors"
	"github.com/farmmart/farmmart-platform/internal/models"
	repository "github.com/farmmart/farmmart-platform/internal/repositories"
	"github.com/google/uuid"
)

type OrderService interface {
	GetOrder(ctx context.Context, requesterID uuid.UUID, orderID uuid.UUID) (*models.Order, error)
	ListBuyerOrders(ctx context.Context, buyerID uuid.UUID, page, size int) (*models.PaginatedResponse, error)
	ListFarmerOrders(ctx context.Context, farmerID uuid.UUID, page, size int) (*models.PaginatedResponse, error)
	UpdateOrderStatus(ctx context.Context, farmerID uuid.UUID, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error)
}

type orderService struct {
	repo repository.OrderRepository
}

func NewOrderService(repo repository.OrderRepository) OrderService {
	return &orderService{repo: repo}
}

// GetOrder returns an order to its buyer or its farmer; anyone else gets a
// not-found rather than confirmation the order exists.
func (s *orderService) GetOrder(ctx context.Context, requesterID uuid.UUID, orderID uuid.UUID) (*models.Order, error) {

	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.BuyerID != requesterID && order.FarmerID != requesterID {
		return nil, appErrors.NotFoundError("Order not found")
	}

	return order, nil
}

func (s *orderService) getOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {

	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Order not found")
		}

		return nil, appErrors.DatabaseError("Failed to fetch order").WithError(err)
	}

	return order, nil
}

func (s *orderService) ListBuyerOrders(ctx context.Context, buyerID uuid.UUID, page, size int) (*models.PaginatedResponse, error) {

	orders, total, err := s.repo.ListOrdersByBuyer(ctx, buyerID, page, size)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to list orders").WithError(err)
	}

	return &models.PaginatedResponse{Data: orders, Total: total, Page: page, PageSize: size}, nil
}

func (s *orderService) ListFarmerOrders(ctx context.Context, farmerID uuid.UUID, page, size int) (*models.PaginatedResponse, error) {

	orders, total, err := s.repo.ListOrdersByFarmer(ctx, farmerID, page, size)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to list received orders").WithError(err)
	}

	return &models.PaginatedResponse{Data: orders, Total: total, Page: page, PageSize: size}, nil
}

// UpdateOrderStatus lets the farmer who received the order move it through its
// lifecycle. Delivered and cancelled orders are terminal.
func (s *orderService) UpdateOrderStatus(ctx context.Context, farmerID uuid.UUID, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error) {

	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.FarmerID != farmerID {
		return nil, appErrors.ForbiddenError("You can only update orders placed with you")
	}

	if order.Status == models.OrderStatusDelivered || order.Status == models.OrderStatusCancelled {
		return nil, appErrors.BadRequestError("Order status can no longer be changed")
	}

	if err := s.repo.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return nil, appErrors.DatabaseError("Failed to update order status").WithError(err)
	}

	order.Status = status

	return order, nil
}
