package service_test

import (
	"context"
	"testing"

	appErrors "github.com/farmmart/farmmart-platform/internal/errors"
	"github.com/farmmart/farmmart-platform/internal/models"
	"github.com/farmmart/farmmart-platform/internal/repositories/mocks"
	service "github.com/farmmart/farmmart-platform/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestOrderService_GetOrder(t *testing.T) {

	buyerID := uuid.New()
	farmerID := uuid.New()
	strangerID := uuid.New()

	order := &models.Order{
		ID:          uuid.New(),
		BuyerID:     buyerID,
		FarmerID:    farmerID,
		Status:      models.OrderStatusProcessing,
		TotalAmount: 25000,
	}

	t.Run("Success - Buyer And Farmer Can Both See The Order", func(t *testing.T) {

		mockRepo := new(mocks.OrderRepository)
		orderService := service.NewOrderService(mockRepo)

		ctx := context.Background()

		mockRepo.On("GetOrderByID", ctx, order.ID).Return(order, nil).Twice()

		got, err := orderService.GetOrder(ctx, buyerID, order.ID)
		assert.NoError(t, err)
		assert.Equal(t, order.ID, got.ID)

		got, err = orderService.GetOrder(ctx, farmerID, order.ID)
		assert.NoError(t, err)
		assert.Equal(t, order.ID, got.ID)
	})

	t.Run("Failure - Strangers Get Not Found", func(t *testing.T) {

		mockRepo := new(mocks.OrderRepository)
		orderService := service.NewOrderService(mockRepo)

		ctx := context.Background()

		mockRepo.On("GetOrderByID", ctx, order.ID).Return(order, nil).Once()

		_, err := orderService.GetOrder(ctx, strangerID, order.ID)

		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {

	buyerID := uuid.New()
	farmerID := uuid.New()

	newOrder := func(status models.OrderStatus) *models.Order {
		return &models.Order{
			ID:       uuid.New(),
			BuyerID:  buyerID,
			FarmerID: farmerID,
			Status:   status,
		}
	}

	t.Run("Success - Farmer Ships The Order", func(t *testing.T) {

		mockRepo := new(mocks.OrderRepository)
		orderService := service.NewOrderService(mockRepo)

		ctx := context.Background()
		order := newOrder(models.OrderStatusProcessing)

		mockRepo.On("GetOrderByID", ctx, order.ID).Return(order, nil).Once()
		mockRepo.On("UpdateOrderStatus", ctx, order.ID, models.OrderStatusShipped).Return(nil).Once()

		updated, err := orderService.UpdateOrderStatus(ctx, farmerID, order.ID, models.OrderStatusShipped)

		assert.NoError(t, err)
		assert.Equal(t, models.OrderStatusShipped, updated.Status)

		mockRepo.AssertExpectations(t)
	})

	t.Run("Failure - Another Farmer Cannot Touch The Order", func(t *testing.T) {

		mockRepo := new(mocks.OrderRepository)
		orderService := service.NewOrderService(mockRepo)

		ctx := context.Background()
		order := newOrder(models.OrderStatusProcessing)

		mockRepo.On("GetOrderByID", ctx, order.ID).Return(order, nil).Once()

		_, err := orderService.UpdateOrderStatus(ctx, uuid.New(), order.ID, models.OrderStatusShipped)

		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeForbidden, appErr.Code)

		mockRepo.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Terminal Status Is Frozen", func(t *testing.T) {

		mockRepo := new(mocks.OrderRepository)
		orderService := service.NewOrderService(mockRepo)

		ctx := context.Background()

		for _, terminal := range []models.OrderStatus{models.OrderStatusDelivered, models.OrderStatusCancelled} {

			order := newOrder(terminal)

			mockRepo.On("GetOrderByID", ctx, order.ID).Return(order, nil).Once()

			_, err := orderService.UpdateOrderStatus(ctx, farmerID, order.ID, models.OrderStatusShipped)

			appErr, ok := appErrors.IsAppError(err)
			assert.True(t, ok)
			assert.Equal(t, appErrors.ErrCodeBadRequest, appErr.Code)
		}
	})
}

func TestOrderService_ListOrders(t *testing.T) {

	buyerID := uuid.New()
	farmerID := uuid.New()

	t.Run("Success - Buyer History Is Paginated", func(t *testing.T) {

		mockRepo := new(mocks.OrderRepository)
		orderService := service.NewOrderService(mockRepo)

		ctx := context.Background()

		orders := []models.Order{
			{ID: uuid.New(), BuyerID: buyerID, TotalAmount: 25000},
			{ID: uuid.New(), BuyerID: buyerID, TotalAmount: 5000},
		}

		mockRepo.On("ListOrdersByBuyer", ctx, buyerID, 1, 10).Return(orders, 2, nil).Once()

		resp, err := orderService.ListBuyerOrders(ctx, buyerID, 1, 10)

		assert.NoError(t, err)
		assert.Equal(t, 2, resp.Total)
		assert.Equal(t, 1, resp.Page)
	})

	t.Run("Success - Farmer Sees Received Orders", func(t *testing.T) {

		mockRepo := new(mocks.OrderRepository)
		orderService := service.NewOrderService(mockRepo)

		ctx := context.Background()

		orders := []models.Order{{ID: uuid.New(), FarmerID: farmerID, TotalAmount: 20000}}

		mockRepo.On("ListOrdersByFarmer", ctx, farmerID, 1, 10).Return(orders, 1, nil).Once()

		resp, err := orderService.ListFarmerOrders(ctx, farmerID, 1, 10)

		assert.NoError(t, err)
		assert.Equal(t, 1, resp.Total)
	})
}
