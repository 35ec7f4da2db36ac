package service_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	appErrors "github.com/farmmart/farmmart-platform/internal/errors"
	"github.com/farmmart/farmmart-platform/internal/models"
	"github.com/farmmart/farmmart-platform/internal/repositories/mocks"
	service "github.com/farmmart/farmmart-platform/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCartService_AddItem(t *testing.T) {

	userID := uuid.New()
	farmerID := uuid.New()

	product := &models.Product{
		ID:       uuid.New(),
		FarmerID: farmerID,
		Name:     "Fresh Spinach",
		Prices:   models.TierPrices{Price1kg: 6000, Price500g: 3200, Price250g: 1700},
	}

	t.Run("Success - New Line Uses The Product Price", func(t *testing.T) {

		mockCartRepo := new(mocks.CartRepository)
		mockProductRepo := new(mocks.ProductRepository)

		cartService := service.NewCartService(mockCartRepo, mockProductRepo)

		ctx := context.Background()

		existing := &models.Cart{
			ID:     uuid.New(),
			UserID: userID,
			Items:  map[string]models.CartItem{},
		}

		mockProductRepo.On("GetProductByID", ctx, product.ID).Return(product, nil).Once()
		mockCartRepo.On("GetCartByCustomerID", ctx, userID).Return(existing, nil).Once()
		mockCartRepo.On("UpdateCart", ctx, mock.AnythingOfType("*models.Cart")).Return(nil).Once()

		cart, err := cartService.AddItem(ctx, userID, &models.AddItemRequest{
			ProductID: product.ID,
			Tier:      models.Tier500g,
			Quantity:  2,
		})

		assert.NoError(t, err)

		key := models.CartItemKey(product.ID, models.Tier500g)
		item, ok := cart.Items[key]
		assert.True(t, ok)
		assert.Equal(t, int64(3200), item.UnitPrice)
		assert.Equal(t, int64(6400), item.LineTotal)
		assert.Equal(t, farmerID, item.FarmerID)
		assert.Equal(t, int64(6400), cart.Total)

		mockCartRepo.AssertExpectations(t)
	})

	t.Run("Success - Same Product Different Tier Is A Separate Line", func(t *testing.T) {

		mockCartRepo := new(mocks.CartRepository)
		mockProductRepo := new(mocks.ProductRepository)

		cartService := service.NewCartService(mockCartRepo, mockProductRepo)

		ctx := context.Background()

		existing := &models.Cart{
			ID:     uuid.New(),
			UserID: userID,
			Items: map[string]models.CartItem{
				models.CartItemKey(product.ID, models.Tier1kg): {
					ProductID: product.ID,
					FarmerID:  farmerID,
					Tier:      models.Tier1kg,
					Quantity:  1,
					UnitPrice: 6000,
					LineTotal: 6000,
					AddedAt:   time.Now(),
				},
			},
		}

		mockProductRepo.On("GetProductByID", ctx, product.ID).Return(product, nil).Once()
		mockCartRepo.On("GetCartByCustomerID", ctx, userID).Return(existing, nil).Once()
		mockCartRepo.On("UpdateCart", ctx, mock.AnythingOfType("*models.Cart")).Return(nil).Once()

		cart, err := cartService.AddItem(ctx, userID, &models.AddItemRequest{
			ProductID: product.ID,
			Tier:      models.Tier250g,
			Quantity:  4,
		})

		assert.NoError(t, err)
		assert.Len(t, cart.Items, 2)
		assert.Equal(t, int64(6000+4*1700), cart.Total)
	})

	t.Run("Success - Re-Adding The Same Tier Bumps Quantity", func(t *testing.T) {

		mockCartRepo := new(mocks.CartRepository)
		mockProductRepo := new(mocks.ProductRepository)

		cartService := service.NewCartService(mockCartRepo, mockProductRepo)

		ctx := context.Background()
		addedAt := time.Now().Add(-time.Hour)

		existing := &models.Cart{
			ID:     uuid.New(),
			UserID: userID,
			Items: map[string]models.CartItem{
				models.CartItemKey(product.ID, models.Tier1kg): {
					ProductID: product.ID,
					FarmerID:  farmerID,
					Tier:      models.Tier1kg,
					Quantity:  1,
					UnitPrice: 6000,
					LineTotal: 6000,
					AddedAt:   addedAt,
				},
			},
		}

		mockProductRepo.On("GetProductByID", ctx, product.ID).Return(product, nil).Once()
		mockCartRepo.On("GetCartByCustomerID", ctx, userID).Return(existing, nil).Once()
		mockCartRepo.On("UpdateCart", ctx, mock.AnythingOfType("*models.Cart")).Return(nil).Once()

		cart, err := cartService.AddItem(ctx, userID, &models.AddItemRequest{
			ProductID: product.ID,
			Tier:      models.Tier1kg,
			Quantity:  2,
		})

		assert.NoError(t, err)
		assert.Len(t, cart.Items, 1)

		item := cart.Items[models.CartItemKey(product.ID, models.Tier1kg)]
		assert.Equal(t, 3, item.Quantity)
		assert.Equal(t, int64(18000), item.LineTotal)
		// The original add time survives a quantity bump.
		assert.True(t, item.AddedAt.Equal(addedAt))
	})

	t.Run("Success - First Add Creates The Cart", func(t *testing.T) {

		mockCartRepo := new(mocks.CartRepository)
		mockProductRepo := new(mocks.ProductRepository)

		cartService := service.NewCartService(mockCartRepo, mockProductRepo)

		ctx := context.Background()

		mockProductRepo.On("GetProductByID", ctx, product.ID).Return(product, nil).Once()
		mockCartRepo.On("GetCartByCustomerID", ctx, userID).Return(nil, sql.ErrNoRows).Once()
		mockCartRepo.On("CreateCart", ctx, mock.AnythingOfType("*models.Cart")).Return(nil).Once()
		mockCartRepo.On("UpdateCart", ctx, mock.AnythingOfType("*models.Cart")).Return(nil).Once()

		cart, err := cartService.AddItem(ctx, userID, &models.AddItemRequest{
			ProductID: product.ID,
			Tier:      models.Tier1kg,
			Quantity:  1,
		})

		assert.NoError(t, err)
		assert.Len(t, cart.Items, 1)

		mockCartRepo.AssertExpectations(t)
	})

	t.Run("Failure - Unknown Tier", func(t *testing.T) {

		mockCartRepo := new(mocks.CartRepository)
		mockProductRepo := new(mocks.ProductRepository)

		cartService := service.NewCartService(mockCartRepo, mockProductRepo)

		ctx := context.Background()

		mockProductRepo.On("GetProductByID", ctx, product.ID).Return(product, nil).Once()

		_, err := cartService.AddItem(ctx, userID, &models.AddItemRequest{
			ProductID: product.ID,
			Tier:      models.Tier("750g"),
			Quantity:  1,
		})

		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeUnknownTier, appErr.Code)

		mockCartRepo.AssertNotCalled(t, "UpdateCart", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Product Not Found", func(t *testing.T) {

		mockCartRepo := new(mocks.CartRepository)
		mockProductRepo := new(mocks.ProductRepository)

		cartService := service.NewCartService(mockCartRepo, mockProductRepo)

		ctx := context.Background()
		missingID := uuid.New()

		mockProductRepo.On("GetProductByID", ctx, missingID).Return(nil, sql.ErrNoRows).Once()

		_, err := cartService.AddItem(ctx, userID, &models.AddItemRequest{
			ProductID: missingID,
			Tier:      models.Tier1kg,
			Quantity:  1,
		})

		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}

func TestCartService_UpdateQuantity(t *testing.T) {

	userID := uuid.New()
	productID := uuid.New()

	newCart := func() *models.Cart {
		return &models.Cart{
			ID:     uuid.New(),
			UserID: userID,
			Items: map[string]models.CartItem{
				models.CartItemKey(productID, models.Tier500g): {
					ProductID: productID,
					Tier:      models.Tier500g,
					Quantity:  2,
					UnitPrice: 3200,
					LineTotal: 6400,
					AddedAt:   time.Now(),
				},
			},
		}
	}

	t.Run("Success - Quantity Change Recomputes The Line", func(t *testing.T) {

		mockCartRepo := new(mocks.CartRepository)
		mockProductRepo := new(mocks.ProductRepository)

		cartService := service.NewCartService(mockCartRepo, mockProductRepo)

		ctx := context.Background()

		mockCartRepo.On("GetCartByCustomerID", ctx, userID).Return(newCart(), nil).Once()
		mockCartRepo.On("UpdateCart", ctx, mock.AnythingOfType("*models.Cart")).Return(nil).Once()

		cart, err := cartService.UpdateQuantity(ctx, userID, &models.UpdateQuantityRequest{
			ProductID: productID,
			Tier:      models.Tier500g,
			Quantity:  5,
		})

		assert.NoError(t, err)

		item := cart.Items[models.CartItemKey(productID, models.Tier500g)]
		assert.Equal(t, 5, item.Quantity)
		assert.Equal(t, int64(16000), item.LineTotal)
		assert.Equal(t, int64(16000), cart.Total)
	})

	t.Run("Success - Zero Quantity Removes The Line", func(t *testing.T) {

		mockCartRepo := new(mocks.CartRepository)
		mockProductRepo := new(mocks.ProductRepository)

		cartService := service.NewCartService(mockCartRepo, mockProductRepo)

		ctx := context.Background()

		mockCartRepo.On("GetCartByCustomerID", ctx, userID).Return(newCart(), nil).Once()
		mockCartRepo.On("UpdateCart", ctx, mock.AnythingOfType("*models.Cart")).Return(nil).Once()

		cart, err := cartService.UpdateQuantity(ctx, userID, &models.UpdateQuantityRequest{
			ProductID: productID,
			Tier:      models.Tier500g,
			Quantity:  0,
		})

		assert.NoError(t, err)
		assert.Empty(t, cart.Items)
		assert.Equal(t, int64(0), cart.Total)
	})

	t.Run("Failure - Line Not In Cart", func(t *testing.T) {

		mockCartRepo := new(mocks.CartRepository)
		mockProductRepo := new(mocks.ProductRepository)

		cartService := service.NewCartService(mockCartRepo, mockProductRepo)

		ctx := context.Background()

		mockCartRepo.On("GetCartByCustomerID", ctx, userID).Return(newCart(), nil).Once()

		_, err := cartService.UpdateQuantity(ctx, userID, &models.UpdateQuantityRequest{
			ProductID: productID,
			Tier:      models.Tier1kg,
			Quantity:  1,
		})

		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}

func TestCartService_GetCart(t *testing.T) {

	userID := uuid.New()
	productID := uuid.New()

	t.Run("Success - Returned Cart Is A Snapshot", func(t *testing.T) {

		mockCartRepo := new(mocks.CartRepository)
		mockProductRepo := new(mocks.ProductRepository)

		cartService := service.NewCartService(mockCartRepo, mockProductRepo)

		ctx := context.Background()

		stored := &models.Cart{
			ID:     uuid.New(),
			UserID: userID,
			Items: map[string]models.CartItem{
				models.CartItemKey(productID, models.Tier1kg): {
					ProductID: productID,
					Tier:      models.Tier1kg,
					Quantity:  1,
					UnitPrice: 6000,
					LineTotal: 6000,
				},
			},
			Total: 6000,
		}

		mockCartRepo.On("GetCartByCustomerID", ctx, userID).Return(stored, nil).Once()

		cart, err := cartService.GetCart(ctx, userID)

		assert.NoError(t, err)

		// Mutating the stored map must not leak into the returned copy.
		delete(stored.Items, models.CartItemKey(productID, models.Tier1kg))
		assert.Len(t, cart.Items, 1)
	})
}
