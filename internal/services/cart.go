package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	appErrors "github.com/farmmart/farmmart-platform/internal/errors"
	"github.com/farmmart/farmmart-platform/internal/models"
	repository "github.com/farmmart/farmmart-platform/internal/repositories"
	"github.com/google/uuid"
)

type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.Cart, error)
	UpdateQuantity(ctx context.Context, userID uuid.UUID, req *models.UpdateQuantityRequest) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID, tier models.Tier) (*models.Cart, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type cartService struct {
	repo        repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(repo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{repo: repo, productRepo: productRepo}
}

// GetCart returns the buyer's cart, creating an empty one on first use.
// Callers receive their own copy of the line map.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {

	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	return snapshotCart(cart), nil
}

// AddItem resolves the tier price server-side and merges the line into the
// cart. Adding a product+tier pair already present bumps its quantity; the
// client never supplies a price.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.Cart, error) {

	product, err := s.productRepo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found")
		}

		return nil, appErrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	unitPrice, err := ResolveUnitPrice(product, req.Tier)
	if err != nil {
		return nil, err
	}

	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := models.CartItemKey(req.ProductID, req.Tier)

	item, exists := cart.Items[key]
	if exists {
		item.Quantity += req.Quantity
	} else {
		item = models.CartItem{
			ProductID: product.ID,
			FarmerID:  product.FarmerID,
			Tier:      req.Tier,
			Quantity:  req.Quantity,
			AddedAt:   time.Now(),
		}
	}

	item.UnitPrice = unitPrice
	item.LineTotal = unitPrice * int64(item.Quantity)
	cart.Items[key] = item

	return s.saveCart(ctx, cart)
}

// UpdateQuantity sets a line's quantity; zero removes the line.
func (s *cartService) UpdateQuantity(ctx context.Context, userID uuid.UUID, req *models.UpdateQuantityRequest) (*models.Cart, error) {

	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := models.CartItemKey(req.ProductID, req.Tier)

	item, exists := cart.Items[key]
	if !exists {
		return nil, appErrors.NotFoundError("Item not found in cart")
	}

	if req.Quantity == 0 {
		delete(cart.Items, key)
	} else {
		item.Quantity = req.Quantity
		item.LineTotal = item.UnitPrice * int64(item.Quantity)
		cart.Items[key] = item
	}

	return s.saveCart(ctx, cart)
}

func (s *cartService) RemoveItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID, tier models.Tier) (*models.Cart, error) {

	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := models.CartItemKey(productID, tier)

	if _, exists := cart.Items[key]; !exists {
		return nil, appErrors.NotFoundError("Item not found in cart")
	}

	delete(cart.Items, key)

	return s.saveCart(ctx, cart)
}

func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {

	if err := s.repo.ClearCart(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NotFoundError("Cart not found")
		}

		return appErrors.DatabaseError("Failed to clear cart").WithError(err)
	}

	return nil
}

func (s *cartService) getOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {

	cart, err := s.repo.GetCartByCustomerID(ctx, userID)
	if err == nil {
		if cart.Items == nil {
			cart.Items = make(map[string]models.CartItem)
		}
		return cart, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	cart = &models.Cart{
		ID:     uuid.New(),
		UserID: userID,
		Items:  make(map[string]models.CartItem),
	}

	if err := s.repo.CreateCart(ctx, cart); err != nil {
		return nil, appErrors.DatabaseError("Failed to create cart").WithError(err)
	}

	return cart, nil
}

func (s *cartService) saveCart(ctx context.Context, cart *models.Cart) (*models.Cart, error) {

	var total int64
	for _, item := range cart.Items {
		total += item.LineTotal
	}
	cart.Total = total

	if err := s.repo.UpdateCart(ctx, cart); err != nil {
		return nil, appErrors.DatabaseError("Failed to update cart").WithError(err)
	}

	return snapshotCart(cart), nil
}

// snapshotCart copies the cart with its own line map, so callers holding the
// result cannot observe later mutations.
func snapshotCart(cart *models.Cart) *models.Cart {

	copied := *cart
	copied.Items = make(map[string]models.CartItem, len(cart.Items))

	for key, item := range cart.Items {
		copied.Items[key] = item
	}

	return &copied
}
