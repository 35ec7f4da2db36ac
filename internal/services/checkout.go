package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	appErrors "github.com/farmmart/farmmart-platform/internal/errors"
	"github.com/farmmart/farmmart-platform/internal/models"
	repository "github.com/farmmart/farmmart-platform/internal/repositories"
	"github.com/google/uuid"
)

// CheckoutService turns a buyer's cart into one order per farmer and submits
// the batch, gated on payment verification when the buyer pays online.
type CheckoutService interface {
	Preview(ctx context.Context, buyerID uuid.UUID, req *models.CheckoutRequest) (*models.CheckoutPreview, error)
	Submit(ctx context.Context, buyerID uuid.UUID, req *models.CheckoutRequest) ([]models.OrderConfirmation, error)
}

type checkoutService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
	notifier    NotificationService
}

func NewCheckoutService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	notifier NotificationService,
) CheckoutService {
	return &checkoutService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		notifier:    notifier,
	}
}

// ResolveUnitPrice maps a weight tier onto the product's seller-set price for
// that tier. Prices are integer paise; nothing is derived or interpolated.
func ResolveUnitPrice(product *models.Product, tier models.Tier) (int64, error) {
	switch tier {
	case models.Tier1kg:
		return product.Prices.Price1kg, nil
	case models.Tier500g:
		return product.Prices.Price500g, nil
	case models.Tier250g:
		return product.Prices.Price250g, nil
	default:
		return 0, appErrors.UnknownTierError("Unknown weight tier: " + string(tier))
	}
}

// ComputeGrandTotal sums the per-farmer order totals. The result does not
// depend on how the cart was grouped.
func ComputeGrandTotal(orders []*models.DraftOrder) int64 {

	var grandTotal int64

	for _, order := range orders {
		grandTotal += order.TotalAmount
	}

	return grandTotal
}

// Preview partitions the cart and reports the per-farmer split plus the grand
// total the gateway will be asked for when paying online.
func (s *checkoutService) Preview(ctx context.Context, buyerID uuid.UUID, req *models.CheckoutRequest) (*models.CheckoutPreview, error) {

	drafts, err := s.partitionByFarmer(ctx, buyerID, req)
	if err != nil {
		return nil, err
	}

	return &models.CheckoutPreview{
		Orders:     drafts,
		GrandTotal: ComputeGrandTotal(drafts),
	}, nil
}

// partitionByFarmer groups the cart's lines by farmer, preserving first-seen
// farmer order (by when lines were added to the cart). Every line's product is
// re-resolved and its price recomputed; a line whose product no longer exists
// fails the whole partition rather than being silently summed at zero.
func (s *checkoutService) partitionByFarmer(ctx context.Context, buyerID uuid.UUID, req *models.CheckoutRequest) ([]*models.DraftOrder, error) {

	cart, err := s.cartRepo.GetCartByCustomerID(ctx, buyerID)
	if err != nil {
		return nil, appErrors.NotFoundError("Cart not found").WithError(err)
	}

	if len(cart.Items) == 0 {
		return nil, appErrors.BadRequestError("Cannot checkout an empty cart")
	}

	// Snapshot: copy the lines out before any computation so later cart
	// mutations cannot be observed mid-partition.
	lines := make([]models.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, item)
	}

	sort.Slice(lines, func(i, j int) bool {
		if lines[i].AddedAt.Equal(lines[j].AddedAt) {
			return models.CartItemKey(lines[i].ProductID, lines[i].Tier) < models.CartItemKey(lines[j].ProductID, lines[j].Tier)
		}
		return lines[i].AddedAt.Before(lines[j].AddedAt)
	})

	groups := make(map[uuid.UUID]*models.DraftOrder)

	var drafts []*models.DraftOrder

	for _, line := range lines {

		product, err := s.productRepo.GetProductByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.ValidationError("Product is no longer available: " + line.ProductID.String())
			}
			return nil, appErrors.DatabaseError("Failed to resolve product").WithError(err)
		}

		unitPrice, err := ResolveUnitPrice(product, line.Tier)
		if err != nil {
			return nil, err
		}

		item := models.OrderItem{
			ID:          uuid.New(),
			ProductID:   product.ID,
			ProductName: product.Name,
			Tier:        line.Tier,
			Quantity:    line.Quantity,
			UnitPrice:   unitPrice,
			LineTotal:   unitPrice * int64(line.Quantity),
			CreatedAt:   time.Now(),
		}

		draft, ok := groups[product.FarmerID]
		if !ok {
			draft = &models.DraftOrder{
				FarmerID:      product.FarmerID,
				BuyerID:       buyerID,
				Delivery:      req.Delivery,
				PaymentMethod: req.PaymentMethod,
			}
			groups[product.FarmerID] = draft
			drafts = append(drafts, draft)
		}

		draft.Items = append(draft.Items, item)
		draft.TotalAmount += item.LineTotal
	}

	return drafts, nil
}

// Submit validates the payment gate and writes the whole batch in one
// transaction. The cart is only cleared after the batch lands, so a failed
// submission loses nothing the buyer typed.
func (s *checkoutService) Submit(ctx context.Context, buyerID uuid.UUID, req *models.CheckoutRequest) ([]models.OrderConfirmation, error) {

	drafts, err := s.partitionByFarmer(ctx, buyerID, req)
	if err != nil {
		return nil, err
	}

	grandTotal := ComputeGrandTotal(drafts)

	var intentID string

	if req.PaymentMethod == models.PaymentMethodOnline {

		intent, err := s.paymentRepo.GetIntentByID(ctx, req.PaymentIntentID)
		if err != nil {
			return nil, appErrors.PaymentNotVerifiedError("No payment record found for this checkout").WithError(err)
		}

		if intent.Status != models.PaymentIntentVerified {
			return nil, appErrors.PaymentNotVerifiedError("Payment has not been verified")
		}

		if intent.Amount != grandTotal {
			return nil, appErrors.PaymentNotVerifiedError("Verified payment amount does not match the order total").
				WithDetail(fmt.Sprintf("paid %d, cart totals %d", intent.Amount, grandTotal))
		}

		intentID = intent.ID
	}

	now := time.Now()
	orders := make([]*models.Order, 0, len(drafts))

	for _, draft := range drafts {

		order := &models.Order{
			ID:              uuid.New(),
			BuyerID:         draft.BuyerID,
			FarmerID:        draft.FarmerID,
			Status:          models.OrderStatusProcessing,
			PaymentMethod:   draft.PaymentMethod,
			PaymentIntentID: intentID,
			Delivery:        draft.Delivery,
			TotalAmount:     draft.TotalAmount,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		for _, item := range draft.Items {
			item.OrderID = order.ID
			order.Items = append(order.Items, item)
		}

		orders = append(orders, order)
	}

	if err := s.orderRepo.CreateOrders(ctx, orders); err != nil {
		return nil, appErrors.DatabaseError("Failed to create orders").WithError(err)
	}

	if err := s.cartRepo.ClearCart(ctx, buyerID); err != nil {
		// The batch is already committed; an uncleared cart is recoverable.
		slog.Warn("Failed to clear cart after checkout",
			slog.String("buyerId", buyerID.String()),
			slog.String("error", err.Error()))
	}

	confirmations := make([]models.OrderConfirmation, 0, len(orders))
	for _, order := range orders {
		confirmations = append(confirmations, models.OrderConfirmation{
			OrderID:     order.ID,
			FarmerID:    order.FarmerID,
			TotalAmount: order.TotalAmount,
			Status:      order.Status,
		})
	}

	s.sendConfirmation(ctx, req.Delivery, confirmations, grandTotal)

	return confirmations, nil
}

func (s *checkoutService) sendConfirmation(ctx context.Context, delivery models.DeliveryInfo, confirmations []models.OrderConfirmation, grandTotal int64) {

	if s.notifier == nil {
		return
	}

	content := fmt.Sprintf("Hi %s, your order of %d item group(s) totalling %.2f INR has been placed and is being processed.",
		delivery.Name, len(confirmations), float64(grandTotal)/100)

	_, err := s.notifier.SendEmail(ctx, &models.EmailNotificationRequest{
		To:      delivery.Email,
		Subject: "Your FarmMart order confirmation",
		Content: content,
	})
	if err != nil {
		slog.Warn("Failed to send order confirmation email",
			slog.String("recipient", delivery.Email),
			slog.String("error", err.Error()))
	}
}
