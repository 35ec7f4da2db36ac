package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

type PaymentMethod string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"

	PaymentMethodCOD    PaymentMethod = "COD"
	PaymentMethodOnline PaymentMethod = "Online"
)

type DeliveryInfo struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
}

type OrderItem struct {
	ID          uuid.UUID `json:"id"`
	OrderID     uuid.UUID `json:"order_id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Tier        Tier      `json:"tier"`
	Quantity    int       `json:"quantity"`
	UnitPrice   int64     `json:"unit_price"`
	LineTotal   int64     `json:"line_total"`
	CreatedAt   time.Time `json:"created_at"`
}

// DraftOrder is one farmer's share of a checkout, derived fresh from the cart
// at review time and never persisted until submitted. Every item in a draft
// shares the draft's FarmerID, and TotalAmount is the exact sum of the items'
// line totals.
type DraftOrder struct {
	FarmerID      uuid.UUID     `json:"farmer_id"`
	BuyerID       uuid.UUID     `json:"buyer_id"`
	Delivery      DeliveryInfo  `json:"delivery"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Items         []OrderItem   `json:"items"`
	TotalAmount   int64         `json:"total_amount"`
}

type Order struct {
	ID              uuid.UUID     `json:"id"`
	BuyerID         uuid.UUID     `json:"buyer_id"`
	FarmerID        uuid.UUID     `json:"farmer_id"`
	Status          OrderStatus   `json:"status"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	PaymentIntentID string        `json:"payment_intent_id,omitempty"`
	Delivery        DeliveryInfo  `json:"delivery"`
	Items           []OrderItem   `json:"items"`
	TotalAmount     int64         `json:"total_amount"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

type CheckoutRequest struct {
	Delivery        DeliveryInfo  `json:"delivery" validate:"required"`
	PaymentMethod   PaymentMethod `json:"payment_method" validate:"required,oneof=COD Online"`
	PaymentIntentID string        `json:"payment_intent_id,omitempty" validate:"required_if=PaymentMethod Online"`
}

// CheckoutPreview is returned by the review step: the per-farmer split and
// the grand total the gateway will be asked for when paying online.
type CheckoutPreview struct {
	Orders     []*DraftOrder `json:"orders"`
	GrandTotal int64         `json:"grand_total"`
}

type OrderConfirmation struct {
	OrderID     uuid.UUID   `json:"order_id"`
	FarmerID    uuid.UUID   `json:"farmer_id"`
	TotalAmount int64       `json:"total_amount"`
	Status      OrderStatus `json:"status"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=processing shipped delivered cancelled"`
}
