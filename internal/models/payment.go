package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentIntentStatus string

const (
	PaymentIntentPending  PaymentIntentStatus = "pending"
	PaymentIntentVerified PaymentIntentStatus = "verified"
	PaymentIntentFailed   PaymentIntentStatus = "failed"
)

// PaymentIntent tracks one online payment attempt. ID is the gateway-side
// order id; Amount is in paise. A checkout may only be submitted against an
// intent that has reached the verified status.
type PaymentIntent struct {
	ID        string              `json:"id"`
	BuyerID   uuid.UUID           `json:"buyer_id"`
	Amount    int64               `json:"amount"`
	Currency  string              `json:"currency"`
	Status    PaymentIntentStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

type CreatePaymentOrderRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// VerifyPaymentRequest carries the gateway checkout callback payload.
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

type PaymentVerificationResponse struct {
	Status PaymentIntentStatus `json:"status"`
}
