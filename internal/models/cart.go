package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one line of a buyer's cart. UnitPrice is resolved server-side
// from the product's tier prices at add time and recomputed at checkout; the
// client-supplied price is never trusted. Amounts are integer paise.
type CartItem struct {
	ProductID uuid.UUID `json:"product_id"`
	FarmerID  uuid.UUID `json:"farmer_id"`
	Tier      Tier      `json:"tier"`
	Quantity  int       `json:"quantity"`
	UnitPrice int64     `json:"unit_price"`
	LineTotal int64     `json:"line_total"`
	AddedAt   time.Time `json:"added_at"`
}

// Cart items are keyed by product id + tier, so the same product carted at
// two different weights forms two independent lines.
type Cart struct {
	ID        uuid.UUID           `json:"id"`
	UserID    uuid.UUID           `json:"user_id"`
	Items     map[string]CartItem `json:"items"`
	Total     int64               `json:"total"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func CartItemKey(productID uuid.UUID, tier Tier) string {
	return productID.String() + ":" + string(tier)
}

type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Tier      Tier      `json:"tier"       validate:"required"`
	Quantity  int       `json:"quantity"   validate:"required,min=1"`
}

type UpdateQuantityRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Tier      Tier      `json:"tier"       validate:"required"`
	Quantity  int       `json:"quantity"   validate:"min=0"`
}
