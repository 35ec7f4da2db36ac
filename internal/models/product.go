package models

import (
	"time"

	"github.com/google/uuid"
)

// Tier is a fixed weight bucket; each bucket carries its own unit price.
type Tier string

const (
	Tier1kg  Tier = "1kg"
	Tier500g Tier = "500g"
	Tier250g Tier = "250g"
)

// TierPrices holds the seller-provided unit price per weight tier, in paise.
// The tiers are independent values: nothing here derives 500g or 250g from
// the 1kg price after creation.
type TierPrices struct {
	Price1kg  int64 `json:"price_1kg" validate:"required,gt=0"`
	Price500g int64 `json:"price_500g" validate:"required,gt=0"`
	Price250g int64 `json:"price_250g" validate:"required,gt=0"`
}

type Product struct {
	ID          uuid.UUID  `json:"id"`
	FarmerID    uuid.UUID  `json:"farmer_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Image       string     `json:"image"`
	Prices      TierPrices `json:"prices"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CreateProductRequest struct {
	Name        string     `json:"name" validate:"required,min=3,max=200"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category" validate:"required"`
	Image       string     `json:"image,omitempty" validate:"omitempty,url"`
	Prices      TierPrices `json:"prices" validate:"required"`
}

type UpdateProductRequest struct {
	Name        *string     `json:"name,omitempty" validate:"omitempty,min=3,max=200"`
	Description *string     `json:"description,omitempty"`
	Category    *string     `json:"category,omitempty"`
	Image       *string     `json:"image,omitempty" validate:"omitempty,url"`
	Prices      *TierPrices `json:"prices,omitempty"`
	Status      *string     `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

type Review struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type AddReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
	Name    string `json:"name,omitempty"`
}
