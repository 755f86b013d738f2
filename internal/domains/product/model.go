package product

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"storefront-backend/internal/shared"
)

const CollectionName = shared.CollectionProducts

// CategoryRef is the denormalized category entry stored on a product.
// It mirrors the owning category's name/slug/enabled state and is kept
// in sync by the category service inside its own transactions.
type CategoryRef struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	IsEnabled bool   `json:"isEnabled"`
}

type Product struct {
	ID         int64           `json:"id"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Slug       string          `json:"slug"`
	Price      decimal.Decimal `json:"price"`
	Categories []CategoryRef   `json:"categories"`
	Tags       pq.StringArray  `json:"tags"`
	Medias     []shared.Media  `json:"medias"`
	IsEnabled  bool            `json:"isEnabled"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}
