package product

import (
	"context"

	"storefront-backend/internal/shared"
	"storefront-backend/pkg/database"
)

// Service exposes product reads plus the category-denormalization hooks
// the category service drives. The write hooks run on the category
// transaction so both collections change in one commit.
type Service interface {
	GetProductByID(ctx context.Context, id int64) (*Product, error)
	GetProductsPage(ctx context.Context, spf *shared.SortPageFilter) (items []Product, itemsTotal int64, err error)
	GetProductsByCategoryID(ctx context.Context, categoryID int64, spf *shared.SortPageFilter) ([]Product, error)

	UpdateProductCategory(ctx context.Context, q database.Querier, categoryID int64, name, slug string, isEnabled bool) error
	RemoveCategoryID(ctx context.Context, q database.Querier, categoryID int64) error
}
