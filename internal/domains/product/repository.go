package product

import (
	"context"

	"storefront-backend/pkg/database"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetByCategoryID(ctx context.Context, categoryID int64, skip, limit int) ([]Product, error)
	GetPage(ctx context.Context, skip, limit int) ([]Product, error)
	CountAll(ctx context.Context) (int64, error)

	// UpdateCategoryRefs rewrites the denormalized entry for categoryID on
	// every product carrying it.
	UpdateCategoryRefs(ctx context.Context, q database.Querier, categoryID int64, name, slug string, isEnabled bool) error
	// RemoveCategoryRefs strips the entry for categoryID everywhere.
	RemoveCategoryRefs(ctx context.Context, q database.Querier, categoryID int64) error
}
