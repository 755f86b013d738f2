package category

import (
	"context"

	"storefront-backend/internal/shared"
	"storefront-backend/pkg/database"
)

// Repository is the persistence port of the category domain. Methods that
// take a database.Querier participate in the caller's transaction when
// handed a pgx.Tx and run standalone when handed the pool.
type Repository interface {
	GetAll(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, q database.Querier, id int64) (*Category, error)
	GetByIDs(ctx context.Context, ids []int64) ([]Category, error)
	GetBySlug(ctx context.Context, slug string, enabledOnly bool) (*Category, error)
	GetChildren(ctx context.Context, parentID int64, enabledOnly bool) ([]Category, error)
	GetPage(ctx context.Context, skip, limit int, sorting *shared.Sorting) ([]Category, error)
	CountAll(ctx context.Context) (int64, error)

	// GetLastSiblingOrder returns the highest reversedSortOrder among the
	// children of parentID. found is false when parentID has no children.
	GetLastSiblingOrder(ctx context.Context, q database.Querier, parentID int64) (order int, found bool, err error)

	Insert(ctx context.Context, q database.Querier, c *Category) error
	Update(ctx context.Context, q database.Querier, c *Category) error
	// Delete removes the row and returns it as it was.
	Delete(ctx context.Context, q database.Querier, id int64) (*Category, error)

	// ReparentChildren moves every direct child of oldParentID under
	// newParentID.
	ReparentChildren(ctx context.Context, q database.Querier, oldParentID, newParentID int64) error

	// ShiftSiblingOrders bumps reversedSortOrder by one for every child of
	// parentID whose order is above fromOrder (or equal when inclusive).
	ShiftSiblingOrders(ctx context.Context, q database.Querier, parentID int64, fromOrder int, inclusive bool) error

	// UpdateBreadcrumbRefs rewrites the entry matching b.ID inside every
	// category whose breadcrumb chain contains it.
	UpdateBreadcrumbRefs(ctx context.Context, q database.Querier, b shared.Breadcrumb) error
}
