package category

import (
	"context"

	"github.com/xuri/excelize/v2"

	"storefront-backend/internal/shared"
	"storefront-backend/pkg/database"
)

// Service is the category domain API consumed by handlers and jobs.
type Service interface {
	GetCategoriesTree(ctx context.Context, opts TreeOptions) ([]*CategoryTreeItem, error)
	GetCategoryByID(ctx context.Context, id int64) (*Category, error)
	GetClientCategoryBySlug(ctx context.Context, slug string) (*ClientCategory, error)
	GetClientSiblingCategories(ctx context.Context, categoryID int64) ([]ClientLinkedCategory, error)
	GetAdminCategoriesPage(ctx context.Context, spf *shared.SortPageFilter) (items []Category, itemsTotal int64, itemsFiltered *int64, err error)
	SearchEnabledByName(ctx context.Context, spf *shared.SortPageFilter, name string) ([]Category, error)

	CreateCategory(ctx context.Context, req *AdminAddOrUpdateCategoryReq) (*Category, error)
	UpdateCategory(ctx context.Context, id int64, req *AdminAddOrUpdateCategoryReq) (*Category, error)
	DeleteCategory(ctx context.Context, id int64) (*Category, error)
	ReorderCategories(ctx context.Context, req *ReorderCategoriesReq) error

	UploadMedia(ctx context.Context, data []byte, filename string) (*shared.Media, error)
	ExportCategoriesToExcel(ctx context.Context) (*excelize.File, error)

	// EnsureSearchCollection creates the search index when missing.
	EnsureSearchCollection(ctx context.Context) error
	// SyncSearchDocument applies one add/update/delete to the index.
	SyncSearchDocument(ctx context.Context, categoryID int64, op string) error
	// ReindexAllSearchData drops and rebuilds the whole index.
	ReindexAllSearchData(ctx context.Context) error
}

// ProductPropagator is the slice of the product domain categories write to.
// The category service calls it inside its own transactions so product
// denormalizations land in the same commit.
type ProductPropagator interface {
	// UpdateProductCategory rewrites the denormalized category entry on
	// every product linked to categoryID.
	UpdateProductCategory(ctx context.Context, q database.Querier, categoryID int64, name, slug string, isEnabled bool) error
	// RemoveCategoryID detaches categoryID from every product referencing it.
	RemoveCategoryID(ctx context.Context, q database.Querier, categoryID int64) error
}
