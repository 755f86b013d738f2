package service

import (
	"context"

	"storefront-backend/internal/domains/product"
	"storefront-backend/internal/shared"
	"storefront-backend/pkg/database"
)

type productService struct {
	repo product.Repository
}

func NewProductService(repo product.Repository) product.Service {
	return &productService{repo: repo}
}

func (s *productService) GetProductByID(ctx context.Context, id int64) (*product.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *productService) GetProductsPage(ctx context.Context, spf *shared.SortPageFilter) ([]product.Product, int64, error) {
	itemsTotal, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.repo.GetPage(ctx, spf.Skip(), spf.Limit)
	if err != nil {
		return nil, 0, err
	}
	return items, itemsTotal, nil
}

func (s *productService) GetProductsByCategoryID(ctx context.Context, categoryID int64, spf *shared.SortPageFilter) ([]product.Product, error) {
	return s.repo.GetByCategoryID(ctx, categoryID, spf.Skip(), spf.Limit)
}

func (s *productService) UpdateProductCategory(ctx context.Context, q database.Querier, categoryID int64, name, slug string, isEnabled bool) error {
	return s.repo.UpdateCategoryRefs(ctx, q, categoryID, name, slug, isEnabled)
}

func (s *productService) RemoveCategoryID(ctx context.Context, q database.Querier, categoryID int64) error {
	return s.repo.RemoveCategoryRefs(ctx, q, categoryID)
}
