package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-backend/internal/domains/product"
	"storefront-backend/pkg/database"
)

const productColumns = `id, sku, name, slug, price, categories, tags, medias,
	is_enabled, created_at, updated_at`

type postgresProductRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresProductRepository(pool *pgxpool.Pool) product.Repository {
	return &postgresProductRepository{pool: pool}
}

func scanProduct(row pgx.Row) (*product.Product, error) {
	var p product.Product
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Slug, &p.Price, &p.Categories, &p.Tags,
		&p.Medias, &p.IsEnabled, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]product.Product, error) {
	defer rows.Close()

	var items []product.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

func (r *postgresProductRepository) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, product.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product %d: %w", id, err)
	}
	return p, nil
}

func (r *postgresProductRepository) GetByCategoryID(ctx context.Context, categoryID int64, skip, limit int) ([]product.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE categories @> jsonb_build_array(jsonb_build_object('id', $1::bigint))
		ORDER BY id LIMIT $2 OFFSET $3`, productColumns)

	rows, err := r.pool.Query(ctx, query, categoryID, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("query products of category %d: %w", categoryID, err)
	}
	return collectProducts(rows)
}

func (r *postgresProductRepository) GetPage(ctx context.Context, skip, limit int) ([]product.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY id LIMIT $1 OFFSET $2`, productColumns)

	rows, err := r.pool.Query(ctx, query, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("query products page: %w", err)
	}
	return collectProducts(rows)
}

func (r *postgresProductRepository) CountAll(ctx context.Context) (int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return total, nil
}

func (r *postgresProductRepository) UpdateCategoryRefs(ctx context.Context, q database.Querier, categoryID int64, name, slug string, isEnabled bool) error {
	_, err := q.Exec(ctx, `
		UPDATE products
		SET categories = (
			SELECT jsonb_agg(
				CASE WHEN (elem->>'id')::bigint = $1
					THEN jsonb_build_object(
						'id', $1::bigint, 'name', $2::text,
						'slug', $3::text, 'isEnabled', $4::boolean)
					ELSE elem
				END ORDER BY ord)
			FROM jsonb_array_elements(categories) WITH ORDINALITY AS t(elem, ord)
		),
		updated_at = now()
		WHERE categories @> jsonb_build_array(jsonb_build_object('id', $1::bigint))`,
		categoryID, name, slug, isEnabled)
	if err != nil {
		return fmt.Errorf("update category refs of %d: %w", categoryID, err)
	}
	return nil
}

func (r *postgresProductRepository) RemoveCategoryRefs(ctx context.Context, q database.Querier, categoryID int64) error {
	_, err := q.Exec(ctx, `
		UPDATE products
		SET categories = COALESCE((
			SELECT jsonb_agg(elem ORDER BY ord)
			FROM jsonb_array_elements(categories) WITH ORDINALITY AS t(elem, ord)
			WHERE (elem->>'id')::bigint <> $1
		), '[]'::jsonb),
		updated_at = now()
		WHERE categories @> jsonb_build_array(jsonb_build_object('id', $1::bigint))`,
		categoryID)
	if err != nil {
		return fmt.Errorf("remove category refs of %d: %w", categoryID, err)
	}
	return nil
}
