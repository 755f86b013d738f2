package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-backend/internal/domains/category"
	"storefront-backend/internal/shared"
	"storefront-backend/pkg/database"
)

const categoryColumns = `id, name, slug, parent_id, canonical_category_id, is_enabled,
	description, reversed_sort_order, breadcrumbs, medias, meta_tags,
	default_items_sort, created_at, updated_at`

// allowed sort fields for paginated admin listing
var sortColumns = map[string]string{
	"id":                "id",
	"name":              "name",
	"slug":              "slug",
	"isEnabled":         "is_enabled",
	"reversedSortOrder": "reversed_sort_order",
	"createdAt":         "created_at",
	"updatedAt":         "updated_at",
}

type postgresCategoryRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCategoryRepository(pool *pgxpool.Pool) category.Repository {
	return &postgresCategoryRepository{pool: pool}
}

func scanCategory(row pgx.Row) (*category.Category, error) {
	var c category.Category
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.CanonicalCategoryID, &c.IsEnabled,
		&c.Description, &c.ReversedSortOrder, &c.Breadcrumbs, &c.Medias, &c.MetaTags,
		&c.DefaultItemsSort, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func collectCategories(rows pgx.Rows) ([]category.Category, error) {
	defer rows.Close()

	var items []category.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

func (r *postgresCategoryRepository) GetAll(ctx context.Context) ([]category.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories ORDER BY reversed_sort_order DESC, id`, categoryColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	return collectCategories(rows)
}

func (r *postgresCategoryRepository) GetByID(ctx context.Context, q database.Querier, id int64) (*category.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories WHERE id = $1`, categoryColumns)

	c, err := scanCategory(q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, category.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query category %d: %w", id, err)
	}
	return c, nil
}

func (r *postgresCategoryRepository) GetByIDs(ctx context.Context, ids []int64) ([]category.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM categories WHERE id = ANY($1)`, categoryColumns)

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("query categories by ids: %w", err)
	}
	return collectCategories(rows)
}

func (r *postgresCategoryRepository) GetBySlug(ctx context.Context, slug string, enabledOnly bool) (*category.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories WHERE slug = $1`, categoryColumns)
	if enabledOnly {
		query += ` AND is_enabled = true`
	}

	c, err := scanCategory(r.pool.QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, category.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query category by slug %q: %w", slug, err)
	}
	return c, nil
}

func (r *postgresCategoryRepository) GetChildren(ctx context.Context, parentID int64, enabledOnly bool) ([]category.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories WHERE parent_id = $1`, categoryColumns)
	if enabledOnly {
		query += ` AND is_enabled = true`
	}
	query += ` ORDER BY reversed_sort_order DESC, id`

	rows, err := r.pool.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("query children of %d: %w", parentID, err)
	}
	return collectCategories(rows)
}

func (r *postgresCategoryRepository) GetPage(ctx context.Context, skip, limit int, sorting *shared.Sorting) ([]category.Category, error) {
	orderBy := "reversed_sort_order DESC, id"
	if sorting != nil {
		if col, ok := sortColumns[sorting.FieldName]; ok {
			orderBy = col
			if sorting.Desc {
				orderBy += " DESC"
			}
		}
	}
	query := fmt.Sprintf(`SELECT %s FROM categories ORDER BY %s LIMIT $1 OFFSET $2`,
		categoryColumns, orderBy)

	rows, err := r.pool.Query(ctx, query, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("query categories page: %w", err)
	}
	return collectCategories(rows)
}

func (r *postgresCategoryRepository) CountAll(ctx context.Context) (int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM categories`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return total, nil
}

func (r *postgresCategoryRepository) GetLastSiblingOrder(ctx context.Context, q database.Querier, parentID int64) (int, bool, error) {
	var order int
	err := q.QueryRow(ctx,
		`SELECT reversed_sort_order FROM categories WHERE parent_id = $1
		 ORDER BY reversed_sort_order DESC LIMIT 1`, parentID).Scan(&order)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("query last sibling order: %w", err)
	}
	return order, true, nil
}

func (r *postgresCategoryRepository) Insert(ctx context.Context, q database.Querier, c *category.Category) error {
	_, err := q.Exec(ctx, `
		INSERT INTO categories (id, name, slug, parent_id, canonical_category_id, is_enabled,
			description, reversed_sort_order, breadcrumbs, medias, meta_tags,
			default_items_sort, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		c.ID, c.Name, c.Slug, c.ParentID, c.CanonicalCategoryID, c.IsEnabled,
		c.Description, c.ReversedSortOrder, c.Breadcrumbs, c.Medias, c.MetaTags,
		c.DefaultItemsSort, c.CreatedAt, c.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return category.ErrSlugAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *postgresCategoryRepository) Update(ctx context.Context, q database.Querier, c *category.Category) error {
	tag, err := q.Exec(ctx, `
		UPDATE categories
		SET name = $2, slug = $3, parent_id = $4, canonical_category_id = $5,
			is_enabled = $6, description = $7, reversed_sort_order = $8,
			breadcrumbs = $9, medias = $10, meta_tags = $11,
			default_items_sort = $12, updated_at = $13
		WHERE id = $1`,
		c.ID, c.Name, c.Slug, c.ParentID, c.CanonicalCategoryID,
		c.IsEnabled, c.Description, c.ReversedSortOrder,
		c.Breadcrumbs, c.Medias, c.MetaTags,
		c.DefaultItemsSort, c.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return category.ErrSlugAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("update category %d: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return category.ErrCategoryNotFound
	}
	return nil
}

func (r *postgresCategoryRepository) Delete(ctx context.Context, q database.Querier, id int64) (*category.Category, error) {
	query := fmt.Sprintf(`DELETE FROM categories WHERE id = $1 RETURNING %s`, categoryColumns)

	c, err := scanCategory(q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, category.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete category %d: %w", id, err)
	}
	return c, nil
}

func (r *postgresCategoryRepository) ReparentChildren(ctx context.Context, q database.Querier, oldParentID, newParentID int64) error {
	_, err := q.Exec(ctx,
		`UPDATE categories SET parent_id = $2, updated_at = now() WHERE parent_id = $1`,
		oldParentID, newParentID)
	if err != nil {
		return fmt.Errorf("reparent children of %d: %w", oldParentID, err)
	}
	return nil
}

func (r *postgresCategoryRepository) ShiftSiblingOrders(ctx context.Context, q database.Querier, parentID int64, fromOrder int, inclusive bool) error {
	cmp := ">"
	if inclusive {
		cmp = ">="
	}
	query := fmt.Sprintf(`
		UPDATE categories
		SET reversed_sort_order = reversed_sort_order + 1, updated_at = now()
		WHERE parent_id = $1 AND reversed_sort_order %s $2`, cmp)

	if _, err := q.Exec(ctx, query, parentID, fromOrder); err != nil {
		return fmt.Errorf("shift sibling orders under %d: %w", parentID, err)
	}
	return nil
}

func (r *postgresCategoryRepository) UpdateBreadcrumbRefs(ctx context.Context, q database.Querier, b shared.Breadcrumb) error {
	// Containment on the id keeps the rewrite to rows that actually hold
	// the breadcrumb, so the jsonb_agg rebuild stays cheap.
	_, err := q.Exec(ctx, `
		UPDATE categories
		SET breadcrumbs = (
			SELECT jsonb_agg(
				CASE WHEN (elem->>'id')::bigint = $1
					THEN jsonb_build_object(
						'id', $1::bigint, 'name', $2::text,
						'slug', $3::text, 'isEnabled', $4::boolean)
					ELSE elem
				END ORDER BY ord)
			FROM jsonb_array_elements(breadcrumbs) WITH ORDINALITY AS t(elem, ord)
		),
		updated_at = now()
		WHERE breadcrumbs @> jsonb_build_array(jsonb_build_object('id', $1::bigint))`,
		b.ID, b.Name, b.Slug, b.IsEnabled)
	if err != nil {
		return fmt.Errorf("update breadcrumb refs of %d: %w", b.ID, err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
