package service

import (
	"context"
	"errors"
	"fmt"

	"storefront-backend/internal/domains/pageregistry"
	"storefront-backend/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pageRegistryService struct {
	pool *pgxpool.Pool
}

func NewPageRegistryService(pool *pgxpool.Pool) pageregistry.Service {
	return &pageRegistryService{pool: pool}
}

func (s *pageRegistryService) CreatePageRegistry(ctx context.Context, q database.Querier, page pageregistry.Page) error {
	const query = `
		INSERT INTO page_registry (slug, type, redirect_to)
		VALUES ($1, $2, '')
	`

	if _, err := q.Exec(ctx, query, page.Slug, page.Type); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return pageregistry.ErrSlugTaken
		}
		return fmt.Errorf("failed to register page %q: %w", page.Slug, err)
	}

	return nil
}

func (s *pageRegistryService) UpdatePageRegistry(ctx context.Context, q database.Querier, args pageregistry.UpdateArgs) error {
	const updateQuery = `
		UPDATE page_registry SET slug = $2 WHERE slug = $1 AND type = $3
	`

	if _, err := q.Exec(ctx, updateQuery, args.OldSlug, args.NewSlug, args.Type); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return pageregistry.ErrSlugTaken
		}
		return fmt.Errorf("failed to move page %q to %q: %w", args.OldSlug, args.NewSlug, err)
	}

	if args.CreateRedirect {
		const redirectQuery = `
			INSERT INTO page_registry (slug, type, redirect_to)
			VALUES ($1, $2, $3)
			ON CONFLICT (slug) DO UPDATE SET redirect_to = $3
		`
		if _, err := q.Exec(ctx, redirectQuery, args.OldSlug, args.Type, args.NewSlug); err != nil {
			return fmt.Errorf("failed to create redirect %q -> %q: %w", args.OldSlug, args.NewSlug, err)
		}
	}

	return nil
}

func (s *pageRegistryService) DeletePageRegistry(ctx context.Context, q database.Querier, slug string) error {
	const query = `
		DELETE FROM page_registry WHERE slug = $1 OR redirect_to = $1
	`

	if _, err := q.Exec(ctx, query, slug); err != nil {
		return fmt.Errorf("failed to delete page %q: %w", slug, err)
	}

	return nil
}

func (s *pageRegistryService) GetPageRegistry(ctx context.Context, slug string) (*pageregistry.Page, error) {
	const query = `
		SELECT slug, type, redirect_to FROM page_registry WHERE slug = $1
	`

	page := &pageregistry.Page{}
	err := s.pool.QueryRow(ctx, query, slug).Scan(&page.Slug, &page.Type, &page.RedirectTo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load page %q: %w", slug, err)
	}

	return page, nil
}
