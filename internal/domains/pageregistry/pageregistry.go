// Package pageregistry maps public URL slugs to the page that should be
// rendered for them. Catalog writes keep it in sync inside the same
// transaction as the owning entity.
package pageregistry

import (
	"context"
	"errors"

	"storefront-backend/internal/shared"
	"storefront-backend/pkg/database"
)

var ErrSlugTaken = errors.New("slug is already registered")

// Page is one registry row. RedirectTo is set on redirect rows left
// behind after a slug change.
type Page struct {
	Slug       string          `json:"slug"`
	Type       shared.PageType `json:"type"`
	RedirectTo string          `json:"redirectTo,omitempty"`
}

// UpdateArgs describes a slug change. CreateRedirect keeps the old slug
// alive as a redirect row pointing at the new one.
type UpdateArgs struct {
	OldSlug        string
	NewSlug        string
	Type           shared.PageType
	CreateRedirect bool
}

// Service is the page registry collaborator contract. Every method runs
// on the caller's transaction.
type Service interface {
	CreatePageRegistry(ctx context.Context, q database.Querier, page Page) error
	UpdatePageRegistry(ctx context.Context, q database.Querier, args UpdateArgs) error
	DeletePageRegistry(ctx context.Context, q database.Querier, slug string) error
	GetPageRegistry(ctx context.Context, slug string) (*Page, error)
}
