// Package search implements the per-collection full-text index the catalog
// services synchronize into after every committed write.
package search

import (
	"context"

	"storefront-backend/internal/shared"
)

type FieldType string

const (
	FieldTypeText    FieldType = "text"
	FieldTypeNumeric FieldType = "numeric"
	FieldTypeTag     FieldType = "tag"
)

// Field describes one indexed attribute of a collection schema.
type Field struct {
	Name     string
	Type     FieldType
	Sortable bool
}

// Doc is a flat document pushed into the index.
type Doc map[string]interface{}

// Result is one matching document returned by SearchByFilters.
type Result struct {
	ID     string
	Fields map[string]string
}

// Service is the search collaborator contract. The primary store stays
// authoritative; this index is eventually consistent and rebuilt nightly.
type Service interface {
	EnsureCollection(ctx context.Context, collection string, fields []Field) error
	AddDocument(ctx context.Context, collection string, id int64, doc Doc) error
	UpdateDocument(ctx context.Context, collection string, id int64, doc Doc) error
	DeleteDocument(ctx context.Context, collection string, id int64) error
	DeleteCollection(ctx context.Context, collection string) error
	SearchByFilters(
		ctx context.Context,
		collection string,
		filters []shared.Filter,
		skip, limit int,
		sorting *shared.Sorting,
		fields []Field,
	) ([]Result, int64, error)
}
