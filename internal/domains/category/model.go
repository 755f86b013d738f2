package category

import (
	"strconv"
	"time"

	"storefront-backend/internal/infrastructure/search"
	"storefront-backend/internal/shared"
)

const CollectionName = shared.CollectionCategories

// Category is a node of the catalog tree.
//
// ParentID 0 marks a root. A non-zero CanonicalCategoryID marks a clone:
// a positional placeholder shown under its own parent and name but
// rendered with the canonical category's content. Breadcrumbs cache the
// ancestor chain (root excluded) so read paths never walk the tree;
// every ancestor rename/slug/enable change rewrites the matching entry
// in all descendants within the ancestor's own transaction.
type Category struct {
	ID                  int64               `json:"id"`
	Name                string              `json:"name"`
	Slug                string              `json:"slug"`
	ParentID            int64               `json:"parentId"`
	CanonicalCategoryID int64               `json:"canonicalCategoryId,omitempty"`
	IsEnabled           bool                `json:"isEnabled"`
	Description         string              `json:"description"`
	// Higher value sorts first among siblings; descending order by this
	// field yields ascending on-screen order. Query layers depend on the
	// inversion, keep it exact.
	ReversedSortOrder int                 `json:"reversedSortOrder"`
	Breadcrumbs       []shared.Breadcrumb `json:"breadcrumbs"`
	Medias            []shared.Media      `json:"medias"`
	MetaTags          shared.MetaTags     `json:"metaTags"`
	DefaultItemsSort  string              `json:"defaultItemsSort"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
}

func (c *Category) IsClone() bool {
	return c.CanonicalCategoryID != 0
}

// SearchSchema is the index layout of the categories collection.
func SearchSchema() []search.Field {
	return []search.Field{
		{Name: "id", Type: search.FieldTypeNumeric, Sortable: true},
		{Name: "name", Type: search.FieldTypeText, Sortable: true},
		{Name: "slug", Type: search.FieldTypeText},
		{Name: "isEnabled", Type: search.FieldTypeTag},
		{Name: "parentId", Type: search.FieldTypeNumeric},
		{Name: "reversedSortOrder", Type: search.FieldTypeNumeric, Sortable: true},
	}
}

// ToSearchDoc flattens the category into its indexed fields.
func (c *Category) ToSearchDoc() search.Doc {
	return search.Doc{
		"id":                c.ID,
		"name":              c.Name,
		"slug":              c.Slug,
		"isEnabled":         strconv.FormatBool(c.IsEnabled),
		"parentId":          c.ParentID,
		"reversedSortOrder": c.ReversedSortOrder,
	}
}
