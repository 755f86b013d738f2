package category

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"storefront-backend/internal/shared"
)

// AdminAddOrUpdateCategoryReq carries the writable fields of a category.
// Zero-value fields on update mean "clear", except the ones the service
// never touches (id, breadcrumbs, reversedSortOrder).
type AdminAddOrUpdateCategoryReq struct {
	Name                string          `json:"name"`
	Slug                string          `json:"slug"`
	ParentID            int64           `json:"parentId"`
	CanonicalCategoryID int64           `json:"canonicalCategoryId"`
	IsEnabled           bool            `json:"isEnabled"`
	Description         string          `json:"description"`
	Medias              []shared.Media  `json:"medias"`
	MetaTags            shared.MetaTags `json:"metaTags"`
	DefaultItemsSort    string          `json:"defaultItemsSort"`
	// CreateRedirect keeps the old slug reachable after a rename.
	CreateRedirect bool `json:"createRedirect"`
}

func (r AdminAddOrUpdateCategoryReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Slug, validation.Length(0, 255)),
		validation.Field(&r.ParentID, validation.Min(int64(0))),
		validation.Field(&r.CanonicalCategoryID, validation.Min(int64(0))),
	)
}

// ReorderPosition says where the moved category lands relative to the target.
type ReorderPosition string

const (
	// PositionInside makes the moved category the last child of the target.
	PositionInside ReorderPosition = "inside"
	// PositionStart puts the moved category directly before the target.
	PositionStart ReorderPosition = "start"
	// PositionEnd puts the moved category directly after the target.
	PositionEnd ReorderPosition = "end"
)

type ReorderCategoriesReq struct {
	ID       int64           `json:"id"`
	TargetID int64           `json:"targetId"`
	Position ReorderPosition `json:"position"`
}

func (r ReorderCategoriesReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.TargetID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.Position, validation.Required,
			validation.In(PositionInside, PositionStart, PositionEnd)),
	)
}

// CategoryTreeItem is a resolved tree node for the admin sidebar.
type CategoryTreeItem struct {
	ID        int64               `json:"id"`
	Name      string              `json:"name"`
	Slug      string              `json:"slug"`
	ParentID  int64               `json:"parentId"`
	IsEnabled bool                `json:"isEnabled"`
	Children  []*CategoryTreeItem `json:"children"`
}

// TreeOptions tunes tree assembly per consumer.
type TreeOptions struct {
	// OnlyEnabled drops disabled branches entirely.
	OnlyEnabled bool
	// ExcludeClones drops clone placeholders from the forest.
	ExcludeClones bool
	// AdminView keeps a clone's own id so the admin UI links to the
	// clone document instead of its canonical target.
	AdminView bool
}

// ClientLinkedCategory is a compact sibling or child reference on the
// client category page.
type ClientLinkedCategory struct {
	ID         int64          `json:"id"`
	Name       string         `json:"name"`
	Slug       string         `json:"slug"`
	Medias     []shared.Media `json:"medias"`
	IsSelected bool           `json:"isSelected"`
}

// ClientCategory is the storefront category page payload.
type ClientCategory struct {
	ID                int64                  `json:"id"`
	Name              string                 `json:"name"`
	Slug              string                 `json:"slug"`
	Description       string                 `json:"description"`
	Breadcrumbs       []shared.Breadcrumb    `json:"breadcrumbs"`
	Medias            []shared.Media         `json:"medias"`
	MetaTags          shared.MetaTags        `json:"metaTags"`
	DefaultItemsSort  string                 `json:"defaultItemsSort"`
	SiblingCategories []ClientLinkedCategory `json:"siblingCategories"`
	ChildCategories   []ClientLinkedCategory `json:"childCategories"`
}
