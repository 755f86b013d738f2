package shared

// Collection names double as primary-store table prefixes, search index
// names and counter keys.
const (
	CollectionCategories = "categories"
	CollectionProducts   = "products"
)

// Page types stored in the page registry.
type PageType string

const (
	PageTypeCategory PageType = "category"
	PageTypeProduct  PageType = "product"
)

// Asynq task types.
const (
	TypeCategorySearchSync = "category:search_sync"
	TypeCategoryReindexAll = "category:reindex_all"
	TypeMediaCleanup       = "media:cleanup"
)

// Asynq queue names.
const (
	QueueSearch = "search"
	QueueMedia  = "media"
)

// Search sync operations.
const (
	SearchOpAdd    = "add"
	SearchOpUpdate = "update"
	SearchOpDelete = "delete"
)

// SearchSyncPayload asks the worker to push one document into the index.
type SearchSyncPayload struct {
	CategoryID int64  `json:"categoryId"`
	Op         string `json:"op"`
}

// MediaCleanupPayload asks the worker to delete media objects. Kind is
// "tmp" for never-promoted uploads and "saved" for dereferenced media.
type MediaCleanupPayload struct {
	Collection string  `json:"collection"`
	Kind       string  `json:"kind"`
	Medias     []Media `json:"medias"`
}

const (
	MediaKindTmp   = "tmp"
	MediaKindSaved = "saved"
)

// Breadcrumb is one cached ancestor entry stored on a category document.
type Breadcrumb struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	IsEnabled bool   `json:"isEnabled"`
}

// MediaVariants holds the URLs of the resized renditions of one upload.
type MediaVariants struct {
	Original string `json:"original"`
	Large    string `json:"large"`
	Medium   string `json:"medium"`
	Small    string `json:"small"`
}

// Media is a reference to a stored image attached to a catalog entity.
type Media struct {
	VariantsURLs MediaVariants `json:"variantsUrls"`
	AltText      string        `json:"altText"`
	IsHidden     bool          `json:"isHidden"`
}

// MetaTags are the SEO fields rendered into the page head.
type MetaTags struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
}
