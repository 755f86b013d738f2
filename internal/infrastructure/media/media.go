// Package media persists uploaded images for catalog entities. Fresh
// uploads land under a tmp prefix and are only promoted to permanent keys
// when the owning entity is saved, so abandoned uploads never leak into
// the permanent set.
package media

import (
	"context"

	"storefront-backend/internal/shared"
)

// Service is the media collaborator contract consumed by the catalog
// services. All operations are best-effort from the caller's point of
// view; none of them participate in database transactions.
type Service interface {
	// Upload stores a new image under tmp keys and returns its reference.
	Upload(ctx context.Context, data []byte, filename, collection string) (*shared.Media, error)

	// CheckTmpAndSaveMedias promotes tmp uploads among medias to permanent
	// keys. It returns the original tmp references (for later cleanup) and
	// the rewritten, persisted references to store on the entity.
	CheckTmpAndSaveMedias(ctx context.Context, medias []shared.Media, collection string) (tmpMedias, savedMedias []shared.Media, err error)

	DeleteTmpMedias(ctx context.Context, medias []shared.Media, collection string) error
	DeleteSavedMedias(ctx context.Context, medias []shared.Media, collection string) error
}
