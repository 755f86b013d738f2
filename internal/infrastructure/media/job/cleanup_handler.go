package job

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront-backend/internal/infrastructure/media"
	"storefront-backend/internal/shared"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// CleanupHandler deletes media objects dereferenced by a committed write.
type CleanupHandler struct {
	medias media.Service
}

func NewCleanupHandler(medias media.Service) *CleanupHandler {
	return &CleanupHandler{medias: medias}
}

func (h *CleanupHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.MediaCleanupPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal MediaCleanup payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	if len(payload.Medias) == 0 {
		return nil
	}

	var err error
	switch payload.Kind {
	case shared.MediaKindTmp:
		err = h.medias.DeleteTmpMedias(ctx, payload.Medias, payload.Collection)
	default:
		err = h.medias.DeleteSavedMedias(ctx, payload.Medias, payload.Collection)
	}

	if err != nil {
		log.Error().
			Err(err).
			Str("collection", payload.Collection).
			Str("kind", payload.Kind).
			Int("count", len(payload.Medias)).
			Msg("Failed to delete medias")
		return fmt.Errorf("delete medias: %w", err)
	}

	log.Info().
		Str("collection", payload.Collection).
		Str("kind", payload.Kind).
		Int("count", len(payload.Medias)).
		Msg("Medias deleted")

	return nil
}
