package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"storefront-backend/internal/domains/category"
	"storefront-backend/internal/shared"
	"storefront-backend/pkg/logger"
)

// SearchSyncHandler applies single-document index mutations enqueued
// after category commits.
type SearchSyncHandler struct {
	service category.Service
}

func NewSearchSyncHandler(svc category.Service) *SearchSyncHandler {
	return &SearchSyncHandler{service: svc}
}

func (h *SearchSyncHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.SearchSyncPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal search sync payload: %w", err)
	}

	if err := h.service.SyncSearchDocument(ctx, payload.CategoryID, payload.Op); err != nil {
		logger.Error("category search sync failed", err)
		return err
	}

	logger.Debug(fmt.Sprintf("synced category %d to search index (%s)", payload.CategoryID, payload.Op))
	return nil
}
