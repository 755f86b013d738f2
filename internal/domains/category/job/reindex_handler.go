package job

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"storefront-backend/internal/domains/category"
	"storefront-backend/pkg/logger"
)

// ReindexHandler rebuilds the whole category search index. Scheduled
// nightly and also enqueued after reorders, since relative ordering
// invalidates many documents at once.
type ReindexHandler struct {
	service category.Service
}

func NewReindexHandler(svc category.Service) *ReindexHandler {
	return &ReindexHandler{service: svc}
}

func (h *ReindexHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	started := time.Now()

	if err := h.service.ReindexAllSearchData(ctx); err != nil {
		logger.Error("category full reindex failed", err)
		return err
	}

	logger.Info("category full reindex finished", map[string]interface{}{
		"took": time.Since(started).String(),
	})
	return nil
}
