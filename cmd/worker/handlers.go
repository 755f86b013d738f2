package main

import (
	"github.com/hibiken/asynq"

	categoryJob "storefront-backend/internal/domains/category/job"
	mediaJob "storefront-backend/internal/infrastructure/media/job"
	"storefront-backend/internal/shared"
	"storefront-backend/pkg/container"
)

// HandlerRegistry gathers every task handler the worker serves.
type HandlerRegistry struct {
	SearchSync   *categoryJob.SearchSyncHandler
	Reindex      *categoryJob.ReindexHandler
	MediaCleanup *mediaJob.CleanupHandler
}

func newHandlerRegistry(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		SearchSync:   categoryJob.NewSearchSyncHandler(c.CategoryService),
		Reindex:      categoryJob.NewReindexHandler(c.CategoryService),
		MediaCleanup: mediaJob.NewCleanupHandler(c.MediaService),
	}
}

func (r *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.Handle(shared.TypeCategorySearchSync, r.SearchSync)
	mux.Handle(shared.TypeCategoryReindexAll, r.Reindex)
	mux.Handle(shared.TypeMediaCleanup, r.MediaCleanup)
}
