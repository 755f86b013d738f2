package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/hibiken/asynq"

	"storefront-backend/internal/domains/category"
	"storefront-backend/internal/infrastructure/search"
	"storefront-backend/internal/shared"
	"storefront-backend/internal/shared/utils"
	"storefront-backend/pkg/logger"
)

func (s *categoryService) EnsureSearchCollection(ctx context.Context) error {
	return s.searches.EnsureCollection(ctx, category.CollectionName, category.SearchSchema())
}

// SyncSearchDocument applies a single post-commit index mutation. A
// document deleted between commit and sync degrades the add/update into
// a delete.
func (s *categoryService) SyncSearchDocument(ctx context.Context, categoryID int64, op string) error {
	if op == shared.SearchOpDelete {
		return s.searches.DeleteDocument(ctx, category.CollectionName, categoryID)
	}

	c, err := s.repo.GetByID(ctx, s.db, categoryID)
	if errors.Is(err, category.ErrCategoryNotFound) {
		return s.searches.DeleteDocument(ctx, category.CollectionName, categoryID)
	}
	if err != nil {
		return err
	}

	if op == shared.SearchOpUpdate {
		return s.searches.UpdateDocument(ctx, category.CollectionName, categoryID, c.ToSearchDoc())
	}
	return s.searches.AddDocument(ctx, category.CollectionName, categoryID, c.ToSearchDoc())
}

// ReindexAllSearchData rebuilds the category index from scratch: drop,
// recreate, then re-add every document in fixed-size batches.
func (s *categoryService) ReindexAllSearchData(ctx context.Context) error {
	if err := s.searches.DeleteCollection(ctx, category.CollectionName); err != nil {
		return err
	}
	if err := s.EnsureSearchCollection(ctx); err != nil {
		return err
	}

	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return err
	}

	for _, batch := range utils.Batches(all, s.reindexBatchSize) {
		ids := make([]int64, 0, len(batch))
		for i := range batch {
			c := &batch[i]
			if err := s.searches.AddDocument(ctx, category.CollectionName, c.ID, c.ToSearchDoc()); err != nil {
				return err
			}
			ids = append(ids, c.ID)
		}
		logger.Info("reindexed category batch", map[string]interface{}{
			"ids": ids,
		})
	}
	return nil
}

func (s *categoryService) searchCategoriesPage(ctx context.Context, spf *shared.SortPageFilter) ([]category.Category, int64, error) {
	results, filtered, err := s.searches.SearchByFilters(
		ctx, category.CollectionName,
		spf.Filters, spf.Skip(), spf.Limit, spf.GetSorting(),
		category.SearchSchema(),
	)
	if err != nil {
		return nil, 0, err
	}

	items, err := s.categoriesFromResults(ctx, results)
	if err != nil {
		return nil, 0, err
	}
	return items, filtered, nil
}

func (s *categoryService) SearchEnabledByName(ctx context.Context, spf *shared.SortPageFilter, name string) ([]category.Category, error) {
	filters := []shared.Filter{
		{FieldName: "name", Values: []string{name}},
		{FieldName: "isEnabled", Values: []string{"true"}},
	}
	sorting := spf.GetSorting()
	if sorting == nil {
		sorting = &shared.Sorting{FieldName: "reversedSortOrder"}
	}

	results, _, err := s.searches.SearchByFilters(
		ctx, category.CollectionName,
		filters, spf.Skip(), spf.Limit, sorting,
		category.SearchSchema(),
	)
	if err != nil {
		return nil, err
	}
	return s.categoriesFromResults(ctx, results)
}

// categoriesFromResults loads the matched documents from the primary
// store, preserving index ranking.
func (s *categoryService) categoriesFromResults(ctx context.Context, results []search.Result) ([]category.Category, error) {
	ids := make([]int64, 0, len(results))
	for _, r := range results {
		id, err := strconv.ParseInt(r.Fields["id"], 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	loaded, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]category.Category, len(loaded))
	for _, c := range loaded {
		byID[c.ID] = c
	}
	ordered := make([]category.Category, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}

// Post-commit side effects are fire-and-forget: enqueue failures are
// logged and dropped, the nightly reindex sweep self-heals the index.

func (s *categoryService) enqueueSearchSync(categoryID int64, op string) {
	payload, err := json.Marshal(shared.SearchSyncPayload{CategoryID: categoryID, Op: op})
	if err != nil {
		logger.Error("failed to marshal search sync payload", err)
		return
	}

	task := asynq.NewTask(shared.TypeCategorySearchSync, payload)
	if _, err := s.queue.Enqueue(task, asynq.Queue(shared.QueueSearch), asynq.MaxRetry(3)); err != nil {
		logger.Warn("failed to enqueue search sync", map[string]interface{}{
			"categoryId": categoryID,
			"op":         op,
			"error":      err.Error(),
		})
	}
}

func (s *categoryService) enqueueReindexAll() {
	task := asynq.NewTask(shared.TypeCategoryReindexAll, nil)
	if _, err := s.queue.Enqueue(task, asynq.Queue(shared.QueueSearch), asynq.MaxRetry(1)); err != nil {
		logger.Warn("failed to enqueue full reindex", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *categoryService) enqueueMediaCleanup(medias []shared.Media, kind string) {
	if len(medias) == 0 {
		return
	}

	payload, err := json.Marshal(shared.MediaCleanupPayload{
		Collection: category.CollectionName,
		Kind:       kind,
		Medias:     medias,
	})
	if err != nil {
		logger.Error("failed to marshal media cleanup payload", err)
		return
	}

	task := asynq.NewTask(shared.TypeMediaCleanup, payload)
	if _, err := s.queue.Enqueue(task, asynq.Queue(shared.QueueMedia), asynq.MaxRetry(3)); err != nil {
		logger.Warn("failed to enqueue media cleanup", map[string]interface{}{
			"kind":  kind,
			"count": len(medias),
			"error": err.Error(),
		})
	}
}
