package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tiendc/go-deepcopy"

	"storefront-backend/internal/domains/category"
	"storefront-backend/internal/domains/pageregistry"
	"storefront-backend/internal/infrastructure/media"
	"storefront-backend/internal/infrastructure/queue"
	"storefront-backend/internal/infrastructure/search"
	"storefront-backend/internal/shared"
	"storefront-backend/internal/shared/counter"
	"storefront-backend/internal/shared/utils"
	"storefront-backend/pkg/database"
)

type categoryService struct {
	repo     category.Repository
	products category.ProductPropagator
	pages    pageregistry.Service
	counters counter.Service
	medias   media.Service
	searches search.Service
	tx       database.TxManager
	db       database.Querier
	queue    queue.Enqueuer

	reindexBatchSize int
}

func NewCategoryService(
	repo category.Repository,
	products category.ProductPropagator,
	pages pageregistry.Service,
	counters counter.Service,
	medias media.Service,
	searches search.Service,
	tx database.TxManager,
	db database.Querier,
	enqueuer queue.Enqueuer,
	reindexBatchSize int,
) category.Service {
	return &categoryService{
		repo:             repo,
		products:         products,
		pages:            pages,
		counters:         counters,
		medias:           medias,
		searches:         searches,
		tx:               tx,
		db:               db,
		queue:            enqueuer,
		reindexBatchSize: reindexBatchSize,
	}
}

// treeNode pairs a built item with the document's own id. Children are
// always attached by own id; in non-admin views the item's visible id is
// the canonical one for resolved clones, so the two can differ.
type treeNode struct {
	item  *category.CategoryTreeItem
	ownID int64
}

func (s *categoryService) GetCategoriesTree(ctx context.Context, opts category.TreeOptions) ([]*category.CategoryTreeItem, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*category.Category, len(all))
	for i := range all {
		byID[all[i].ID] = &all[i]
	}

	var roots []treeNode
	grouped := make(map[int64][]treeNode)
	for i := range all {
		c := &all[i]
		if opts.ExcludeClones && c.IsClone() {
			continue
		}
		resolved := resolveFromSet(c, byID, opts.AdminView)
		if opts.OnlyEnabled && !resolved.IsEnabled {
			continue
		}

		node := treeNode{
			item: &category.CategoryTreeItem{
				ID:        resolved.ID,
				Name:      resolved.Name,
				Slug:      resolved.Slug,
				ParentID:  c.ParentID,
				IsEnabled: resolved.IsEnabled,
				Children:  []*category.CategoryTreeItem{},
			},
			ownID: c.ID,
		}
		if c.ParentID == 0 {
			roots = append(roots, node)
		} else {
			grouped[c.ParentID] = append(grouped[c.ParentID], node)
		}
	}

	var attach func(n treeNode)
	attach = func(n treeNode) {
		for _, child := range grouped[n.ownID] {
			attach(child)
			n.item.Children = append(n.item.Children, child.item)
		}
	}

	forest := make([]*category.CategoryTreeItem, 0, len(roots))
	for _, root := range roots {
		attach(root)
		forest = append(forest, root.item)
	}
	return forest, nil
}

// resolveFromSet resolves a clone against an already-loaded category set.
// A dangling canonical reference fails open and returns the clone as is.
func resolveFromSet(c *category.Category, byID map[int64]*category.Category, adminView bool) *category.Category {
	if !c.IsClone() {
		return c
	}
	canonical, ok := byID[c.CanonicalCategoryID]
	if !ok {
		return c
	}

	resolved := &category.Category{}
	if err := deepcopy.Copy(resolved, canonical); err != nil {
		return c
	}
	resolved.Name = c.Name
	resolved.ParentID = c.ParentID
	if adminView {
		resolved.ID = c.ID
	}
	return resolved
}

// resolveClone is the lookup-backed variant used outside full-set loads.
func (s *categoryService) resolveClone(ctx context.Context, q database.Querier, c *category.Category, adminView bool) (*category.Category, error) {
	if !c.IsClone() {
		return c, nil
	}
	canonical, err := s.repo.GetByID(ctx, q, c.CanonicalCategoryID)
	if errors.Is(err, category.ErrCategoryNotFound) {
		return c, nil
	}
	if err != nil {
		return nil, err
	}

	resolved := &category.Category{}
	if err := deepcopy.Copy(resolved, canonical); err != nil {
		return nil, err
	}
	resolved.Name = c.Name
	resolved.ParentID = c.ParentID
	if adminView {
		resolved.ID = c.ID
	}
	return resolved, nil
}

// buildBreadcrumbs walks parent pointers upward from parentID, resolving
// each ancestor through clone resolution, and returns the chain ordered
// root-most first. The visited set guards against reference cycles.
func (s *categoryService) buildBreadcrumbs(ctx context.Context, q database.Querier, parentID int64) ([]shared.Breadcrumb, error) {
	crumbs := []shared.Breadcrumb{}
	visited := make(map[int64]struct{})

	for cur := parentID; cur != 0; {
		if _, seen := visited[cur]; seen {
			break
		}
		visited[cur] = struct{}{}

		c, err := s.repo.GetByID(ctx, q, cur)
		if errors.Is(err, category.ErrCategoryNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		resolved, err := s.resolveClone(ctx, q, c, false)
		if err != nil {
			return nil, err
		}

		crumbs = append([]shared.Breadcrumb{{
			ID:        resolved.ID,
			Name:      resolved.Name,
			Slug:      resolved.Slug,
			IsEnabled: resolved.IsEnabled,
		}}, crumbs...)
		cur = c.ParentID
	}
	return crumbs, nil
}

func (s *categoryService) GetCategoryByID(ctx context.Context, id int64) (*category.Category, error) {
	c, err := s.repo.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	return s.resolveClone(ctx, s.db, c, true)
}

func (s *categoryService) GetClientCategoryBySlug(ctx context.Context, slug string) (*category.ClientCategory, error) {
	c, err := s.repo.GetBySlug(ctx, slug, true)
	if err != nil {
		return nil, err
	}
	resolved, err := s.resolveClone(ctx, s.db, c, false)
	if err != nil {
		return nil, err
	}

	siblings, err := s.repo.GetChildren(ctx, c.ParentID, true)
	if err != nil {
		return nil, err
	}
	siblingLinks, err := s.linkedCategories(ctx, siblings, c.ID)
	if err != nil {
		return nil, err
	}

	// Child links come from the resolved id so a clone page shows the
	// canonical category's substructure.
	children, err := s.repo.GetChildren(ctx, resolved.ID, true)
	if err != nil {
		return nil, err
	}
	childLinks, err := s.linkedCategories(ctx, children, 0)
	if err != nil {
		return nil, err
	}

	return &category.ClientCategory{
		ID:                resolved.ID,
		Name:              c.Name,
		Slug:              c.Slug,
		Description:       resolved.Description,
		Breadcrumbs:       c.Breadcrumbs,
		Medias:            visibleMedias(resolved.Medias),
		MetaTags:          resolved.MetaTags,
		DefaultItemsSort:  resolved.DefaultItemsSort,
		SiblingCategories: siblingLinks,
		ChildCategories:   childLinks,
	}, nil
}

func (s *categoryService) GetClientSiblingCategories(ctx context.Context, categoryID int64) ([]category.ClientLinkedCategory, error) {
	c, err := s.repo.GetByID(ctx, s.db, categoryID)
	if err != nil {
		return nil, err
	}
	siblings, err := s.repo.GetChildren(ctx, c.ParentID, true)
	if err != nil {
		return nil, err
	}
	return s.linkedCategories(ctx, siblings, categoryID)
}

func (s *categoryService) linkedCategories(ctx context.Context, items []category.Category, selectedID int64) ([]category.ClientLinkedCategory, error) {
	links := make([]category.ClientLinkedCategory, 0, len(items))
	for i := range items {
		c := &items[i]
		resolved, err := s.resolveClone(ctx, s.db, c, false)
		if err != nil {
			return nil, err
		}
		links = append(links, category.ClientLinkedCategory{
			ID:         resolved.ID,
			Name:       c.Name,
			Slug:       resolved.Slug,
			Medias:     visibleMedias(resolved.Medias),
			IsSelected: c.ID == selectedID,
		})
	}
	return links, nil
}

func visibleMedias(medias []shared.Media) []shared.Media {
	visible := make([]shared.Media, 0, len(medias))
	for _, m := range medias {
		if !m.IsHidden {
			visible = append(visible, m)
		}
	}
	return visible
}

func (s *categoryService) GetAdminCategoriesPage(ctx context.Context, spf *shared.SortPageFilter) ([]category.Category, int64, *int64, error) {
	itemsTotal, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, 0, nil, err
	}

	if spf.HasFilters() {
		items, filtered, err := s.searchCategoriesPage(ctx, spf)
		if err != nil {
			return nil, 0, nil, err
		}
		return items, itemsTotal, &filtered, nil
	}

	items, err := s.repo.GetPage(ctx, spf.Skip(), spf.Limit, spf.GetSorting())
	if err != nil {
		return nil, 0, nil, err
	}
	return items, itemsTotal, nil, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, req *category.AdminAddOrUpdateCategoryReq) (*category.Category, error) {
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = utils.GenerateSlug(req.Name)
	}

	var created *category.Category
	var tmpMedias []shared.Media

	err := s.tx.WithTransaction(ctx, func(tx pgx.Tx) error {
		if req.ParentID != 0 {
			if _, err := s.repo.GetByID(ctx, tx, req.ParentID); err != nil {
				if errors.Is(err, category.ErrCategoryNotFound) {
					return category.ErrParentNotFound
				}
				return err
			}
		}
		if req.CanonicalCategoryID != 0 {
			canonical, err := s.repo.GetByID(ctx, tx, req.CanonicalCategoryID)
			if errors.Is(err, category.ErrCategoryNotFound) {
				return category.ErrCanonicalNotFound
			}
			if err != nil {
				return err
			}
			if canonical.IsClone() {
				return category.ErrCloneOfClone
			}
		}

		id, err := s.counters.GetCounter(ctx, tx, category.CollectionName)
		if err != nil {
			return err
		}

		isClone := req.CanonicalCategoryID != 0
		if isClone {
			// Clones are not independently routable, a synthesized slug
			// avoids colliding with the canonical one.
			slug = fmt.Sprintf("clone-%d", id)
		}

		lastOrder, found, err := s.repo.GetLastSiblingOrder(ctx, tx, req.ParentID)
		if err != nil {
			return err
		}
		order := 0
		if found {
			order = lastOrder + 1
		}

		crumbs, err := s.buildBreadcrumbs(ctx, tx, req.ParentID)
		if err != nil {
			return err
		}

		tmp, saved, err := s.medias.CheckTmpAndSaveMedias(ctx, req.Medias, category.CollectionName)
		if err != nil {
			return err
		}
		tmpMedias = tmp

		now := time.Now()
		c := &category.Category{
			ID:                  id,
			Name:                req.Name,
			Slug:                slug,
			ParentID:            req.ParentID,
			CanonicalCategoryID: req.CanonicalCategoryID,
			IsEnabled:           req.IsEnabled,
			Description:         req.Description,
			ReversedSortOrder:   order,
			Breadcrumbs:         crumbs,
			Medias:              saved,
			MetaTags:            req.MetaTags,
			DefaultItemsSort:    req.DefaultItemsSort,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		if err := s.repo.Insert(ctx, tx, c); err != nil {
			return err
		}

		if !isClone {
			err := s.pages.CreatePageRegistry(ctx, tx, pageregistry.Page{
				Slug: slug,
				Type: shared.PageTypeCategory,
			})
			if errors.Is(err, pageregistry.ErrSlugTaken) {
				return category.ErrSlugAlreadyExists
			}
			if err != nil {
				return err
			}
		}

		created = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.enqueueSearchSync(created.ID, shared.SearchOpAdd)
	s.enqueueMediaCleanup(tmpMedias, shared.MediaKindTmp)
	return created, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id int64, req *category.AdminAddOrUpdateCategoryReq) (*category.Category, error) {
	if req.ParentID == id {
		return nil, category.ErrSelfParent
	}
	if req.CanonicalCategoryID == id {
		return nil, category.ErrSelfCanonical
	}

	var updated *category.Category
	var tmpMedias, removedMedias []shared.Media

	err := s.tx.WithTransaction(ctx, func(tx pgx.Tx) error {
		existing, err := s.repo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		if req.CanonicalCategoryID != 0 && req.CanonicalCategoryID != existing.CanonicalCategoryID {
			canonical, err := s.repo.GetByID(ctx, tx, req.CanonicalCategoryID)
			if errors.Is(err, category.ErrCategoryNotFound) {
				return category.ErrCanonicalNotFound
			}
			if err != nil {
				return err
			}
			if canonical.IsClone() {
				return category.ErrCloneOfClone
			}
		}

		next := *existing
		next.Name = req.Name
		next.ParentID = req.ParentID
		next.CanonicalCategoryID = req.CanonicalCategoryID
		next.IsEnabled = req.IsEnabled
		next.Description = req.Description
		next.MetaTags = req.MetaTags
		next.DefaultItemsSort = req.DefaultItemsSort

		slug := strings.TrimSpace(req.Slug)
		switch {
		case next.IsClone():
			// synthesized clone slugs are permanent
			slug = existing.Slug
		case slug == "":
			slug = utils.GenerateSlug(req.Name)
		}
		next.Slug = slug

		tmp, saved, err := s.medias.CheckTmpAndSaveMedias(ctx, req.Medias, category.CollectionName)
		if err != nil {
			return err
		}
		tmpMedias = tmp
		removedMedias = diffRemovedMedias(existing.Medias, saved)
		next.Medias = saved

		if next.ParentID != existing.ParentID {
			if next.ParentID != 0 {
				if _, err := s.repo.GetByID(ctx, tx, next.ParentID); err != nil {
					if errors.Is(err, category.ErrCategoryNotFound) {
						return category.ErrParentNotFound
					}
					return err
				}
			}
			crumbs, err := s.buildBreadcrumbs(ctx, tx, next.ParentID)
			if err != nil {
				return err
			}
			// a descendant's chain contains this id; moving under it
			// would detach the whole subtree
			for _, b := range crumbs {
				if b.ID == id {
					return category.ErrSelfParent
				}
			}
			next.Breadcrumbs = crumbs
		}

		next.UpdatedAt = time.Now()
		if err := s.repo.Update(ctx, tx, &next); err != nil {
			return err
		}

		if next.Slug != existing.Slug && !existing.IsClone() {
			err := s.pages.UpdatePageRegistry(ctx, tx, pageregistry.UpdateArgs{
				OldSlug:        existing.Slug,
				NewSlug:        next.Slug,
				Type:           shared.PageTypeCategory,
				CreateRedirect: req.CreateRedirect,
			})
			if errors.Is(err, pageregistry.ErrSlugTaken) {
				return category.ErrSlugAlreadyExists
			}
			if err != nil {
				return err
			}
		}

		if next.Name != existing.Name || next.Slug != existing.Slug || next.IsEnabled != existing.IsEnabled {
			crumb := shared.Breadcrumb{ID: id, Name: next.Name, Slug: next.Slug, IsEnabled: next.IsEnabled}
			if err := s.repo.UpdateBreadcrumbRefs(ctx, tx, crumb); err != nil {
				return err
			}
			if err := s.products.UpdateProductCategory(ctx, tx, id, next.Name, next.Slug, next.IsEnabled); err != nil {
				return err
			}
		}

		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.enqueueSearchSync(updated.ID, shared.SearchOpUpdate)
	s.enqueueMediaCleanup(tmpMedias, shared.MediaKindTmp)
	s.enqueueMediaCleanup(removedMedias, shared.MediaKindSaved)
	return updated, nil
}

// diffRemovedMedias returns the stored media entries that are no longer
// referenced by the incoming list. Entries are keyed by the original
// variant URL.
func diffRemovedMedias(before, after []shared.Media) []shared.Media {
	kept := make(map[string]struct{}, len(after))
	for _, m := range after {
		kept[m.VariantsURLs.Original] = struct{}{}
	}

	var removed []shared.Media
	for _, m := range before {
		if _, ok := kept[m.VariantsURLs.Original]; !ok {
			removed = append(removed, m)
		}
	}
	return removed
}

func (s *categoryService) DeleteCategory(ctx context.Context, id int64) (*category.Category, error) {
	var deleted *category.Category

	err := s.tx.WithTransaction(ctx, func(tx pgx.Tx) error {
		d, err := s.repo.Delete(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.repo.ReparentChildren(ctx, tx, id, d.ParentID); err != nil {
			return err
		}
		if err := s.products.RemoveCategoryID(ctx, tx, id); err != nil {
			return err
		}
		if !d.IsClone() {
			if err := s.pages.DeletePageRegistry(ctx, tx, d.Slug); err != nil {
				return err
			}
		}
		deleted = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.enqueueSearchSync(id, shared.SearchOpDelete)
	s.enqueueMediaCleanup(deleted.Medias, shared.MediaKindSaved)
	return deleted, nil
}

func (s *categoryService) ReorderCategories(ctx context.Context, req *category.ReorderCategoriesReq) error {
	if req.ID == req.TargetID {
		return category.ErrReorderSelf
	}

	err := s.tx.WithTransaction(ctx, func(tx pgx.Tx) error {
		moved, err := s.repo.GetByID(ctx, tx, req.ID)
		if err != nil {
			return err
		}
		target, err := s.repo.GetByID(ctx, tx, req.TargetID)
		if errors.Is(err, category.ErrCategoryNotFound) {
			return category.ErrTargetNotFound
		}
		if err != nil {
			return err
		}
		// the target must not sit inside the moved subtree
		for _, b := range target.Breadcrumbs {
			if b.ID == moved.ID {
				return category.ErrSelfParent
			}
		}

		oldParentID := moved.ParentID

		switch req.Position {
		case category.PositionInside:
			if moved.ParentID == target.ID {
				return nil
			}
			lastOrder, found, err := s.repo.GetLastSiblingOrder(ctx, tx, target.ID)
			if err != nil {
				return err
			}
			order := 0
			if found {
				order = lastOrder + 1
			}
			moved.ParentID = target.ID
			moved.ReversedSortOrder = order

		case category.PositionStart:
			if err := s.repo.ShiftSiblingOrders(ctx, tx, target.ParentID, target.ReversedSortOrder, true); err != nil {
				return err
			}
			moved.ParentID = target.ParentID
			moved.ReversedSortOrder = target.ReversedSortOrder

		case category.PositionEnd:
			if err := s.repo.ShiftSiblingOrders(ctx, tx, target.ParentID, target.ReversedSortOrder, false); err != nil {
				return err
			}
			moved.ParentID = target.ParentID
			moved.ReversedSortOrder = target.ReversedSortOrder + 1

		default:
			return fmt.Errorf("unknown reorder position %q", req.Position)
		}

		if moved.ParentID != oldParentID {
			crumbs, err := s.buildBreadcrumbs(ctx, tx, moved.ParentID)
			if err != nil {
				return err
			}
			moved.Breadcrumbs = crumbs
		}

		moved.UpdatedAt = time.Now()
		return s.repo.Update(ctx, tx, moved)
	})
	if err != nil {
		return err
	}

	// relative ordering touches many sibling documents at once, so a
	// targeted sync is not enough
	s.enqueueReindexAll()
	return nil
}

func (s *categoryService) UploadMedia(ctx context.Context, data []byte, filename string) (*shared.Media, error) {
	return s.medias.Upload(ctx, data, filename, category.CollectionName)
}
