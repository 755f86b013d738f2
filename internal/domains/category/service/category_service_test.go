package service_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-backend/internal/domains/category"
	"storefront-backend/internal/domains/category/service"
	"storefront-backend/internal/domains/pageregistry"
	"storefront-backend/internal/infrastructure/search"
	"storefront-backend/internal/shared"
	"storefront-backend/pkg/database"

	"github.com/jackc/pgx/v5"
)

// ---------------------------------------------------------------------------
// in-memory fakes

type fakeRepo struct {
	items map[int64]*category.Category
	fail  map[string]error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		items: make(map[int64]*category.Category),
		fail:  make(map[string]error),
	}
}

func (r *fakeRepo) seed(c category.Category) {
	clone := c
	r.items[c.ID] = &clone
}

func (r *fakeRepo) snapshot() map[int64]*category.Category {
	out := make(map[int64]*category.Category, len(r.items))
	for id, c := range r.items {
		clone := *c
		clone.Breadcrumbs = append([]shared.Breadcrumb(nil), c.Breadcrumbs...)
		clone.Medias = append([]shared.Media(nil), c.Medias...)
		out[id] = &clone
	}
	return out
}

func (r *fakeRepo) sorted(filter func(*category.Category) bool) []category.Category {
	var out []category.Category
	for _, c := range r.items {
		if filter == nil || filter(c) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ReversedSortOrder != out[j].ReversedSortOrder {
			return out[i].ReversedSortOrder > out[j].ReversedSortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *fakeRepo) GetAll(ctx context.Context) ([]category.Category, error) {
	if err := r.fail["GetAll"]; err != nil {
		return nil, err
	}
	return r.sorted(nil), nil
}

func (r *fakeRepo) GetByID(ctx context.Context, q database.Querier, id int64) (*category.Category, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, category.ErrCategoryNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *fakeRepo) GetByIDs(ctx context.Context, ids []int64) ([]category.Category, error) {
	var out []category.Category
	for _, id := range ids {
		if c, ok := r.items[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetBySlug(ctx context.Context, slug string, enabledOnly bool) (*category.Category, error) {
	for _, c := range r.items {
		if c.Slug == slug && (!enabledOnly || c.IsEnabled) {
			clone := *c
			return &clone, nil
		}
	}
	return nil, category.ErrCategoryNotFound
}

func (r *fakeRepo) GetChildren(ctx context.Context, parentID int64, enabledOnly bool) ([]category.Category, error) {
	return r.sorted(func(c *category.Category) bool {
		return c.ParentID == parentID && (!enabledOnly || c.IsEnabled)
	}), nil
}

func (r *fakeRepo) GetPage(ctx context.Context, skip, limit int, sorting *shared.Sorting) ([]category.Category, error) {
	all := r.sorted(nil)
	if skip >= len(all) {
		return nil, nil
	}
	end := skip + limit
	if end > len(all) {
		end = len(all)
	}
	return all[skip:end], nil
}

func (r *fakeRepo) CountAll(ctx context.Context) (int64, error) {
	return int64(len(r.items)), nil
}

func (r *fakeRepo) GetLastSiblingOrder(ctx context.Context, q database.Querier, parentID int64) (int, bool, error) {
	last, found := 0, false
	for _, c := range r.items {
		if c.ParentID == parentID && (!found || c.ReversedSortOrder > last) {
			last, found = c.ReversedSortOrder, true
		}
	}
	return last, found, nil
}

func (r *fakeRepo) Insert(ctx context.Context, q database.Querier, c *category.Category) error {
	if err := r.fail["Insert"]; err != nil {
		return err
	}
	clone := *c
	r.items[c.ID] = &clone
	return nil
}

func (r *fakeRepo) Update(ctx context.Context, q database.Querier, c *category.Category) error {
	if err := r.fail["Update"]; err != nil {
		return err
	}
	if _, ok := r.items[c.ID]; !ok {
		return category.ErrCategoryNotFound
	}
	clone := *c
	r.items[c.ID] = &clone
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, q database.Querier, id int64) (*category.Category, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, category.ErrCategoryNotFound
	}
	delete(r.items, id)
	return c, nil
}

func (r *fakeRepo) ReparentChildren(ctx context.Context, q database.Querier, oldParentID, newParentID int64) error {
	for _, c := range r.items {
		if c.ParentID == oldParentID {
			c.ParentID = newParentID
		}
	}
	return nil
}

func (r *fakeRepo) ShiftSiblingOrders(ctx context.Context, q database.Querier, parentID int64, fromOrder int, inclusive bool) error {
	for _, c := range r.items {
		if c.ParentID != parentID {
			continue
		}
		if c.ReversedSortOrder > fromOrder || (inclusive && c.ReversedSortOrder == fromOrder) {
			c.ReversedSortOrder++
		}
	}
	return nil
}

func (r *fakeRepo) UpdateBreadcrumbRefs(ctx context.Context, q database.Querier, b shared.Breadcrumb) error {
	if err := r.fail["UpdateBreadcrumbRefs"]; err != nil {
		return err
	}
	for _, c := range r.items {
		for i := range c.Breadcrumbs {
			if c.Breadcrumbs[i].ID == b.ID {
				c.Breadcrumbs[i] = b
			}
		}
	}
	return nil
}

type productCall struct {
	CategoryID int64
	Name       string
	Slug       string
	IsEnabled  bool
}

type fakeProducts struct {
	updates []productCall
	removed []int64
}

func (p *fakeProducts) UpdateProductCategory(ctx context.Context, q database.Querier, categoryID int64, name, slug string, isEnabled bool) error {
	p.updates = append(p.updates, productCall{categoryID, name, slug, isEnabled})
	return nil
}

func (p *fakeProducts) RemoveCategoryID(ctx context.Context, q database.Querier, categoryID int64) error {
	p.removed = append(p.removed, categoryID)
	return nil
}

type fakePages struct {
	created []pageregistry.Page
	updated []pageregistry.UpdateArgs
	deleted []string
	taken   map[string]bool
}

func (p *fakePages) CreatePageRegistry(ctx context.Context, q database.Querier, page pageregistry.Page) error {
	if p.taken[page.Slug] {
		return pageregistry.ErrSlugTaken
	}
	p.created = append(p.created, page)
	return nil
}

func (p *fakePages) UpdatePageRegistry(ctx context.Context, q database.Querier, args pageregistry.UpdateArgs) error {
	if p.taken[args.NewSlug] {
		return pageregistry.ErrSlugTaken
	}
	p.updated = append(p.updated, args)
	return nil
}

func (p *fakePages) DeletePageRegistry(ctx context.Context, q database.Querier, slug string) error {
	p.deleted = append(p.deleted, slug)
	return nil
}

func (p *fakePages) GetPageRegistry(ctx context.Context, slug string) (*pageregistry.Page, error) {
	return nil, nil
}

type fakeCounter struct {
	next int64
}

func (c *fakeCounter) GetCounter(ctx context.Context, q database.Querier, collection string) (int64, error) {
	c.next++
	return c.next, nil
}

type fakeMedias struct {
	deletedTmp   [][]shared.Media
	deletedSaved [][]shared.Media
}

func (m *fakeMedias) Upload(ctx context.Context, data []byte, filename, collection string) (*shared.Media, error) {
	return &shared.Media{}, nil
}

func (m *fakeMedias) CheckTmpAndSaveMedias(ctx context.Context, medias []shared.Media, collection string) ([]shared.Media, []shared.Media, error) {
	var tmp, saved []shared.Media
	for _, media := range medias {
		if isTmpURL(media.VariantsURLs.Original) {
			tmp = append(tmp, media)
		}
		saved = append(saved, media)
	}
	return tmp, saved, nil
}

func isTmpURL(url string) bool {
	return len(url) >= 4 && url[:4] == "tmp/"
}

func (m *fakeMedias) DeleteTmpMedias(ctx context.Context, medias []shared.Media, collection string) error {
	m.deletedTmp = append(m.deletedTmp, medias)
	return nil
}

func (m *fakeMedias) DeleteSavedMedias(ctx context.Context, medias []shared.Media, collection string) error {
	m.deletedSaved = append(m.deletedSaved, medias)
	return nil
}

type searchQuery struct {
	Filters []shared.Filter
	Skip    int
	Limit   int
	Sorting *shared.Sorting
}

type fakeSearch struct {
	ensured   []string
	dropped   []string
	added     []int64
	updated   []int64
	deleted   []int64
	results   []search.Result
	total     int64
	lastQuery *searchQuery
}

func (s *fakeSearch) EnsureCollection(ctx context.Context, collection string, fields []search.Field) error {
	s.ensured = append(s.ensured, collection)
	return nil
}

func (s *fakeSearch) AddDocument(ctx context.Context, collection string, id int64, doc search.Doc) error {
	s.added = append(s.added, id)
	return nil
}

func (s *fakeSearch) UpdateDocument(ctx context.Context, collection string, id int64, doc search.Doc) error {
	s.updated = append(s.updated, id)
	return nil
}

func (s *fakeSearch) DeleteDocument(ctx context.Context, collection string, id int64) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *fakeSearch) DeleteCollection(ctx context.Context, collection string) error {
	s.dropped = append(s.dropped, collection)
	return nil
}

func (s *fakeSearch) SearchByFilters(ctx context.Context, collection string, filters []shared.Filter, skip, limit int, sorting *shared.Sorting, fields []search.Field) ([]search.Result, int64, error) {
	s.lastQuery = &searchQuery{Filters: filters, Skip: skip, Limit: limit, Sorting: sorting}
	return s.results, s.total, nil
}

// fakeTxManager mimics rollback by restoring the repo store when the
// callback fails, so tests can re-read documents after aborted writes.
type fakeTxManager struct {
	repo *fakeRepo
}

func (m *fakeTxManager) WithTransaction(ctx context.Context, fn database.TxFunc) error {
	snapshot := m.repo.snapshot()
	var tx pgx.Tx
	if err := fn(tx); err != nil {
		m.repo.items = snapshot
		return err
	}
	return nil
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
}

func (e *fakeEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	e.tasks = append(e.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func (e *fakeEnqueuer) taskTypes() []string {
	types := make([]string, 0, len(e.tasks))
	for _, t := range e.tasks {
		types = append(types, t.Type())
	}
	return types
}

// ---------------------------------------------------------------------------
// fixture

type fixture struct {
	repo     *fakeRepo
	products *fakeProducts
	pages    *fakePages
	counters *fakeCounter
	medias   *fakeMedias
	searches *fakeSearch
	queue    *fakeEnqueuer
	svc      category.Service
}

func newFixture() *fixture {
	f := &fixture{
		repo:     newFakeRepo(),
		products: &fakeProducts{},
		pages:    &fakePages{taken: map[string]bool{}},
		counters: &fakeCounter{next: 100},
		medias:   &fakeMedias{},
		searches: &fakeSearch{},
		queue:    &fakeEnqueuer{},
	}
	f.svc = service.NewCategoryService(
		f.repo, f.products, f.pages, f.counters, f.medias, f.searches,
		&fakeTxManager{repo: f.repo}, nil, f.queue, 20,
	)
	return f
}

func enabled(id, parentID int64, name, slug string, order int) category.Category {
	return category.Category{
		ID: id, Name: name, Slug: slug, ParentID: parentID,
		IsEnabled: true, ReversedSortOrder: order,
	}
}

// ---------------------------------------------------------------------------
// create

func TestCreateCategoryTransliteratesBlankSlug(t *testing.T) {
	f := newFixture()
	f.repo.seed(enabled(1, 0, "Меблі", "mebli", 0))

	created, err := f.svc.CreateCategory(context.Background(), &category.AdminAddOrUpdateCategoryReq{
		Name:     "Тестова категорія",
		ParentID: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, "testova-kategoriya", created.Slug)
	assert.Equal(t, int64(1), created.ParentID)
	require.Len(t, created.Breadcrumbs, 1)
	assert.Equal(t, shared.Breadcrumb{ID: 1, Name: "Меблі", Slug: "mebli", IsEnabled: true}, created.Breadcrumbs[0])

	require.Len(t, f.pages.created, 1)
	assert.Equal(t, "testova-kategoriya", f.pages.created[0].Slug)
	assert.Equal(t, []string{shared.TypeCategorySearchSync}, f.queue.taskTypes())
}

func TestCreateCategorySiblingOrders(t *testing.T) {
	f := newFixture()
	f.repo.seed(enabled(1, 0, "Root", "root", 0))
	f.repo.seed(enabled(2, 1, "A", "a", 0))
	f.repo.seed(enabled(3, 1, "B", "b", 1))

	created, err := f.svc.CreateCategory(context.Background(), &category.AdminAddOrUpdateCategoryReq{
		Name: "C", ParentID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, created.ReversedSortOrder, "new sibling goes after the current last one")

	first, err := f.svc.CreateCategory(context.Background(), &category.AdminAddOrUpdateCategoryReq{
		Name: "Lonely", ParentID: created.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, first.ReversedSortOrder, "first child starts at the default order")
}

func TestCreateCloneSynthesizesSlugAndSkipsPageRegistry(t *testing.T) {
	f := newFixture()
	f.repo.seed(enabled(5, 0, "Canonical", "canonical", 0))

	created, err := f.svc.CreateCategory(context.Background(), &category.AdminAddOrUpdateCategoryReq{
		Name:                "Shortcut",
		Slug:                "ignored",
		CanonicalCategoryID: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("clone-%d", created.ID), created.Slug)
	assert.Empty(t, f.pages.created, "clones reuse the canonical page")
}

func TestCreateCategoryRejectsBadReferences(t *testing.T) {
	f := newFixture()
	f.repo.seed(enabled(5, 0, "Canonical", "canonical", 0))
	f.repo.seed(category.Category{ID: 6, Name: "Clone", Slug: "clone-6", CanonicalCategoryID: 5, IsEnabled: true})

	_, err := f.svc.CreateCategory(context.Background(), &category.AdminAddOrUpdateCategoryReq{
		Name: "X", ParentID: 99,
	})
	assert.ErrorIs(t, err, category.ErrParentNotFound)

	_, err = f.svc.CreateCategory(context.Background(), &category.AdminAddOrUpdateCategoryReq{
		Name: "X", CanonicalCategoryID: 99,
	})
	assert.ErrorIs(t, err, category.ErrCanonicalNotFound)

	_, err = f.svc.CreateCategory(context.Background(), &category.AdminAddOrUpdateCategoryReq{
		Name: "X", CanonicalCategoryID: 6,
	})
	assert.ErrorIs(t, err, category.ErrCloneOfClone)

	assert.Empty(t, f.queue.tasks, "failed creates must not enqueue side effects")
}

func TestCreateCategorySlugTaken(t *testing.T) {
	f := newFixture()
	f.pages.taken["taken"] = true

	_, err := f.svc.CreateCategory(context.Background(), &category.AdminAddOrUpdateCategoryReq{
		Name: "Taken", Slug: "taken",
	})
	assert.ErrorIs(t, err, category.ErrSlugAlreadyExists)
	assert.Empty(t, f.queue.tasks)
}

func TestCreateCategoryBreadcrumbResolvesCloneAncestor(t *testing.T) {
	f := newFixture()
	f.repo.seed(enabled(5, 0, "Canonical", "canonical", 0))
	f.repo.seed(category.Category{
		ID: 6, Name: "Shortcut", Slug: "clone-6",
		CanonicalCategoryID: 5, IsEnabled: true,
	})

	created, err := f.svc.CreateCategory(context.Background(), &category.AdminAddOrUpdateCategoryReq{
		Name: "Child", ParentID: 6,
	})
	require.NoError(t, err)

	require.Len(t, created.Breadcrumbs, 1)
	crumb := created.Breadcrumbs[0]
	assert.Equal(t, int64(5), crumb.ID, "crumb identity follows the canonical category")
	assert.Equal(t, "Shortcut", crumb.Name, "crumb keeps the clone's own name")
	assert.Equal(t, "canonical", crumb.Slug)
}

// ---------------------------------------------------------------------------
// update

func TestUpdateCategoryPropagatesRename(t *testing.T) {
	f := newFixture()
	f.repo.seed(enabled(2, 0, "Sofas", "sofas", 0))
	f.repo.seed(category.Category{
		ID: 3, Name: "Corner sofas", Slug: "corner-sofas", ParentID: 2, IsEnabled: true,
		Breadcrumbs: []shared.Breadcrumb{{ID: 2, Name: "Sofas", Slug: "sofas", IsEnabled: true}},
	})

	updated, err := f.svc.UpdateCategory(context.Background(), 2, &category.AdminAddOrUpdateCategoryReq{
		Name:           "Couches",
		IsEnabled:      true,
		CreateRedirect: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "couches", updated.Slug)

	child, _ := f.repo.GetByID(context.Background(), nil, 3)
	require.Len(t, child.Breadcrumbs, 1)
	assert.Equal(t, "Couches", child.Breadcrumbs[0].Name, "descendant crumbs rewritten in the same commit")
	assert.Equal(t, "couches", child.Breadcrumbs[0].Slug)

	require.Len(t, f.products.updates, 1)
	assert.Equal(t, productCall{CategoryID: 2, Name: "Couches", Slug: "couches", IsEnabled: true}, f.products.updates[0])

	require.Len(t, f.pages.updated, 1)
	assert.Equal(t, pageregistry.UpdateArgs{
		OldSlug: "sofas", NewSlug: "couches",
		Type: shared.PageTypeCategory, CreateRedirect: true,
	}, f.pages.updated[0])

	assert.Equal(t, []string{shared.TypeCategorySearchSync}, f.queue.taskTypes())
}

func TestUpdateCategoryNoPropagationWhenIdentityUnchanged(t *testing.T) {
	f := newFixture()
	f.repo.seed(enabled(2, 0, "Sofas", "sofas", 0))

	_, err := f.svc.UpdateCategory(context.Background(), 2, &category.AdminAddOrUpdateCategoryReq{
		Name:        "Sofas",
		Slug:        "sofas",
		IsEnabled:   true,
		Description: "new description",
	})
	require.NoError(t, err)

	assert.Empty(t, f.products.updates)
	assert.Empty(t, f.pages.updated)
}

func TestUpdateCategoryParentChangeRecomputesOwnBreadcrumbs(t *testing.T) {
	f := newFixture()
	f.repo.seed(enabled(1, 0, "Old parent", "old-parent", 0))
	f.repo.seed(category.Category{
		ID: 2, Name: "New parent", Slug: "new-parent", ParentID: 1, IsEnabled: true,
		Breadcrumbs: []shared.Breadcrumb{{ID: 1, Name: "Old parent", Slug: "old-parent", IsEnabled: true}},
	})
	f.repo.seed(category.Category{
		ID: 3, Name: "Moved", Slug: "moved", ParentID: 1, IsEnabled: true,
		Breadcrumbs: []shared.Breadcrumb{{ID: 1, Name: "Old parent", Slug: "old-parent", IsEnabled: true}},
	})

	updated, err := f.svc.UpdateCategory(context.Background(), 3, &category.AdminAddOrUpdateCategoryReq{
		Name: "Moved", Slug: "moved", ParentID: 2, IsEnabled: true,
	})
	require.NoError(t, err)

	require.Len(t, updated.Breadcrumbs, 2)
	assert.Equal(t, int64(1), updated.Breadcrumbs[0].ID)
	assert.Equal(t, int64(2), updated.Breadcrumbs[1].ID)
}

func TestUpdateCategoryRejectsMoveUnderDescendant(t *testing.T) {
	f := newFixture()
	f.repo.seed(enabled(1, 0, "Parent", "parent", 0))
	f.repo.seed(category.Category{
		ID: 2, Name: "Child", Slug: "child", ParentID: 1, IsEnabled: true,
		Breadcrumbs: []shared.Breadcrumb{{ID: 1, Name: "Parent", Slug: "parent", IsEnabled: true}},
	})

	_, err := f.svc.UpdateCategory(context.Background(), 1, &category.AdminAddOrUpdateCategoryReq{
		Name: "Parent", Slug: "parent", ParentID: 2, IsEnabled: true,
	})
	assert.ErrorIs(t, err, category.ErrSelfParent)
}

func TestUpdateCategoryEnqueuesRemovedMediaCleanup(t *testing.T) {
	f := newFixture()
	oldMedia := shared.Media{VariantsURLs: shared.MediaVariants{Original: "categories/a/original.jpg"}}
	f.repo.seed(category.Category{
		ID: 2, Name: "Sofas", Slug: "sofas", IsEnabled: true,
		Medias: []shared.Media{oldMedia},
	})

	_, err := f.svc.UpdateCategory(context.Background(), 2, &category.AdminAddOrUpdateCategoryReq{
		Name: "Sofas", Slug: "sofas", IsEnabled: true,
	})
	require.NoError(t, err)

	types := f.queue.taskTypes()
	require.Contains(t, types, shared.TypeMediaCleanup)

	for _, task := range f.queue.tasks {
		if task.Type() != shared.TypeMediaCleanup {
			continue
		}
		var payload shared.MediaCleanupPayload
		require.NoError(t, json.Unmarshal(task.Payload(), &payload))
		assert.Equal(t, shared.MediaKindSaved, payload.Kind)
		require.Len(t, payload.Medias, 1)
		assert.Equal(t, oldMedia.VariantsURLs.Original, payload.Medias[0].VariantsURLs.Original)
	}
}

func TestUpdateCategoryRollsBackOnPropagationFailure(t *testing.T) {
	f := newFixture()
	f.repo.seed(enabled(2, 0, "Sofas", "sofas", 0))
	f.repo.seed(category.Category{
		ID: 3, Name: "Corner sofas", Slug: "corner-sofas", ParentID: 2, IsEnabled: true,
		Breadcrumbs: []shared.Breadcrumb{{ID: 2, Name: "Sofas", Slug: "sofas", IsEnabled: true}},
	})
	f.repo.fail["UpdateBreadcrumbRefs"] = fmt.Errorf("connection reset")

	_, err := f.svc.UpdateCategory(context.Background(), 2, &category.AdminAddOrUpdateCategoryReq{
		Name: "Couches", IsEnabled: true,
	})
	require.Error(t, err)

	reread, getErr := f.svc.GetCategoryByID(context.Background(), 2)
	require.NoError(t, getErr)
	assert.Equal(t, "Sofas", reread.Name, "document unchanged after a failed update")
	assert.Equal(t, "sofas", reread.Slug)

	child, getErr := f.svc.GetCategoryByID(context.Background(), 3)
	require.NoError(t, getErr)
	require.Len(t, child.Breadcrumbs, 1)
	assert.Equal(t, "Sofas", child.Breadcrumbs[0].Name, "descendant crumbs unchanged too")

	assert.Empty(t, f.queue.tasks, "aborted transactions must not enqueue side effects")
	assert.Empty(t, f.products.updates)
}

// ---------------------------------------------------------------------------
// delete

func TestDeleteCategoryReparentsAndCleansReferences(t *testing.T) {
	f := newFixture()
	f.repo.seed(enabled(1, 0, "Root", "root", 0))
	f.repo.seed(enabled(2, 1, "Middle", "middle", 0))
	f.repo.seed(enabled(3, 2, "Leaf A", "leaf-a", 0))
	f.repo.seed(enabled(4, 2, "Leaf B", "leaf-b", 1))

	deleted, err := f.svc.DeleteCategory(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "middle", deleted.Slug)

	a, _ := f.repo.GetByID(context.Background(), nil, 3)
	b, _ := f.repo.GetByID(context.Background(), nil, 4)
	assert.Equal(t, int64(1), a.ParentID, "children adopt the deleted node's parent")
	assert.Equal(t, int64(1), b.ParentID)

	assert.Equal(t, []int64{2}, f.products.removed)
	assert.Equal(t, []string{"middle"}, f.pages.deleted)
	assert.Contains(t, f.queue.taskTypes(), shared.TypeCategorySearchSync)
}

func TestDeleteCategoryNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.DeleteCategory(context.Background(), 42)
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
	assert.Empty(t, f.queue.tasks)
}

// ---------------------------------------------------------------------------
// reorder

func seedSiblings(f *fixture) {
	f.repo.seed(enabled(1, 0, "Parent", "parent", 0))
	f.repo.seed(enabled(10, 1, "A", "a", 0))
	f.repo.seed(enabled(11, 1, "B", "b", 1))
	f.repo.seed(enabled(12, 1, "C", "c", 2))
	f.repo.seed(enabled(13, 1, "D", "d", 3))
	f.repo.seed(enabled(20, 0, "Moved", "moved", 1))
}

func orderOf(t *testing.T, f *fixture, id int64) int {
	t.Helper()
	c, err := f.repo.GetByID(context.Background(), nil, id)
	require.NoError(t, err)
	return c.ReversedSortOrder
}

func TestReorderStartAdoptsTargetOrder(t *testing.T) {
	f := newFixture()
	seedSiblings(f)

	err := f.svc.ReorderCategories(context.Background(), &category.ReorderCategoriesReq{
		ID: 20, TargetID: 11, Position: category.PositionStart,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, orderOf(t, f, 10))
	assert.Equal(t, 2, orderOf(t, f, 11), "target and everything at or above it shift up")
	assert.Equal(t, 3, orderOf(t, f, 12))
	assert.Equal(t, 4, orderOf(t, f, 13))

	moved, _ := f.repo.GetByID(context.Background(), nil, 20)
	assert.Equal(t, 1, moved.ReversedSortOrder, "moved node takes the target's original order")
	assert.Equal(t, int64(1), moved.ParentID)

	assert.Equal(t, []string{shared.TypeCategoryReindexAll}, f.queue.taskTypes(),
		"reorder triggers a full reindex, not a targeted sync")
}

func TestReorderEndPlacesAfterTarget(t *testing.T) {
	f := newFixture()
	seedSiblings(f)

	err := f.svc.ReorderCategories(context.Background(), &category.ReorderCategoriesReq{
		ID: 20, TargetID: 11, Position: category.PositionEnd,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, orderOf(t, f, 10))
	assert.Equal(t, 1, orderOf(t, f, 11), "target keeps its order")
	assert.Equal(t, 3, orderOf(t, f, 12))
	assert.Equal(t, 4, orderOf(t, f, 13))
	assert.Equal(t, 2, orderOf(t, f, 20))
}

func TestReorderInsideAppendsAsLastChild(t *testing.T) {
	f := newFixture()
	seedSiblings(f)

	err := f.svc.ReorderCategories(context.Background(), &category.ReorderCategoriesReq{
		ID: 20, TargetID: 1, Position: category.PositionInside,
	})
	require.NoError(t, err)

	moved, _ := f.repo.GetByID(context.Background(), nil, 20)
	assert.Equal(t, int64(1), moved.ParentID)
	assert.Equal(t, 4, moved.ReversedSortOrder, "placed after the current last child")
	require.Len(t, moved.Breadcrumbs, 1)
	assert.Equal(t, int64(1), moved.Breadcrumbs[0].ID)
}

func TestReorderInsideCurrentParentIsNoop(t *testing.T) {
	f := newFixture()
	seedSiblings(f)

	err := f.svc.ReorderCategories(context.Background(), &category.ReorderCategoriesReq{
		ID: 10, TargetID: 1, Position: category.PositionInside,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, orderOf(t, f, 10))
}

func TestReorderValidation(t *testing.T) {
	f := newFixture()
	seedSiblings(f)

	err := f.svc.ReorderCategories(context.Background(), &category.ReorderCategoriesReq{
		ID: 10, TargetID: 10, Position: category.PositionStart,
	})
	assert.ErrorIs(t, err, category.ErrReorderSelf)

	err = f.svc.ReorderCategories(context.Background(), &category.ReorderCategoriesReq{
		ID: 10, TargetID: 404, Position: category.PositionStart,
	})
	assert.ErrorIs(t, err, category.ErrTargetNotFound)
}

// ---------------------------------------------------------------------------
// tree assembly and clone resolution

func seedTreeWithClone(f *fixture) {
	f.repo.seed(enabled(1, 0, "Furniture", "furniture", 1))
	f.repo.seed(enabled(2, 1, "Sofas", "sofas", 0))
	f.repo.seed(enabled(3, 0, "Sale", "sale", 0))
	f.repo.seed(category.Category{
		ID: 4, Name: "Sofas on sale", Slug: "clone-4", ParentID: 3,
		CanonicalCategoryID: 2, IsEnabled: true,
	})
}

func findNode(nodes []*category.CategoryTreeItem, name string) *category.CategoryTreeItem {
	for _, n := range nodes {
		if n.Name == name {
			return n
		}
		if found := findNode(n.Children, name); found != nil {
			return found
		}
	}
	return nil
}

func TestTreeAssemblyBuildsForest(t *testing.T) {
	f := newFixture()
	seedTreeWithClone(f)

	tree, err := f.svc.GetCategoriesTree(context.Background(), category.TreeOptions{})
	require.NoError(t, err)

	require.Len(t, tree, 2, "only roots at the top level")
	furniture := findNode(tree, "Furniture")
	require.NotNil(t, furniture)
	require.Len(t, furniture.Children, 1)
	assert.Equal(t, "Sofas", furniture.Children[0].Name)
	assert.Equal(t, int64(1), furniture.Children[0].ParentID)
}

func TestTreeCloneResolutionClientVsAdmin(t *testing.T) {
	f := newFixture()
	seedTreeWithClone(f)

	clientTree, err := f.svc.GetCategoriesTree(context.Background(), category.TreeOptions{})
	require.NoError(t, err)
	clone := findNode(clientTree, "Sofas on sale")
	require.NotNil(t, clone)
	assert.Equal(t, int64(2), clone.ID, "client views deep-link to the canonical id")
	assert.Equal(t, "sofas", clone.Slug)
	assert.Equal(t, int64(3), clone.ParentID, "placement stays the clone's own")

	adminTree, err := f.svc.GetCategoriesTree(context.Background(), category.TreeOptions{AdminView: true})
	require.NoError(t, err)
	adminClone := findNode(adminTree, "Sofas on sale")
	require.NotNil(t, adminClone)
	assert.Equal(t, int64(4), adminClone.ID, "admin views operate on the clone document")
}

func TestTreeDanglingCloneFailsOpen(t *testing.T) {
	f := newFixture()
	f.repo.seed(category.Category{
		ID: 4, Name: "Orphan clone", Slug: "clone-4",
		CanonicalCategoryID: 999, IsEnabled: true,
	})

	tree, err := f.svc.GetCategoriesTree(context.Background(), category.TreeOptions{})
	require.NoError(t, err)

	require.Len(t, tree, 1)
	assert.Equal(t, int64(4), tree[0].ID, "dangling clones render their raw document")
	assert.Equal(t, "clone-4", tree[0].Slug)
}

func TestTreeFilters(t *testing.T) {
	f := newFixture()
	seedTreeWithClone(f)
	f.repo.seed(category.Category{ID: 7, Name: "Hidden", Slug: "hidden", ParentID: 0})

	onlyEnabled, err := f.svc.GetCategoriesTree(context.Background(), category.TreeOptions{OnlyEnabled: true})
	require.NoError(t, err)
	assert.Nil(t, findNode(onlyEnabled, "Hidden"))

	noClones, err := f.svc.GetCategoriesTree(context.Background(), category.TreeOptions{ExcludeClones: true})
	require.NoError(t, err)
	assert.Nil(t, findNode(noClones, "Sofas on sale"))
	assert.NotNil(t, findNode(noClones, "Sofas"))
}

// ---------------------------------------------------------------------------
// client page

func TestGetClientCategoryBySlug(t *testing.T) {
	f := newFixture()
	f.repo.seed(enabled(1, 0, "Furniture", "furniture", 0))
	f.repo.seed(category.Category{
		ID: 2, Name: "Sofas", Slug: "sofas", ParentID: 1, IsEnabled: true,
		Breadcrumbs: []shared.Breadcrumb{{ID: 1, Name: "Furniture", Slug: "furniture", IsEnabled: true}},
		Medias: []shared.Media{
			{VariantsURLs: shared.MediaVariants{Original: "categories/a/original.jpg"}},
			{VariantsURLs: shared.MediaVariants{Original: "categories/b/original.jpg"}, IsHidden: true},
		},
	})
	f.repo.seed(enabled(3, 1, "Tables", "tables", 1))
	f.repo.seed(enabled(4, 2, "Corner sofas", "corner-sofas", 0))

	page, err := f.svc.GetClientCategoryBySlug(context.Background(), "sofas")
	require.NoError(t, err)

	assert.Equal(t, int64(2), page.ID)
	assert.Len(t, page.Medias, 1, "hidden media filtered out")
	require.Len(t, page.Breadcrumbs, 1)

	require.Len(t, page.SiblingCategories, 2)
	var selected int
	for _, s := range page.SiblingCategories {
		if s.IsSelected {
			selected++
			assert.Equal(t, int64(2), s.ID)
		}
	}
	assert.Equal(t, 1, selected)

	require.Len(t, page.ChildCategories, 1)
	assert.Equal(t, "corner-sofas", page.ChildCategories[0].Slug)
}

func TestGetClientCategoryBySlugDisabledIsNotFound(t *testing.T) {
	f := newFixture()
	f.repo.seed(category.Category{ID: 2, Name: "Hidden", Slug: "hidden"})

	_, err := f.svc.GetClientCategoryBySlug(context.Background(), "hidden")
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
}

// ---------------------------------------------------------------------------
// search sync and reindex

func TestSyncSearchDocumentDegradesToDeleteForMissingDoc(t *testing.T) {
	f := newFixture()

	err := f.svc.SyncSearchDocument(context.Background(), 7, shared.SearchOpAdd)
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, f.searches.deleted)
}

func TestReindexAllRebuildsIndexInBatches(t *testing.T) {
	f := newFixture()
	for i := 1; i <= 45; i++ {
		f.repo.seed(enabled(int64(i), 0, fmt.Sprintf("Cat %d", i), fmt.Sprintf("cat-%d", i), i))
	}

	err := f.svc.ReindexAllSearchData(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{category.CollectionName}, f.searches.dropped)
	assert.Equal(t, []string{category.CollectionName}, f.searches.ensured)
	assert.Len(t, f.searches.added, 45)
}

func TestAdminPageFilteredGoesThroughSearchIndex(t *testing.T) {
	f := newFixture()
	f.repo.seed(enabled(1, 0, "Beds", "beds", 0))
	f.repo.seed(enabled(2, 0, "Sofas", "sofas", 1))
	f.searches.results = []search.Result{
		{ID: "categories:2", Fields: map[string]string{"id": "2"}},
		{ID: "categories:1", Fields: map[string]string{"id": "1"}},
	}
	f.searches.total = 2

	spf := shared.ParseSPF("1", "25", "", "name:s")
	items, itemsTotal, itemsFiltered, err := f.svc.GetAdminCategoriesPage(context.Background(), spf)
	require.NoError(t, err)

	assert.Equal(t, int64(2), itemsTotal)
	require.NotNil(t, itemsFiltered)
	assert.Equal(t, int64(2), *itemsFiltered)
	require.Len(t, items, 2)
	assert.Equal(t, int64(2), items[0].ID, "index ranking preserved")
	assert.Equal(t, int64(1), items[1].ID)
}

func TestAdminPageUnfilteredUsesPrimaryStore(t *testing.T) {
	f := newFixture()
	f.repo.seed(enabled(1, 0, "Beds", "beds", 0))
	f.repo.seed(enabled(2, 0, "Sofas", "sofas", 1))

	spf := shared.ParseSPF("1", "25", "", "")
	items, itemsTotal, itemsFiltered, err := f.svc.GetAdminCategoriesPage(context.Background(), spf)
	require.NoError(t, err)

	assert.Equal(t, int64(2), itemsTotal)
	assert.Nil(t, itemsFiltered)
	assert.Len(t, items, 2)
}

func TestSearchEnabledByNamePassesPagination(t *testing.T) {
	f := newFixture()
	f.repo.seed(enabled(1, 0, "Sofas", "sofas", 0))
	f.searches.results = []search.Result{
		{ID: "categories:1", Fields: map[string]string{"id": "1"}},
	}
	f.searches.total = 1

	spf := shared.ParseSPF("3", "10", "", "")
	items, err := f.svc.SearchEnabledByName(context.Background(), spf, "sofa")
	require.NoError(t, err)
	require.Len(t, items, 1)

	q := f.searches.lastQuery
	require.NotNil(t, q)
	assert.Equal(t, 20, q.Skip)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, []shared.Filter{
		{FieldName: "name", Values: []string{"sofa"}},
		{FieldName: "isEnabled", Values: []string{"true"}},
	}, q.Filters)
	require.NotNil(t, q.Sorting)
	assert.Equal(t, "reversedSortOrder", q.Sorting.FieldName, "display order is the default sort")
	assert.False(t, q.Sorting.Desc)
}
