package category

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminAddOrUpdateCategoryReqValidate(t *testing.T) {
	valid := AdminAddOrUpdateCategoryReq{Name: "Sofas", Slug: "sofas"}
	assert.NoError(t, valid.Validate())

	assert.Error(t, AdminAddOrUpdateCategoryReq{}.Validate(), "name is required")
	assert.Error(t, AdminAddOrUpdateCategoryReq{
		Name: strings.Repeat("x", 256),
	}.Validate())
	assert.Error(t, AdminAddOrUpdateCategoryReq{
		Name: "Sofas", ParentID: -1,
	}.Validate())
	assert.Error(t, AdminAddOrUpdateCategoryReq{
		Name: "Sofas", CanonicalCategoryID: -1,
	}.Validate())
}

func TestReorderCategoriesReqValidate(t *testing.T) {
	valid := ReorderCategoriesReq{ID: 1, TargetID: 2, Position: PositionInside}
	assert.NoError(t, valid.Validate())

	assert.Error(t, ReorderCategoriesReq{TargetID: 2, Position: PositionStart}.Validate())
	assert.Error(t, ReorderCategoriesReq{ID: 1, Position: PositionStart}.Validate())
	assert.Error(t, ReorderCategoriesReq{ID: 1, TargetID: 2}.Validate())
	assert.Error(t, ReorderCategoriesReq{ID: 1, TargetID: 2, Position: "above"}.Validate())
}
