package search

import (
	"testing"

	"storefront-backend/internal/shared"

	"github.com/stretchr/testify/assert"
)

var testFields = []Field{
	{Name: "name", Type: FieldTypeText, Sortable: true},
	{Name: "isEnabled", Type: FieldTypeTag},
	{Name: "reversedSortOrder", Type: FieldTypeNumeric, Sortable: true},
}

func TestBuildQueryNoFilters(t *testing.T) {
	assert.Equal(t, "*", buildQuery(nil, testFields))
	assert.Equal(t, "*", buildQuery([]shared.Filter{{FieldName: "name"}}, testFields))
}

func TestBuildQueryTextPrefix(t *testing.T) {
	q := buildQuery([]shared.Filter{
		{FieldName: "name", Values: []string{"divan"}},
	}, testFields)

	assert.Equal(t, "@name:(divan*)", q)
}

func TestBuildQueryTag(t *testing.T) {
	q := buildQuery([]shared.Filter{
		{FieldName: "isEnabled", Values: []string{"true"}},
	}, testFields)

	assert.Equal(t, "@isEnabled:{true}", q)
}

func TestBuildQueryNumericRange(t *testing.T) {
	q := buildQuery([]shared.Filter{
		{FieldName: "reversedSortOrder", Values: []string{"1", "5"}},
	}, testFields)

	assert.Equal(t, "@reversedSortOrder:[1 5]", q)
}

func TestBuildQueryCombined(t *testing.T) {
	q := buildQuery([]shared.Filter{
		{FieldName: "name", Values: []string{"divan"}},
		{FieldName: "isEnabled", Values: []string{"true"}},
	}, testFields)

	assert.Equal(t, "@name:(divan*) @isEnabled:{true}", q)
}

func TestBuildQueryEscapesOperators(t *testing.T) {
	q := buildQuery([]shared.Filter{
		{FieldName: "name", Values: []string{"sofa-bed"}},
	}, testFields)

	assert.Equal(t, `@name:(sofa\-bed*)`, q)
}
