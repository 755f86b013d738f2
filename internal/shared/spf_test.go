package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSPF(t *testing.T) {
	spf := ParseSPF("2", "10", "-name", "name:sofa;isEnabled:true,false")

	assert.Equal(t, 2, spf.Page)
	assert.Equal(t, 10, spf.Limit)
	assert.Equal(t, 10, spf.Skip())
	assert.Equal(t, []Filter{
		{FieldName: "name", Values: []string{"sofa"}},
		{FieldName: "isEnabled", Values: []string{"true", "false"}},
	}, spf.Filters)
	assert.True(t, spf.HasFilters())

	sorting := spf.GetSorting()
	assert.Equal(t, "name", sorting.FieldName)
	assert.True(t, sorting.Desc)
}

func TestParseSPFDefaults(t *testing.T) {
	spf := ParseSPF("", "", "", "")

	assert.Equal(t, 1, spf.Page)
	assert.Equal(t, DefaultPageSize, spf.Limit)
	assert.Equal(t, 0, spf.Skip())
	assert.False(t, spf.HasFilters())
	assert.Nil(t, spf.GetSorting())
}

func TestParseSPFClampsLimit(t *testing.T) {
	spf := ParseSPF("1", "5000", "", "")
	assert.Equal(t, MaxPageSize, spf.Limit)
}

func TestParseSPFIgnoresMalformedFilters(t *testing.T) {
	spf := ParseSPF("1", "25", "name", "broken;:novalue;name:ok")

	assert.Equal(t, []Filter{{FieldName: "name", Values: []string{"ok"}}}, spf.Filters)

	sorting := spf.GetSorting()
	assert.Equal(t, "name", sorting.FieldName)
	assert.False(t, sorting.Desc)
}
