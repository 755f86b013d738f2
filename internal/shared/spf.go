package shared

import (
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// Filter is one field constraint of a filtered list request.
type Filter struct {
	FieldName string
	Values    []string
}

// Sorting maps to an index sort clause.
type Sorting struct {
	FieldName string
	Desc      bool
}

// SortPageFilter carries the sort/page/filter triple every admin list
// endpoint accepts: ?page=2&limit=25&sort=-name&filters=name:shoes
type SortPageFilter struct {
	Page    int
	Limit   int
	Sort    string
	Filters []Filter
}

// ParseSPF builds a SortPageFilter from raw query values.
func ParseSPF(page, limit, sort, filters string) *SortPageFilter {
	spf := &SortPageFilter{
		Page:  1,
		Limit: DefaultPageSize,
		Sort:  sort,
	}

	if p, err := strconv.Atoi(page); err == nil && p > 0 {
		spf.Page = p
	}
	if l, err := strconv.Atoi(limit); err == nil && l > 0 {
		if l > MaxPageSize {
			l = MaxPageSize
		}
		spf.Limit = l
	}

	// filters=field:value;field2:v1,v2
	for _, pair := range strings.Split(filters, ";") {
		name, raw, ok := strings.Cut(pair, ":")
		if !ok || name == "" || raw == "" {
			continue
		}
		spf.Filters = append(spf.Filters, Filter{
			FieldName: name,
			Values:    strings.Split(raw, ","),
		})
	}

	return spf
}

func (s *SortPageFilter) Skip() int {
	return (s.Page - 1) * s.Limit
}

func (s *SortPageFilter) HasFilters() bool {
	return len(s.Filters) > 0
}

// GetSorting resolves the sort expression; a leading '-' means descending.
func (s *SortPageFilter) GetSorting() *Sorting {
	if s.Sort == "" {
		return nil
	}
	if field, ok := strings.CutPrefix(s.Sort, "-"); ok {
		return &Sorting{FieldName: field, Desc: true}
	}
	return &Sorting{FieldName: s.Sort}
}
