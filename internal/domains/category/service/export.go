package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"storefront-backend/internal/shared"
)

// ExportCategoriesToExcel renders the full category list into a workbook
// for the admin backoffice.
func (s *categoryService) ExportCategoriesToExcel(ctx context.Context) (*excelize.File, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	f := excelize.NewFile()
	sheetName := "Categories"
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{
		"ID",
		"Name",
		"Slug",
		"Parent ID",
		"Canonical ID",
		"Enabled",
		"Sort Order",
		"Path",
		"Created At",
		"Updated At",
	}
	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	if headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	}); err == nil {
		lastCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
		f.SetCellStyle(sheetName, "A1", lastCell, headerStyle)
	}

	for rowIdx := range all {
		c := &all[rowIdx]
		values := []interface{}{
			c.ID,
			c.Name,
			c.Slug,
			c.ParentID,
			c.CanonicalCategoryID,
			c.IsEnabled,
			c.ReversedSortOrder,
			breadcrumbPath(c.Breadcrumbs),
			c.CreatedAt.Format(time.RFC3339),
			c.UpdatedAt.Format(time.RFC3339),
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	return f, nil
}

func breadcrumbPath(crumbs []shared.Breadcrumb) string {
	names := make([]string, 0, len(crumbs))
	for _, b := range crumbs {
		names = append(names, b.Name)
	}
	return strings.Join(names, " / ")
}
