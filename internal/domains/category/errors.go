package category

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/shared/response"
	"storefront-backend/pkg/logger"
)

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrParentNotFound    = errors.New("parent category not found")
	ErrTargetNotFound    = errors.New("target category not found")
	ErrCanonicalNotFound = errors.New("canonical category not found")
	ErrCloneOfClone      = errors.New("a clone cannot reference another clone")
	ErrSelfParent        = errors.New("category cannot be its own parent")
	ErrReorderSelf       = errors.New("category cannot be reordered against itself")
	ErrSelfCanonical     = errors.New("category cannot be a clone of itself")
	ErrSlugAlreadyExists = errors.New("slug already exists")
)

var categoryErrorMap = map[error]struct {
	Status int
	Code   string
}{
	ErrCategoryNotFound:  {Status: http.StatusNotFound, Code: "CATEGORY_NOT_FOUND"},
	ErrParentNotFound:    {Status: http.StatusBadRequest, Code: "PARENT_NOT_FOUND"},
	ErrTargetNotFound:    {Status: http.StatusBadRequest, Code: "TARGET_NOT_FOUND"},
	ErrCanonicalNotFound: {Status: http.StatusBadRequest, Code: "CANONICAL_NOT_FOUND"},
	ErrCloneOfClone:      {Status: http.StatusBadRequest, Code: "CLONE_OF_CLONE"},
	ErrSelfParent:        {Status: http.StatusBadRequest, Code: "SELF_PARENT"},
	ErrReorderSelf:       {Status: http.StatusBadRequest, Code: "REORDER_SELF"},
	ErrSelfCanonical:     {Status: http.StatusBadRequest, Code: "SELF_CANONICAL"},
	ErrSlugAlreadyExists: {Status: http.StatusConflict, Code: "SLUG_ALREADY_EXISTS"},
}

// HandleCategoryError writes the mapped error envelope and reports whether
// err was non-nil. Unknown errors become a logged 500.
func HandleCategoryError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	for sentinel, cfg := range categoryErrorMap {
		if errors.Is(err, sentinel) {
			response.ErrorResponse(c, cfg.Status, cfg.Code, sentinel.Error())
			return true
		}
	}

	logger.Error("category request failed", err)
	response.InternalServerError(c, "internal server error")
	return true
}
