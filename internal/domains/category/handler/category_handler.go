package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/domains/category"
	"storefront-backend/internal/shared"
	"storefront-backend/internal/shared/response"
	"storefront-backend/pkg/logger"
)

type CategoryHandler struct {
	service category.Service
}

func NewCategoryHandler(svc category.Service) *CategoryHandler {
	return &CategoryHandler{
		service: svc,
	}
}

// GET /v1/admin/categories/tree
func (h *CategoryHandler) GetAdminTree(c *gin.Context) {
	opts := category.TreeOptions{
		AdminView:     true,
		OnlyEnabled:   c.Query("onlyEnabled") == "true",
		ExcludeClones: c.Query("excludeClones") == "true",
	}

	tree, err := h.service.GetCategoriesTree(c.Request.Context(), opts)
	if category.HandleCategoryError(c, err) {
		return
	}
	response.Data(c, http.StatusOK, tree)
}

// GET /v1/categories/tree
func (h *CategoryHandler) GetClientTree(c *gin.Context) {
	tree, err := h.service.GetCategoriesTree(c.Request.Context(), category.TreeOptions{
		OnlyEnabled: true,
	})
	if category.HandleCategoryError(c, err) {
		return
	}
	response.Data(c, http.StatusOK, tree)
}

// GET /v1/admin/categories?page=&limit=&sort=&filters=
func (h *CategoryHandler) GetAdminCategories(c *gin.Context) {
	spf := shared.ParseSPF(
		c.Query("page"), c.Query("limit"),
		c.Query("sort"), c.Query("filters"),
	)

	items, itemsTotal, itemsFiltered, err := h.service.GetAdminCategoriesPage(c.Request.Context(), spf)
	if category.HandleCategoryError(c, err) {
		return
	}
	response.Paginated(c, http.StatusOK, items, itemsTotal, itemsFiltered, spf.Limit)
}

// GET /v1/admin/categories/:id
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	item, err := h.service.GetCategoryByID(c.Request.Context(), id)
	if category.HandleCategoryError(c, err) {
		return
	}
	response.Data(c, http.StatusOK, item)
}

// POST /v1/admin/categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req category.AdminAddOrUpdateCategoryReq
	if err := c.BindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	created, err := h.service.CreateCategory(c.Request.Context(), &req)
	if category.HandleCategoryError(c, err) {
		return
	}
	response.Data(c, http.StatusCreated, created)
}

// PUT /v1/admin/categories/:id
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req category.AdminAddOrUpdateCategoryReq
	if err := c.BindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updated, err := h.service.UpdateCategory(c.Request.Context(), id, &req)
	if category.HandleCategoryError(c, err) {
		return
	}
	response.Data(c, http.StatusOK, updated)
}

// DELETE /v1/admin/categories/:id
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	deleted, err := h.service.DeleteCategory(c.Request.Context(), id)
	if category.HandleCategoryError(c, err) {
		return
	}
	response.Data(c, http.StatusOK, deleted)
}

// POST /v1/admin/categories/reorder
func (h *CategoryHandler) ReorderCategories(c *gin.Context) {
	var req category.ReorderCategoriesReq
	if err := c.BindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.ReorderCategories(c.Request.Context(), &req); category.HandleCategoryError(c, err) {
		return
	}
	response.Data(c, http.StatusOK, gin.H{"reordered": true})
}

// POST /v1/admin/categories/media
func (h *CategoryHandler) UploadMedia(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	uploaded, err := h.service.UploadMedia(c.Request.Context(), data, fileHeader.Filename)
	if err != nil {
		logger.Error("category media upload failed", err)
		response.BadRequest(c, err.Error())
		return
	}
	response.Data(c, http.StatusCreated, uploaded)
}

// GET /v1/admin/categories/export
func (h *CategoryHandler) ExportCategories(c *gin.Context) {
	f, err := h.service.ExportCategoriesToExcel(c.Request.Context())
	if category.HandleCategoryError(c, err) {
		return
	}

	filename := fmt.Sprintf("categories-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		logger.Error("failed to stream category export", err)
	}
}

// GET /v1/categories/page/:slug
func (h *CategoryHandler) GetClientCategoryBySlug(c *gin.Context) {
	page, err := h.service.GetClientCategoryBySlug(c.Request.Context(), c.Param("slug"))
	if category.HandleCategoryError(c, err) {
		return
	}
	response.Data(c, http.StatusOK, page)
}

// GET /v1/categories/:id/siblings
func (h *CategoryHandler) GetClientSiblingCategories(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	siblings, err := h.service.GetClientSiblingCategories(c.Request.Context(), id)
	if category.HandleCategoryError(c, err) {
		return
	}
	response.Data(c, http.StatusOK, siblings)
}

// GET /v1/categories/search?name=
func (h *CategoryHandler) SearchCategories(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		response.BadRequest(c, "name is required")
		return
	}
	spf := shared.ParseSPF(
		c.Query("page"), c.Query("limit"),
		c.Query("sort"), "",
	)

	items, err := h.service.SearchEnabledByName(c.Request.Context(), spf, name)
	if category.HandleCategoryError(c, err) {
		return
	}
	response.Data(c, http.StatusOK, items)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid category id")
		return 0, false
	}
	return id, true
}
