package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/domains/product"
	"storefront-backend/internal/shared"
	"storefront-backend/internal/shared/response"
	"storefront-backend/pkg/logger"
)

type ProductHandler struct {
	service product.Service
}

func NewProductHandler(svc product.Service) *ProductHandler {
	return &ProductHandler{
		service: svc,
	}
}

// GET /v1/products?page=&limit=
func (h *ProductHandler) GetProducts(c *gin.Context) {
	spf := shared.ParseSPF(c.Query("page"), c.Query("limit"), "", "")

	items, itemsTotal, err := h.service.GetProductsPage(c.Request.Context(), spf)
	if err != nil {
		logger.Error("failed to list products", err)
		response.InternalServerError(c, "internal server error")
		return
	}
	response.Paginated(c, http.StatusOK, items, itemsTotal, nil, spf.Limit)
}

// GET /v1/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid product id")
		return
	}

	item, err := h.service.GetProductByID(c.Request.Context(), id)
	if errors.Is(err, product.ErrProductNotFound) {
		response.NotFound(c, err.Error())
		return
	}
	if err != nil {
		logger.Error("failed to get product", err)
		response.InternalServerError(c, "internal server error")
		return
	}
	response.Data(c, http.StatusOK, item)
}

// GET /v1/categories/:id/products?page=&limit=
func (h *ProductHandler) GetProductsByCategory(c *gin.Context) {
	categoryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || categoryID <= 0 {
		response.BadRequest(c, "invalid category id")
		return
	}
	spf := shared.ParseSPF(c.Query("page"), c.Query("limit"), "", "")

	items, err := h.service.GetProductsByCategoryID(c.Request.Context(), categoryID, spf)
	if err != nil {
		logger.Error("failed to list products by category", err)
		response.InternalServerError(c, "internal server error")
		return
	}
	response.Data(c, http.StatusOK, items)
}
