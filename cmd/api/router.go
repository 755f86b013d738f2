package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/shared/middleware"
	"storefront-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.Logger(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupCategoryRoutes(v1, c)
		setupProductRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// Client-facing catalog routes, no auth.
func setupCategoryRoutes(v1 *gin.RouterGroup, c *container.Container) {
	categories := v1.Group("/categories")
	{
		categories.GET("/tree", c.CategoryHandler.GetClientTree)
		categories.GET("/search", c.CategoryHandler.SearchCategories)
		categories.GET("/page/:slug", c.CategoryHandler.GetClientCategoryBySlug)
		categories.GET("/:id/siblings", c.CategoryHandler.GetClientSiblingCategories)
		categories.GET("/:id/products", c.ProductHandler.GetProductsByCategory)
	}
}

func setupProductRoutes(v1 *gin.RouterGroup, c *container.Container) {
	products := v1.Group("/products")
	{
		products.GET("", c.ProductHandler.GetProducts)
		products.GET("/:id", c.ProductHandler.GetProduct)
	}
}

func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin", middleware.AdminGuard(c.JWTManager))

	categories := admin.Group("/categories")
	{
		categories.GET("", c.CategoryHandler.GetAdminCategories)
		categories.GET("/tree", c.CategoryHandler.GetAdminTree)
		categories.GET("/export", c.CategoryHandler.ExportCategories)
		categories.GET("/:id", c.CategoryHandler.GetCategory)
		categories.POST("", c.CategoryHandler.CreateCategory)
		categories.PUT("/:id", c.CategoryHandler.UpdateCategory)
		categories.DELETE("/:id", c.CategoryHandler.DeleteCategory)
		categories.POST("/reorder", c.CategoryHandler.ReorderCategories)
		categories.POST("/media", c.CategoryHandler.UploadMedia)
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := c.DB.Pool.Ping(ctx.Request.Context()); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": c.Config.App.Version,
		})
	}
}
