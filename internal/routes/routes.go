package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/01moynul/taptosell-catalog/internal/auth"
	"github.com/01moynul/taptosell-catalog/internal/handlers"
	"github.com/01moynul/taptosell-catalog/internal/media"
	"github.com/01moynul/taptosell-catalog/internal/metrics"
	"github.com/01moynul/taptosell-catalog/internal/middleware"
)

// Deps are the pieces the router needs besides the handlers.
type Deps struct {
	Logger     *zap.Logger
	Issuer     *auth.Issuer
	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer
	UploadDir  string
	CORSOrigin string
	// MaxMultipartMemory caps the part of an upload kept in memory; the rest spills to disk.
	MaxMultipartMemory int64
}

func SetupRouter(h *handlers.Handlers, deps Deps) *gin.Engine {
	router := gin.New()
	if deps.MaxMultipartMemory > 0 {
		router.MaxMultipartMemory = deps.MaxMultipartMemory
	}

	// --- Global middleware ---
	// CORS must run before anything that can abort the request.
	router.Use(middleware.CORSMiddleware(deps.CORSOrigin))
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID(deps.Logger))
	if deps.Metrics != nil {
		router.Use(middleware.Metrics(deps.Metrics))
	}

	ping := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong!"})
	}
	router.GET("/ping", ping)
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}
	if deps.UploadDir != "" {
		router.Static(media.PublicPrefix, deps.UploadDir)
	}

	v1 := router.Group("/v1")
	{
		// --- Ping Route (Public) ---
		v1.GET("/ping", ping)

		// --- Admin Routes (Protected) ---
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(deps.Issuer, deps.Metrics))
		admin.Use(middleware.RequireRole(auth.RoleAdmin))
		{
			admin.GET("/resources/products", h.GetProductResource)

			// Departments
			admin.GET("/departments", h.ListDepartments)
			admin.POST("/departments", h.CreateDepartment)
			admin.PUT("/departments/:id", h.UpdateDepartment)
			admin.DELETE("/departments/:id", h.DeleteDepartment)
			admin.GET("/departments/:id/categories", h.GetDepartmentCategories)

			// Categories
			admin.GET("/categories", h.GetEligibleCategories)
			admin.GET("/categories/tree", h.GetCategoryTree)
			admin.POST("/categories", h.CreateCategory)
			admin.PUT("/categories/:id", h.UpdateCategory)
			admin.DELETE("/categories/:id", h.DeleteCategory)
			admin.GET("/categories/:id/ancestors", h.GetCategoryAncestors)
			admin.GET("/categories/:id/descendants", h.GetCategoryDescendants)

			// Products
			admin.GET("/products", h.ListProducts)
			admin.POST("/products", h.CreateProduct)
			admin.POST("/products/bulk-delete", h.BulkDeleteProducts)
			admin.POST("/products/force-delete", h.ForceDeleteProducts)
			admin.POST("/products/form/title-changed", h.TitleChanged)
			admin.POST("/products/form/department-changed", h.DepartmentChanged)
			admin.GET("/products/:id", h.GetProduct)
			admin.PUT("/products/:id", h.UpdateProduct)
			admin.DELETE("/products/:id", h.DeleteProduct)
			admin.POST("/products/:id/restore", h.RestoreProduct)

			// Product images
			admin.GET("/products/:id/images", h.ListProductImages)
			admin.POST("/products/:id/images", h.UploadProductImages)
			admin.PUT("/products/:id/images/order", h.ReorderProductImages)
			admin.DELETE("/products/:id/images/:mediaId", h.DeleteProductImage)
		}
	}

	return router
}
