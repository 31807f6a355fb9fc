package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/taptosell-catalog/internal/models"
)

// --- Inputs ---

// TitleChangedInput is sent when the title field loses focus.
// ProductID is set when editing so the product's own slug is not counted as taken.
type TitleChangedInput struct {
	Title     string `json:"title"`
	ProductID int64  `json:"productId" binding:"omitempty,gt=0"`
}

// GetProductResource handles GET /v1/admin/resources/products
func (h *Handlers) GetProductResource(c *gin.Context) {
	c.JSON(http.StatusOK, h.Resource)
}

// ListProducts handles GET /v1/admin/products
// Query: status, department_id, search, sort (title|price|created_at), direction, page,
// page_size, trashed (with|only).
func (h *Handlers) ListProducts(c *gin.Context) {
	var filter models.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondBindError(c, err)
		return
	}

	page, err := h.Catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// CreateProduct handles POST /v1/admin/products
func (h *Handlers) CreateProduct(c *gin.Context) {
	var input models.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	p, err := h.Catalog.CreateProduct(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product created", "product": p})
}

// GetProduct handles GET /v1/admin/products/:id
// Trashed products are only returned with ?with_trashed=true.
func (h *Handlers) GetProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	withTrashed := c.Query("with_trashed") == "true" || c.Query("with_trashed") == "1"

	p, err := h.Catalog.GetProduct(c.Request.Context(), id, withTrashed)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

// UpdateProduct handles PUT /v1/admin/products/:id
// Omitted fields keep their value. A "version" makes the update fail with 409 when the
// product changed since it was read.
func (h *Handlers) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input models.ProductPatch
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	p, err := h.Catalog.UpdateProduct(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated", "product": p})
}

// DeleteProduct handles DELETE /v1/admin/products/:id (soft delete)
func (h *Handlers) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product moved to trash"})
}

// RestoreProduct handles POST /v1/admin/products/:id/restore
func (h *Handlers) RestoreProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := h.Catalog.RestoreProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product restored", "product": p})
}

// BulkDeleteProducts handles POST /v1/admin/products/bulk-delete (soft delete)
func (h *Handlers) BulkDeleteProducts(c *gin.Context) {
	var input models.BulkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	n, err := h.Catalog.BulkDeleteProducts(c.Request.Context(), input.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Products moved to trash", "deleted": n})
}

// ForceDeleteProducts handles POST /v1/admin/products/force-delete
// Rows and image files are removed for good.
func (h *Handlers) ForceDeleteProducts(c *gin.Context) {
	var input models.BulkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	n, err := h.Catalog.ForceDeleteProducts(c.Request.Context(), input.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Products deleted permanently", "deleted": n})
}

// TitleChanged handles POST /v1/admin/products/form/title-changed
func (h *Handlers) TitleChanged(c *gin.Context) {
	var input TitleChangedInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	slug, err := h.Catalog.SuggestSlug(c.Request.Context(), input.Title, input.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slug": slug})
}

// DepartmentChanged handles POST /v1/admin/products/form/department-changed
// The response carries the categories to offer and the category to keep (null when cleared).
func (h *Handlers) DepartmentChanged(c *gin.Context) {
	var input models.DepartmentChange
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	res, err := h.Catalog.ResolveDepartmentChange(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
