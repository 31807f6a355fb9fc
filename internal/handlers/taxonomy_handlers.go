package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/taptosell-catalog/internal/models"
)

// --- Category Handlers ---

// GetEligibleCategories handles GET /v1/admin/categories?department_id=
// Without a department there is nothing to choose from, so the list is empty.
func (h *Handlers) GetEligibleCategories(c *gin.Context) {
	var departmentID *int64
	if raw := c.Query("department_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid department_id"})
			return
		}
		departmentID = &id
	}

	cats, err := h.Catalog.EligibleCategories(c.Request.Context(), departmentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

// GetCategoryTree handles GET /v1/admin/categories/tree
// Each department comes with its root categories, children nested.
func (h *Handlers) GetCategoryTree(c *gin.Context) {
	tree, err := h.Catalog.CategoryTree(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"departments": tree})
}

// CreateCategory handles POST /v1/admin/categories
func (h *Handlers) CreateCategory(c *gin.Context) {
	var input models.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	cat, err := h.Catalog.CreateCategory(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	// Return the full object so the UI can update the tree immediately
	c.JSON(http.StatusCreated, gin.H{"message": "Category created", "category": cat})
}

// UpdateCategory handles PUT /v1/admin/categories/:id
func (h *Handlers) UpdateCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input models.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	cat, err := h.Catalog.UpdateCategory(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category updated", "category": cat})
}

// DeleteCategory handles DELETE /v1/admin/categories/:id
func (h *Handlers) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Catalog.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// GetCategoryAncestors handles GET /v1/admin/categories/:id/ancestors
// The list runs from the parent up to the root, ready for a breadcrumb.
func (h *Handlers) GetCategoryAncestors(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	cats, err := h.Catalog.Ancestors(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

// GetCategoryDescendants handles GET /v1/admin/categories/:id/descendants
func (h *Handlers) GetCategoryDescendants(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	cats, err := h.Catalog.Descendants(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}
