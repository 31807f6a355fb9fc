package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/taptosell-catalog/internal/models"
)

// ListDepartments handles GET /v1/admin/departments
func (h *Handlers) ListDepartments(c *gin.Context) {
	deps, err := h.Catalog.ListDepartments(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"departments": deps})
}

// CreateDepartment handles POST /v1/admin/departments
func (h *Handlers) CreateDepartment(c *gin.Context) {
	var input models.DepartmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	d, err := h.Catalog.CreateDepartment(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Department created", "department": d})
}

// UpdateDepartment handles PUT /v1/admin/departments/:id
func (h *Handlers) UpdateDepartment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input models.DepartmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	d, err := h.Catalog.UpdateDepartment(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Department updated", "department": d})
}

// DeleteDepartment handles DELETE /v1/admin/departments/:id
// Departments still used by categories or products are refused with 409.
func (h *Handlers) DeleteDepartment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Catalog.DeleteDepartment(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Department deleted"})
}

// GetDepartmentCategories handles GET /v1/admin/departments/:id/categories
// It returns the categories a product of this department may be filed under.
func (h *Handlers) GetDepartmentCategories(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	cats, err := h.Catalog.EligibleCategories(c.Request.Context(), &id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}
