package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/taptosell-catalog/internal/catalog"
	"github.com/01moynul/taptosell-catalog/internal/models"
)

// ImagesField is the multipart field the image files are sent in.
const ImagesField = "images"

// ListProductImages handles GET /v1/admin/products/:id/images
func (h *Handlers) ListProductImages(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	images, err := h.Catalog.ListImages(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}

// UploadProductImages handles POST /v1/admin/products/:id/images
// Files are appended with their original names. Every file gets its own result, so one bad
// file does not fail the others.
func (h *Handlers) UploadProductImages(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	// 1. Get the files from the request
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expected a multipart form"})
		return
	}
	files := form.File[ImagesField]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded", "fields": map[string]string{ImagesField: "is required"}})
		return
	}

	// 2. Hand them to the catalog one by one
	uploads := make([]catalog.Upload, 0, len(files))
	for _, fh := range files {
		uploads = append(uploads, catalog.Upload{
			FileName: fh.Filename,
			Open:     func() (io.ReadCloser, error) { return fh.Open() },
		})
	}

	results, err := h.Catalog.UploadImages(c.Request.Context(), id, uploads)
	if err != nil {
		respondError(c, err)
		return
	}

	// 3. Report per-file outcomes
	accepted := 0
	for _, r := range results {
		if r.Media != nil {
			accepted++
		}
	}
	c.JSON(http.StatusOK, gin.H{"accepted": accepted, "rejected": len(results) - accepted, "results": results})
}

// ReorderProductImages handles PUT /v1/admin/products/:id/images/order
// The body lists every image id of the product in the wanted order.
func (h *Handlers) ReorderProductImages(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input models.ReorderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	images, err := h.Catalog.ReorderImages(c.Request.Context(), id, input.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}

// DeleteProductImage handles DELETE /v1/admin/products/:id/images/:mediaId
func (h *Handlers) DeleteProductImage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	mediaID, ok := paramID(c, "mediaId")
	if !ok {
		return
	}
	if err := h.Catalog.RemoveImage(c.Request.Context(), id, mediaID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Image removed"})
}
