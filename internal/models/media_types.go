package models

import "time"

// ImagesCollection is the media collection product images live in.
const ImagesCollection = "images"

// Media is the model for the 'media' table: one stored file attached to a product.
// FileName is the uploaded name, preserved as-is on disk under a per-media directory.
type Media struct {
	ID             int64     `json:"id" db:"id"`
	UUID           string    `json:"uuid" db:"uuid"`
	ProductID      int64     `json:"productId" db:"product_id"`
	CollectionName string    `json:"collectionName" db:"collection_name"`
	Name           string    `json:"name" db:"name"`
	FileName       string    `json:"fileName" db:"file_name"`
	MimeType       string    `json:"mimeType" db:"mime_type"`
	Size           int64     `json:"size" db:"size"`
	OrderColumn    int       `json:"order" db:"order_column"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`

	URL string `json:"url" db:"-"`
}

// UploadResult is the outcome for one file of a multi-file upload.
type UploadResult struct {
	FileName string `json:"fileName"`
	Media    *Media `json:"media,omitempty"`
	Error    string `json:"error,omitempty"`
}

type ReorderInput struct {
	IDs []int64 `json:"ids" binding:"omitempty,dive,gt=0"`
}

type BulkInput struct {
	IDs []int64 `json:"ids" binding:"required,min=1,dive,gt=0"`
}
