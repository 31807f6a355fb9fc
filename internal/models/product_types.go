package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus is the publication state of a product.
type ProductStatus string

const (
	ProductStatusDraft     ProductStatus = "draft"
	ProductStatusPublished ProductStatus = "published"
)

// ProductStatuses lists the statuses in display order.
func ProductStatuses() []ProductStatus {
	return []ProductStatus{ProductStatusDraft, ProductStatusPublished}
}

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusDraft, ProductStatusPublished:
		return true
	}
	return false
}

func (s ProductStatus) Label() string {
	switch s {
	case ProductStatusDraft:
		return "Draft"
	case ProductStatusPublished:
		return "Published"
	}
	return string(s)
}

// Color is the badge color the admin table renders the status with.
func (s ProductStatus) Color() string {
	switch s {
	case ProductStatusPublished:
		return "success"
	}
	return "gray"
}

// Product is the model for the 'products' table.
// Quantity is nil when stock is not tracked.
type Product struct {
	ID           int64           `json:"id" db:"id"`
	Title        string          `json:"title" db:"title"`
	Slug         string          `json:"slug" db:"slug"`
	DepartmentID int64           `json:"departmentId" db:"department_id"`
	CategoryID   int64           `json:"categoryId" db:"category_id"`
	Description  string          `json:"description" db:"description"`
	Price        decimal.Decimal `json:"price" db:"price"`
	Quantity     *int64          `json:"quantity" db:"quantity"`
	Status       ProductStatus   `json:"status" db:"status"`
	Version      int64           `json:"version" db:"version"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" db:"updated_at"`
	DeletedAt    *time.Time      `json:"deletedAt,omitempty" db:"deleted_at"`

	// Joins (populated by the list/get queries)
	DepartmentName string `json:"departmentName,omitempty" db:"department_name"`
	CategoryName   string `json:"categoryName,omitempty" db:"category_name"`
	Thumbnail      *Media `json:"thumbnail,omitempty" db:"-"`
}

// PriceScale is the number of decimal places prices are stored and rendered with.
const PriceScale = 2

// MarshalJSON renders the price with exactly two decimals ("1299.00"), whatever scale the
// database driver handed back.
func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	return json.Marshal(struct {
		product
		Price string `json:"price"`
	}{product(p), p.Price.StringFixed(PriceScale)})
}

// Trashed reports whether the product has been soft-deleted.
func (p *Product) Trashed() bool {
	return p.DeletedAt != nil
}

// ProductInput carries the create form. Price is kept as text so a non-numeric value
// can be reported against the field instead of failing the whole request body.
type ProductInput struct {
	Title        string        `json:"title"`
	Slug         string        `json:"slug"`
	DepartmentID *int64        `json:"departmentId"`
	CategoryID   *int64        `json:"categoryId"`
	Description  string        `json:"description"`
	Price        RawNumber     `json:"price"`
	Quantity     *int64        `json:"quantity"`
	Status       ProductStatus `json:"status"`
}

// ProductPatch carries an edit. Nil fields keep their stored value.
type ProductPatch struct {
	Title        *string        `json:"title"`
	Slug         *string        `json:"slug"`
	DepartmentID *int64         `json:"departmentId"`
	CategoryID   *int64         `json:"categoryId"`
	Description  *string        `json:"description"`
	Price        *RawNumber     `json:"price"`
	Quantity     NullableInt    `json:"quantity"`
	Status       *ProductStatus `json:"status"`

	// Version, when set, must match the stored version or the update is rejected.
	Version *int64 `json:"version"`
}

// TrashedMode controls whether soft-deleted products are listed.
type TrashedMode string

const (
	TrashedWithout TrashedMode = ""
	TrashedWith    TrashedMode = "with"
	TrashedOnly    TrashedMode = "only"
)

// ProductFilter is the list/table query.
type ProductFilter struct {
	Status       ProductStatus `form:"status"`
	DepartmentID *int64        `form:"department_id"`
	Search       string        `form:"search"`
	Sort         string        `form:"sort"`
	Direction    string        `form:"direction"`
	Trashed      TrashedMode   `form:"trashed"`
	Page         int           `form:"page"`
	PageSize     int           `form:"page_size"`
}

type ProductPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
}

// DepartmentChange is the form state after the department select changes.
type DepartmentChange struct {
	DepartmentID *int64 `json:"departmentId"`
	CategoryID   *int64 `json:"categoryId"`
}

type DepartmentChangeResult struct {
	CategoryID *int64     `json:"categoryId"`
	Categories []Category `json:"categories"`
}
