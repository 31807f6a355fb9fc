package models

import "time"

// Category defines the struct for the 'categories' table.
// ParentID is nil for the root of a department's tree.
type Category struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	DepartmentID int64     `json:"departmentId" db:"department_id"`
	ParentID     *int64    `json:"parentId,omitempty" db:"parent_id"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`

	// Virtual Field (Not in DB) - Used for constructing the Tree View in the UI
	Children []Category `json:"children,omitempty" db:"-"`
}

type CategoryInput struct {
	Name         string `json:"name" binding:"required,max=255"`
	DepartmentID int64  `json:"departmentId" binding:"required,gt=0"`
	ParentID     *int64 `json:"parentId"` // Pointer allows sending null for root categories
	Active       *bool  `json:"active"`
}

// DepartmentTree groups the root categories of one department.
type DepartmentTree struct {
	Department Department `json:"department"`
	Categories []Category `json:"categories"`
}
