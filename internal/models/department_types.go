package models

import "time"

// Department defines the struct for the 'departments' table.
type Department struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type DepartmentInput struct {
	Name string `json:"name" binding:"required,max=255"`
}
