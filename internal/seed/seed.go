// Package seed loads the reference departments and category forest used for local
// bootstrap and test fixtures.
package seed

import (
	"context"
	"time"

	"github.com/01moynul/taptosell-catalog/internal/models"
	"github.com/01moynul/taptosell-catalog/internal/store"
)

func ptr(v int64) *int64 { return &v }

// Departments are created with fixed ids so the categories can reference them.
var Departments = []models.Department{
	{ID: 1, Name: "Electronics"},
	{ID: 2, Name: "Fashion"},
}

// Categories is the seed forest, parents listed before their children.
var Categories = []models.Category{
	{ID: 1, Name: "Electronics", DepartmentID: 1},
	{ID: 2, Name: "Fashion", DepartmentID: 2},

	// Electronics, depth 1
	{ID: 3, Name: "Computers", DepartmentID: 1, ParentID: ptr(1)},
	{ID: 4, Name: "Smartphones", DepartmentID: 1, ParentID: ptr(1)},

	// Computers and Smartphones, depth 2
	{ID: 5, Name: "Laptops", DepartmentID: 1, ParentID: ptr(3)},
	{ID: 6, Name: "Desktops", DepartmentID: 1, ParentID: ptr(3)},
	{ID: 7, Name: "Android", DepartmentID: 1, ParentID: ptr(4)},
	{ID: 8, Name: "Apple", DepartmentID: 1, ParentID: ptr(4)},
}

// Result counts the rows a run inserted.
type Result struct {
	Departments int
	Categories  int
}

// Run inserts the rows that are missing. Rows whose id already exists are left alone, so
// running it again is a no-op.
func Run(ctx context.Context, st *store.Store, now time.Time) (Result, error) {
	var res Result
	now = now.UTC().Truncate(time.Second)

	err := st.WithTx(ctx, func(tx *store.Store) error {
		for _, d := range Departments {
			existing, err := tx.GetDepartment(ctx, d.ID)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			d.CreatedAt, d.UpdatedAt = now, now
			if err := tx.CreateDepartmentWithID(ctx, &d); err != nil {
				return err
			}
			res.Departments++
		}

		for _, c := range Categories {
			existing, err := tx.GetCategory(ctx, c.ID)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			c.Active = true
			c.CreatedAt, c.UpdatedAt = now, now
			if err := tx.CreateCategoryWithID(ctx, &c); err != nil {
				return err
			}
			res.Categories++
		}
		return nil
	})
	return res, err
}
