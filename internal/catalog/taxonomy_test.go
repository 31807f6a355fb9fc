package catalog_test

import (
	"context"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/01moynul/taptosell-catalog/internal/catalog"
	"github.com/01moynul/taptosell-catalog/internal/models"
)

func categoryNames(cats []models.Category) []string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = c.Name
	}
	return out
}

func TestCategoryParentRules(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c, true)

	_, err := f.svc.CreateCategory(ctx, models.CategoryInput{Name: "Shoes", DepartmentID: 2, ParentID: ptr(3)})
	c.Assert(fields(c, err)["parentId"], qt.Equals, "parent category belongs to another department")

	_, err = f.svc.CreateCategory(ctx, models.CategoryInput{Name: "Shoes", DepartmentID: 2, ParentID: ptr(77)})
	c.Assert(fields(c, err)["parentId"], qt.Equals, "parent category does not exist")

	_, err = f.svc.CreateCategory(ctx, models.CategoryInput{Name: "Shoes", DepartmentID: 9})
	c.Assert(fields(c, err)["departmentId"], qt.Equals, "department does not exist")

	_, err = f.svc.CreateCategory(ctx, models.CategoryInput{Name: " ", DepartmentID: 2})
	c.Assert(fields(c, err)["name"], qt.Equals, "name is required")

	shoes, err := f.svc.CreateCategory(ctx, models.CategoryInput{Name: "Shoes", DepartmentID: 2, ParentID: ptr(2)})
	c.Assert(err, qt.IsNil)
	c.Assert(*shoes.ParentID, qt.Equals, int64(2))

	// Electronics under Laptops would close a loop.
	_, err = f.svc.UpdateCategory(ctx, 1, models.CategoryInput{Name: "Electronics", DepartmentID: 1, ParentID: ptr(5)})
	c.Assert(fields(c, err)["parentId"], qt.Equals, "parent category would create a cycle")

	_, err = f.svc.UpdateCategory(ctx, 3, models.CategoryInput{Name: "Computers", DepartmentID: 1, ParentID: ptr(3)})
	c.Assert(fields(c, err)["parentId"], qt.Equals, "parent category would create a cycle")

	_, err = f.svc.UpdateCategory(ctx, 3, models.CategoryInput{Name: "Computers", DepartmentID: 2})
	c.Assert(fields(c, err)["departmentId"], qt.Equals, "category with subcategories or products cannot change department")

	// A leaf may move to the other department as a root.
	moved, err := f.svc.UpdateCategory(ctx, 5, models.CategoryInput{Name: "Laptops", DepartmentID: 2})
	c.Assert(err, qt.IsNil)
	c.Assert(moved.DepartmentID, qt.Equals, int64(2))
	c.Assert(moved.ParentID, qt.IsNil)
	c.Assert(moved.Active, qt.IsTrue)

	_, err = f.svc.UpdateCategory(ctx, 99, models.CategoryInput{Name: "Ghost", DepartmentID: 1})
	c.Assert(err, qt.ErrorIs, catalog.ErrNotFound)
}

func TestCategoryTraversal(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c, true)

	ancestors, err := f.svc.Ancestors(ctx, 7)
	c.Assert(err, qt.IsNil)
	c.Assert(categoryNames(ancestors), qt.DeepEquals, []string{"Smartphones", "Electronics"})

	roots, err := f.svc.Ancestors(ctx, 2)
	c.Assert(err, qt.IsNil)
	c.Assert(roots, qt.HasLen, 0)
	c.Assert(roots, qt.Not(qt.IsNil))

	descendants, err := f.svc.Descendants(ctx, 3)
	c.Assert(err, qt.IsNil)
	c.Assert(categoryNames(descendants), qt.DeepEquals, []string{"Desktops", "Laptops"})

	_, err = f.svc.Descendants(ctx, 99)
	c.Assert(err, qt.ErrorIs, catalog.ErrNotFound)

	tree, err := f.svc.CategoryTree(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(tree, qt.HasLen, 2)
	c.Assert(tree[0].Department.Name, qt.Equals, "Electronics")
	c.Assert(categoryNames(tree[0].Categories), qt.DeepEquals, []string{"Electronics"})
	c.Assert(categoryNames(tree[0].Categories[0].Children), qt.DeepEquals, []string{"Computers", "Smartphones"})
	c.Assert(categoryNames(tree[1].Categories), qt.DeepEquals, []string{"Fashion"})
}

func TestDeleteReferenceData(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c, true)

	c.Assert(f.svc.DeleteDepartment(ctx, 1), qt.ErrorIs, catalog.ErrConflict)
	c.Assert(f.svc.DeleteCategory(ctx, 3), qt.ErrorIs, catalog.ErrConflict)

	p, err := f.svc.CreateProduct(ctx, productInput("Old Laptop", 1, 6, "100"))
	c.Assert(err, qt.IsNil)
	c.Assert(f.svc.DeleteProduct(ctx, p.ID), qt.IsNil)
	// Trashed products still hold their category.
	c.Assert(f.svc.DeleteCategory(ctx, 6), qt.ErrorIs, catalog.ErrConflict)

	c.Assert(f.svc.DeleteCategory(ctx, 5), qt.IsNil)
	c.Assert(f.svc.DeleteCategory(ctx, 5), qt.ErrorIs, catalog.ErrNotFound)

	books, err := f.svc.CreateDepartment(ctx, models.DepartmentInput{Name: "Books"})
	c.Assert(err, qt.IsNil)
	renamed, err := f.svc.UpdateDepartment(ctx, books.ID, models.DepartmentInput{Name: "Books & Media"})
	c.Assert(err, qt.IsNil)
	c.Assert(renamed.Name, qt.Equals, "Books & Media")

	c.Assert(f.svc.DeleteDepartment(ctx, books.ID), qt.IsNil)
	c.Assert(f.svc.DeleteDepartment(ctx, books.ID), qt.ErrorIs, catalog.ErrNotFound)
	_, err = f.svc.UpdateDepartment(ctx, books.ID, models.DepartmentInput{Name: "x"})
	c.Assert(err, qt.ErrorIs, catalog.ErrNotFound)

	deps, err := f.svc.ListDepartments(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(deps, qt.HasLen, 2)
}
