package store

import (
	"context"
	"fmt"

	"github.com/01moynul/taptosell-catalog/internal/models"
)

const categoryColumns = `id, name, department_id, parent_id, active, created_at, updated_at`

// ListCategories returns every category, the input for building a Tree snapshot.
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	cats := []models.Category{}
	err := s.selectInto(ctx, &cats, `SELECT `+categoryColumns+` FROM categories ORDER BY name ASC, id ASC`)
	return cats, err
}

// CategoriesByDepartment returns every category of the department, at any depth,
// active or not.
func (s *Store) CategoriesByDepartment(ctx context.Context, departmentID int64) ([]models.Category, error) {
	cats := []models.Category{}
	err := s.selectInto(ctx, &cats,
		`SELECT `+categoryColumns+` FROM categories WHERE department_id = ? ORDER BY name ASC, id ASC`,
		departmentID)
	return cats, err
}

// GetCategory returns nil when no category has the id.
func (s *Store) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	var c models.Category
	ok, err := s.get(ctx, &c, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)
	if err != nil || !ok {
		return nil, err
	}
	return &c, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO categories (name, department_id, parent_id, active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		c.Name, c.DepartmentID, c.ParentID, c.Active, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	c.ID, err = res.LastInsertId()
	return err
}

// CreateCategoryWithID inserts a category with a fixed id (seed data).
func (s *Store) CreateCategoryWithID(ctx context.Context, c *models.Category) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO categories (id, name, department_id, parent_id, active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.DepartmentID, c.ParentID, c.Active, c.CreatedAt, c.UpdatedAt)
	return err
}

func (s *Store) UpdateCategory(ctx context.Context, c *models.Category) error {
	_, err := s.q.ExecContext(ctx,
		`UPDATE categories SET name = ?, department_id = ?, parent_id = ?, active = ?, updated_at = ? WHERE id = ?`,
		c.Name, c.DepartmentID, c.ParentID, c.Active, c.UpdatedAt, c.ID)
	return err
}

func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	_, err := s.q.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	return err
}

// CategoryUsage counts the child categories and products (trashed included) referencing a category.
func (s *Store) CategoryUsage(ctx context.Context, id int64) (children, products int, err error) {
	if children, err = s.count(ctx, `SELECT COUNT(*) FROM categories WHERE parent_id = ?`, id); err != nil {
		return 0, 0, err
	}
	products, err = s.count(ctx, `SELECT COUNT(*) FROM products WHERE category_id = ?`, id)
	return children, products, err
}
