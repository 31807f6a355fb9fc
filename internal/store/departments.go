package store

import (
	"context"
	"fmt"

	"github.com/01moynul/taptosell-catalog/internal/models"
)

func (s *Store) ListDepartments(ctx context.Context) ([]models.Department, error) {
	deps := []models.Department{}
	err := s.selectInto(ctx, &deps, `SELECT id, name, created_at, updated_at FROM departments ORDER BY name ASC, id ASC`)
	return deps, err
}

// GetDepartment returns nil when no department has the id.
func (s *Store) GetDepartment(ctx context.Context, id int64) (*models.Department, error) {
	var d models.Department
	ok, err := s.get(ctx, &d, `SELECT id, name, created_at, updated_at FROM departments WHERE id = ?`, id)
	if err != nil || !ok {
		return nil, err
	}
	return &d, nil
}

func (s *Store) CreateDepartment(ctx context.Context, d *models.Department) error {
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO departments (name, created_at, updated_at) VALUES (?, ?, ?)`,
		d.Name, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert department: %w", err)
	}
	d.ID, err = res.LastInsertId()
	return err
}

// CreateDepartmentWithID inserts a department with a fixed id (seed data).
func (s *Store) CreateDepartmentWithID(ctx context.Context, d *models.Department) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO departments (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		d.ID, d.Name, d.CreatedAt, d.UpdatedAt)
	return err
}

func (s *Store) UpdateDepartment(ctx context.Context, d *models.Department) error {
	_, err := s.q.ExecContext(ctx,
		`UPDATE departments SET name = ?, updated_at = ? WHERE id = ?`,
		d.Name, d.UpdatedAt, d.ID)
	return err
}

func (s *Store) DeleteDepartment(ctx context.Context, id int64) error {
	_, err := s.q.ExecContext(ctx, `DELETE FROM departments WHERE id = ?`, id)
	return err
}

// DepartmentUsage counts the categories and products (trashed included) referencing a department.
func (s *Store) DepartmentUsage(ctx context.Context, id int64) (categories, products int, err error) {
	if categories, err = s.count(ctx, `SELECT COUNT(*) FROM categories WHERE department_id = ?`, id); err != nil {
		return 0, 0, err
	}
	products, err = s.count(ctx, `SELECT COUNT(*) FROM products WHERE department_id = ?`, id)
	return categories, products, err
}
