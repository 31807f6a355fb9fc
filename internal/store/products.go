package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/01moynul/taptosell-catalog/internal/database"
	"github.com/01moynul/taptosell-catalog/internal/models"
)

// ErrSlugTaken is returned when a write would give two live products the same slug.
var ErrSlugTaken = errors.New("slug is used by another live product")

const productSelect = `
	SELECT
		p.id, p.title, p.slug, p.department_id, p.category_id, p.description,
		p.price, p.quantity, p.status, p.version, p.created_at, p.updated_at, p.deleted_at,
		d.name AS department_name, c.name AS category_name
	FROM products p
	JOIN departments d ON d.id = p.department_id
	JOIN categories c ON c.id = p.category_id`

// sortColumns whitelists the orderable list columns.
var sortColumns = map[string]string{
	"title":      "p.title",
	"price":      "p.price",
	"created_at": "p.created_at",
}

// sortColumn resolves a sort key. SQLite stores prices as text, so they are compared as numbers.
func (s *Store) sortColumn(key string) string {
	column, ok := sortColumns[key]
	if !ok {
		return sortColumns["created_at"]
	}
	if key == "price" && s.q.DriverName() == database.DriverSQLite {
		return "CAST(p.price AS REAL)"
	}
	return column
}

// writeError maps a live-slug unique violation to ErrSlugTaken.
func writeError(op string, err error) error {
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("%s: %w", op, ErrSlugTaken)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	res, err := s.q.ExecContext(ctx, `
		INSERT INTO products
		(title, slug, department_id, category_id, description, price, quantity, status, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Slug, p.DepartmentID, p.CategoryID, p.Description, p.Price, p.Quantity,
		p.Status, p.Version, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return writeError("insert product", err)
	}
	p.ID, err = res.LastInsertId()
	return err
}

// GetProduct loads a product with its department and category names.
// It returns nil when the id is unknown, or trashed and withTrashed is false.
func (s *Store) GetProduct(ctx context.Context, id int64, withTrashed bool) (*models.Product, error) {
	query := productSelect + ` WHERE p.id = ?`
	if !withTrashed {
		query += ` AND p.deleted_at IS NULL`
	}
	var p models.Product
	ok, err := s.get(ctx, &p, query, id)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct writes every editable column and bumps the version. When expectedVersion
// is set the row is only touched if it still carries that version. It reports whether a
// row was updated.
func (s *Store) UpdateProduct(ctx context.Context, p *models.Product, expectedVersion *int64) (bool, error) {
	query := `
		UPDATE products SET
			title = ?, slug = ?, department_id = ?, category_id = ?, description = ?,
			price = ?, quantity = ?, status = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`
	args := []any{
		p.Title, p.Slug, p.DepartmentID, p.CategoryID, p.Description,
		p.Price, p.Quantity, p.Status, p.UpdatedAt, p.ID,
	}
	if expectedVersion != nil {
		query += ` AND version = ?`
		args = append(args, *expectedVersion)
	}

	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, writeError("update product", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// SoftDeleteProducts stamps deleted_at on the live products among ids and returns how many
// were hidden. Nothing else on the row changes, so a restore gives back the same record.
func (s *Store) SoftDeleteProducts(ctx context.Context, ids []int64, at time.Time) (int64, error) {
	query, args, err := s.in(`UPDATE products SET deleted_at = ? WHERE id IN (?) AND deleted_at IS NULL`, at, ids)
	if err != nil {
		return 0, err
	}
	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("soft delete products: %w", err)
	}
	return res.RowsAffected()
}

// RestoreProduct clears deleted_at and reports whether a trashed row was found.
func (s *Store) RestoreProduct(ctx context.Context, id int64) (bool, error) {
	res, err := s.q.ExecContext(ctx, `UPDATE products SET deleted_at = NULL WHERE id = ? AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return false, writeError("restore product", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ForceDeleteProducts removes the rows, trashed or not, together with their media rows.
func (s *Store) ForceDeleteProducts(ctx context.Context, ids []int64) (int64, error) {
	query, args, err := s.in(`DELETE FROM media WHERE product_id IN (?)`, ids)
	if err != nil {
		return 0, err
	}
	if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("delete product media: %w", err)
	}

	query, args, err = s.in(`DELETE FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return 0, err
	}
	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete products: %w", err)
	}
	return res.RowsAffected()
}

// SlugsLike returns every stored slug (trashed included) equal to base or of the form base-*,
// ignoring the product excludeID.
func (s *Store) SlugsLike(ctx context.Context, base string, excludeID int64) ([]string, error) {
	slugs := []string{}
	err := s.selectInto(ctx, &slugs,
		`SELECT slug FROM products WHERE (slug = ? OR slug LIKE ? ESCAPE '!') AND id <> ?`,
		base, escapeLike(base)+"-%", excludeID)
	return slugs, err
}

// LiveSlugTaken reports whether a live product other than excludeID uses slug.
func (s *Store) LiveSlugTaken(ctx context.Context, slug string, excludeID int64) (bool, error) {
	n, err := s.count(ctx,
		`SELECT COUNT(*) FROM products WHERE slug = ? AND deleted_at IS NULL AND id <> ?`,
		slug, excludeID)
	return n > 0, err
}

// ListProducts runs the admin table query: filters, search, ordering and pagination.
func (s *Store) ListProducts(ctx context.Context, f models.ProductFilter) ([]models.Product, int, error) {
	var (
		conditions []string
		args       []any
	)

	switch f.Trashed {
	case models.TrashedWith:
	case models.TrashedOnly:
		conditions = append(conditions, "p.deleted_at IS NOT NULL")
	default:
		conditions = append(conditions, "p.deleted_at IS NULL")
	}
	if f.Status != "" {
		conditions = append(conditions, "p.status = ?")
		args = append(args, f.Status)
	}
	if f.DepartmentID != nil {
		conditions = append(conditions, "p.department_id = ?")
		args = append(args, *f.DepartmentID)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		conditions = append(conditions, "LOWER(p.title) LIKE ? ESCAPE '!'")
		args = append(args, "%"+escapeLike(strings.ToLower(term))+"%")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	total, err := s.count(ctx, `SELECT COUNT(*) FROM products p`+whereClause, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	column := s.sortColumn(f.Sort)
	direction := "DESC"
	if strings.EqualFold(f.Direction, "asc") {
		direction = "ASC"
	}
	query := productSelect + whereClause + fmt.Sprintf(" ORDER BY %s %s, p.id %s", column, direction, direction)
	if f.PageSize > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, f.PageSize, (max(f.Page, 1)-1)*f.PageSize)
	}

	products := []models.Product{}
	if err := s.selectInto(ctx, &products, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
