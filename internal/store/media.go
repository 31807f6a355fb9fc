package store

import (
	"context"
	"fmt"
	"time"

	"github.com/01moynul/taptosell-catalog/internal/models"
)

const mediaColumns = `id, uuid, product_id, collection_name, name, file_name, mime_type, size, order_column, created_at, updated_at`

// ListMedia returns a product's collection in sequence order.
func (s *Store) ListMedia(ctx context.Context, productID int64, collection string) ([]models.Media, error) {
	items := []models.Media{}
	err := s.selectInto(ctx, &items,
		`SELECT `+mediaColumns+` FROM media WHERE product_id = ? AND collection_name = ? ORDER BY order_column ASC, id ASC`,
		productID, collection)
	return items, err
}

// FirstMedia returns, per product, the first item of the collection.
func (s *Store) FirstMedia(ctx context.Context, productIDs []int64, collection string) (map[int64]models.Media, error) {
	first := map[int64]models.Media{}
	if len(productIDs) == 0 {
		return first, nil
	}
	query, args, err := s.in(
		`SELECT `+mediaColumns+` FROM media WHERE product_id IN (?) AND collection_name = ? ORDER BY product_id ASC, order_column ASC, id ASC`,
		productIDs, collection)
	if err != nil {
		return nil, err
	}
	var items []models.Media
	if err := s.selectInto(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	for _, m := range items {
		if _, ok := first[m.ProductID]; !ok {
			first[m.ProductID] = m
		}
	}
	return first, nil
}

// MediaForProducts returns every media row of the given products, any collection.
func (s *Store) MediaForProducts(ctx context.Context, productIDs []int64) ([]models.Media, error) {
	items := []models.Media{}
	if len(productIDs) == 0 {
		return items, nil
	}
	query, args, err := s.in(`SELECT `+mediaColumns+` FROM media WHERE product_id IN (?)`, productIDs)
	if err != nil {
		return nil, err
	}
	err = s.selectInto(ctx, &items, query, args...)
	return items, err
}

// GetMedia returns nil when the id is unknown.
func (s *Store) GetMedia(ctx context.Context, id int64) (*models.Media, error) {
	var m models.Media
	ok, err := s.get(ctx, &m, `SELECT `+mediaColumns+` FROM media WHERE id = ?`, id)
	if err != nil || !ok {
		return nil, err
	}
	return &m, nil
}

// MaxMediaOrder is the highest order position in the collection, 0 when empty.
func (s *Store) MaxMediaOrder(ctx context.Context, productID int64, collection string) (int, error) {
	return s.count(ctx,
		`SELECT COALESCE(MAX(order_column), 0) FROM media WHERE product_id = ? AND collection_name = ?`,
		productID, collection)
}

func (s *Store) CreateMedia(ctx context.Context, m *models.Media) error {
	res, err := s.q.ExecContext(ctx, `
		INSERT INTO media (uuid, product_id, collection_name, name, file_name, mime_type, size, order_column, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.UUID, m.ProductID, m.CollectionName, m.Name, m.FileName, m.MimeType, m.Size,
		m.OrderColumn, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert media: %w", err)
	}
	m.ID, err = res.LastInsertId()
	return err
}

func (s *Store) SetMediaOrder(ctx context.Context, id int64, order int, at time.Time) error {
	_, err := s.q.ExecContext(ctx, `UPDATE media SET order_column = ?, updated_at = ? WHERE id = ?`, order, at, id)
	return err
}

func (s *Store) DeleteMedia(ctx context.Context, id int64) error {
	_, err := s.q.ExecContext(ctx, `DELETE FROM media WHERE id = ?`, id)
	return err
}
