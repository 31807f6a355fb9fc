package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/01moynul/taptosell-catalog/internal/models"
	"github.com/01moynul/taptosell-catalog/internal/store"
)

const (
	maxTitleLen     = 255
	maxSlugLen      = 255
	slugAttempts    = 3
	defaultPageSize = 25
	maxPageSize     = 100
)

// maxPrice is the first value a DECIMAL(20,2) column can no longer hold. SQLite keeps the
// price as text, so every accepted value round-trips exactly on both drivers.
var maxPrice = decimal.New(1, 18)

// SuggestSlug is the slug a product with this title would get. The product excludeID
// (0 for a new product) does not count as taken.
func (s *Service) SuggestSlug(ctx context.Context, title string, excludeID int64) (string, error) {
	return s.uniqueSlug(ctx, s.store, title, excludeID)
}

func (s *Service) uniqueSlug(ctx context.Context, st *store.Store, title string, excludeID int64) (string, error) {
	base := Slugify(title)
	taken, err := st.SlugsLike(ctx, base, excludeID)
	if err != nil {
		return "", err
	}
	return UniqueSlug(base, taken), nil
}

// CreateProduct validates the form and inserts a draft (unless another status is given).
func (s *Service) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	v := &ValidationError{}
	now := s.timestamp()
	p := &models.Product{
		Title:       validTitle(in.Title, v),
		Description: validDescription(in.Description, v),
		Price:       parsePrice(in.Price, v),
		Quantity:    validQuantity(in.Quantity, v),
		Status:      validStatus(in.Status, v),
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	explicitSlug := strings.TrimSpace(in.Slug)
	err := s.retrySlug(explicitSlug, func() error {
		return s.store.WithTx(ctx, func(tx *store.Store) error {
			return s.insertProduct(ctx, tx, p, in, explicitSlug, v)
		})
	})
	s.metrics.RecordOperation("product", "create", err)
	if err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, p.ID, false)
}

func (s *Service) insertProduct(ctx context.Context, tx *store.Store, p *models.Product, in models.ProductInput, explicitSlug string, v *ValidationError) error {
	if err := checkReferences(ctx, tx, in.DepartmentID, in.CategoryID, v); err != nil {
		return err
	}
	if in.DepartmentID != nil && in.CategoryID != nil {
		p.DepartmentID, p.CategoryID = *in.DepartmentID, *in.CategoryID
	}
	if err := s.assignSlug(ctx, tx, p, explicitSlug, v); err != nil {
		return err
	}
	if err := v.OrNil(); err != nil {
		return err
	}
	return tx.CreateProduct(ctx, p)
}

// retrySlug runs a write that may lose a slug race to a concurrent writer. A generated slug
// is recomputed and the write retried; an explicit one is reported as taken.
func (s *Service) retrySlug(explicit string, write func() error) error {
	for attempt := 1; ; attempt++ {
		err := write()
		if !errors.Is(err, store.ErrSlugTaken) {
			return err
		}
		if explicit != "" || attempt == slugAttempts {
			return Invalid("slug", "slug is already taken")
		}
		s.log.Info("Generated slug taken by a concurrent write, retrying", zap.Int("attempt", attempt))
	}
}

// UpdateProduct applies a partial edit. When the department changes without a new category,
// the stored category is kept only if it belongs to the new department, otherwise the edit
// fails for the missing category. A set Version must match the stored one.
func (s *Service) UpdateProduct(ctx context.Context, id int64, patch models.ProductPatch) (*models.Product, error) {
	explicitSlug := ""
	if patch.Slug != nil {
		explicitSlug = strings.TrimSpace(*patch.Slug)
	}
	err := s.retrySlug(explicitSlug, func() error {
		return s.updateProduct(ctx, id, patch, explicitSlug)
	})
	s.metrics.RecordOperation("product", "update", err)
	if err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, id, false)
}

func (s *Service) updateProduct(ctx context.Context, id int64, patch models.ProductPatch, explicitSlug string) error {
	return s.store.WithTx(ctx, func(tx *store.Store) error {
		p, err := tx.GetProduct(ctx, id, false)
		if err != nil {
			return err
		}
		if p == nil {
			return notFound("product", id)
		}
		if patch.Version != nil && *patch.Version != p.Version {
			return conflict("product was modified by someone else")
		}

		v := &ValidationError{}
		if patch.Title != nil {
			p.Title = validTitle(*patch.Title, v)
		}
		if patch.Description != nil {
			p.Description = validDescription(*patch.Description, v)
		}
		if patch.Price != nil {
			p.Price = parsePrice(*patch.Price, v)
		}
		if patch.Quantity.Set {
			p.Quantity = validQuantity(patch.Quantity.Value, v)
		}
		if patch.Status != nil {
			p.Status = validStatus(*patch.Status, v)
		}

		departmentID := &p.DepartmentID
		if patch.DepartmentID != nil {
			departmentID = patch.DepartmentID
		}
		categoryID := &p.CategoryID
		switch {
		case patch.CategoryID != nil:
			categoryID = patch.CategoryID
		case *departmentID != p.DepartmentID:
			if ok, err := categoryInDepartment(ctx, tx, p.CategoryID, *departmentID); err != nil {
				return err
			} else if !ok {
				categoryID = nil
			}
		}
		if err := checkReferences(ctx, tx, departmentID, categoryID, v); err != nil {
			return err
		}
		if departmentID != nil && categoryID != nil {
			p.DepartmentID, p.CategoryID = *departmentID, *categoryID
		}

		if patch.Slug != nil {
			if err := s.assignSlug(ctx, tx, p, explicitSlug, v); err != nil {
				return err
			}
		}
		if err := v.OrNil(); err != nil {
			return err
		}

		p.UpdatedAt = s.timestamp()
		ok, err := tx.UpdateProduct(ctx, p, patch.Version)
		if err != nil {
			return err
		}
		if !ok {
			return conflict("product was modified by someone else")
		}
		return nil
	})
}

// GetProduct returns the product with its thumbnail. Trashed products are only found with
// withTrashed.
func (s *Service) GetProduct(ctx context.Context, id int64, withTrashed bool) (*models.Product, error) {
	p, err := s.store.GetProduct(ctx, id, withTrashed)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, notFound("product", id)
	}
	products := []models.Product{*p}
	if err := s.attachThumbnails(ctx, products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

// ListProducts runs the admin table query. Trashed products are hidden unless the filter asks
// for them.
func (s *Service) ListProducts(ctx context.Context, f models.ProductFilter) (*models.ProductPage, error) {
	v := &ValidationError{}
	if f.Status != "" && !f.Status.Valid() {
		v.Add("status", "status must be draft or published")
	}
	switch f.Sort {
	case "", "title", "price", "created_at":
	default:
		v.Add("sort", "sort must be title, price or created_at")
	}
	switch strings.ToLower(f.Direction) {
	case "", "asc", "desc":
	default:
		v.Add("direction", "direction must be asc or desc")
	}
	switch f.Trashed {
	case models.TrashedWithout, models.TrashedWith, models.TrashedOnly:
	default:
		v.Add("trashed", "trashed must be with or only")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	if f.Page < 1 {
		f.Page = 1
	}
	switch {
	case f.PageSize <= 0:
		f.PageSize = defaultPageSize
	case f.PageSize > maxPageSize:
		f.PageSize = maxPageSize
	}

	products, total, err := s.store.ListProducts(ctx, f)
	if err != nil {
		return nil, err
	}
	if err := s.attachThumbnails(ctx, products); err != nil {
		return nil, err
	}
	return &models.ProductPage{Products: products, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
}

// DeleteProduct soft-deletes one live product.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	n, err := s.store.SoftDeleteProducts(ctx, []int64{id}, s.timestamp())
	if err == nil && n == 0 {
		err = notFound("product", id)
	}
	s.metrics.RecordOperation("product", "delete", err)
	return err
}

// BulkDeleteProducts soft-deletes every live product among ids and returns how many it hid.
func (s *Service) BulkDeleteProducts(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, Invalid("ids", "at least one id is required")
	}
	var n int64
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		var err error
		n, err = tx.SoftDeleteProducts(ctx, ids, s.timestamp())
		return err
	})
	s.metrics.RecordOperation("product", "bulk_delete", err)
	return n, err
}

// RestoreProduct brings a trashed product back unchanged. It fails with ErrConflict when a
// live product took its slug in the meantime.
func (s *Service) RestoreProduct(ctx context.Context, id int64) (*models.Product, error) {
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		p, err := tx.GetProduct(ctx, id, true)
		if err != nil {
			return err
		}
		if p == nil || !p.Trashed() {
			return notFound("trashed product", id)
		}
		taken, err := tx.LiveSlugTaken(ctx, p.Slug, id)
		if err != nil {
			return err
		}
		if taken {
			return conflict("slug " + p.Slug + " is used by another product")
		}
		_, err = tx.RestoreProduct(ctx, id)
		if errors.Is(err, store.ErrSlugTaken) {
			return conflict("slug " + p.Slug + " is used by another product")
		}
		return err
	})
	s.metrics.RecordOperation("product", "restore", err)
	if err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, id, false)
}

// ForceDeleteProducts removes products for good, trashed or not, with their image files.
func (s *Service) ForceDeleteProducts(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, Invalid("ids", "at least one id is required")
	}
	var (
		n     int64
		files []models.Media
	)
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		var err error
		if files, err = tx.MediaForProducts(ctx, ids); err != nil {
			return err
		}
		n, err = tx.ForceDeleteProducts(ctx, ids)
		return err
	})
	s.metrics.RecordOperation("product", "force_delete", err)
	if err != nil {
		return 0, err
	}
	s.removeFiles(files)
	return n, nil
}

func (s *Service) attachThumbnails(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]int64, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	first, err := s.store.FirstMedia(ctx, ids, models.ImagesCollection)
	if err != nil {
		return err
	}
	for i := range products {
		if m, ok := first[products[i].ID]; ok {
			m = s.withURL(m)
			products[i].Thumbnail = &m
		}
	}
	return nil
}

// removeFiles deletes stored files after their rows are gone. Failures only leave orphans
// on disk, so they are logged.
func (s *Service) removeFiles(items []models.Media) {
	if s.files == nil {
		return
	}
	for _, m := range items {
		if err := s.files.Delete(m.UUID); err != nil {
			s.log.Warn("Failed to remove media file", zap.Int64("media_id", m.ID), zap.String("uuid", m.UUID), zap.Error(err))
		}
	}
}

// assignSlug sets p.Slug: generated from the title when explicit is empty, otherwise the
// explicit value if it is a valid slug no other live product uses.
func (s *Service) assignSlug(ctx context.Context, tx *store.Store, p *models.Product, explicit string, v *ValidationError) error {
	if explicit == "" {
		if p.Title == "" {
			return nil
		}
		slug, err := s.uniqueSlug(ctx, tx, p.Title, p.ID)
		if err != nil {
			return err
		}
		p.Slug = slug
		return nil
	}

	if !ValidSlug(explicit) {
		v.Add("slug", "slug may only contain lowercase letters, numbers and hyphens")
		return nil
	}
	if len(explicit) > maxSlugLen {
		v.Add("slug", "slug must be at most 255 characters")
		return nil
	}
	taken, err := tx.LiveSlugTaken(ctx, explicit, p.ID)
	if err != nil {
		return err
	}
	if taken {
		v.Add("slug", "slug is already taken")
		return nil
	}
	p.Slug = explicit
	return nil
}

// checkReferences validates the department and category pair. Missing rows are reported as
// field errors.
func checkReferences(ctx context.Context, tx *store.Store, departmentID, categoryID *int64, v *ValidationError) error {
	var department *models.Department
	if departmentID == nil {
		v.Add("departmentId", "department is required")
	} else {
		var err error
		if department, err = tx.GetDepartment(ctx, *departmentID); err != nil {
			return err
		}
		if department == nil {
			v.Add("departmentId", "department does not exist")
		}
	}

	if categoryID == nil {
		v.Add("categoryId", "category is required")
		return nil
	}
	category, err := tx.GetCategory(ctx, *categoryID)
	if err != nil {
		return err
	}
	switch {
	case category == nil:
		v.Add("categoryId", "category does not exist")
	case department != nil && category.DepartmentID != department.ID:
		v.Add("categoryId", "category does not belong to department")
	}
	return nil
}

func categoryInDepartment(ctx context.Context, tx *store.Store, categoryID, departmentID int64) (bool, error) {
	c, err := tx.GetCategory(ctx, categoryID)
	if err != nil {
		return false, err
	}
	return c != nil && c.DepartmentID == departmentID, nil
}

func validTitle(title string, v *ValidationError) string {
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		v.Add("title", "title is required")
	case len([]rune(title)) > maxTitleLen:
		v.Add("title", "title must be at most 255 characters")
	}
	return title
}

func validDescription(description string, v *ValidationError) string {
	if strings.TrimSpace(description) == "" {
		v.Add("description", "description is required")
	}
	return description
}

// parsePrice reads a non-negative amount with at most two decimal places.
func parsePrice(raw models.RawNumber, v *ValidationError) decimal.Decimal {
	if raw == "" {
		v.Add("price", "price is required")
		return decimal.Zero
	}
	price, err := decimal.NewFromString(string(raw))
	switch {
	case err != nil:
		v.Add("price", "price must be a number")
		return decimal.Zero
	case price.IsNegative():
		v.Add("price", "price must not be negative")
	case !price.Equal(price.Truncate(2)):
		v.Add("price", "price must have at most 2 decimal places")
	case price.GreaterThanOrEqual(maxPrice):
		v.Add("price", "price is too large")
	}
	return price
}

func validQuantity(q *int64, v *ValidationError) *int64 {
	if q != nil && *q < 0 {
		v.Add("quantity", "quantity must not be negative")
	}
	return q
}

func validStatus(status models.ProductStatus, v *ValidationError) models.ProductStatus {
	if status == "" {
		return models.ProductStatusDraft
	}
	if !status.Valid() {
		v.Add("status", "status must be draft or published")
	}
	return status
}
