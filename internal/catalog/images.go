package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/01moynul/taptosell-catalog/internal/media"
	"github.com/01moynul/taptosell-catalog/internal/models"
	"github.com/01moynul/taptosell-catalog/internal/store"
)

// Upload is one file of a multi-file upload.
type Upload struct {
	FileName string
	Open     func() (io.ReadCloser, error)
}

// ListImages returns the product's images in sequence order. The first one is the thumbnail.
func (s *Service) ListImages(ctx context.Context, productID int64) ([]models.Media, error) {
	if err := s.requireProduct(ctx, s.store, productID); err != nil {
		return nil, err
	}
	return s.listImages(ctx, s.store, productID)
}

// UploadImages appends the files to the end of the product's sequence, keeping their
// original names. Each file gets its own outcome: a rejected file does not stop the others.
// The whole call fails only when the product does not exist.
func (s *Service) UploadImages(ctx context.Context, productID int64, uploads []Upload) ([]models.UploadResult, error) {
	if s.files == nil {
		return nil, errors.New("no file store configured")
	}
	if err := s.requireProduct(ctx, s.store, productID); err != nil {
		return nil, err
	}
	if len(uploads) == 0 {
		return nil, Invalid("images", "at least one file is required")
	}

	results := make([]models.UploadResult, 0, len(uploads))
	for _, u := range uploads {
		m, err := s.uploadOne(ctx, productID, u)
		s.metrics.RecordUpload(err == nil)
		res := models.UploadResult{FileName: u.FileName}
		if err != nil {
			res.Error = uploadMessage(err)
			s.log.Info("Image rejected", zap.Int64("product_id", productID), zap.String("file", u.FileName), zap.Error(err))
		} else {
			withURL := s.withURL(*m)
			res.Media = &withURL
		}
		results = append(results, res)
	}
	return results, nil
}

// rejectedFile marks an upload failure caused by the file itself.
type rejectedFile struct{ msg string }

func (e *rejectedFile) Error() string { return e.msg }

func uploadMessage(err error) string {
	var r *rejectedFile
	switch {
	case errors.As(err, &r):
		return r.msg
	case errors.Is(err, media.ErrTooLarge), errors.Is(err, media.ErrBadFileName):
		return err.Error()
	case errors.Is(err, ErrNotFound):
		return "product not found"
	}
	return "file could not be stored"
}

func (s *Service) uploadOne(ctx context.Context, productID int64, u Upload) (*models.Media, error) {
	name, err := media.CleanFileName(u.FileName)
	if err != nil {
		return nil, err
	}
	f, err := u.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	mimeType, r, err := media.Sniff(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if !media.IsImage(mimeType) {
		return nil, &rejectedFile{msg: "unsupported file type " + mimeType}
	}

	id := uuid.NewString()
	size, err := s.files.Save(id, name, r)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	m := &models.Media{
		UUID:           id,
		ProductID:      productID,
		CollectionName: models.ImagesCollection,
		Name:           strings.TrimSuffix(name, filepath.Ext(name)),
		FileName:       name,
		MimeType:       mimeType,
		Size:           size,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err = s.store.WithTx(ctx, func(tx *store.Store) error {
		if err := s.requireProduct(ctx, tx, productID); err != nil {
			return err
		}
		last, err := tx.MaxMediaOrder(ctx, productID, models.ImagesCollection)
		if err != nil {
			return err
		}
		m.OrderColumn = last + 1
		return tx.CreateMedia(ctx, m)
	})
	if err != nil {
		if delErr := s.files.Delete(id); delErr != nil {
			s.log.Warn("Failed to remove orphaned upload", zap.String("uuid", id), zap.Error(delErr))
		}
		return nil, err
	}
	return m, nil
}

// ReorderImages makes ids the new sequence. ids must list every image of the product exactly
// once; otherwise nothing changes. The new order is written in one transaction.
func (s *Service) ReorderImages(ctx context.Context, productID int64, ids []int64) ([]models.Media, error) {
	var out []models.Media
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		if err := s.requireProduct(ctx, tx, productID); err != nil {
			return err
		}
		current, err := tx.ListMedia(ctx, productID, models.ImagesCollection)
		if err != nil {
			return err
		}
		if err := checkPermutation(current, ids); err != nil {
			return err
		}

		now := s.timestamp()
		for i, id := range ids {
			if err := tx.SetMediaOrder(ctx, id, i+1, now); err != nil {
				return err
			}
		}
		out, err = s.listImages(ctx, tx, productID)
		return err
	})
	s.metrics.RecordOperation("image", "reorder", err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveImage deletes one image and closes the gap in the sequence.
func (s *Service) RemoveImage(ctx context.Context, productID, mediaID int64) error {
	var removed *models.Media
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		if err := s.requireProduct(ctx, tx, productID); err != nil {
			return err
		}
		m, err := tx.GetMedia(ctx, mediaID)
		if err != nil {
			return err
		}
		if m == nil || m.ProductID != productID || m.CollectionName != models.ImagesCollection {
			return notFound("image", mediaID)
		}
		if err := tx.DeleteMedia(ctx, mediaID); err != nil {
			return err
		}

		rest, err := tx.ListMedia(ctx, productID, models.ImagesCollection)
		if err != nil {
			return err
		}
		now := s.timestamp()
		for i, item := range rest {
			if item.OrderColumn == i+1 {
				continue
			}
			if err := tx.SetMediaOrder(ctx, item.ID, i+1, now); err != nil {
				return err
			}
		}
		removed = m
		return nil
	})
	s.metrics.RecordOperation("image", "remove", err)
	if err != nil {
		return err
	}
	s.removeFiles([]models.Media{*removed})
	return nil
}

func (s *Service) requireProduct(ctx context.Context, st *store.Store, productID int64) error {
	p, err := st.GetProduct(ctx, productID, false)
	if err != nil {
		return err
	}
	if p == nil {
		return notFound("product", productID)
	}
	return nil
}

func (s *Service) listImages(ctx context.Context, st *store.Store, productID int64) ([]models.Media, error) {
	items, err := st.ListMedia(ctx, productID, models.ImagesCollection)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i] = s.withURL(items[i])
	}
	return items, nil
}

func checkPermutation(current []models.Media, ids []int64) error {
	if len(ids) != len(current) {
		return Invalid("ids", fmt.Sprintf("expected %d image ids, got %d", len(current), len(ids)))
	}
	pending := make(map[int64]bool, len(current))
	for _, m := range current {
		pending[m.ID] = true
	}
	for _, id := range ids {
		if !pending[id] {
			return Invalid("ids", fmt.Sprintf("image %d is unknown or listed twice", id))
		}
		delete(pending, id)
	}
	return nil
}
