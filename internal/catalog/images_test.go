package catalog_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/01moynul/taptosell-catalog/internal/catalog"
	"github.com/01moynul/taptosell-catalog/internal/models"
)

func pngUpload(c *qt.C, name string) catalog.Upload {
	var buf bytes.Buffer
	c.Assert(png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))), qt.IsNil)
	data := buf.Bytes()
	return catalog.Upload{
		FileName: name,
		Open:     func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

func textUpload(name string) catalog.Upload {
	return catalog.Upload{
		FileName: name,
		Open:     func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader("not an image")), nil },
	}
}

func imageIDs(items []models.Media) []int64 {
	ids := make([]int64, len(items))
	for i, m := range items {
		ids[i] = m.ID
	}
	return ids
}

func imageOrders(items []models.Media) []int {
	orders := make([]int, len(items))
	for i, m := range items {
		orders[i] = m.OrderColumn
	}
	return orders
}

func TestUploadImages(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c, true)

	p, err := f.svc.CreateProduct(ctx, productInput("Camera", 1, 3, "450"))
	c.Assert(err, qt.IsNil)

	results, err := f.svc.UploadImages(ctx, p.ID, []catalog.Upload{
		pngUpload(c, "Front View.png"),
		textUpload("notes.txt"),
		{FileName: "broken.png", Open: func() (io.ReadCloser, error) { return nil, errors.New("disk gone") }},
		pngUpload(c, "back.png"),
	})
	c.Assert(err, qt.IsNil)
	c.Assert(results, qt.HasLen, 4)

	c.Assert(results[0].Error, qt.Equals, "")
	c.Assert(results[0].Media.FileName, qt.Equals, "Front View.png")
	c.Assert(results[0].Media.Name, qt.Equals, "Front View")
	c.Assert(results[0].Media.MimeType, qt.Equals, "image/png")
	c.Assert(results[0].Media.OrderColumn, qt.Equals, 1)
	c.Assert(results[0].Media.URL, qt.Equals, "/uploads/"+results[0].Media.UUID+"/Front View.png")

	c.Assert(results[1].Media, qt.IsNil)
	c.Assert(results[1].Error, qt.Equals, "unsupported file type text/plain")
	c.Assert(results[2].Error, qt.Equals, "file could not be stored")
	c.Assert(results[3].Media.OrderColumn, qt.Equals, 2)
	c.Assert(f.files.count(), qt.Equals, 2)

	// Later uploads append.
	more, err := f.svc.UploadImages(ctx, p.ID, []catalog.Upload{pngUpload(c, "side.png")})
	c.Assert(err, qt.IsNil)
	c.Assert(more[0].Media.OrderColumn, qt.Equals, 3)

	images, err := f.svc.ListImages(ctx, p.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(imageIDs(images), qt.DeepEquals, []int64{results[0].Media.ID, results[3].Media.ID, more[0].Media.ID})

	got, err := f.svc.GetProduct(ctx, p.ID, false)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Thumbnail, qt.Not(qt.IsNil))
	c.Assert(got.Thumbnail.ID, qt.Equals, results[0].Media.ID)
}

func TestUploadImagesRejectsSVG(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c, true)

	p, err := f.svc.CreateProduct(ctx, productInput("Poster", 1, 3, "12"))
	c.Assert(err, qt.IsNil)

	svg := `<svg xmlns="http://www.w3.org/2000/svg" onload="alert(document.cookie)"/>`
	results, err := f.svc.UploadImages(ctx, p.ID, []catalog.Upload{{
		FileName: "logo.svg",
		Open:     func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader(svg)), nil },
	}})
	c.Assert(err, qt.IsNil)
	c.Assert(results[0].Media, qt.IsNil)
	c.Assert(results[0].Error, qt.Equals, "unsupported file type image/svg+xml")
	c.Assert(f.files.count(), qt.Equals, 0)
}

func TestUploadImagesNeedsProduct(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c, true)

	_, err := f.svc.UploadImages(ctx, 404, []catalog.Upload{pngUpload(c, "a.png")})
	c.Assert(err, qt.ErrorIs, catalog.ErrNotFound)

	p, err := f.svc.CreateProduct(ctx, productInput("Tripod", 1, 3, "30"))
	c.Assert(err, qt.IsNil)
	c.Assert(f.svc.DeleteProduct(ctx, p.ID), qt.IsNil)

	_, err = f.svc.UploadImages(ctx, p.ID, []catalog.Upload{pngUpload(c, "a.png")})
	c.Assert(err, qt.ErrorIs, catalog.ErrNotFound)
	_, err = f.svc.ListImages(ctx, p.ID)
	c.Assert(err, qt.ErrorIs, catalog.ErrNotFound)
	c.Assert(f.files.count(), qt.Equals, 0)
}

func TestReorderImages(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c, true)

	p, err := f.svc.CreateProduct(ctx, productInput("Lens", 1, 3, "300"))
	c.Assert(err, qt.IsNil)
	results, err := f.svc.UploadImages(ctx, p.ID, []catalog.Upload{
		pngUpload(c, "a.png"), pngUpload(c, "b.png"), pngUpload(c, "c.png"),
	})
	c.Assert(err, qt.IsNil)
	a, b, cc := results[0].Media.ID, results[1].Media.ID, results[2].Media.ID

	target := []int64{cc, a, b}
	first, err := f.svc.ReorderImages(ctx, p.ID, target)
	c.Assert(err, qt.IsNil)
	c.Assert(imageIDs(first), qt.DeepEquals, target)
	c.Assert(imageOrders(first), qt.DeepEquals, []int{1, 2, 3})

	second, err := f.svc.ReorderImages(ctx, p.ID, target)
	c.Assert(err, qt.IsNil)
	c.Assert(imageIDs(second), qt.DeepEquals, imageIDs(first))
	c.Assert(imageOrders(second), qt.DeepEquals, imageOrders(first))

	got, err := f.svc.GetProduct(ctx, p.ID, false)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Thumbnail.ID, qt.Equals, cc)

	for _, bad := range [][]int64{
		{a, b},
		{a, a, b},
		{a, b, 999},
		nil,
	} {
		_, err := f.svc.ReorderImages(ctx, p.ID, bad)
		c.Assert(fields(c, err)["ids"], qt.Not(qt.Equals), "")

		images, err := f.svc.ListImages(ctx, p.ID)
		c.Assert(err, qt.IsNil)
		c.Assert(imageIDs(images), qt.DeepEquals, target)
	}

	_, err = f.svc.ReorderImages(ctx, 404, target)
	c.Assert(err, qt.ErrorIs, catalog.ErrNotFound)
}

func TestReorderImagesRejectsForeignImage(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c, true)

	p1, err := f.svc.CreateProduct(ctx, productInput("Lens", 1, 3, "300"))
	c.Assert(err, qt.IsNil)
	p2, err := f.svc.CreateProduct(ctx, productInput("Flash", 1, 3, "90"))
	c.Assert(err, qt.IsNil)

	r1, err := f.svc.UploadImages(ctx, p1.ID, []catalog.Upload{pngUpload(c, "a.png")})
	c.Assert(err, qt.IsNil)
	r2, err := f.svc.UploadImages(ctx, p2.ID, []catalog.Upload{pngUpload(c, "b.png")})
	c.Assert(err, qt.IsNil)

	_, err = f.svc.ReorderImages(ctx, p1.ID, []int64{r2[0].Media.ID})
	c.Assert(fields(c, err)["ids"], qt.Matches, "image .* is unknown or listed twice")

	c.Assert(f.svc.RemoveImage(ctx, p1.ID, r2[0].Media.ID), qt.ErrorIs, catalog.ErrNotFound)
	images, err := f.svc.ListImages(ctx, p1.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(imageIDs(images), qt.DeepEquals, []int64{r1[0].Media.ID})
}

func TestRemoveImageRenumbers(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c, true)

	p, err := f.svc.CreateProduct(ctx, productInput("Drone", 1, 3, "700"))
	c.Assert(err, qt.IsNil)
	results, err := f.svc.UploadImages(ctx, p.ID, []catalog.Upload{
		pngUpload(c, "a.png"), pngUpload(c, "b.png"), pngUpload(c, "c.png"),
	})
	c.Assert(err, qt.IsNil)

	c.Assert(f.svc.RemoveImage(ctx, p.ID, results[0].Media.ID), qt.IsNil)
	c.Assert(f.files.count(), qt.Equals, 2)

	images, err := f.svc.ListImages(ctx, p.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(imageIDs(images), qt.DeepEquals, []int64{results[1].Media.ID, results[2].Media.ID})
	c.Assert(imageOrders(images), qt.DeepEquals, []int{1, 2})

	c.Assert(f.svc.RemoveImage(ctx, p.ID, results[0].Media.ID), qt.ErrorIs, catalog.ErrNotFound)

	more, err := f.svc.UploadImages(ctx, p.ID, []catalog.Upload{pngUpload(c, "d.png")})
	c.Assert(err, qt.IsNil)
	c.Assert(more[0].Media.OrderColumn, qt.Equals, 3)
}
