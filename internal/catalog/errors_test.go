package catalog

import (
	"errors"
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestValidationError(t *testing.T) {
	c := qt.New(t)

	v := &ValidationError{}
	c.Assert(v.OrNil(), qt.IsNil)

	v.Add("title", "title is required")
	v.Add("price", "price must be a number")
	v.Add("title", "ignored")
	c.Assert(v.Fields, qt.DeepEquals, map[string]string{
		"title": "title is required",
		"price": "price must be a number",
	})
	c.Assert(v.Error(), qt.Equals, "validation failed: price: price must be a number; title: title is required")

	wrapped := fmt.Errorf("create product: %w", v.OrNil())
	got, ok := IsValidation(wrapped)
	c.Assert(ok, qt.IsTrue)
	c.Assert(got.Fields["price"], qt.Equals, "price must be a number")

	_, ok = IsValidation(errors.New("boom"))
	c.Assert(ok, qt.IsFalse)
}

func TestSentinelWrapping(t *testing.T) {
	c := qt.New(t)
	c.Assert(notFound("product", 7), qt.ErrorIs, ErrNotFound)
	c.Assert(notFound("product", 7), qt.ErrorMatches, "product 7: not found")
	c.Assert(conflict("slug taken"), qt.ErrorIs, ErrConflict)
}
