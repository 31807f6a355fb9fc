package catalog

import (
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/01moynul/taptosell-catalog/internal/store"
)

// lostRace fails the first n writes the way a unique index does when a concurrent
// transaction committed the same slug first.
func lostRace(n int) (func() error, *int) {
	calls := 0
	return func() error {
		calls++
		if calls <= n {
			return fmt.Errorf("insert product: %w", store.ErrSlugTaken)
		}
		return nil
	}, &calls
}

func TestRetrySlug(t *testing.T) {
	s := New(nil)

	t.Run("generated slug is recomputed", func(t *testing.T) {
		c := qt.New(t)
		write, calls := lostRace(1)
		c.Assert(s.retrySlug("", write), qt.IsNil)
		c.Assert(*calls, qt.Equals, 2)
	})

	t.Run("explicit slug is reported", func(t *testing.T) {
		c := qt.New(t)
		write, calls := lostRace(1)
		err := s.retrySlug("thinkpad-x1", write)
		v, ok := IsValidation(err)
		c.Assert(ok, qt.IsTrue)
		c.Assert(v.Fields["slug"], qt.Equals, "slug is already taken")
		c.Assert(*calls, qt.Equals, 1)
	})

	t.Run("gives up after a few attempts", func(t *testing.T) {
		c := qt.New(t)
		write, calls := lostRace(10)
		_, ok := IsValidation(s.retrySlug("", write))
		c.Assert(ok, qt.IsTrue)
		c.Assert(*calls, qt.Equals, slugAttempts)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		c := qt.New(t)
		boom := fmt.Errorf("connection reset")
		c.Assert(s.retrySlug("", func() error { return boom }), qt.Equals, boom)
	})
}
