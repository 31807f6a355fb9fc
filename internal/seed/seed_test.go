package seed

import (
	"context"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/01moynul/taptosell-catalog/internal/database/dbtest"
	"github.com/01moynul/taptosell-catalog/internal/store"
)

func TestRunIsIdempotent(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	st := store.New(dbtest.New(t))

	res, err := Run(ctx, st, time.Now())
	c.Assert(err, qt.IsNil)
	c.Assert(res, qt.Equals, Result{Departments: 2, Categories: 8})

	res, err = Run(ctx, st, time.Now())
	c.Assert(err, qt.IsNil)
	c.Assert(res, qt.Equals, Result{})

	deps, err := st.ListDepartments(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(deps, qt.HasLen, 2)

	cats, err := st.ListCategories(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(cats, qt.HasLen, 8)
}

func TestSeedForestShape(t *testing.T) {
	c := qt.New(t)
	byID := map[int64]int64{}
	for _, cat := range Categories {
		byID[cat.ID] = cat.DepartmentID
	}
	for _, cat := range Categories {
		if cat.ParentID == nil {
			continue
		}
		parentDept, ok := byID[*cat.ParentID]
		c.Assert(ok, qt.IsTrue, qt.Commentf("parent of %s", cat.Name))
		c.Assert(parentDept, qt.Equals, cat.DepartmentID, qt.Commentf("department of %s", cat.Name))
		c.Assert(*cat.ParentID < cat.ID, qt.IsTrue, qt.Commentf("%s listed before its parent", cat.Name))
	}
}
