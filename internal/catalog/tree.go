package catalog

import (
	"iter"
	"slices"
	"strings"

	"github.com/01moynul/taptosell-catalog/internal/models"
)

// Tree is an immutable snapshot of the category forest. Categories are reference data,
// so sequences over a snapshot are finite and can be iterated any number of times.
type Tree struct {
	byID     map[int64]models.Category
	children map[int64][]int64
	roots    []int64
}

// NewTree indexes cats by id and by parent. Categories whose parent is missing are
// treated as roots.
func NewTree(cats []models.Category) *Tree {
	t := &Tree{
		byID:     make(map[int64]models.Category, len(cats)),
		children: make(map[int64][]int64),
	}
	for _, c := range cats {
		c.Children = nil
		t.byID[c.ID] = c
	}

	ordered := slices.Clone(cats)
	slices.SortFunc(ordered, func(a, b models.Category) int {
		if n := strings.Compare(a.Name, b.Name); n != 0 {
			return n
		}
		return int(a.ID - b.ID)
	})
	for _, c := range ordered {
		if c.ParentID != nil {
			if _, ok := t.byID[*c.ParentID]; ok {
				t.children[*c.ParentID] = append(t.children[*c.ParentID], c.ID)
				continue
			}
		}
		t.roots = append(t.roots, c.ID)
	}
	return t
}

// Get returns the category with the given id.
func (t *Tree) Get(id int64) (models.Category, bool) {
	c, ok := t.byID[id]
	return c, ok
}

// Len is the number of categories in the snapshot.
func (t *Tree) Len() int {
	return len(t.byID)
}

// Ancestors yields the parent of id, then its parent, up to the root.
func (t *Tree) Ancestors(id int64) iter.Seq[models.Category] {
	return func(yield func(models.Category) bool) {
		seen := map[int64]bool{id: true}
		cur, ok := t.byID[id]
		for ok && cur.ParentID != nil {
			parentID := *cur.ParentID
			if seen[parentID] {
				return
			}
			seen[parentID] = true
			cur, ok = t.byID[parentID]
			if !ok || !yield(cur) {
				return
			}
		}
	}
}

// Descendants yields every category below id, depth first, children in name order.
func (t *Tree) Descendants(id int64) iter.Seq[models.Category] {
	return func(yield func(models.Category) bool) {
		seen := map[int64]bool{id: true}
		var walk func(parent int64) bool
		walk = func(parent int64) bool {
			for _, childID := range t.children[parent] {
				if seen[childID] {
					continue
				}
				seen[childID] = true
				if !yield(t.byID[childID]) || !walk(childID) {
					return false
				}
			}
			return true
		}
		walk(id)
	}
}

// Depth is the number of ancestors of id; roots have depth 0.
func (t *Tree) Depth(id int64) int {
	n := 0
	for range t.Ancestors(id) {
		n++
	}
	return n
}

// WouldCycle reports whether making parentID the parent of id would create a cycle.
func (t *Tree) WouldCycle(id, parentID int64) bool {
	if id == parentID {
		return true
	}
	for a := range t.Ancestors(parentID) {
		if a.ID == id {
			return true
		}
	}
	return false
}

// Nested returns the roots of one department with their children filled in recursively.
func (t *Tree) Nested(departmentID int64) []models.Category {
	out := []models.Category{}
	for _, id := range t.roots {
		if t.byID[id].DepartmentID == departmentID {
			out = append(out, t.nest(id, map[int64]bool{}))
		}
	}
	return out
}

func (t *Tree) nest(id int64, seen map[int64]bool) models.Category {
	seen[id] = true
	c := t.byID[id]
	c.Children = []models.Category{}
	for _, childID := range t.children[id] {
		if !seen[childID] {
			c.Children = append(c.Children, t.nest(childID, seen))
		}
	}
	return c
}

// collect drains seq into a non-nil slice.
func collect(seq iter.Seq[models.Category]) []models.Category {
	out := []models.Category{}
	for c := range seq {
		out = append(out, c)
	}
	return out
}
