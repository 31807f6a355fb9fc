package catalog

import (
	"context"
	"slices"
	"strings"

	"github.com/01moynul/taptosell-catalog/internal/models"
	"github.com/01moynul/taptosell-catalog/internal/store"
)

const maxNameLen = 255

func (s *Service) ListDepartments(ctx context.Context) ([]models.Department, error) {
	return s.store.ListDepartments(ctx)
}

func (s *Service) CreateDepartment(ctx context.Context, in models.DepartmentInput) (*models.Department, error) {
	name, err := requiredName(in.Name)
	if err != nil {
		return nil, err
	}
	now := s.timestamp()
	d := &models.Department{Name: name, CreatedAt: now, UpdatedAt: now}
	err = s.store.CreateDepartment(ctx, d)
	s.metrics.RecordOperation("department", "create", err)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) UpdateDepartment(ctx context.Context, id int64, in models.DepartmentInput) (*models.Department, error) {
	name, err := requiredName(in.Name)
	if err != nil {
		return nil, err
	}

	var d *models.Department
	err = s.store.WithTx(ctx, func(tx *store.Store) error {
		var err error
		if d, err = tx.GetDepartment(ctx, id); err != nil {
			return err
		}
		if d == nil {
			return notFound("department", id)
		}
		d.Name = name
		d.UpdatedAt = s.timestamp()
		return tx.UpdateDepartment(ctx, d)
	})
	s.metrics.RecordOperation("department", "update", err)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// DeleteDepartment refuses to remove a department still referenced by categories or products.
func (s *Service) DeleteDepartment(ctx context.Context, id int64) error {
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		d, err := tx.GetDepartment(ctx, id)
		if err != nil {
			return err
		}
		if d == nil {
			return notFound("department", id)
		}
		cats, products, err := tx.DepartmentUsage(ctx, id)
		if err != nil {
			return err
		}
		if cats > 0 || products > 0 {
			return conflict("department is still used by categories or products")
		}
		return tx.DeleteDepartment(ctx, id)
	})
	s.metrics.RecordOperation("department", "delete", err)
	return err
}

// EligibleCategories returns the categories a product of the department may use: every
// category of that department at any depth, active or not. Without a department there
// is nothing to choose from.
func (s *Service) EligibleCategories(ctx context.Context, departmentID *int64) ([]models.Category, error) {
	if departmentID == nil {
		return []models.Category{}, nil
	}
	return s.store.CategoriesByDepartment(ctx, *departmentID)
}

// ResolveDepartmentChange is the form reaction to a new department selection: the chosen
// category is kept only if it belongs to the new department.
func (s *Service) ResolveDepartmentChange(ctx context.Context, in models.DepartmentChange) (*models.DepartmentChangeResult, error) {
	cats, err := s.EligibleCategories(ctx, in.DepartmentID)
	if err != nil {
		return nil, err
	}
	res := &models.DepartmentChangeResult{Categories: cats}
	if in.CategoryID != nil && slices.ContainsFunc(cats, func(c models.Category) bool { return c.ID == *in.CategoryID }) {
		res.CategoryID = in.CategoryID
	}
	return res, nil
}

// Tree loads a snapshot of the whole category forest.
func (s *Service) Tree(ctx context.Context) (*Tree, error) {
	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return NewTree(cats), nil
}

// CategoryTree returns, per department, its root categories with nested children.
func (s *Service) CategoryTree(ctx context.Context) ([]models.DepartmentTree, error) {
	deps, err := s.store.ListDepartments(ctx)
	if err != nil {
		return nil, err
	}
	tree, err := s.Tree(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.DepartmentTree, 0, len(deps))
	for _, d := range deps {
		out = append(out, models.DepartmentTree{Department: d, Categories: tree.Nested(d.ID)})
	}
	return out, nil
}

// Ancestors lists the chain from the category's parent up to its root.
func (s *Service) Ancestors(ctx context.Context, id int64) ([]models.Category, error) {
	tree, err := s.Tree(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := tree.Get(id); !ok {
		return nil, notFound("category", id)
	}
	return collect(tree.Ancestors(id)), nil
}

// Descendants lists every category below id, depth first.
func (s *Service) Descendants(ctx context.Context, id int64) ([]models.Category, error) {
	tree, err := s.Tree(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := tree.Get(id); !ok {
		return nil, notFound("category", id)
	}
	return collect(tree.Descendants(id)), nil
}

func (s *Service) CreateCategory(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	name, err := requiredName(in.Name)
	if err != nil {
		return nil, err
	}
	now := s.timestamp()
	c := &models.Category{
		Name:         name,
		DepartmentID: in.DepartmentID,
		ParentID:     in.ParentID,
		Active:       in.Active == nil || *in.Active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.store.WithTx(ctx, func(tx *store.Store) error {
		if err := s.checkCategory(ctx, tx, c); err != nil {
			return err
		}
		return tx.CreateCategory(ctx, c)
	})
	s.metrics.RecordOperation("category", "create", err)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCategory rewrites a category. Moving it to another department is only allowed
// while nothing hangs off it.
func (s *Service) UpdateCategory(ctx context.Context, id int64, in models.CategoryInput) (*models.Category, error) {
	name, err := requiredName(in.Name)
	if err != nil {
		return nil, err
	}

	var c *models.Category
	err = s.store.WithTx(ctx, func(tx *store.Store) error {
		var err error
		if c, err = tx.GetCategory(ctx, id); err != nil {
			return err
		}
		if c == nil {
			return notFound("category", id)
		}

		if in.DepartmentID != c.DepartmentID {
			children, products, err := tx.CategoryUsage(ctx, id)
			if err != nil {
				return err
			}
			if children > 0 || products > 0 {
				return Invalid("departmentId", "category with subcategories or products cannot change department")
			}
		}

		c.Name = name
		c.DepartmentID = in.DepartmentID
		c.ParentID = in.ParentID
		if in.Active != nil {
			c.Active = *in.Active
		}
		c.UpdatedAt = s.timestamp()

		if err := s.checkCategory(ctx, tx, c); err != nil {
			return err
		}
		return tx.UpdateCategory(ctx, c)
	})
	s.metrics.RecordOperation("category", "update", err)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCategory refuses to remove a category with subcategories or products.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		c, err := tx.GetCategory(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return notFound("category", id)
		}
		children, products, err := tx.CategoryUsage(ctx, id)
		if err != nil {
			return err
		}
		if children > 0 || products > 0 {
			return conflict("category still has subcategories or products")
		}
		return tx.DeleteCategory(ctx, id)
	})
	s.metrics.RecordOperation("category", "delete", err)
	return err
}

// checkCategory enforces that the department exists and that the parent, when set, exists,
// shares the department and does not close a cycle.
func (s *Service) checkCategory(ctx context.Context, tx *store.Store, c *models.Category) error {
	v := &ValidationError{}

	d, err := tx.GetDepartment(ctx, c.DepartmentID)
	if err != nil {
		return err
	}
	if d == nil {
		v.Add("departmentId", "department does not exist")
	}

	if c.ParentID != nil {
		parent, err := tx.GetCategory(ctx, *c.ParentID)
		if err != nil {
			return err
		}
		switch {
		case parent == nil:
			v.Add("parentId", "parent category does not exist")
		case parent.DepartmentID != c.DepartmentID:
			v.Add("parentId", "parent category belongs to another department")
		case c.ID != 0:
			cats, err := tx.ListCategories(ctx)
			if err != nil {
				return err
			}
			if NewTree(cats).WouldCycle(c.ID, parent.ID) {
				v.Add("parentId", "parent category would create a cycle")
			}
		}
	}
	return v.OrNil()
}

func requiredName(name string) (string, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return "", Invalid("name", "name is required")
	case len([]rune(name)) > maxNameLen:
		return "", Invalid("name", "name must be at most 255 characters")
	}
	return name, nil
}
