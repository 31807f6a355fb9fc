package admin

import (
	"encoding/json"
	"testing"

	qt "github.com/frankban/quicktest"
)

func field(r Resource, name string) *Field {
	for i := range r.Form {
		if r.Form[i].Name == name {
			return &r.Form[i]
		}
	}
	return nil
}

func TestProductResourceForm(t *testing.T) {
	c := qt.New(t)
	r := ProductResource("/v1/admin")

	title := field(r, "title")
	c.Assert(title, qt.Not(qt.IsNil))
	c.Assert(title.Required, qt.IsTrue)
	c.Assert(title.OnChange.Endpoint, qt.Equals, "/v1/admin/products/form/title-changed")
	c.Assert(title.OnChange.Sets, qt.DeepEquals, []string{"slug"})

	department := field(r, "departmentId")
	c.Assert(department.OnChange.Sets, qt.DeepEquals, []string{"categoryId"})

	category := field(r, "categoryId")
	c.Assert(category.DependsOn, qt.DeepEquals, []string{"departmentId"})
	c.Assert(category.OptionsURL, qt.Equals, "/v1/admin/categories")

	status := field(r, "status")
	c.Assert(status.Default, qt.Equals, "draft")
	c.Assert(status.Options, qt.DeepEquals, []Option{
		{Value: "draft", Label: "Draft", Color: "gray"},
		{Value: "published", Label: "Published", Color: "success"},
	})

	c.Assert(field(r, "quantity").Required, qt.IsFalse)
	c.Assert(field(r, "description").ToolbarButtons, qt.HasLen, 13)
}

func TestProductResourceTable(t *testing.T) {
	c := qt.New(t)
	r := ProductResource("/v1/admin")

	sortable := map[string]bool{}
	for _, col := range r.Columns {
		if col.Sortable {
			sortable[col.Name] = true
		}
	}
	c.Assert(sortable, qt.DeepEquals, map[string]bool{"title": true, "price": true, "createdAt": true})
	c.Assert(r.Columns[0].Image, qt.IsTrue)

	var filters []string
	for _, f := range r.Filters {
		filters = append(filters, f.Name)
	}
	c.Assert(filters, qt.DeepEquals, []string{"status", "department_id", "trashed"})

	c.Assert(r.Images.Collection, qt.Equals, "images")
	c.Assert(r.Images.AppendFiles && r.Images.PreserveFilenames && r.Images.Reorderable, qt.IsTrue)

	_, err := json.Marshal(r)
	c.Assert(err, qt.IsNil)
}
