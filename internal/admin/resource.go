// Package admin describes the admin screens for catalog resources as plain configuration.
// A front end renders forms and tables from it; nothing here touches storage.
package admin

import "github.com/01moynul/taptosell-catalog/internal/models"

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldSelect   FieldType = "select"
	FieldRichText FieldType = "rich_text"
	FieldNumber   FieldType = "number"
	FieldInteger  FieldType = "integer"
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
}

// Event is a server round trip the form performs when a field changes.
type Event struct {
	Endpoint string `json:"endpoint"`
	// Sets lists the fields the response may overwrite.
	Sets []string `json:"sets"`
	// OnBlur delays the event until the field loses focus.
	OnBlur bool `json:"onBlur,omitempty"`
}

type Field struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
	Default  string    `json:"default,omitempty"`
	Options  []Option  `json:"options,omitempty"`
	// OptionsURL is queried for select options; DependsOn fields are passed along and
	// the select stays disabled until they have a value.
	OptionsURL     string   `json:"optionsUrl,omitempty"`
	DependsOn      []string `json:"dependsOn,omitempty"`
	Searchable     bool     `json:"searchable,omitempty"`
	ToolbarButtons []string `json:"toolbarButtons,omitempty"`
	ColumnSpan     int      `json:"columnSpan,omitempty"`
	OnChange       *Event   `json:"onChange,omitempty"`
}

type Column struct {
	Name       string            `json:"name"`
	Label      string            `json:"label"`
	Sortable   bool              `json:"sortable,omitempty"`
	Searchable bool              `json:"searchable,omitempty"`
	Words      int               `json:"words,omitempty"`
	Badge      bool              `json:"badge,omitempty"`
	Colors     map[string]string `json:"colors,omitempty"`
	Format     string            `json:"format,omitempty"`
	Image      bool              `json:"image,omitempty"`
}

type Filter struct {
	Name       string   `json:"name"`
	Label      string   `json:"label"`
	Options    []Option `json:"options,omitempty"`
	OptionsURL string   `json:"optionsUrl,omitempty"`
}

type Action struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Method   string `json:"method"`
	Endpoint string `json:"endpoint"`
	Confirm  bool   `json:"confirm,omitempty"`
}

type Page struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Resource is everything needed to render one resource's admin screens.
type Resource struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Endpoint    string   `json:"endpoint"`
	Form        []Field  `json:"form"`
	Columns     []Column `json:"columns"`
	Filters     []Filter `json:"filters"`
	Actions     []Action `json:"actions"`
	BulkActions []Action `json:"bulkActions"`
	Pages       []Page   `json:"pages"`
	// Images configures the separate image page shown once a record exists.
	Images *ImagesPage `json:"images,omitempty"`
}

type ImagesPage struct {
	Collection        string   `json:"collection"`
	Endpoint          string   `json:"endpoint"`
	Multiple          bool     `json:"multiple"`
	Reorderable       bool     `json:"reorderable"`
	AppendFiles       bool     `json:"appendFiles"`
	PreserveFilenames bool     `json:"preserveFilenames"`
	Accept            []string `json:"accept"`
}

// DescriptionToolbar is the rich text toolbar of the product description.
var DescriptionToolbar = []string{
	"blockquote", "bold", "italic", "underline", "bulletList", "orderedList",
	"h2", "h3", "link", "undo", "redo", "strike", "table",
}

// StatusOptions lists the product statuses with their labels and badge colors.
func StatusOptions() []Option {
	statuses := models.ProductStatuses()
	opts := make([]Option, 0, len(statuses))
	for _, s := range statuses {
		opts = append(opts, Option{Value: string(s), Label: s.Label(), Color: s.Color()})
	}
	return opts
}

func statusColors() map[string]string {
	colors := map[string]string{}
	for _, s := range models.ProductStatuses() {
		colors[string(s)] = s.Color()
	}
	return colors
}

// ProductResource is the product screen configuration. prefix is the API base path,
// e.g. "/v1/admin".
func ProductResource(prefix string) Resource {
	products := prefix + "/products"

	return Resource{
		Name:     "products",
		Label:    "Products",
		Endpoint: products,
		Form: []Field{
			{
				Name: "title", Label: "Title", Type: FieldText, Required: true,
				OnChange: &Event{Endpoint: products + "/form/title-changed", Sets: []string{"slug"}, OnBlur: true},
			},
			{Name: "slug", Label: "Slug", Type: FieldText, Required: true},
			{
				Name: "departmentId", Label: "Department", Type: FieldSelect, Required: true,
				OptionsURL: prefix + "/departments", Searchable: true,
				OnChange: &Event{Endpoint: products + "/form/department-changed", Sets: []string{"categoryId"}},
			},
			{
				Name: "categoryId", Label: "Category", Type: FieldSelect, Required: true,
				OptionsURL: prefix + "/categories", DependsOn: []string{"departmentId"}, Searchable: true,
			},
			{
				Name: "description", Label: "Description", Type: FieldRichText,
				ToolbarButtons: DescriptionToolbar, ColumnSpan: 2,
			},
			{Name: "price", Label: "Price", Type: FieldNumber, Required: true},
			{Name: "quantity", Label: "Quantity", Type: FieldInteger},
			{
				Name: "status", Label: "Status", Type: FieldSelect,
				Options: StatusOptions(), Default: string(models.ProductStatusDraft),
			},
		},
		Columns: []Column{
			{Name: "thumbnail", Label: "Image", Image: true},
			{Name: "title", Label: "Title", Sortable: true, Searchable: true, Words: 10},
			{Name: "status", Label: "Status", Badge: true, Colors: statusColors()},
			{Name: "departmentName", Label: "Department"},
			{Name: "categoryName", Label: "Category"},
			{Name: "price", Label: "Price", Sortable: true},
			{Name: "createdAt", Label: "Created at", Sortable: true, Format: "datetime"},
		},
		Filters: []Filter{
			{Name: "status", Label: "Status", Options: StatusOptions()},
			{Name: "department_id", Label: "Department", OptionsURL: prefix + "/departments"},
			{Name: "trashed", Label: "Trashed", Options: []Option{
				{Value: string(models.TrashedWith), Label: "With trashed"},
				{Value: string(models.TrashedOnly), Label: "Only trashed"},
			}},
		},
		Actions: []Action{
			{Name: "edit", Label: "Edit", Method: "PUT", Endpoint: products + "/{id}"},
			{Name: "images", Label: "Images", Method: "GET", Endpoint: products + "/{id}/images"},
			{Name: "delete", Label: "Delete", Method: "DELETE", Endpoint: products + "/{id}", Confirm: true},
			{Name: "restore", Label: "Restore", Method: "POST", Endpoint: products + "/{id}/restore"},
		},
		BulkActions: []Action{
			{Name: "delete", Label: "Delete selected", Method: "POST", Endpoint: products + "/bulk-delete", Confirm: true},
			{Name: "forceDelete", Label: "Delete permanently", Method: "POST", Endpoint: products + "/force-delete", Confirm: true},
		},
		Pages: []Page{
			{Name: "index", Path: "/products"},
			{Name: "create", Path: "/products/create"},
			{Name: "edit", Path: "/products/{id}/edit"},
			{Name: "images", Path: "/products/{id}/images"},
		},
		Images: &ImagesPage{
			Collection:        models.ImagesCollection,
			Endpoint:          products + "/{id}/images",
			Multiple:          true,
			Reorderable:       true,
			AppendFiles:       true,
			PreserveFilenames: true,
			Accept:            []string{"image/*"},
		},
	}
}
