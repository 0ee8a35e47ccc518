// Package admin implements the back-office pages. Catalog entities share one
// generic list/create/update/delete cycle driven by a Resource schema.
package admin

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wanderly-dev/storefront/internal/backend"
)

// FieldKind controls how a form value is rendered and converted
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextarea FieldKind = "textarea"
	KindURL      FieldKind = "url"
	KindNumber   FieldKind = "number"
	KindInteger  FieldKind = "integer"
	KindList     FieldKind = "list" // comma or newline separated
)

// Field is one editable attribute of a resource
type Field struct {
	Name     string // backend JSON key
	Label    string
	Kind     FieldKind
	Required bool
}

// Multiline reports whether the field renders as a textarea
func (f Field) Multiline() bool {
	return f.Kind == KindTextarea || f.Kind == KindList
}

// Resource describes one catalog entity managed through the admin pages
type Resource struct {
	Name       string // URL segment under /admin
	Title      string
	ListPath   string
	CreatePath string
	UpdatePath func(id string) string
	DeletePath func(id string) string
	Fields     []Field
	Summary    []string // field names shown in the list
}

// FieldError reports a form value that could not be converted
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Payload converts submitted form values into the backend JSON payload
func (r Resource) Payload(form url.Values, validate *validator.Validate) (map[string]any, error) {
	payload := make(map[string]any, len(r.Fields))

	for _, field := range r.Fields {
		raw := strings.TrimSpace(form.Get(field.Name))

		if raw == "" {
			if field.Required {
				return nil, &FieldError{Field: field.Label, Message: "is required"}
			}
			continue
		}

		switch field.Kind {
		case KindNumber:
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, &FieldError{Field: field.Label, Message: "must be a number"}
			}
			payload[field.Name] = n
		case KindInteger:
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, &FieldError{Field: field.Label, Message: "must be a whole number"}
			}
			payload[field.Name] = n
		case KindList:
			items := splitList(raw)
			if field.Required && len(items) == 0 {
				return nil, &FieldError{Field: field.Label, Message: "is required"}
			}
			payload[field.Name] = items
		case KindURL:
			if err := validate.Var(raw, "url"); err != nil {
				return nil, &FieldError{Field: field.Label, Message: "must be a valid URL"}
			}
			payload[field.Name] = raw
		default:
			payload[field.Name] = raw
		}
	}

	return payload, nil
}

// FormValues renders a backend item back into form values, the inverse of Payload
func (r Resource) FormValues(item map[string]any) map[string]string {
	values := make(map[string]string, len(r.Fields))
	for _, field := range r.Fields {
		values[field.Name] = formatValue(item[field.Name])
	}
	return values
}

// Item is one row of a resource list
type Item struct {
	ID     string
	Values map[string]string
	Raw    map[string]any
}

// Items decodes raw list entries, skipping entries that are not objects
func (r Resource) Items(raw []json.RawMessage) []Item {
	items := make([]Item, 0, len(raw))
	for _, entry := range raw {
		var fields map[string]any
		if err := json.Unmarshal(entry, &fields); err != nil {
			continue
		}
		items = append(items, Item{
			ID:     formatValue(fields["id"]),
			Values: r.FormValues(fields),
			Raw:    fields,
		})
	}
	return items
}

func splitList(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, formatValue(item))
		}
		return strings.Join(parts, ",")
	default:
		data, _ := json.Marshal(v)
		return string(data)
	}
}

// Resources returns the catalog resources in display order
func Resources() []Resource {
	return []Resource{
		{
			Name:       "banners",
			Title:      "Banners",
			ListPath:   backend.PathBanners,
			CreatePath: backend.PathCreateBanner,
			UpdatePath: backend.PathUpdateBanner,
			DeletePath: backend.PathDeleteBanner,
			Fields: []Field{
				{Name: "name", Label: "Name", Kind: KindText, Required: true},
				{Name: "imageUrl", Label: "Image URL", Kind: KindURL, Required: true},
			},
			Summary: []string{"name"},
		},
		{
			Name:       "promos",
			Title:      "Promos",
			ListPath:   backend.PathPromos,
			CreatePath: backend.PathCreatePromo,
			UpdatePath: backend.PathUpdatePromo,
			DeletePath: backend.PathDeletePromo,
			Fields: []Field{
				{Name: "title", Label: "Title", Kind: KindText, Required: true},
				{Name: "description", Label: "Description", Kind: KindTextarea, Required: true},
				{Name: "imageUrl", Label: "Image URL", Kind: KindURL, Required: true},
				{Name: "terms_condition", Label: "Terms (HTML allowed)", Kind: KindTextarea, Required: true},
				{Name: "promo_code", Label: "Promo code", Kind: KindText, Required: true},
				{Name: "promo_discount_price", Label: "Discount price", Kind: KindNumber, Required: true},
				{Name: "minimum_claim_price", Label: "Minimum claim price", Kind: KindNumber, Required: true},
			},
			Summary: []string{"title", "promo_code"},
		},
		{
			Name:       "categories",
			Title:      "Categories",
			ListPath:   backend.PathCategories,
			CreatePath: backend.PathCreateCategory,
			UpdatePath: backend.PathUpdateCategory,
			DeletePath: backend.PathDeleteCategory,
			Fields: []Field{
				{Name: "name", Label: "Name", Kind: KindText, Required: true},
				{Name: "imageUrl", Label: "Image URL", Kind: KindURL, Required: true},
			},
			Summary: []string{"name"},
		},
		{
			Name:       "activities",
			Title:      "Activities",
			ListPath:   backend.PathActivities,
			CreatePath: backend.PathCreateActivity,
			UpdatePath: backend.PathUpdateActivity,
			DeletePath: backend.PathDeleteActivity,
			Fields: []Field{
				{Name: "categoryId", Label: "Category ID", Kind: KindText, Required: true},
				{Name: "title", Label: "Title", Kind: KindText, Required: true},
				{Name: "description", Label: "Description", Kind: KindTextarea, Required: true},
				{Name: "imageUrls", Label: "Image URLs (comma separated)", Kind: KindList, Required: true},
				{Name: "price", Label: "Price", Kind: KindNumber, Required: true},
				{Name: "price_discount", Label: "Price discount", Kind: KindNumber, Required: true},
				{Name: "rating", Label: "Rating", Kind: KindNumber, Required: true},
				{Name: "total_reviews", Label: "Total reviews", Kind: KindInteger, Required: true},
				{Name: "facilities", Label: "Facilities (HTML allowed)", Kind: KindTextarea, Required: true},
				{Name: "address", Label: "Address", Kind: KindText, Required: true},
				{Name: "province", Label: "Province", Kind: KindText, Required: true},
				{Name: "city", Label: "City", Kind: KindText, Required: true},
				{Name: "location_maps", Label: "Location maps (HTML allowed)", Kind: KindTextarea, Required: true},
			},
			Summary: []string{"title", "city"},
		},
	}
}

// Lookup returns the resource named name
func Lookup(name string) (Resource, bool) {
	for _, r := range Resources() {
		if r.Name == name {
			return r, true
		}
	}
	return Resource{}, false
}
