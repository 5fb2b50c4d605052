package entities

import (
	"encoding/json"
	"time"
)

// Category identifies the marketplace tab a listing belongs to.
type Category string

const (
	CategoryPeople   Category = "people"
	CategoryProducts Category = "products"
	CategoryServices Category = "services"
	CategoryAI       Category = "ai"
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryPeople, CategoryProducts, CategoryServices, CategoryAI}

// ParseCategory returns the category for a wire value, or ok=false.
func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategoryPeople, CategoryProducts, CategoryServices, CategoryAI:
		return Category(s), true
	}
	return "", false
}

// Listing is a single marketplace entry. The category tag selects which
// attribute variant is populated; the filter pipeline only reads the
// variant matching the listing's category. Extra carries free-form
// attributes that are searchable but never filtered on.
type Listing struct {
	ID          string          `json:"id" db:"id"`
	Category    Category        `json:"category" db:"category"`
	Subcategory string          `json:"subcategory" db:"subcategory"`
	Title       string          `json:"title" db:"title"`
	Description string          `json:"description,omitempty" db:"description"`
	Location    string          `json:"location,omitempty" db:"location"`
	IsVerified  bool            `json:"is_verified" db:"is_verified"`
	People      *PeopleAttrs    `json:"people,omitempty" db:"-"`
	Product     *ProductAttrs   `json:"product,omitempty" db:"-"`
	AI          *AIAttrs        `json:"ai,omitempty" db:"-"`
	Extra       map[string]any  `json:"extra,omitempty" db:"-"`
	Raw         json.RawMessage `json:"-" db:"-"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// PeopleAttrs holds the filterable attributes of a People listing.
type PeopleAttrs struct {
	Skills          []string `json:"skills,omitempty"`
	Expertise       []string `json:"expertise,omitempty"`
	YearsExperience int      `json:"years_experience,omitempty"`
}

// ProductAttrs holds the filterable attributes of a Products listing.
type ProductAttrs struct {
	Certifications []string `json:"certifications,omitempty"`
	Technology     string   `json:"technology,omitempty"`
	CompanyType    string   `json:"company_type,omitempty"`
}

// AIAttrs holds the filterable attributes of an AI listing.
type AIAttrs struct {
	Type         string   `json:"type,omitempty"`
	CostValue    float64  `json:"cost_value,omitempty"`
	Integrations []string `json:"integrations,omitempty"`
}

// SearchableText returns every string the free-text search stage matches
// against: title, description, location, the strings of the category
// variant, and string-valued Extra entries (including string slices).
// Subcategory is excluded; it has its own filter stage.
func (l *Listing) SearchableText() []string {
	out := []string{l.Title, l.Description, l.Location}

	if l.People != nil {
		out = append(out, l.People.Skills...)
		out = append(out, l.People.Expertise...)
	}
	if l.Product != nil {
		out = append(out, l.Product.Certifications...)
		out = append(out, l.Product.Technology, l.Product.CompanyType)
	}
	if l.AI != nil {
		out = append(out, l.AI.Type)
		out = append(out, l.AI.Integrations...)
	}

	for _, v := range l.Extra {
		switch val := v.(type) {
		case string:
			out = append(out, val)
		case []string:
			out = append(out, val...)
		case []any:
			for _, item := range val {
				if s, ok := item.(string); ok {
					out = append(out, s)
				}
			}
		}
	}

	return out
}
