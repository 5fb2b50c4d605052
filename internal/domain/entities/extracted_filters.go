package entities

// ExtractedFilters is the structured payload returned by the AI
// filter-extraction service for a natural-language query. Nil pointer
// fields were absent from the response and must leave the corresponding
// filter untouched when merged.
type ExtractedFilters struct {
	Category       *Category `json:"category,omitempty"`
	Location       *string   `json:"location,omitempty"`
	Skills         []string  `json:"skills,omitempty"`
	MinExperience  *int      `json:"min_experience,omitempty"`
	Type           *string   `json:"type,omitempty"`
	MaxCost        *float64  `json:"max_cost,omitempty"`
	Integrations   []string  `json:"integrations,omitempty"`
	Certifications []string  `json:"certifications,omitempty"`
	Technology     *string   `json:"technology,omitempty"`
	Explanation    string    `json:"explanation,omitempty"`
}
