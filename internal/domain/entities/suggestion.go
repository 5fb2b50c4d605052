package entities

// Suggestion is a single autocomplete entry for the search box.
type Suggestion struct {
	Text     string   `json:"text"`
	Category Category `json:"category,omitempty"`
}
