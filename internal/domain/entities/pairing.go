package entities

// PairingSuggestion is a ranked centaur-pairing match: an AI-agent listing
// proposed as a partner for a human team member.
type PairingSuggestion struct {
	Title              string   `json:"title"`
	CompatibilityScore float64  `json:"compatibility_score"` // 0-10
	Reasoning          string   `json:"reasoning"`
	UseCases           []string `json:"use_cases,omitempty"`
}
