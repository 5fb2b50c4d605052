package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
)

const filterExtractionSystemPrompt = `You are a search assistant for a marketplace of people, products, services and AI agents. Turn the user's natural-language request into filter values. Return ONLY valid JSON with this schema:
{
  "category": string (one of: people, products, services, ai; omit if unclear),
  "location": string (a city or region name, omit if not mentioned),
  "skills": string[] (professional skills mentioned, omit if none),
  "min_experience": number (minimum years of experience, omit if not mentioned),
  "type": string (for AI agents: agent, copilot or tool; omit otherwise),
  "max_cost": number (maximum monthly cost in dollars, omit if not mentioned),
  "integrations": string[] (tools the AI agent must integrate with, omit if none),
  "certifications": string[] (certifications a product must carry, omit if none),
  "technology": string (product technology area, omit if not mentioned),
  "explanation": string (one short sentence describing what you understood)
}
Omit every field the request does not mention. Never invent values. Do not wrap the JSON in markdown.`

func buildFilterExtractionUserPrompt(query string) string {
	return fmt.Sprintf("Request: %s\n", query)
}

const pairingSystemPrompt = `You pair human team members with AI-agent listings from a marketplace. Given a member profile, return ONLY valid JSON: an array of up to 5 objects with this schema:
{
  "title": string (the agent listing title),
  "compatibility_score": number (0-10),
  "reasoning": string (one sentence on why the pairing works),
  "use_cases": string[] (2-4 concrete tasks the pair would handle)
}
Order by compatibility_score descending. Do not wrap the JSON in markdown.`

func buildPairingUserPrompt(member string, agents []string) string {
	return fmt.Sprintf("Team member profile: %s\nAvailable agents:\n- %s\n", member, strings.Join(agents, "\n- "))
}

// stripMarkdownFences removes a ```json fence the model sometimes wraps
// its output in despite the instructions.
func stripMarkdownFences(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	return strings.TrimSpace(cleaned)
}

func parseExtractedFilters(data []byte) (*entities.ExtractedFilters, error) {
	var payload entities.ExtractedFilters
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse filter extraction payload: %w", err)
	}
	if payload.Category != nil {
		if _, ok := entities.ParseCategory(string(*payload.Category)); !ok {
			payload.Category = nil
		}
	}
	return &payload, nil
}

func parsePairingSuggestions(data []byte) ([]*entities.PairingSuggestion, error) {
	var payload []*entities.PairingSuggestion
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse pairing payload: %w", err)
	}
	for _, s := range payload {
		if s.CompatibilityScore < 0 {
			s.CompatibilityScore = 0
		}
		if s.CompatibilityScore > 10 {
			s.CompatibilityScore = 10
		}
	}
	return payload, nil
}
