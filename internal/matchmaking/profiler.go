package matchmaking

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kindredlabs/matchmaker/internal/catalog"
	"github.com/kindredlabs/matchmaker/internal/providers/llm"
)

// Profile is the structured categorization the completion gateway returns.
type Profile struct {
	PrimaryCategory      string   `json:"primaryCategory"`
	Confidence           float64  `json:"confidence"`
	SecondaryTraits      []string `json:"secondaryTraits"`
	StrengthsForMatching []string `json:"strengthsForMatching"`
	Reasoning            string   `json:"reasoning"`
	RecommendedRole      string   `json:"recommendedRole"` // host|guest|either
}

// Profiler asks the completion gateway for a categorization and resolves it
// against the static catalog. Parse failures and unknown category ids are
// hard errors, never coerced to a default.
type Profiler struct {
	llm     llm.Provider
	catalog *catalog.Catalog
}

func NewProfiler(provider llm.Provider, cat *catalog.Catalog) *Profiler {
	return &Profiler{llm: provider, catalog: cat}
}

const profilerSystemPromptFormat = `You are Dr. Maya, a personality profiler specializing in categorizing individuals for meaningful connections.

YOUR MISSION:
Analyze personality summaries and psychological insights to categorize individuals into one of the established personality types.

AVAILABLE PERSONALITY CATEGORIES:
%s

CATEGORIZATION CRITERIA:
- Dominance level: how assertive/confident vs gentle/receptive they are
- Explicitness comfort: their comfort with intimate or sensual expression
- Social energy: how they prefer to interact and connect
- Emotional expression: their natural communication and relationship style

OUTPUT REQUIREMENTS:
Provide analysis as a JSON object with these exact fields:
{
  "primaryCategory": "category_id",
  "confidence": 0.85,
  "secondaryTraits": ["trait1", "trait2", "trait3"],
  "strengthsForMatching": ["strength1", "strength2", "strength3"],
  "reasoning": "Detailed explanation of why this category fits...",
  "recommendedRole": "host" | "guest" | "either"
}

IMPORTANT RULES:
- Base categorization ONLY on evidence from the personality summary
- Confidence should reflect how clearly they match the category (0.6-1.0)
- Reasoning must be specific and evidence-based`

// ProfilePersonality sends the transcript summary plus insights to the
// gateway and parses the structured result.
func (p *Profiler) ProfilePersonality(ctx context.Context, summary, insights string) (*Profile, *catalog.Category, error) {
	lines := make([]string, 0, len(p.catalog.All()))
	for _, cat := range p.catalog.All() {
		desc := cat.Description
		if len(desc) > 100 {
			desc = desc[:100] + "..."
		}
		lines = append(lines, fmt.Sprintf("%s: %s - %s", cat.ID, cat.Name, desc))
	}

	input := "PERSONALITY SUMMARY:\n" + summary
	if insights != "" {
		input += "\n\nKOKOLOGY INSIGHTS:\n" + insights
	}

	raw, err := p.llm.Complete(ctx, []llm.Message{
		{Role: "system", Content: fmt.Sprintf(profilerSystemPromptFormat, strings.Join(lines, "\n"))},
		{Role: "user", Content: "Please analyze the following personality data and categorize this person:\n\n" + input + "\n\nProvide a structured analysis as a JSON object with the required fields."},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("profile personality: %w", err)
	}

	profile, err := parseProfile(raw)
	if err != nil {
		return nil, nil, err
	}

	cat, ok := p.catalog.ByID(profile.PrimaryCategory)
	if !ok {
		return nil, nil, fmt.Errorf("profile personality: unknown category id %q", profile.PrimaryCategory)
	}

	return profile, cat, nil
}

func parseProfile(raw string) (*Profile, error) {
	jsonText, err := extractJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("profile personality: %w", err)
	}

	var profile Profile
	if err := json.Unmarshal([]byte(jsonText), &profile); err != nil {
		return nil, fmt.Errorf("profile personality: invalid JSON response: %w", err)
	}

	if profile.PrimaryCategory == "" {
		return nil, fmt.Errorf("profile personality: response missing primaryCategory")
	}
	if profile.Confidence < 0 || profile.Confidence > 1 {
		return nil, fmt.Errorf("profile personality: confidence %v out of range", profile.Confidence)
	}
	switch profile.RecommendedRole {
	case "host", "guest", "either":
	default:
		return nil, fmt.Errorf("profile personality: invalid recommendedRole %q", profile.RecommendedRole)
	}

	return &profile, nil
}

// extractJSON pulls a JSON object out of free-form model output. Tried in
// order: a fenced json block, a generic fenced block, the first balanced
// object substring.
func extractJSON(s string) (string, error) {
	s = strings.TrimSpace(s)

	if body, ok := fencedBlock(s, "```json"); ok {
		return body, nil
	}
	if body, ok := fencedBlock(s, "```"); ok {
		return body, nil
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return strings.TrimSpace(s[start : end+1]), nil
	}

	return "", fmt.Errorf("no JSON object found in response")
}

func fencedBlock(s, fence string) (string, bool) {
	start := strings.Index(s, fence)
	if start < 0 {
		return "", false
	}
	rest := s[start+len(fence):]
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	body := strings.TrimSpace(rest[:end])
	if body == "" {
		return "", false
	}
	return body, true
}
