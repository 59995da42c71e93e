package matchmaking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindredlabs/matchmaker/internal/catalog"
	"github.com/kindredlabs/matchmaker/internal/providers/llm"
)

func staticProvider(response string) *fakeLLM {
	return &fakeLLM{fn: func(calls int, messages []llm.Message) (string, error) {
		return response, nil
	}}
}

func TestProfiler_ResponseFormats(t *testing.T) {
	cases := []struct {
		name     string
		response string
	}{
		{"bare json", profileJSON},
		{"json fence", "```json\n" + profileJSON + "\n```"},
		{"generic fence", "```\n" + profileJSON + "\n```"},
		{"prose around object", "Here is my analysis:\n" + profileJSON + "\nHope that helps!"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewProfiler(staticProvider(tc.response), catalog.Default())

			profile, cat, err := p.ProfilePersonality(context.Background(), "summary", "insights")
			require.NoError(t, err)
			assert.Equal(t, "soft_angel", profile.PrimaryCategory)
			assert.Equal(t, "Soft Angel", cat.Name)
			assert.InDelta(t, 0.9, profile.Confidence, 0.001)
			assert.Equal(t, "either", profile.RecommendedRole)
		})
	}
}

func TestProfiler_InvalidJSONIsError(t *testing.T) {
	p := NewProfiler(staticProvider("I think they're a soft angel, probably."), catalog.Default())

	_, _, err := p.ProfilePersonality(context.Background(), "summary", "")
	require.Error(t, err)
}

func TestProfiler_UnknownCategoryIsError(t *testing.T) {
	response := `{"primaryCategory":"galaxy_brain","confidence":0.8,"secondaryTraits":[],"strengthsForMatching":[],"reasoning":"r","recommendedRole":"host"}`
	p := NewProfiler(staticProvider(response), catalog.Default())

	_, _, err := p.ProfilePersonality(context.Background(), "summary", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "galaxy_brain")
}

func TestProfiler_InvalidFieldsAreErrors(t *testing.T) {
	cases := []struct {
		name     string
		response string
	}{
		{"missing category", `{"confidence":0.8,"recommendedRole":"host"}`},
		{"confidence out of range", `{"primaryCategory":"soft_angel","confidence":1.4,"recommendedRole":"host"}`},
		{"bad role", `{"primaryCategory":"soft_angel","confidence":0.8,"recommendedRole":"wizard"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewProfiler(staticProvider(tc.response), catalog.Default())
			_, _, err := p.ProfilePersonality(context.Background(), "summary", "")
			assert.Error(t, err)
		})
	}
}

func TestExtractJSON_PrefersJSONFence(t *testing.T) {
	raw := "```json\n{\"a\":1}\n```\nand also {\"b\":2}"
	got, err := extractJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, got)
}

func TestExtractJSON_NoObject(t *testing.T) {
	_, err := extractJSON("no structured data here")
	assert.Error(t, err)
}
