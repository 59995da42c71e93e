package matchmaking

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindredlabs/matchmaker/internal/models"
	"github.com/kindredlabs/matchmaker/internal/providers/llm"
)

func TestAnalyst_CompleteBoundary(t *testing.T) {
	a := NewAnalyst(staticProvider("ok"), 5)
	ctx := context.Background()

	_, complete, err := a.AskQuestion(ctx, 5, nil, "answer")
	require.NoError(t, err)
	assert.False(t, complete)

	_, complete, err = a.AskQuestion(ctx, 6, nil, "answer")
	require.NoError(t, err)
	assert.True(t, complete)
}

func TestAnalyst_TranscriptInPrompt(t *testing.T) {
	var captured []llm.Message
	provider := &fakeLLM{fn: func(calls int, messages []llm.Message) (string, error) {
		captured = messages
		return "next question", nil
	}}
	a := NewAnalyst(provider, 5)

	previous := []models.KokologyQuestion{
		{ID: 1, Question: "What door do you open?", Answer: "The red one"},
		{ID: 2, Question: "What is inside?"},
	}
	_, _, err := a.AskQuestion(context.Background(), 3, previous, "a garden")
	require.NoError(t, err)

	var history string
	for _, m := range captured {
		if m.Role == "assistant" {
			history = m.Content
		}
	}
	require.NotEmpty(t, history)
	assert.Contains(t, history, "Q1: What door do you open?")
	assert.Contains(t, history, "A1: The red one")
	assert.Contains(t, history, "A2: No answer yet")

	last := captured[len(captured)-1]
	assert.Equal(t, "user", last.Role)
	assert.Contains(t, last.Content, "question 3 of 5")
}

func TestAnalyst_QuestionCountDefault(t *testing.T) {
	a := NewAnalyst(staticProvider("ok"), 0)
	assert.Equal(t, DefaultQuestionCount, a.QuestionCount())
}

func TestAnalyst_ErrorWrapsProvider(t *testing.T) {
	a := NewAnalyst(llm.Unconfigured{}, 5)

	_, _, err := a.AskQuestion(context.Background(), 1, nil, "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrNotConfigured)

	_, err = a.GenerateInsights(context.Background(), nil)
	assert.ErrorIs(t, err, llm.ErrNotConfigured)
}

func TestTranscript_JoinsBlocks(t *testing.T) {
	qs := []models.KokologyQuestion{
		{ID: 1, Question: "q1", Answer: "a1"},
		{ID: 2, Question: "q2", Answer: "a2"},
	}
	got := transcript(qs, false)
	assert.Equal(t, 2, strings.Count(got, "Q"))
	assert.Contains(t, got, "Q1: q1\nA1: a1")
	assert.Contains(t, got, "Q2: q2\nA2: a2")
}
