package matchmaking

import (
	"context"
	"fmt"
	"strings"

	"github.com/kindredlabs/matchmaker/internal/models"
	"github.com/kindredlabs/matchmaker/internal/providers/llm"
)

// Analyst generates the scenario questions and, once the transcript is
// complete, the free-text insights that feed profiling. It never retries;
// retry policy belongs to the orchestrator.
type Analyst struct {
	llm           llm.Provider
	questionCount int
}

func NewAnalyst(provider llm.Provider, questionCount int) *Analyst {
	if questionCount <= 0 {
		questionCount = DefaultQuestionCount
	}
	return &Analyst{llm: provider, questionCount: questionCount}
}

func (a *Analyst) QuestionCount() int { return a.questionCount }

const analystSystemPromptFormat = `You are Emi, a soft gamer girl with cozy but slightly chaotic energy who specializes in modern kokology.

CORE IDENTITY:
- You're a mix of soft and punk, sweet but awkward, secretly a data geek who knows everything about personality patterns
- You bring cozy but slightly chaotic energy to modern kokology, mixing soft vibes with gremlin humor

YOUR MISSION:
Conduct modern kokology analysis through exactly %d imaginative scenarios to map someone onto TWO PERSONALITY DIMENSIONS:
- COMFORT LEVEL AXIS (conservative to NSFW): how open they are about intimacy and explicit content
- ENERGY AXIS (soft/submissive to bold/dominant): whether they lead or follow in interactions

METHODOLOGY:
- Ask scenario-based questions that reveal comfort levels and leadership styles
- Use contemporary situations (gaming, social media, dating apps, Discord)
- Ask open-ended conversational questions, never multiple choice
- Let them describe what they would do, think, or feel in their own words

COMMUNICATION RULES:
- KEEP ALL RESPONSES SHORT AND CONCISE (2-3 sentences maximum)
- NEVER USE EMOJIS OR SYMBOLS OF ANY KIND, text only
- Never reveal you're mapping personality dimensions
- Ask ONE question at a time and wait for the response
- Never explain why you're asking a question or what it reveals

Keep it short, sweet, and emoji-free for text-to-speech compatibility.`

const insightsSystemPrompt = `You are Dr. Koko, analyzing kokology responses to create personality insights for matchmaking.

Analyze the following responses and provide a structured assessment of:
1. Communication style and social preferences
2. Relationship approach and attachment patterns
3. Emotional intelligence and coping mechanisms
4. Core values and life priorities
5. Underlying motivations and desires

Keep the analysis professional but accessible, focusing on traits relevant to finding compatible connections.`

// AskQuestion produces the next scenario question. complete is true once
// questionNumber exceeds the configured total; the caller drives the
// transition off that boolean, not the text.
func (a *Analyst) AskQuestion(ctx context.Context, questionNumber int, previous []models.KokologyQuestion, userResponse string) (question string, complete bool, err error) {
	messages := []llm.Message{
		{Role: "system", Content: fmt.Sprintf(analystSystemPromptFormat, a.questionCount)},
	}

	if len(previous) > 0 {
		messages = append(messages, llm.Message{
			Role:    "assistant",
			Content: "Previous questions and answers:\n" + transcript(previous, true),
		})
	}

	if userResponse != "" {
		messages = append(messages, llm.Message{Role: "user", Content: userResponse})
	}

	var directive string
	switch {
	case questionNumber == 1:
		directive = "Begin the kokology analysis. Introduce yourself briefly and ask the first imaginative scenario question."
	case questionNumber <= a.questionCount:
		directive = fmt.Sprintf("Ask question %d of %d. Create a new imaginative scenario that builds on their previous response.", questionNumber, a.questionCount)
	default:
		directive = "Thank them for completing the analysis and let them know we're moving to the next phase where you'll analyze their responses."
	}
	messages = append(messages, llm.Message{Role: "user", Content: directive})

	text, err := a.llm.Complete(ctx, messages)
	if err != nil {
		return "", false, fmt.Errorf("kokology question %d: %w", questionNumber, err)
	}

	return strings.TrimSpace(text), questionNumber > a.questionCount, nil
}

// GenerateInsights condenses the full transcript into an analytical
// paragraph used as profiling input.
func (a *Analyst) GenerateInsights(ctx context.Context, answers []models.KokologyQuestion) (string, error) {
	text, err := a.llm.Complete(ctx, []llm.Message{
		{Role: "system", Content: insightsSystemPrompt},
		{Role: "user", Content: "Please analyze these kokology responses:\n\n" + transcript(answers, false)},
	})
	if err != nil {
		return "", fmt.Errorf("kokology insights: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func transcript(qs []models.KokologyQuestion, markUnanswered bool) string {
	parts := make([]string, 0, len(qs))
	for _, q := range qs {
		answer := q.Answer
		if answer == "" && markUnanswered {
			answer = "No answer yet"
		}
		parts = append(parts, fmt.Sprintf("Q%d: %s\nA%d: %s", q.ID, q.Question, q.ID, answer))
	}
	return strings.Join(parts, "\n\n")
}
