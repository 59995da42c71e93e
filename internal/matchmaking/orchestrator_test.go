package matchmaking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindredlabs/matchmaker/internal/catalog"
	"github.com/kindredlabs/matchmaker/internal/models"
	"github.com/kindredlabs/matchmaker/internal/providers/llm"
	"github.com/kindredlabs/matchmaker/internal/utils"
)

type fakeLLM struct {
	calls int
	fn    func(calls int, messages []llm.Message) (string, error)
}

func (f *fakeLLM) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	f.calls++
	return f.fn(f.calls, messages)
}

func (f *fakeLLM) Close() error { return nil }

type memStore struct {
	sessions map[string]*models.MatchSession
	putErr   error
	puts     int
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]*models.MatchSession)}
}

func (m *memStore) Get(ctx context.Context, userID string) (*models.MatchSession, error) {
	s, ok := m.sessions[userID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *s
	cp.KokologyQuestions = append([]models.KokologyQuestion(nil), s.KokologyQuestions...)
	return &cp, nil
}

func (m *memStore) Put(ctx context.Context, userID string, s *models.MatchSession) error {
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	cp := *s
	cp.KokologyQuestions = append([]models.KokologyQuestion(nil), s.KokologyQuestions...)
	m.sessions[userID] = &cp
	return nil
}

func (m *memStore) Delete(ctx context.Context, userID string) error {
	delete(m.sessions, userID)
	return nil
}

const profileJSON = `{
	"primaryCategory": "soft_angel",
	"confidence": 0.9,
	"secondaryTraits": ["gentle", "nurturing"],
	"strengthsForMatching": ["deep listening", "emotional warmth"],
	"reasoning": "Consistently gentle and receptive answers.",
	"recommendedRole": "either"
}`

// scriptedProvider answers every question-generation call with a numbered
// question and profiling calls with a fixed categorization.
func scriptedProvider() *fakeLLM {
	return &fakeLLM{fn: func(calls int, messages []llm.Message) (string, error) {
		system := messages[0].Content
		switch {
		case strings.Contains(system, "Dr. Maya"):
			return "```json\n" + profileJSON + "\n```", nil
		case strings.Contains(system, "Dr. Koko"):
			return "Thoughtful, warm, and gently curious.", nil
		default:
			return fmt.Sprintf("Imagine scenario %d. What would you do?", calls), nil
		}
	}}
}

func newTestOrchestrator(provider llm.Provider, store SessionStore) *Orchestrator {
	analyst := NewAnalyst(provider, DefaultQuestionCount)
	profiler := NewProfiler(provider, catalog.Default())
	return NewOrchestrator(store, analyst, profiler, catalog.Default(), nil, nil)
}

func runToGenderPrompt(t *testing.T, o *Orchestrator, userID, sessionID string) {
	t.Helper()
	ctx := context.Background()

	res := o.ProcessMessage(ctx, userID, sessionID, "hi")
	require.Equal(t, "kokology_question_1", res.Step)

	for i := 2; i <= DefaultQuestionCount; i++ {
		res = o.ProcessMessage(ctx, userID, sessionID, fmt.Sprintf("answer %d", i-1))
		require.Equal(t, fmt.Sprintf("kokology_question_%d", i), res.Step)
	}

	res = o.ProcessMessage(ctx, userID, sessionID, fmt.Sprintf("answer %d", DefaultQuestionCount))
	require.Equal(t, "awaiting_gender", res.Step)
	require.NotNil(t, res.Data)
	assert.True(t, res.Data.ExpectingGender)
	assert.True(t, res.Data.ShowGenderButtons)
	assert.True(t, res.Data.DisableTextInput)
}

func TestOrchestrator_FullFlow(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	o := newTestOrchestrator(scriptedProvider(), store)

	runToGenderPrompt(t, o, "u1", "s1")

	sess, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAwaitingGender, sess.Status)
	assert.Len(t, sess.KokologyQuestions, DefaultQuestionCount)
	assert.Equal(t, DefaultQuestionCount, sess.AnsweredCount())

	res := o.ProcessMessage(ctx, "u1", "s1", "girl")
	require.Equal(t, "completed", res.Step)
	assert.True(t, res.IsComplete)
	require.NotNil(t, res.Data)
	assert.Equal(t, "Soft Angel", res.Data.PersonalityCategory)
	assert.Equal(t, "/images/personality-types/soft-angel-girl.jpg", res.Data.PersonalityImageURL)
	require.NotNil(t, res.Data.Profile)
	assert.Equal(t, "guest", res.Data.Profile.Role) // either maps onto guest
	assert.Contains(t, res.Message, "**Soft Angel**")

	sess, err = store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, sess.Status)
	assert.Equal(t, "Soft Angel", sess.PersonalityCategory)
	assert.Equal(t, models.GenderFemale, sess.Gender)
}

func TestOrchestrator_EmptyMessageReplaysPendingQuestion(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	provider := scriptedProvider()
	o := newTestOrchestrator(provider, store)

	res := o.ProcessMessage(ctx, "u1", "s1", "hi")
	require.Equal(t, "kokology_question_1", res.Step)
	question := res.Message

	before, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	callsBefore := provider.calls
	putsBefore := store.puts

	// A reload replay must not answer the question, call the gateway, or
	// write the session.
	res = o.ProcessMessage(ctx, "u1", "s1", "")
	assert.Equal(t, "kokology_question_1", res.Step)
	assert.Equal(t, question, res.Message)
	assert.Equal(t, callsBefore, provider.calls)
	assert.Equal(t, putsBefore, store.puts)

	after, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, before.KokologyQuestions, after.KokologyQuestions)
	assert.Equal(t, before.Step, after.Step)
}

func TestOrchestrator_ResumeAfterQuestionsComplete(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	o := newTestOrchestrator(scriptedProvider(), store)

	// Record a session that crashed after all answers were stored but before
	// the summary transition persisted.
	qs := make([]models.KokologyQuestion, DefaultQuestionCount)
	for i := range qs {
		qs[i] = models.KokologyQuestion{ID: i + 1, Question: fmt.Sprintf("q%d", i+1), Answer: fmt.Sprintf("a%d", i+1)}
	}
	require.NoError(t, store.Put(ctx, "u1", &models.MatchSession{
		UserID:            "u1",
		SessionID:         "s1",
		Status:            models.StatusKokologyAnalysis,
		Step:              DefaultQuestionCount,
		KokologyQuestions: qs,
	}))

	res := o.ProcessMessage(ctx, "u1", "s1", "anything")
	assert.Equal(t, "awaiting_gender", res.Step)
}

func TestOrchestrator_GenderParsing(t *testing.T) {
	cases := []struct {
		input string
		want  models.Gender
	}{
		{"girl", models.GenderFemale},
		{"I'm a boy", models.GenderMale},
		{"woman here", models.GenderFemale},
		{"guy", models.GenderMale},
		{"purple", models.GenderFemale},
		{"", models.GenderFemale},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseGender(tc.input))
		})
	}
}

func TestOrchestrator_ErrorResetsIncompleteSession(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	// Questions succeed twice, then the provider starts failing.
	provider := &fakeLLM{fn: func(calls int, messages []llm.Message) (string, error) {
		if calls > 2 {
			return "", errors.New("gateway down")
		}
		return fmt.Sprintf("Question number %d?", calls), nil
	}}
	o := newTestOrchestrator(provider, store)

	res := o.ProcessMessage(ctx, "u1", "s1", "hi")
	require.Equal(t, "kokology_question_1", res.Step)
	res = o.ProcessMessage(ctx, "u1", "s1", "answer 1")
	require.Equal(t, "kokology_question_2", res.Step)

	res = o.ProcessMessage(ctx, "u1", "s1", "answer 2")
	assert.Equal(t, "error_reset", res.Step)

	sess, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusIdle, sess.Status)
	assert.Equal(t, 0, sess.Step)
	assert.Empty(t, sess.KokologyQuestions)
}

func TestOrchestrator_ErrorWithFullTranscriptKeepsAnswers(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	provider := &fakeLLM{fn: func(calls int, messages []llm.Message) (string, error) {
		return "", errors.New("gateway down")
	}}
	o := newTestOrchestrator(provider, store)

	qs := make([]models.KokologyQuestion, DefaultQuestionCount)
	for i := range qs {
		qs[i] = models.KokologyQuestion{ID: i + 1, Question: fmt.Sprintf("q%d", i+1), Answer: fmt.Sprintf("a%d", i+1)}
	}
	require.NoError(t, store.Put(ctx, "u1", &models.MatchSession{
		UserID:            "u1",
		SessionID:         "s1",
		Status:            models.StatusPersonalitySummary,
		Step:              DefaultQuestionCount,
		KokologyQuestions: qs,
	}))

	res := o.ProcessMessage(ctx, "u1", "s1", "anything")
	assert.Equal(t, "retrying_summary", res.Step)

	sess, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPersonalitySummary, sess.Status)
	assert.Len(t, sess.KokologyQuestions, DefaultQuestionCount)
	assert.Equal(t, DefaultQuestionCount, sess.AnsweredCount())
}

func TestOrchestrator_NotConfiguredIsNonDestructive(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	o := newTestOrchestrator(llm.Unconfigured{}, store)

	res := o.ProcessMessage(ctx, "u1", "s1", "hi")
	assert.Equal(t, "config_error", res.Step)
	assert.False(t, res.IsComplete)

	// The session record survives untouched by the failure.
	sess, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, sess.KokologyQuestions)
}

func TestOrchestrator_CompletedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	provider := scriptedProvider()
	o := newTestOrchestrator(provider, store)

	runToGenderPrompt(t, o, "u1", "s1")
	o.ProcessMessage(ctx, "u1", "s1", "girl")

	callsBefore := provider.calls
	res := o.ProcessMessage(ctx, "u1", "s1", "what now?")
	assert.True(t, res.IsComplete)
	assert.Equal(t, "completed", res.Step)
	assert.Equal(t, "Soft Angel", res.Data.PersonalityCategory)
	assert.Equal(t, "/images/personality-types/soft-angel-girl.jpg", res.Data.PersonalityImageURL)
	assert.Equal(t, callsBefore, provider.calls)
}

func TestOrchestrator_NewSessionIDDiscardsOldSession(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	o := newTestOrchestrator(scriptedProvider(), store)

	res := o.ProcessMessage(ctx, "u1", "s1", "hi")
	require.Equal(t, "kokology_question_1", res.Step)
	o.ProcessMessage(ctx, "u1", "s1", "answer 1")

	// A different session id starts over from question one.
	res = o.ProcessMessage(ctx, "u1", "s2", "hello again")
	assert.Equal(t, "kokology_question_1", res.Step)

	sess, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "s2", sess.SessionID)
	assert.Len(t, sess.KokologyQuestions, 1)
}
