package matchmaking

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kindredlabs/matchmaker/internal/catalog"
	"github.com/kindredlabs/matchmaker/internal/models"
	"github.com/kindredlabs/matchmaker/internal/providers/llm"
	"github.com/kindredlabs/matchmaker/internal/utils"
)

// SessionStore is the persistence port the orchestrator writes through after
// every transition. Reads fail open: a storage error is treated as "no
// session" so the flow can restart rather than dead-end.
type SessionStore interface {
	Get(ctx context.Context, userID string) (*models.MatchSession, error)
	Put(ctx context.Context, userID string, s *models.MatchSession) error
	Delete(ctx context.Context, userID string) error
}

// Orchestrator owns the per-user matchmaking session and routes each
// incoming message through the phase sequence: kokology questions, summary,
// gender, profiling, completed. Every transition is persisted before the
// result is returned. Gateway and storage errors never escape; they are
// converted into user-facing recovery messages.
type Orchestrator struct {
	store    SessionStore
	analyst  *Analyst
	profiler *Profiler
	catalog  *catalog.Catalog
	events   Publisher
	log      *logrus.Entry
}

func NewOrchestrator(store SessionStore, analyst *Analyst, profiler *Profiler, cat *catalog.Catalog, events Publisher, log *logrus.Entry) *Orchestrator {
	if events == nil {
		events = NopPublisher{}
	}
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	return &Orchestrator{
		store:    store,
		analyst:  analyst,
		profiler: profiler,
		catalog:  cat,
		events:   events,
		log:      log,
	}
}

// ProcessMessage routes one user message through the state machine. A
// session bound to a different session id is discarded and recreated; one
// live session per user.
func (o *Orchestrator) ProcessMessage(ctx context.Context, userID, sessionID, message string) *Result {
	sess := o.loadSession(ctx, userID)
	if sess == nil || sess.SessionID != sessionID {
		sess = o.newSession(ctx, userID, sessionID)
	}

	log := o.log.WithFields(logrus.Fields{
		"user_id":    userID,
		"session_id": sessionID,
		"status":     sess.Status,
		"step":       sess.Step,
	})
	log.Debug("processing matchmaking message")

	switch sess.Status {
	case models.StatusIdle, models.StatusKokologyAnalysis:
		if last, pending := sess.LastUnanswered(); pending {
			// An empty message while a question is pending is a client
			// reload replay: answer nothing, call nothing, change nothing.
			if strings.TrimSpace(message) == "" {
				return o.pendingQuestionResult(sess, last)
			}
			return o.handleKokologyResponse(ctx, sess, message)
		}

		if len(sess.KokologyQuestions) >= o.analyst.QuestionCount() {
			return o.generateSummary(ctx, sess)
		}

		return o.startKokology(ctx, sess, message)

	case models.StatusPersonalitySummary:
		return o.generateSummary(ctx, sess)

	case models.StatusAwaitingGender:
		return o.handleGenderResponse(ctx, sess, message)

	case models.StatusPersonalityProfiling:
		return o.profilePersonality(ctx, sess)

	case models.StatusCompleted:
		return o.completedResult(sess)

	default:
		return o.handleError(ctx, sess, fmt.Errorf("unknown session status %q", sess.Status))
	}
}

// Session returns the stored session for a user.
func (o *Orchestrator) Session(ctx context.Context, userID string) (*models.MatchSession, error) {
	return o.store.Get(ctx, userID)
}

// Reset removes the user's session entirely.
func (o *Orchestrator) Reset(ctx context.Context, userID string) error {
	return o.store.Delete(ctx, userID)
}

func (o *Orchestrator) loadSession(ctx context.Context, userID string) *models.MatchSession {
	sess, err := o.store.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, utils.ErrNotFound) {
			o.log.WithError(err).WithField("user_id", userID).Warn("session read failed, starting fresh")
		}
		return nil
	}
	return sess
}

func (o *Orchestrator) newSession(ctx context.Context, userID, sessionID string) *models.MatchSession {
	sess := &models.MatchSession{
		UserID:            userID,
		SessionID:         sessionID,
		Status:            models.StatusIdle,
		Step:              0,
		KokologyQuestions: []models.KokologyQuestion{},
		MissingFields:     []string{},
	}
	o.save(ctx, sess, "created")
	return sess
}

// save persists the session and emits a state-change event. Persistence
// failures are logged, not propagated: failing to store must not block
// returning a result.
func (o *Orchestrator) save(ctx context.Context, sess *models.MatchSession, step string) {
	if err := o.store.Put(ctx, sess.UserID, sess); err != nil {
		o.log.WithError(err).WithFields(logrus.Fields{
			"user_id": sess.UserID,
			"status":  sess.Status,
		}).Error("failed to persist matchmaking session")
	}
	o.events.SessionChanged(ctx, sess.UserID, sess, step)
}

func (o *Orchestrator) pendingQuestionResult(sess *models.MatchSession, last models.KokologyQuestion) *Result {
	n := len(sess.KokologyQuestions)
	total := o.analyst.QuestionCount()
	return &Result{
		Message:    last.Question,
		IsComplete: false,
		Step:       fmt.Sprintf("kokology_question_%d", n),
		Data: &ResultData{
			StepProgress: &StepProgress{
				Current: n,
				Total:   total,
				Label:   fmt.Sprintf("Question %d of %d", n, total),
				Phase:   "questions",
			},
		},
	}
}

func (o *Orchestrator) startKokology(ctx context.Context, sess *models.MatchSession, message string) *Result {
	sess.Status = models.StatusKokologyAnalysis
	sess.Step = 1

	question, _, err := o.analyst.AskQuestion(ctx, 1, sess.KokologyQuestions, message)
	if err != nil {
		return o.recoverOrConfig(ctx, sess, err)
	}

	sess.KokologyQuestions = []models.KokologyQuestion{{
		ID:        1,
		Question:  question,
		Timestamp: time.Now().UTC(),
	}}
	o.save(ctx, sess, "kokology_question_1")

	return o.questionResult(sess, question, 1)
}

func (o *Orchestrator) handleKokologyResponse(ctx context.Context, sess *models.MatchSession, message string) *Result {
	current := sess.Step
	if current < 1 {
		current = 1
	}

	idx := current - 1
	if idx < len(sess.KokologyQuestions) {
		sess.KokologyQuestions[idx].Answer = message
		sess.KokologyQuestions[idx].Timestamp = time.Now().UTC()
	} else {
		// Step drifted past the transcript; record the answer anyway so no
		// user input is lost.
		o.log.WithField("step", current).Warn("missing question entry for step, backfilling")
		sess.KokologyQuestions = append(sess.KokologyQuestions, models.KokologyQuestion{
			ID:        current,
			Question:  "Previous question",
			Answer:    message,
			Timestamp: time.Now().UTC(),
		})
	}

	next := current + 1
	question, complete, err := o.analyst.AskQuestion(ctx, next, sess.KokologyQuestions, message)
	if err != nil {
		return o.recoverOrConfig(ctx, sess, err)
	}

	if complete {
		sess.Status = models.StatusPersonalitySummary
		o.save(ctx, sess, "questions_complete")
		return o.generateSummary(ctx, sess)
	}

	sess.KokologyQuestions = append(sess.KokologyQuestions, models.KokologyQuestion{
		ID:        next,
		Question:  question,
		Timestamp: time.Now().UTC(),
	})
	sess.Step = next
	o.save(ctx, sess, fmt.Sprintf("kokology_question_%d", next))

	return o.questionResult(sess, question, next)
}

func (o *Orchestrator) questionResult(sess *models.MatchSession, question string, n int) *Result {
	total := o.analyst.QuestionCount()
	return &Result{
		Message:    question,
		IsComplete: false,
		Step:       fmt.Sprintf("kokology_question_%d", n),
		Data: &ResultData{
			StepProgress: &StepProgress{
				Current: n,
				Total:   total,
				Label:   fmt.Sprintf("Question %d of %d", n, total),
				Phase:   "questions",
			},
		},
	}
}

// generateSummary validates the transcript and runs the insights step. On
// failure the session stays at personality_summary so a retry loses nothing.
func (o *Orchestrator) generateSummary(ctx context.Context, sess *models.MatchSession) *Result {
	total := o.analyst.QuestionCount()
	if len(sess.KokologyQuestions) < total {
		return o.handleError(ctx, sess, fmt.Errorf("insufficient kokology data: %d/%d", len(sess.KokologyQuestions), total))
	}

	if _, err := o.analyst.GenerateInsights(ctx, sess.KokologyQuestions); err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			return o.configErrorResult()
		}
		o.log.WithError(err).Warn("personality summary generation failed, staying in summary state")
		sess.Status = models.StatusPersonalitySummary
		o.save(ctx, sess, "retrying_summary")
		return &Result{
			Message:    "I'm having a moment processing your amazing answers! Let me try that again real quick...",
			IsComplete: false,
			Step:       "retrying_summary",
		}
	}

	sess.Status = models.StatusAwaitingGender
	o.save(ctx, sess, "awaiting_gender")

	return &Result{
		Message:    analyzingMessages[rand.Intn(len(analyzingMessages))],
		IsComplete: false,
		Step:       "awaiting_gender",
		Data: &ResultData{
			ExpectingGender:   true,
			ShowGenderButtons: true,
			DisableTextInput:  true,
			StepProgress: &StepProgress{
				Current: total,
				Total:   total,
				Label:   "Analyzing responses...",
				Phase:   "analyzing",
			},
		},
	}
}

func (o *Orchestrator) handleGenderResponse(ctx context.Context, sess *models.MatchSession, message string) *Result {
	sess.Gender = ParseGender(message)
	sess.Status = models.StatusPersonalityProfiling
	o.save(ctx, sess, "personality_profiling")

	return o.profilePersonality(ctx, sess)
}

func (o *Orchestrator) profilePersonality(ctx context.Context, sess *models.MatchSession) *Result {
	total := o.analyst.QuestionCount()
	if len(sess.KokologyQuestions) < total {
		return o.handleError(ctx, sess, fmt.Errorf("insufficient kokology questions for profiling"))
	}

	insights, err := o.analyst.GenerateInsights(ctx, sess.KokologyQuestions)
	if err != nil {
		return o.recoverOrConfig(ctx, sess, err)
	}

	var sb strings.Builder
	for i, q := range sess.KokologyQuestions {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "Question %d: %s\nAnswer: %s", i+1, q.Question, q.Answer)
	}

	profile, cat, err := o.profiler.ProfilePersonality(ctx, sb.String(), insights)
	if err != nil {
		return o.recoverOrConfig(ctx, sess, err)
	}

	gender := sess.Gender
	if gender == "" {
		gender = models.GenderFemale
	}
	imageURL := catalog.ImagePath(cat.ID, gender)

	sess.PersonalityCategory = cat.Name
	sess.Status = models.StatusCompleted
	o.save(ctx, sess, "completed")

	role := profile.RecommendedRole
	if role == "either" {
		role = "guest"
	}

	return &Result{
		Message: fmt.Sprintf(
			"Your personality analysis is complete! You are: **%s** %s Here's what makes you special in relationships: %s. I'm sending you your personality image right now!",
			cat.Name, cat.Description, strings.Join(profile.StrengthsForMatching, ", "),
		),
		IsComplete: true,
		Step:       "completed",
		Data: &ResultData{
			PersonalityCategory: cat.Name,
			PersonalityImageURL: imageURL,
			Profile: &ProfileData{
				Category:   cat,
				Confidence: profile.Confidence,
				Traits:     profile.SecondaryTraits,
				Strengths:  profile.StrengthsForMatching,
				Role:       role,
			},
			StepProgress: &StepProgress{
				Current: total,
				Total:   total,
				Label:   "Analysis complete!",
				Phase:   "completed",
			},
		},
	}
}

// completedResult restates the finished analysis; any message after
// completion gets the same payload.
func (o *Orchestrator) completedResult(sess *models.MatchSession) *Result {
	total := o.analyst.QuestionCount()

	imageURL := ""
	var cat *catalog.Category
	if c, ok := o.catalog.ByName(sess.PersonalityCategory); ok {
		cat = c
		imageURL = catalog.ImagePath(c.ID, sess.Gender)
	}

	data := &ResultData{
		PersonalityCategory: sess.PersonalityCategory,
		PersonalityImageURL: imageURL,
		StepProgress: &StepProgress{
			Current: total,
			Total:   total,
			Label:   "Analysis complete!",
			Phase:   "completed",
		},
	}
	if cat != nil {
		data.Profile = &ProfileData{Category: cat}
	}

	return &Result{
		Message: fmt.Sprintf(
			"Your personality analysis is complete! You've been categorized as %q. Feel free to ask me anything else or let's start finding you some amazing connections!",
			sess.PersonalityCategory,
		),
		IsComplete: true,
		Step:       "completed",
		Data:       data,
	}
}

// recoverOrConfig splits gateway failures: a not-configured provider gets a
// non-destructive configuration message, anything else goes through error
// recovery.
func (o *Orchestrator) recoverOrConfig(ctx context.Context, sess *models.MatchSession, err error) *Result {
	if errors.Is(err, llm.ErrNotConfigured) {
		return o.configErrorResult()
	}
	return o.handleError(ctx, sess, err)
}

func (o *Orchestrator) configErrorResult() *Result {
	return &Result{
		Message:    "I need an AI provider to analyze your personality! Please configure one in Settings, then try again!",
		IsComplete: false,
		Step:       "config_error",
	}
}

// handleError applies the recovery rule: with a full transcript fall back to
// personality_summary keeping every answer; otherwise reset to idle and
// discard the incomplete transcript.
func (o *Orchestrator) handleError(ctx context.Context, sess *models.MatchSession, err error) *Result {
	o.log.WithError(err).WithFields(logrus.Fields{
		"user_id":    sess.UserID,
		"session_id": sess.SessionID,
		"status":     sess.Status,
	}).Error("matchmaking error")

	total := o.analyst.QuestionCount()
	if len(sess.KokologyQuestions) >= total {
		sess.Status = models.StatusPersonalitySummary
		sess.Step = total
		o.save(ctx, sess, "recovering_from_error")

		return &Result{
			Message:    "I encountered a small hiccup! But don't worry, I saved your answers. Let me continue analyzing your personality...",
			IsComplete: false,
			Step:       "recovering_from_error",
		}
	}

	sess.Status = models.StatusIdle
	sess.Step = 0
	sess.KokologyQuestions = []models.KokologyQuestion{}
	o.save(ctx, sess, "error_reset")

	return &Result{
		Message:    "I encountered an issue, but don't worry! Let's start fresh. Would you like to begin your personality analysis?",
		IsComplete: false,
		Step:       "error_reset",
	}
}
