package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionStatus drives message routing in the matchmaking orchestrator.
type SessionStatus string

const (
	StatusIdle                 SessionStatus = "idle"
	StatusKokologyAnalysis     SessionStatus = "kokology_analysis"
	StatusPersonalitySummary   SessionStatus = "personality_summary"
	StatusAwaitingGender       SessionStatus = "awaiting_gender"
	StatusPersonalityProfiling SessionStatus = "personality_profiling"
	StatusCompleted            SessionStatus = "completed"
)

type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
)

// KokologyQuestion is one scenario question in the transcript. Answer is
// empty while the question is awaiting the user's reply.
type KokologyQuestion struct {
	ID        int       `bson:"id" json:"id"`
	Question  string    `bson:"question" json:"question"`
	Answer    string    `bson:"answer,omitempty" json:"answer,omitempty"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

func (q KokologyQuestion) Answered() bool { return q.Answer != "" }

// MatchSession is the per-user matchmaking record. One live session per user;
// a new session id discards any prior record bound to the same user.
type MatchSession struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID string             `bson:"user_id" json:"user_id"`

	SessionID string        `bson:"session_id" json:"session_id"`
	Status    SessionStatus `bson:"status" json:"status"`
	Step      int           `bson:"step" json:"step"`

	KokologyQuestions []KokologyQuestion `bson:"kokology_questions" json:"kokology_questions"`

	// PersonalitySummary belongs to a dormant writer stage and is not
	// populated by the active flow.
	PersonalitySummary  string `bson:"personality_summary,omitempty" json:"personality_summary,omitempty"`
	PersonalityCategory string `bson:"personality_category,omitempty" json:"personality_category,omitempty"`
	Gender              Gender `bson:"gender,omitempty" json:"gender,omitempty"`

	MissingFields []string `bson:"missing_fields" json:"missing_fields"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// AnsweredCount reports how many transcript entries carry an answer.
func (s *MatchSession) AnsweredCount() int {
	n := 0
	for _, q := range s.KokologyQuestions {
		if q.Answered() {
			n++
		}
	}
	return n
}

// LastUnanswered returns the trailing question when it is awaiting a reply.
func (s *MatchSession) LastUnanswered() (KokologyQuestion, bool) {
	if len(s.KokologyQuestions) == 0 {
		return KokologyQuestion{}, false
	}
	last := s.KokologyQuestions[len(s.KokologyQuestions)-1]
	if last.Answered() {
		return KokologyQuestion{}, false
	}
	return last, true
}
