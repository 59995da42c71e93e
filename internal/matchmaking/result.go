package matchmaking

import (
	"github.com/kindredlabs/matchmaker/internal/catalog"
)

// DefaultQuestionCount is the number of scenario questions per analysis.
const DefaultQuestionCount = 5

// Result is the payload returned for every processed message. Step is a
// machine-readable tag for telemetry; Data carries presentation hints the
// core never interprets.
type Result struct {
	Message    string      `json:"message"`
	IsComplete bool        `json:"isComplete"`
	Step       string      `json:"step"`
	Data       *ResultData `json:"data,omitempty"`
}

type ResultData struct {
	PersonalityCategory string        `json:"personalityCategory,omitempty"`
	PersonalityImageURL string        `json:"personalityImageUrl,omitempty"`
	Profile             *ProfileData  `json:"profile,omitempty"`
	ExpectingGender     bool          `json:"expectingGender,omitempty"`
	ShowGenderButtons   bool          `json:"showGenderButtons,omitempty"`
	DisableTextInput    bool          `json:"disableTextInput,omitempty"`
	StepProgress        *StepProgress `json:"stepProgress,omitempty"`
}

type ProfileData struct {
	Category   *catalog.Category `json:"category,omitempty"`
	Confidence float64           `json:"confidence,omitempty"`
	Traits     []string          `json:"traits,omitempty"`
	Strengths  []string          `json:"strengths,omitempty"`
	Role       string            `json:"role,omitempty"`
}

type StepProgress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Label   string `json:"label"`
	Phase   string `json:"phase"` // questions|analyzing|completed
}

// Spoken while results are crunched; doubles as the gender ask. No model
// call needed for these.
var analyzingMessages = []string{
	"give me a sec while I crunch all this data about you, also quick question: are you a boy or girl? just for the perfect match!",
	"analyzing your vibe right now, this is so fun! oh by the way are you a boy or girl? helps me pick the perfect personality pic",
	"your answers are amazing! processing, quick thing: boy or girl? need it for your custom results!",
	"running my secret personality algorithms, real quick: are you a boy or girl? want to make sure your results are perfect!",
	"computing your personality profile, this is giving me SUCH good data! quick question: boy or girl? for your personalized image",
	"processing your answers through my ultra-advanced vibes detector, also are you a boy or girl? need it for the final touch!",
	"analyzing analyzing, your answers are literally perfect specimens, quick: boy or girl? for maximum customization!",
	"running diagnostics on your personality, this is so cool! oh also are you a boy or girl? helps with the visual vibes",
}
