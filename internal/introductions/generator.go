package introductions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/kindredlabs/matchmaker/internal/catalog"
	"github.com/kindredlabs/matchmaker/internal/models"
	"github.com/kindredlabs/matchmaker/internal/providers/llm"
)

const generatorSystemPrompt = `You are Emi, an enthusiastic AI matchmaker introducing a host to a user you've just finished analyzing. You know the user's personality type and you're hyping up a host who'd vibe with them.

Write a short spoken introduction (2-3 sentences, under 60 words). Rules:
- Speak directly to the user, warm and playful
- Mention the host by name and weave in one or two of their traits
- Connect the host to the user's personality type without naming the type mechanically
- No emoji, no markdown, no stage directions. Plain spoken text only`

// Generator produces introduction text for a (candidate, personality)
// pairing. A missing LLM provider propagates as llm.ErrNotConfigured; any
// other gateway failure degrades to a deterministic fallback line.
type Generator struct {
	llm     llm.Provider
	catalog *catalog.Catalog
	log     *logrus.Entry
}

func NewGenerator(provider llm.Provider, cat *catalog.Catalog, log *logrus.Entry) *Generator {
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	return &Generator{llm: provider, catalog: cat, log: log}
}

// Fallback is the introduction used when generation fails for reasons other
// than a missing provider.
func Fallback(cand *models.Candidate) string {
	return fmt.Sprintf(
		"This is %s! They're a level %d host with an interesting profile. Based on your personality, I think you two could have some great conversations together!",
		cand.DisplayName, cand.Level,
	)
}

func (g *Generator) Generate(ctx context.Context, cand *models.Candidate, personalityID string) (string, error) {
	var personality string
	if cat, ok := g.catalog.ByID(personalityID); ok {
		personality = fmt.Sprintf("%s: %s", cat.Name, cat.Description)
	} else {
		personality = personalityID
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Host: %s (level %d)\n", cand.DisplayName, cand.Level)
	if cand.Bio != "" {
		fmt.Fprintf(&sb, "Bio: %s\n", cand.Bio)
	}
	if len(cand.Traits) > 0 {
		fmt.Fprintf(&sb, "Traits: %s\n", strings.Join(cand.Traits, ", "))
	}
	fmt.Fprintf(&sb, "\nUser's personality type: %s\n\nIntroduce this host to the user.", personality)

	text, err := g.llm.Complete(ctx, []llm.Message{
		{Role: "system", Content: generatorSystemPrompt},
		{Role: "user", Content: sb.String()},
	})
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			return "", err
		}
		g.log.WithError(err).WithField("candidate_id", cand.ID).Warn("introduction generation failed, using fallback")
		return Fallback(cand), nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Fallback(cand), nil
	}
	return text, nil
}
