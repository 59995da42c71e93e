package matchmaking

import (
	"strings"

	"github.com/kindredlabs/matchmaker/internal/models"
)

// Female keywords are checked first: "female" contains "male" and "woman"
// contains "man", so the male scan would otherwise misclassify them.
var (
	femaleKeywords = []string{"girl", "female", "woman", "gal"}
	maleKeywords   = []string{"boy", "male", "man", "guy"}
)

// ParseGender is a best-effort keyword classifier, not validated input.
// Unmatched text defaults to female.
func ParseGender(message string) models.Gender {
	lower := strings.ToLower(strings.TrimSpace(message))

	for _, kw := range femaleKeywords {
		if strings.Contains(lower, kw) {
			return models.GenderFemale
		}
	}
	for _, kw := range maleKeywords {
		if strings.Contains(lower, kw) {
			return models.GenderMale
		}
	}
	return models.GenderFemale
}
