package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindredlabs/matchmaker/internal/models"
)

func TestDefault_Lookups(t *testing.T) {
	c := Default()

	require.Len(t, c.All(), 8)

	byID, ok := c.ByID("velvet_domme")
	require.True(t, ok)
	assert.Equal(t, "Velvet Domme", byID.Name)

	byName, ok := c.ByName("Velvet Domme")
	require.True(t, ok)
	assert.Same(t, byID, byName)

	_, ok = c.ByID("nonexistent")
	assert.False(t, ok)
}

func TestDefault_ArchetypeAxesInRange(t *testing.T) {
	for _, cat := range Default().All() {
		assert.GreaterOrEqual(t, cat.Archetype.Dominance, 0.0, cat.ID)
		assert.LessOrEqual(t, cat.Archetype.Dominance, 1.0, cat.ID)
		assert.GreaterOrEqual(t, cat.Archetype.Explicitness, 0.0, cat.ID)
		assert.LessOrEqual(t, cat.Archetype.Explicitness, 1.0, cat.ID)
	}
}

func TestImagePath(t *testing.T) {
	cases := []struct {
		id     string
		gender models.Gender
		want   string
	}{
		{"soft_angel", models.GenderFemale, "/images/personality-types/soft-angel-girl.jpg"},
		{"soft_angel", models.GenderMale, "/images/personality-types/soft-angel-boy.jpg"},
		{"velvet_domme", "", "/images/personality-types/velvet-domme-girl.jpg"},
		{"himbo_bimbo_babe", models.GenderFemale, "/images/personality-types/bimbo-girl.jpg"},
		{"himbo_bimbo_babe", models.GenderMale, "/images/personality-types/bimbo-boy.jpg"},
		{"thirst_trap_icon", models.GenderMale, "/images/personality-types/thirst-trap-icon-boy.jpg"},
	}

	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, ImagePath(tc.id, tc.gender))
		})
	}
}

func TestImagePath_Deterministic(t *testing.T) {
	// Same inputs always address the same asset; the browse cache keys off
	// this.
	a := ImagePath("chaotic_cutie", models.GenderFemale)
	b := ImagePath("chaotic_cutie", models.GenderFemale)
	assert.Equal(t, a, b)
}
