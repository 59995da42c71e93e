package services

import (
	"context"
	"errors"
	"testing"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindredlabs/matchmaker/internal/catalog"
	"github.com/kindredlabs/matchmaker/internal/models"
	"github.com/kindredlabs/matchmaker/internal/providers/llm"
	"github.com/kindredlabs/matchmaker/internal/utils"
)

type fakeCandidateRepo struct {
	stored     map[string]*models.Candidate
	lastVector *pgvector.Vector
}

func newFakeCandidateRepo() *fakeCandidateRepo {
	return &fakeCandidateRepo{stored: make(map[string]*models.Candidate)}
}

func (f *fakeCandidateRepo) GetByID(ctx context.Context, id string) (*models.Candidate, error) {
	c, ok := f.stored[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return c, nil
}

func (f *fakeCandidateRepo) List(ctx context.Context, limit int) ([]models.Candidate, error) {
	out := make([]models.Candidate, 0, len(f.stored))
	for _, c := range f.stored {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCandidateRepo) ListByArchetype(ctx context.Context, archetype pgvector.Vector, limit int) ([]models.Candidate, error) {
	f.lastVector = &archetype
	return f.List(ctx, limit)
}

func (f *fakeCandidateRepo) Upsert(ctx context.Context, c *models.Candidate) error {
	f.stored[c.ID] = c
	return nil
}

type scriptedLLM struct {
	response string
	err      error
}

func (s *scriptedLLM) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	return s.response, s.err
}

func (s *scriptedLLM) Close() error { return nil }

func TestCandidateService_ImportEstimatesArchetype(t *testing.T) {
	repo := newFakeCandidateRepo()
	provider := &scriptedLLM{response: `{"dominance": 0.8, "explicitness": 0.3}`}
	svc := NewCandidateService(repo, catalog.Default(), provider, nil, nil)

	c, err := svc.Import(context.Background(), CandidateImport{
		DisplayName: "Aria",
		Bio:         "night owl",
		Traits:      []string{"bold"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, c.ID)
	assert.Equal(t, 1, c.Level)

	vec := c.Archetype.Slice()
	require.Len(t, vec, 2)
	assert.InDelta(t, 0.8, float64(vec[0]), 0.001)
	assert.InDelta(t, 0.3, float64(vec[1]), 0.001)
}

func TestCandidateService_ImportFallsBackToNeutral(t *testing.T) {
	cases := []struct {
		name     string
		provider llm.Provider
	}{
		{"provider error", &scriptedLLM{err: errors.New("gateway down")}},
		{"not configured", llm.Unconfigured{}},
		{"garbage output", &scriptedLLM{response: "they seem pretty dominant to me"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeCandidateRepo()
			svc := NewCandidateService(repo, catalog.Default(), tc.provider, nil, nil)

			c, err := svc.Import(context.Background(), CandidateImport{DisplayName: "Aria"})
			require.NoError(t, err)

			vec := c.Archetype.Slice()
			require.Len(t, vec, 2)
			assert.InDelta(t, 0.5, float64(vec[0]), 0.001)
			assert.InDelta(t, 0.5, float64(vec[1]), 0.001)
		})
	}
}

func TestCandidateService_ImportClampsEstimates(t *testing.T) {
	repo := newFakeCandidateRepo()
	provider := &scriptedLLM{response: `{"dominance": 1.7, "explicitness": -0.2}`}
	svc := NewCandidateService(repo, catalog.Default(), provider, nil, nil)

	c, err := svc.Import(context.Background(), CandidateImport{DisplayName: "Aria"})
	require.NoError(t, err)

	vec := c.Archetype.Slice()
	assert.InDelta(t, 1.0, float64(vec[0]), 0.001)
	assert.InDelta(t, 0.0, float64(vec[1]), 0.001)
}

func TestCandidateService_ImportRequiresName(t *testing.T) {
	svc := NewCandidateService(newFakeCandidateRepo(), catalog.Default(), llm.Unconfigured{}, nil, nil)

	_, err := svc.Import(context.Background(), CandidateImport{DisplayName: "  "})
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestCandidateService_BrowseRanksByCategoryArchetype(t *testing.T) {
	repo := newFakeCandidateRepo()
	repo.stored["c1"] = &models.Candidate{ID: "c1", DisplayName: "Aria"}
	svc := NewCandidateService(repo, catalog.Default(), llm.Unconfigured{}, nil, nil)

	items, err := svc.Browse(context.Background(), "Soft Angel", 10)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	// Ranked path: the repo received the category's archetype point.
	require.NotNil(t, repo.lastVector)
	cat, ok := catalog.Default().ByName("Soft Angel")
	require.True(t, ok)
	vec := repo.lastVector.Slice()
	assert.InDelta(t, cat.Archetype.Dominance, float64(vec[0]), 0.001)
	assert.InDelta(t, cat.Archetype.Explicitness, float64(vec[1]), 0.001)
}

func TestCandidateService_BrowseUnrankedWithoutCategory(t *testing.T) {
	repo := newFakeCandidateRepo()
	repo.stored["c1"] = &models.Candidate{ID: "c1", DisplayName: "Aria"}
	svc := NewCandidateService(repo, catalog.Default(), llm.Unconfigured{}, nil, nil)

	items, err := svc.Browse(context.Background(), "", 10)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Nil(t, repo.lastVector)
}
