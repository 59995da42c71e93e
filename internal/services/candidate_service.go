package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/kindredlabs/matchmaker/internal/catalog"
	"github.com/kindredlabs/matchmaker/internal/introductions"
	"github.com/kindredlabs/matchmaker/internal/models"
	"github.com/kindredlabs/matchmaker/internal/providers/llm"
	pgrepo "github.com/kindredlabs/matchmaker/internal/repositories/postgres"
	"github.com/kindredlabs/matchmaker/internal/utils"
)

// CandidateImport is the admin payload for adding or updating a host.
type CandidateImport struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Bio         string         `json:"bio"`
	Gender      string         `json:"gender"`
	Level       int            `json:"level"`
	Traits      []string       `json:"traits"`
	Attributes  map[string]any `json:"attributes"`
}

// BrowseItem is a candidate paired with its introduction, when one is
// already cached.
type BrowseItem struct {
	Candidate    models.Candidate     `json:"candidate"`
	Introduction *introductions.Entry `json:"introduction,omitempty"`
}

type CandidateService interface {
	Import(ctx context.Context, in CandidateImport) (*models.Candidate, error)
	Get(ctx context.Context, id string) (*models.Candidate, error)
	// Browse ranks candidates by closeness to the user's personality
	// archetype. An unknown or empty category falls back to insertion order.
	Browse(ctx context.Context, personalityCategory string, limit int) ([]BrowseItem, error)
}

type candidateService struct {
	candidates pgrepo.CandidateRepository
	catalog    *catalog.Catalog
	llm        llm.Provider
	intros     *introductions.Cache
	log        *logrus.Entry
}

func NewCandidateService(candidates pgrepo.CandidateRepository, cat *catalog.Catalog, provider llm.Provider, intros *introductions.Cache, log *logrus.Entry) CandidateService {
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	return &candidateService{
		candidates: candidates,
		catalog:    cat,
		llm:        provider,
		intros:     intros,
		log:        log,
	}
}

func (s *candidateService) Import(ctx context.Context, in CandidateImport) (*models.Candidate, error) {
	const op = "CandidateService.Import"

	if strings.TrimSpace(in.DisplayName) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "display_name is required", nil)
	}
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.Level <= 0 {
		in.Level = 1
	}

	dominance, explicitness := s.estimateArchetype(ctx, in)

	var attrs datatypes.JSON
	if in.Attributes != nil {
		b, err := json.Marshal(in.Attributes)
		if err != nil {
			return nil, utils.E(utils.CodeInvalidArgument, op, "attributes must be JSON-encodable", err)
		}
		attrs = datatypes.JSON(b)
	}

	c := &models.Candidate{
		ID:          in.ID,
		DisplayName: strings.TrimSpace(in.DisplayName),
		Bio:         in.Bio,
		Gender:      in.Gender,
		Level:       in.Level,
		Traits:      pq.StringArray(in.Traits),
		Attributes:  attrs,
		Archetype:   pgvector.NewVector([]float32{dominance, explicitness}),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := s.candidates.Upsert(ctx, c); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store candidate", err)
	}
	return c, nil
}

func (s *candidateService) Get(ctx context.Context, id string) (*models.Candidate, error) {
	const op = "CandidateService.Get"

	c, err := s.candidates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "candidate not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load candidate", err)
	}
	return c, nil
}

func (s *candidateService) Browse(ctx context.Context, personalityCategory string, limit int) ([]BrowseItem, error) {
	const op = "CandidateService.Browse"

	var (
		list []models.Candidate
		err  error
	)

	cat, ok := s.catalog.ByName(personalityCategory)
	if !ok && personalityCategory != "" {
		cat, ok = s.catalog.ByID(personalityCategory)
	}
	if ok {
		point := pgvector.NewVector([]float32{float32(cat.Archetype.Dominance), float32(cat.Archetype.Explicitness)})
		list, err = s.candidates.ListByArchetype(ctx, point, limit)
	} else {
		list, err = s.candidates.List(ctx, limit)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list candidates", err)
	}

	items := make([]BrowseItem, 0, len(list))
	for _, c := range list {
		item := BrowseItem{Candidate: c}
		if ok && s.intros != nil {
			item.Introduction = s.intros.Get(ctx, c.ID, cat.ID)
		}
		items = append(items, item)
	}
	return items, nil
}

const archetypePromptFormat = `Estimate where this host sits on two axes, each from 0.0 to 1.0:
- dominance: 0.0 fully submissive energy, 1.0 fully dominant energy
- explicitness: 0.0 wholesome and innocent, 1.0 overtly provocative

Host: %s
Bio: %s
Traits: %s

Respond with only a JSON object: {"dominance": <number>, "explicitness": <number>}`

// estimateArchetype asks the model to place the candidate on the
// dominance/explicitness plane. Any failure falls back to the neutral
// midpoint rather than blocking the import.
func (s *candidateService) estimateArchetype(ctx context.Context, in CandidateImport) (float32, float32) {
	const neutral = 0.5

	if s.llm == nil {
		return neutral, neutral
	}

	prompt := fmt.Sprintf(archetypePromptFormat, in.DisplayName, in.Bio, strings.Join(in.Traits, ", "))
	out, err := s.llm.Complete(ctx, []llm.Message{{Role: "user", Content: prompt}})
	if err != nil {
		if !errors.Is(err, llm.ErrNotConfigured) {
			s.log.WithError(err).WithField("candidate", in.DisplayName).Warn("archetype estimation failed, using neutral")
		}
		return neutral, neutral
	}

	var est struct {
		Dominance    float64 `json:"dominance"`
		Explicitness float64 `json:"explicitness"`
	}
	start := strings.Index(out, "{")
	end := strings.LastIndex(out, "}")
	if start < 0 || end <= start {
		return neutral, neutral
	}
	if err := json.Unmarshal([]byte(out[start:end+1]), &est); err != nil {
		s.log.WithError(err).Warn("archetype estimation returned invalid JSON, using neutral")
		return neutral, neutral
	}

	clamp := func(v float64) float32 {
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 1
		}
		return float32(v)
	}
	return clamp(est.Dominance), clamp(est.Explicitness)
}
