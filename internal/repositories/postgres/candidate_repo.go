package postgres

import (
	"context"
	"errors"

	"github.com/kindredlabs/matchmaker/internal/models"
	"github.com/kindredlabs/matchmaker/internal/utils"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CandidateRepository interface {
	GetByID(ctx context.Context, id string) (*models.Candidate, error)
	List(ctx context.Context, limit int) ([]models.Candidate, error)
	// ListByArchetype orders candidates by distance between their estimated
	// archetype vector and the given (dominance, explicitness) point.
	ListByArchetype(ctx context.Context, archetype pgvector.Vector, limit int) ([]models.Candidate, error)
	Upsert(ctx context.Context, c *models.Candidate) error
}

type candidateRepo struct {
	db *gorm.DB
}

func NewCandidateRepo(db *gorm.DB) CandidateRepository {
	return &candidateRepo{db: db}
}

func (r *candidateRepo) GetByID(ctx context.Context, id string) (*models.Candidate, error) {
	var c models.Candidate
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *candidateRepo) List(ctx context.Context, limit int) ([]models.Candidate, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []models.Candidate
	err := r.db.WithContext(ctx).
		Order("display_name asc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *candidateRepo) ListByArchetype(ctx context.Context, archetype pgvector.Vector, limit int) ([]models.Candidate, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []models.Candidate
	err := r.db.WithContext(ctx).
		Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "archetype <-> ?", Vars: []interface{}{archetype}},
		}).
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *candidateRepo) Upsert(ctx context.Context, c *models.Candidate) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "bio", "gender", "level", "traits", "attributes", "archetype", "updated_at"}),
		}).
		Create(c).Error
}
