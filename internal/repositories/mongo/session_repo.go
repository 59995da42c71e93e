package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/kindredlabs/matchmaker/internal/models"
	"github.com/kindredlabs/matchmaker/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SessionRepository is the persistence port for matchmaking sessions. One
// record per user id; writes replace the whole record (last write wins).
type SessionRepository interface {
	Get(ctx context.Context, userID string) (*models.MatchSession, error)
	Put(ctx context.Context, userID string, s *models.MatchSession) error
	Delete(ctx context.Context, userID string) error
}

type sessionRepo struct {
	col *mongo.Collection
}

func NewSessionRepo(db *mongo.Database) SessionRepository {
	return &sessionRepo{col: db.Collection("match_sessions")}
}

func (r *sessionRepo) Get(ctx context.Context, userID string) (*models.MatchSession, error) {
	var s models.MatchSession
	err := r.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) Put(ctx context.Context, userID string, s *models.MatchSession) error {
	s.UserID = userID
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	s.UpdatedAt = time.Now().UTC()

	doc := bson.M{
		"user_id":              s.UserID,
		"session_id":           s.SessionID,
		"status":               s.Status,
		"step":                 s.Step,
		"kokology_questions":   s.KokologyQuestions,
		"personality_summary":  s.PersonalitySummary,
		"personality_category": s.PersonalityCategory,
		"gender":               s.Gender,
		"missing_fields":       s.MissingFields,
		"created_at":           s.CreatedAt,
		"updated_at":           s.UpdatedAt,
	}

	_, err := r.col.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": doc},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *sessionRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"user_id": userID})
	return err
}
