package matchmaking

import (
	"context"
	"encoding/json"

	"github.com/kindredlabs/matchmaker/internal/models"
	"github.com/redis/go-redis/v9"
)

// Publisher receives a notification after every persisted session
// transition. Presentation subscribes to these instead of polling storage.
type Publisher interface {
	SessionChanged(ctx context.Context, userID string, session *models.MatchSession, step string)
}

// NopPublisher drops all events.
type NopPublisher struct{}

func (NopPublisher) SessionChanged(context.Context, string, *models.MatchSession, string) {}

// EventsChannel is the pub/sub channel carrying a user's matchmaking events.
func EventsChannel(userID string) string {
	return "matchmaking:" + userID + ":events"
}

// RedisPublisher pushes state-change events onto the user's events channel.
// Publishing is best effort; a lost event only delays a UI refresh.
type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) SessionChanged(ctx context.Context, userID string, session *models.MatchSession, step string) {
	payload, err := json.Marshal(map[string]any{
		"type":       "session_state",
		"session_id": session.SessionID,
		"status":     session.Status,
		"step":       step,
		"questions":  len(session.KokologyQuestions),
	})
	if err != nil {
		return
	}
	_ = p.rdb.Publish(ctx, EventsChannel(userID), payload).Err()
}
