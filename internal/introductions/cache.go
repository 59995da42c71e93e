// Package introductions generates, caches, and speaks personality-matched
// host introductions. Entries are content-addressed by candidate and
// personality category, so one generated introduction serves every user who
// lands on the same pairing.
package introductions

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kindredlabs/matchmaker/internal/cache"
)

// RetentionTTL bounds how long a cached introduction lives. Candidate bios
// change rarely; a week keeps entries fresh without hammering the gateways.
const RetentionTTL = 7 * 24 * time.Hour

// Entry is one cached introduction. Audio may be empty when synthesis was
// disabled at generation time; Text is always present.
type Entry struct {
	CandidateID   string    `json:"candidate_id"`
	PersonalityID string    `json:"personality_id"`
	Text          string    `json:"text"`
	Audio         []byte    `json:"audio,omitempty"`
	AudioURL      string    `json:"audio_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	SizeBytes     int       `json:"size_bytes"`
}

// Cache stores introductions keyed by (candidate, personality). Reads fail
// open: any backend error is logged and reported as a miss so callers fall
// through to regeneration. Writes are best effort.
type Cache struct {
	store cache.Cache
	log   *logrus.Entry
}

func NewCache(store cache.Cache, log *logrus.Entry) *Cache {
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	return &Cache{store: store, log: log}
}

func Key(candidateID, personalityID string) string {
	return "intro:" + candidateID + ":" + personalityID
}

// Get returns the cached entry, or nil on miss or backend failure.
func (c *Cache) Get(ctx context.Context, candidateID, personalityID string) *Entry {
	var e Entry
	hit, err := c.store.GetJSON(ctx, Key(candidateID, personalityID), &e)
	if err != nil {
		c.log.WithError(err).WithFields(logrus.Fields{
			"candidate_id":   candidateID,
			"personality_id": personalityID,
		}).Warn("introduction cache read failed")
		return nil
	}
	if !hit {
		return nil
	}
	return &e
}

// Put stores the entry with the retention TTL. Failures are logged only; a
// lost write costs one regeneration later.
func (c *Cache) Put(ctx context.Context, e *Entry) {
	if err := c.store.SetJSON(ctx, Key(e.CandidateID, e.PersonalityID), e, RetentionTTL); err != nil {
		c.log.WithError(err).WithFields(logrus.Fields{
			"candidate_id":   e.CandidateID,
			"personality_id": e.PersonalityID,
		}).Warn("introduction cache write failed")
	}
}

// Invalidate drops the entry for a pairing, forcing regeneration next time.
func (c *Cache) Invalidate(ctx context.Context, candidateID, personalityID string) error {
	return c.store.Del(ctx, Key(candidateID, personalityID))
}
