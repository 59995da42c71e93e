package workers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/kindredlabs/matchmaker/internal/introductions"
	"github.com/kindredlabs/matchmaker/internal/models"
	"github.com/kindredlabs/matchmaker/internal/providers/llm"
)

// CandidateGetter loads a candidate for warmup jobs.
type CandidateGetter interface {
	GetByID(ctx context.Context, id string) (*models.Candidate, error)
}

// IntroWorkerPool consumes warmup jobs from a redis stream and pre-generates
// introductions, so the first browse of a candidate plays from cache. Jobs
// carry candidate_id, personality_id, and optionally the user_id to notify.
type IntroWorkerPool struct {
	Redis      *redis.Client
	Speaker    *introductions.Speaker
	Candidates CandidateGetter
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
}

func (p *IntroWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Speaker == nil || p.Candidates == nil {
		return errors.New("IntroWorkerPool missing dependency: Redis/Speaker/Candidates must be set")
	}
	if p.Stream == "" {
		p.Stream = "intros:stream"
	}
	if p.Group == "" {
		p.Group = "intro-workers"
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 3
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

// Enqueue adds a warmup job to the stream.
func Enqueue(ctx context.Context, rdb *redis.Client, stream, candidateID, personalityID, userID string) error {
	if stream == "" {
		stream = "intros:stream"
	}
	return rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{
			"candidate_id":   candidateID,
			"personality_id": personalityID,
			"user_id":        userID,
		},
	}).Err()
}

func (p *IntroWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func (p *IntroWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	getStr := func(k string) string {
		v, ok := msg.Values[k]
		if !ok || v == nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}

	candidateID := getStr("candidate_id")
	personalityID := getStr("personality_id")
	if candidateID == "" || personalityID == "" {
		return
	}
	userID := getStr("user_id")

	log := p.Logger.WithFields(logrus.Fields{
		"redis_id":       msg.ID,
		"candidate_id":   candidateID,
		"personality_id": personalityID,
	})

	cand, err := p.Candidates.GetByID(ctx, candidateID)
	if err != nil {
		log.WithError(err).Warn("warmup candidate lookup failed")
		p.publishStatus(ctx, userID, candidateID, personalityID, "failed")
		return
	}

	p.publishStatus(ctx, userID, candidateID, personalityID, "processing")

	entry, err := p.Speaker.Generate(ctx, cand, personalityID)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			log.Debug("warmup skipped, llm not configured")
			return
		}
		log.WithError(err).Error("introduction warmup failed")
		p.publishStatus(ctx, userID, candidateID, personalityID, "failed")
		return
	}

	log.WithField("size_bytes", entry.SizeBytes).Debug("introduction warmed")
	p.publishStatus(ctx, userID, candidateID, personalityID, "done")
}

// publishStatus pushes warmup progress onto the user's event channel when a
// user is attached to the job.
func (p *IntroWorkerPool) publishStatus(ctx context.Context, userID, candidateID, personalityID, status string) {
	if userID == "" {
		return
	}
	payload, _ := json.Marshal(map[string]any{
		"type":           "intro_warmup",
		"candidate_id":   candidateID,
		"personality_id": personalityID,
		"status":         status,
	})
	ch := "matchmaking:" + userID + ":status"
	_ = p.Redis.Publish(ctx, ch, string(payload)).Err()
}
