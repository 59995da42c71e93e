package introductions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kindredlabs/matchmaker/internal/models"
	"github.com/kindredlabs/matchmaker/internal/providers/tts"
	"github.com/kindredlabs/matchmaker/internal/storage"
)

// Speaker ties generation, synthesis, caching, and playback together. A
// mutex serializes Generate so concurrent requests for the same pairing
// produce one gateway call; the loser of the race reads the winner's cache
// entry.
type Speaker struct {
	mu        sync.Mutex
	cache     *Cache
	generator *Generator
	tts       tts.Provider
	voice     tts.VoiceConfig
	uploader  storage.Uploader
	log       *logrus.Entry
}

type SpeakerOption func(*Speaker)

// WithUploader stores synthesized audio in object storage and records the
// public URL on the cache entry.
func WithUploader(u storage.Uploader) SpeakerOption {
	return func(s *Speaker) { s.uploader = u }
}

func WithVoice(v tts.VoiceConfig) SpeakerOption {
	return func(s *Speaker) { s.voice = v }
}

func NewSpeaker(cache *Cache, gen *Generator, synth tts.Provider, log *logrus.Entry, opts ...SpeakerOption) *Speaker {
	if synth == nil {
		synth = tts.Disabled{}
	}
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	s := &Speaker{cache: cache, generator: gen, tts: synth, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate returns the introduction for a pairing, producing and caching it
// on a miss. Synthesis returning no audio is a valid silent entry. Cache
// write failures do not fail the call.
func (s *Speaker) Generate(ctx context.Context, cand *models.Candidate, personalityID string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidateID := cand.ID
	if e := s.cache.Get(ctx, candidateID, personalityID); e != nil {
		s.log.WithFields(logrus.Fields{
			"candidate_id":   candidateID,
			"personality_id": personalityID,
		}).Debug("introduction cache hit")
		return e, nil
	}

	text, err := s.generator.Generate(ctx, cand, personalityID)
	if err != nil {
		return nil, err
	}

	audio, err := s.tts.Synthesize(ctx, text, s.voice)
	if err != nil {
		// Text still works without a voice.
		s.log.WithError(err).WithField("candidate_id", candidateID).Warn("introduction synthesis failed")
		audio = nil
	}

	entry := &Entry{
		CandidateID:   candidateID,
		PersonalityID: personalityID,
		Text:          text,
		Audio:         audio,
		CreatedAt:     time.Now().UTC(),
		SizeBytes:     len(text) + len(audio),
	}

	if s.uploader != nil && len(audio) > 0 {
		name := fmt.Sprintf("introductions/%s/%s.mp3", candidateID, personalityID)
		url, err := s.uploader.Upload(ctx, name, audio, "audio/mpeg")
		if err != nil {
			s.log.WithError(err).WithField("object", name).Warn("introduction audio upload failed")
		} else {
			entry.AudioURL = url
		}
	}

	s.cache.Put(ctx, entry)
	return entry, nil
}

// Speak generates (or fetches) the introduction and plays it, stopping any
// introduction already playing for this user first.
func (s *Speaker) Speak(ctx context.Context, cand *models.Candidate, personalityID string, player Player) (*Entry, error) {
	entry, err := s.Generate(ctx, cand, personalityID)
	if err != nil {
		return nil, err
	}

	player.Stop(ctx)
	if err := player.Play(ctx, entry.Audio, entry.Text); err != nil {
		s.log.WithError(err).WithField("candidate_id", entry.CandidateID).Warn("introduction playback failed")
	}
	return entry, nil
}
