package introductions

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindredlabs/matchmaker/internal/catalog"
	"github.com/kindredlabs/matchmaker/internal/models"
	"github.com/kindredlabs/matchmaker/internal/providers/llm"
	"github.com/kindredlabs/matchmaker/internal/providers/tts"
)

type memCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	setErr error
	getErr error
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (m *memCache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return false, m.getErr
	}
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (m *memCache) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	m.data[key] = b
	return nil
}

func (m *memCache) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

type countingLLM struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingLLM) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return "Meet Aria, she is wonderful.", nil
}

func (c *countingLLM) Close() error { return nil }

func (c *countingLLM) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type fakeTTS struct {
	audio []byte
	err   error
}

func (f *fakeTTS) Synthesize(ctx context.Context, text string, voice tts.VoiceConfig) ([]byte, error) {
	return f.audio, f.err
}

func (f *fakeTTS) Close() error { return nil }

type recordingPlayer struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingPlayer) Play(ctx context.Context, audio []byte, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "play")
	return nil
}

func (r *recordingPlayer) Stop(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "stop")
}

func testCandidate() *models.Candidate {
	return &models.Candidate{
		ID:          "cand-1",
		DisplayName: "Aria",
		Bio:         "Loves late night gaming sessions.",
		Level:       3,
		Traits:      pq.StringArray{"playful", "warm"},
	}
}

func newTestSpeaker(store *memCache, provider llm.Provider, synth tts.Provider) *Speaker {
	gen := NewGenerator(provider, catalog.Default(), nil)
	return NewSpeaker(NewCache(store, nil), gen, synth, nil)
}

func TestSpeaker_GenerateCachesEntry(t *testing.T) {
	ctx := context.Background()
	store := newMemCache()
	provider := &countingLLM{}
	s := newTestSpeaker(store, provider, &fakeTTS{audio: []byte("mp3")})

	first, err := s.Generate(ctx, testCandidate(), "soft_angel")
	require.NoError(t, err)
	assert.Equal(t, "cand-1", first.CandidateID)
	assert.Equal(t, "soft_angel", first.PersonalityID)
	assert.NotEmpty(t, first.Text)
	assert.Equal(t, []byte("mp3"), first.Audio)
	assert.Equal(t, 1, provider.count())

	second, err := s.Generate(ctx, testCandidate(), "soft_angel")
	require.NoError(t, err)
	assert.Equal(t, first.Text, second.Text)

	// The second call is a cache hit; the gateway is not consulted again.
	assert.Equal(t, 1, provider.count())
}

func TestSpeaker_ConcurrentGenerateSingleFlight(t *testing.T) {
	ctx := context.Background()
	store := newMemCache()
	provider := &countingLLM{}
	s := newTestSpeaker(store, provider, tts.Disabled{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Generate(ctx, testCandidate(), "soft_angel")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, provider.count())
}

func TestSpeaker_DistinctPersonalitiesGetDistinctEntries(t *testing.T) {
	ctx := context.Background()
	store := newMemCache()
	provider := &countingLLM{}
	s := newTestSpeaker(store, provider, tts.Disabled{})

	_, err := s.Generate(ctx, testCandidate(), "soft_angel")
	require.NoError(t, err)
	_, err = s.Generate(ctx, testCandidate(), "velvet_domme")
	require.NoError(t, err)

	assert.Equal(t, 2, provider.count())
}

func TestSpeaker_NoAudioIsValid(t *testing.T) {
	ctx := context.Background()
	s := newTestSpeaker(newMemCache(), &countingLLM{}, tts.Disabled{})

	entry, err := s.Generate(ctx, testCandidate(), "soft_angel")
	require.NoError(t, err)
	assert.Nil(t, entry.Audio)
	assert.NotEmpty(t, entry.Text)
}

func TestSpeaker_SynthesisFailureKeepsText(t *testing.T) {
	ctx := context.Background()
	s := newTestSpeaker(newMemCache(), &countingLLM{}, &fakeTTS{err: errors.New("synthesis unavailable")})

	entry, err := s.Generate(ctx, testCandidate(), "soft_angel")
	require.NoError(t, err)
	assert.Nil(t, entry.Audio)
	assert.NotEmpty(t, entry.Text)
}

func TestSpeaker_CacheWriteFailureStillReturnsEntry(t *testing.T) {
	ctx := context.Background()
	store := newMemCache()
	store.setErr = errors.New("redis down")
	provider := &countingLLM{}
	s := newTestSpeaker(store, provider, tts.Disabled{})

	entry, err := s.Generate(ctx, testCandidate(), "soft_angel")
	require.NoError(t, err)
	assert.NotEmpty(t, entry.Text)

	// Nothing was cached, so the next call regenerates.
	_, err = s.Generate(ctx, testCandidate(), "soft_angel")
	require.NoError(t, err)
	assert.Equal(t, 2, provider.count())
}

func TestSpeaker_CacheReadFailureFallsThrough(t *testing.T) {
	ctx := context.Background()
	store := newMemCache()
	store.getErr = errors.New("redis down")
	provider := &countingLLM{}
	s := newTestSpeaker(store, provider, tts.Disabled{})

	entry, err := s.Generate(ctx, testCandidate(), "soft_angel")
	require.NoError(t, err)
	assert.NotEmpty(t, entry.Text)
	assert.Equal(t, 1, provider.count())
}

func TestSpeaker_NotConfiguredPropagates(t *testing.T) {
	ctx := context.Background()
	s := newTestSpeaker(newMemCache(), llm.Unconfigured{}, tts.Disabled{})

	_, err := s.Generate(ctx, testCandidate(), "soft_angel")
	assert.ErrorIs(t, err, llm.ErrNotConfigured)
}

func TestSpeaker_GenerationFailureUsesFallback(t *testing.T) {
	ctx := context.Background()
	provider := &countingLLM{err: errors.New("gateway timeout")}
	s := newTestSpeaker(newMemCache(), provider, tts.Disabled{})

	entry, err := s.Generate(ctx, testCandidate(), "soft_angel")
	require.NoError(t, err)
	assert.Equal(t, Fallback(testCandidate()), entry.Text)
	assert.Contains(t, entry.Text, "Aria")
	assert.Contains(t, entry.Text, "level 3")
}

func TestSpeaker_SpeakStopsBeforePlaying(t *testing.T) {
	ctx := context.Background()
	s := newTestSpeaker(newMemCache(), &countingLLM{}, tts.Disabled{})
	player := &recordingPlayer{}

	_, err := s.Speak(ctx, testCandidate(), "soft_angel", player)
	require.NoError(t, err)
	assert.Equal(t, []string{"stop", "play"}, player.events)
}

func TestCache_KeyFormat(t *testing.T) {
	assert.Equal(t, "intro:c1:p1", Key("c1", "p1"))
}

func TestCache_InvalidateForcesRegeneration(t *testing.T) {
	ctx := context.Background()
	store := newMemCache()
	provider := &countingLLM{}
	s := newTestSpeaker(store, provider, tts.Disabled{})

	_, err := s.Generate(ctx, testCandidate(), "soft_angel")
	require.NoError(t, err)
	require.NoError(t, s.cache.Invalidate(ctx, "cand-1", "soft_angel"))

	_, err = s.Generate(ctx, testCandidate(), "soft_angel")
	require.NoError(t, err)
	assert.Equal(t, 2, provider.count())
}
