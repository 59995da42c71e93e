package tts

import (
	"context"
	"errors"
	"sort"
)

// VoiceConfig selects a synthesis voice. Zero values fall back to provider
// defaults.
type VoiceConfig struct {
	LanguageCode string  `json:"language_code"`
	VoiceName    string  `json:"voice_name"`
	SpeakingRate float64 `json:"speaking_rate"`
}

// Provider synthesizes speech for introduction playback. A nil audio result
// with a nil error means audio is disabled; callers treat it as a valid
// silent outcome, not a failure.
type Provider interface {
	Synthesize(ctx context.Context, text string, voice VoiceConfig) ([]byte, error)
	Close() error
}

// Disabled is the no-audio provider used when voice mode is off.
type Disabled struct{}

func (Disabled) Synthesize(ctx context.Context, _ string, _ VoiceConfig) ([]byte, error) {
	return nil, nil
}

func (Disabled) Close() error { return nil }

var ErrUnknownProvider = errors.New("unknown tts provider")

type Factory func(ctx context.Context) (Provider, error)

// Registry maps config tags to provider factories, so the rest of the code
// only ever sees the Provider interface.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

func (r *Registry) New(ctx context.Context, name string) (Provider, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, ErrUnknownProvider
	}
	return f(ctx)
}

func (r *Registry) Available() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry carries the built-in providers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("none", func(ctx context.Context) (Provider, error) { return Disabled{}, nil })
	r.Register("google", func(ctx context.Context) (Provider, error) { return NewGoogleTTS(ctx) })
	return r
}
