package stt

import "context"

// Provider transcribes a spoken kokology answer before it is routed through
// the orchestrator.
type Provider interface {
	Transcribe(ctx context.Context, audio []byte, language string) (text string, confidence float64, err error)
	Close() error
}
