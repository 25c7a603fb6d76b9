package texttospeech

import (
	"context"
	"io"

	"github.com/etiennelac/voxhost/core/audio"
)

// Voice describes the synthesized persona. Accent, age and gender feed the
// dialogue prompt so the assistant can talk about how it sounds.
type Voice struct {
	ID     string
	Name   string
	Accent string
	Age    string
	Gender string
}

// Audio is a synthesized speech payload. The reader streams audio as the
// backend produces it.
type Audio struct {
	Reader       io.ReadCloser
	EncodingInfo audio.EncodingInfo
	// Compressed marks container formats (MP3) that need decoding before
	// they can reach a PCM sink.
	Compressed bool
}

// Client is a speech synthesis backend.
type Client interface {
	Synthesize(ctx context.Context, text string) (*Audio, error)
	Voice() Voice
}
