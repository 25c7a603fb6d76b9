package speechtotext

import (
	"context"

	"github.com/etiennelac/voxhost/core/audio"
)

// Client turns a recorded utterance into text.
type Client interface {
	Transcribe(ctx context.Context, frames [][]int16, opts ...TranscriptionOption) (string, error)
}

type TranscriptionOptions struct {
	// BiasTerms are domain words the recognizer should prefer when the audio
	// is ambiguous (the bot's name, channel jargon).
	BiasTerms []string

	EncodingInfo audio.EncodingInfo
}

type TranscriptionOption func(*TranscriptionOptions)

func WithBiasTerms(terms ...string) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.BiasTerms = append(o.BiasTerms, terms...)
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.EncodingInfo = encodingInfo
	}
}

// ApplyOptions resolves options against the defaults.
func ApplyOptions(opts ...TranscriptionOption) TranscriptionOptions {
	options := TranscriptionOptions{EncodingInfo: audio.GetDefaultEncodingInfo()}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
