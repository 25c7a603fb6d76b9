package elevenlabs

import (
	"context"
	"fmt"
	"io"
	"time"

	el "github.com/haguro/elevenlabs-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/etiennelac/voxhost/core/texttospeech"
)

// Client synthesizes expressive speech through the ElevenLabs streaming API.
// Output is MP3 and must be decoded before reaching a PCM sink.
type Client struct {
	api     *el.Client
	voiceID string
	modelID string

	settings el.VoiceSettings
	voice    texttospeech.Voice
}

// NewClient resolves the voice's labels (accent, age, gender) up front so
// they can be injected into the dialogue prompt.
func NewClient(ctx context.Context, apiKey, voiceID string) (*Client, error) {
	api := el.NewClient(ctx, apiKey, 30*time.Second)

	client := Client{
		api:     api,
		voiceID: voiceID,
		modelID: "eleven_multilingual_v2",
		settings: el.VoiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
		},
	}

	voice, err := api.GetVoice(voiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch voice %s: %w", voiceID, err)
	}
	client.voice = texttospeech.Voice{
		ID:     voiceID,
		Name:   voice.Name,
		Accent: voice.Labels["accent"],
		Age:    voice.Labels["age"],
		Gender: voice.Labels["gender"],
	}

	return &client, nil
}

func (c *Client) Synthesize(ctx context.Context, text string) (*texttospeech.Audio, error) {
	_, span := tracer.Start(ctx, "elevenlabs synthesis")
	span.SetAttributes(attribute.Int("text.length", len(text)))

	pr, pw := io.Pipe()
	go func() {
		defer span.End()
		err := c.api.TextToSpeechStream(pw, c.voiceID, el.TextToSpeechRequest{
			Text:          texttospeech.SpellOutNumbers(text),
			ModelID:       c.modelID,
			VoiceSettings: &c.settings,
		})
		if err != nil {
			err = fmt.Errorf("failed to stream speech: %w", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		pw.CloseWithError(err)
	}()

	return &texttospeech.Audio{Reader: pr, Compressed: true}, nil
}

func (c *Client) Voice() texttospeech.Voice {
	return c.voice
}
