package whisper

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	gopenai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/etiennelac/voxhost/core/audio"
	"github.com/etiennelac/voxhost/core/speechtotext"
)

// Client transcribes recorded utterances through the Whisper API. Bias terms
// are passed as the transcription prompt, which nudges the recognizer toward
// channel-specific vocabulary.
type Client struct {
	api *gopenai.Client
}

func NewClient(apiKey string) *Client {
	return &Client{api: gopenai.NewClient(apiKey)}
}

func (c *Client) Transcribe(ctx context.Context, frames [][]int16, opts ...speechtotext.TranscriptionOption) (string, error) {
	options := speechtotext.ApplyOptions(opts...)

	ctx, span := tracer.Start(ctx, "whisper transcription")
	defer span.End()
	span.SetAttributes(attribute.Int("audio.frames", len(frames)))

	response, err := c.api.CreateTranscription(ctx, gopenai.AudioRequest{
		Model:    gopenai.Whisper1,
		FilePath: "utterance.wav",
		Reader:   bytes.NewReader(audio.EncodeWAV(frames, options.EncodingInfo.SampleRate)),
		Prompt:   strings.Join(options.BiasTerms, ", "),
	})
	if err != nil {
		err = fmt.Errorf("failed to transcribe utterance: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return strings.TrimSpace(response.Text), nil
}
