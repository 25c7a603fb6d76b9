package deepgram

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/rest"
	"github.com/deepgram/deepgram-go-sdk/pkg/client/interfaces"
	listen "github.com/deepgram/deepgram-go-sdk/pkg/client/listen"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/etiennelac/voxhost/core/audio"
	"github.com/etiennelac/voxhost/core/speechtotext"
)

// Client transcribes recorded utterances through Deepgram's prerecorded API.
// Bias terms are passed as keywords.
type Client struct {
	api *api.Client

	model    string
	language string
}

func NewClient(apiKey string) *Client {
	rest := listen.NewREST(apiKey, &interfaces.ClientOptions{})
	return &Client{
		api:      api.New(rest),
		model:    "nova-2",
		language: "en",
	}
}

func (c *Client) Transcribe(ctx context.Context, frames [][]int16, opts ...speechtotext.TranscriptionOption) (string, error) {
	options := speechtotext.ApplyOptions(opts...)

	ctx, span := tracer.Start(ctx, "deepgram transcription")
	defer span.End()
	span.SetAttributes(attribute.Int("audio.frames", len(frames)))

	wav := audio.EncodeWAV(frames, options.EncodingInfo.SampleRate)
	response, err := c.api.FromStream(ctx, bytes.NewReader(wav), &interfaces.PreRecordedTranscriptionOptions{
		Model:       c.model,
		Language:    c.language,
		SmartFormat: true,
		Keywords:    options.BiasTerms,
	})
	if err != nil {
		err = fmt.Errorf("failed to transcribe utterance: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	if response.Results == nil ||
		len(response.Results.Channels) == 0 ||
		len(response.Results.Channels[0].Alternatives) == 0 {
		return "", nil
	}
	return strings.TrimSpace(response.Results.Channels[0].Alternatives[0].Transcript), nil
}
