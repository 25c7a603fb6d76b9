package piper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/etiennelac/voxhost/core/audio"
	"github.com/etiennelac/voxhost/core/texttospeech"
)

// Client synthesizes speech by shelling out to a local piper binary, for
// fully offline operation. Piper emits raw 16-bit mono PCM on stdout.
type Client struct {
	binary     string
	model      string
	sampleRate int
}

func NewClient(binary, model string, sampleRate int) *Client {
	if binary == "" {
		binary = "piper"
	}
	if sampleRate == 0 {
		sampleRate = 22050
	}
	return &Client{binary: binary, model: model, sampleRate: sampleRate}
}

func (c *Client) Synthesize(ctx context.Context, text string) (*texttospeech.Audio, error) {
	cmd := exec.CommandContext(ctx, c.binary, "--model", c.model, "--output-raw")
	cmd.Stdin = strings.NewReader(text)

	out := bytes.Buffer{}
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to run piper: %w", err)
	}

	return &texttospeech.Audio{
		Reader: io.NopCloser(&out),
		EncodingInfo: audio.EncodingInfo{
			SampleRate: c.sampleRate,
			Format:     audio.EncodingLinear16,
		},
	}, nil
}

func (c *Client) Voice() texttospeech.Voice {
	return texttospeech.Voice{ID: c.model, Name: "Piper"}
}
