package miniaudio

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gen2brain/malgo"

	"github.com/etiennelac/voxhost/core/audio"
	"github.com/etiennelac/voxhost/core/audio/mp3"
	"github.com/etiennelac/voxhost/core/texttospeech"
)

// Client exposes a capture device as a frame source and the default playback
// device as an audio sink, both through miniaudio.
type Client struct {
	// audioContext is only saved to be able to uninitialize it, it is an
	// ownership thing
	audioContext *malgo.AllocatedContext
	playbackClient
	captureClient
}

type clientOptions struct {
	captureDevice int
}

type ClientOption func(*clientOptions)

// WithCaptureDevice selects the capture device by its enumeration index, as
// persisted by calibration. A negative index keeps the system default.
func WithCaptureDevice(index int) ClientOption {
	return func(o *clientOptions) { o.captureDevice = index }
}

func NewClient(opts ...ClientOption) (*Client, error) {
	options := clientOptions{captureDevice: -1}
	for _, opt := range opts {
		opt(&options)
	}

	audioCtx, err := malgo.InitContext(
		nil,
		malgo.ContextConfig{},
		func(message string) {},
	)
	if err != nil {
		return nil, fmt.Errorf("malgo InitContext failed: %w", err)
	}

	client := Client{
		audioContext: audioCtx,
	}

	if err := client.captureClient.Init(audioCtx, audio.DefaultFrameLength, options.captureDevice); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize capture client: %w", err)
	}

	client.playbackClient.Init(audioCtx)

	return &client, nil
}

// ReadFrame blocks until the capture device delivers the next full frame.
func (c *Client) ReadFrame(ctx context.Context) ([]int16, error) {
	return c.captureClient.ReadFrame(ctx)
}

func (c *Client) StartCapture() error {
	return c.captureClient.Start()
}

func (c *Client) StopCapture() error {
	return c.captureClient.Stop()
}

// Play renders synthesized speech on the playback device and blocks until the
// audio has been played out or the context expires.
func (c *Client) Play(ctx context.Context, speech *texttospeech.Audio) error {
	encoding := speech.EncodingInfo
	reader := io.Reader(speech.Reader)

	if speech.Compressed {
		pcm, sampleRate, err := mp3.DecodeMono(speech.Reader)
		if err != nil {
			return fmt.Errorf("failed to decode speech audio: %w", err)
		}
		return c.playbackClient.Play(ctx, sampleRate, pcm)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read speech audio: %w", err)
	}
	if encoding.IsZero() {
		encoding = audio.GetDefaultEncodingInfo()
	}
	return c.playbackClient.Play(ctx, encoding.SampleRate, audio.BytesToFrame(data))
}

// PlayFile plays a local MP3 clip (wake acknowledgments, wait fillers).
func (c *Client) PlayFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open sound file: %w", err)
	}
	defer f.Close()

	pcm, sampleRate, err := mp3.DecodeMono(f)
	if err != nil {
		return fmt.Errorf("failed to decode sound file: %w", err)
	}
	return c.playbackClient.Play(ctx, sampleRate, pcm)
}

func (c *Client) Close() {
	_ = c.captureClient.Uninit()
	_ = c.audioContext.Uninit()
	c.audioContext.Free()
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.GetDefaultEncodingInfo()
}
