package portaudio

import (
	"context"
	"fmt"

	"github.com/gordonklaus/portaudio"

	"github.com/etiennelac/voxhost/core/audio"
)

// Client captures microphone frames through PortAudio. It is the fallback
// frame source for hosts where the miniaudio backend cannot open the capture
// device.
type Client struct {
	stream *portaudio.Stream
	in     []int16
}

type clientOptions struct {
	inputDevice int
}

type ClientOption func(*clientOptions)

// WithInputDevice selects the input device by its enumeration index, as
// persisted by calibration. A negative index keeps the system default.
func WithInputDevice(index int) ClientOption {
	return func(o *clientOptions) { o.inputDevice = index }
}

// inputDeviceAt picks the enumerated device at index and verifies it can
// capture.
func inputDeviceAt(devices []*portaudio.DeviceInfo, index int) (*portaudio.DeviceInfo, error) {
	if index >= len(devices) {
		return nil, fmt.Errorf("input device index %d out of range, %d devices available", index, len(devices))
	}
	device := devices[index]
	if device.MaxInputChannels < 1 {
		return nil, fmt.Errorf("device %q has no input channels", device.Name)
	}
	return device, nil
}

func NewClient(frameLength int, opts ...ClientOption) (*Client, error) {
	options := clientOptions{inputDevice: -1}
	for _, opt := range opts {
		opt(&options)
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	in := make([]int16, frameLength)
	stream, err := openStream(options.inputDevice, frameLength, in)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open capture stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to start capture stream: %w", err)
	}

	return &Client{stream: stream, in: in}, nil
}

func openStream(deviceIndex, frameLength int, in []int16) (*portaudio.Stream, error) {
	if deviceIndex < 0 {
		return portaudio.OpenDefaultStream(1, 0, float64(audio.DefaultSampleRate), frameLength, in)
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}
	device, err := inputDeviceAt(devices, deviceIndex)
	if err != nil {
		return nil, err
	}

	params := portaudio.LowLatencyParameters(device, nil)
	params.Input.Channels = 1
	params.SampleRate = float64(audio.DefaultSampleRate)
	params.FramesPerBuffer = frameLength
	return portaudio.OpenStream(params, in)
}

// ReadFrame blocks on the device until a full frame has been captured.
func (c *Client) ReadFrame(ctx context.Context) ([]int16, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := c.stream.Read(); err != nil {
		return nil, fmt.Errorf("failed to read capture stream: %w", err)
	}

	frame := make([]int16, len(c.in))
	copy(frame, c.in)
	return frame, nil
}

func (c *Client) Close() {
	c.stream.Stop()
	c.stream.Close()
	portaudio.Terminate()
}
