package miniaudio

import (
	"context"
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/etiennelac/voxhost/core/audio"
)

type captureClient struct {
	audioContext *malgo.AllocatedContext
	device       *malgo.Device
	config       malgo.DeviceConfig

	// deviceID must outlive the device; the config only holds a pointer
	// into it.
	deviceID malgo.DeviceID

	frameLength int
	leftover    []int16
	frames      chan []int16

	mu sync.Mutex
}

// captureDeviceID picks the enumerated capture device at index. A negative
// index selects the system default.
func captureDeviceID(devices []malgo.DeviceInfo, index int) (malgo.DeviceID, error) {
	if index >= len(devices) {
		return malgo.DeviceID{}, fmt.Errorf("capture device index %d out of range, %d devices available", index, len(devices))
	}
	return devices[index].ID, nil
}

func (c *captureClient) Init(audioContext *malgo.AllocatedContext, frameLength, deviceIndex int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sampleRate := uint32(audio.DefaultSampleRate)
	channels := 1
	format := malgo.FormatS16
	bytesPerFrame := malgo.SampleSizeInBytes(format) * channels

	c.config = malgo.DefaultDeviceConfig(malgo.Capture)
	c.config.SampleRate = sampleRate
	c.config.Capture.Format = format
	c.config.Capture.Channels = uint32(channels)
	c.config.Alsa.NoMMap = 1
	c.config.PerformanceProfile = malgo.LowLatency
	c.config.PeriodSizeInFrames = 480
	c.config.Periods = 3

	if deviceIndex >= 0 {
		devices, err := audioContext.Devices(malgo.Capture)
		if err != nil {
			return fmt.Errorf("failed to enumerate capture devices: %w", err)
		}
		c.deviceID, err = captureDeviceID(devices, deviceIndex)
		if err != nil {
			return err
		}
		c.config.Capture.DeviceID = c.deviceID.Pointer()
	}

	c.audioContext = audioContext
	c.frameLength = frameLength
	c.frames = make(chan []int16, 16)

	var err error
	c.device, err = malgo.InitDevice(c.audioContext.Context, c.config, malgo.DeviceCallbacks{
		Data: func(_, pInput []byte, frameCount uint32) {
			n := int(frameCount) * bytesPerFrame
			if len(pInput) < n || n == 0 {
				return
			}
			c.accumulate(audio.BytesToFrame(pInput[:n]))
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize capture device: %w", err)
	}

	return nil
}

// accumulate slices device-sized chunks into fixed-length frames. Frames are
// dropped when the reader falls behind rather than blocking the device
// callback.
func (c *captureClient) accumulate(samples []int16) {
	c.leftover = append(c.leftover, samples...)
	for len(c.leftover) >= c.frameLength {
		frame := make([]int16, c.frameLength)
		copy(frame, c.leftover[:c.frameLength])
		c.leftover = c.leftover[c.frameLength:]

		select {
		case c.frames <- frame:
		default:
		}
	}
}

func (c *captureClient) ReadFrame(ctx context.Context) ([]int16, error) {
	select {
	case frame := <-c.frames:
		return frame, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *captureClient) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	} else if c.device.IsStarted() {
		return nil
	}

	if err := c.device.Start(); err != nil {
		return fmt.Errorf("failed to start capture device: %w", err)
	}

	return nil
}

func (c *captureClient) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	} else if !c.device.IsStarted() {
		return nil
	}

	if err := c.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop device: %w", err)
	}

	return nil
}

func (c *captureClient) Uninit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device != nil {
		c.device.Uninit()
		c.device = nil
	}

	return nil
}
