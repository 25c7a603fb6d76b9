package miniaudio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gen2brain/malgo"

	"github.com/etiennelac/voxhost/core/audio"
)

type playbackClient struct {
	audioContext *malgo.AllocatedContext

	mu sync.Mutex
}

func (c *playbackClient) Init(audioContext *malgo.AllocatedContext) {
	c.audioContext = audioContext
}

// Play opens a playback device matching the clip's sample rate, plays the PCM
// to the end and tears the device down again. Serialized per client so two
// clips cannot overlap on the same output.
func (c *playbackClient) Play(ctx context.Context, sampleRate int, pcm []int16) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(pcm) == 0 {
		return nil
	}

	data := audio.FrameBytes(pcm)
	done := make(chan struct{})
	once := sync.Once{}
	offset := 0
	var offsetMu sync.Mutex

	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.SampleRate = uint32(sampleRate)
	config.Playback.Format = malgo.FormatS16
	config.Playback.Channels = 1
	config.Alsa.NoMMap = 1

	device, err := malgo.InitDevice(c.audioContext.Context, config, malgo.DeviceCallbacks{
		Data: func(pOutput, _ []byte, frameCount uint32) {
			offsetMu.Lock()
			n := copy(pOutput, data[offset:])
			offset += n
			drained := offset >= len(data)
			offsetMu.Unlock()

			if drained {
				once.Do(func() { close(done) })
			}
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}
	defer device.Uninit()

	if err := device.Start(); err != nil {
		return fmt.Errorf("failed to start playback device: %w", err)
	}

	select {
	case <-done:
		// Let the device play out its final period before uninit cuts it off.
		time.Sleep(100 * time.Millisecond)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
