package webrtc

import (
	"fmt"

	webrtcvad "github.com/maxhawkins/go-webrtc-vad"

	"github.com/etiennelac/voxhost/core/audio"
	"github.com/etiennelac/voxhost/core/vad"
)

// Classifier wraps the WebRTC voice activity detector. The detector only
// accepts 10, 20 or 30ms frames at 8, 16, 32 or 48kHz; frames of any other
// size classify as Error.
type Classifier struct {
	vad        *webrtcvad.VAD
	sampleRate int
}

// NewClassifier builds a classifier at the given aggressiveness mode (0-3,
// higher filters more aggressively).
func NewClassifier(sampleRate, mode int) (*Classifier, error) {
	v, err := webrtcvad.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vad: %w", err)
	}
	if err := v.SetMode(mode); err != nil {
		return nil, fmt.Errorf("failed to set vad mode %d: %w", mode, err)
	}
	return &Classifier{vad: v, sampleRate: sampleRate}, nil
}

func (c *Classifier) Classify(frame []int16) vad.Outcome {
	active, err := c.vad.Process(c.sampleRate, audio.FrameBytes(frame))
	if err != nil {
		return vad.Error
	}
	if active {
		return vad.Voice
	}
	return vad.Silence
}
