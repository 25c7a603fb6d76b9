package energy

import (
	"math"

	"github.com/etiennelac/voxhost/core/vad"
)

// Classifier is a dependency-free RMS energy gate. Frames at or above
// Threshold classify as voice, frames between NoiseFloor and Threshold as
// noise, the rest as silence.
type Classifier struct {
	Threshold  float64
	NoiseFloor float64
}

func NewClassifier(threshold float64) *Classifier {
	return &Classifier{Threshold: threshold, NoiseFloor: threshold / 4}
}

func (c *Classifier) Classify(frame []int16) vad.Outcome {
	if len(frame) == 0 {
		return vad.Error
	}

	sum := 0.0
	for _, sample := range frame {
		sum += float64(sample) * float64(sample)
	}
	rms := math.Sqrt(sum / float64(len(frame)))

	switch {
	case rms >= c.Threshold:
		return vad.Voice
	case rms >= c.NoiseFloor:
		return vad.Noise
	}
	return vad.Silence
}
