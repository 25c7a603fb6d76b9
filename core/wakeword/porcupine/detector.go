package porcupine

import (
	"fmt"

	pv "github.com/Picovoice/porcupine/binding/go/v2"
)

// Detector recognizes configured wake keywords in raw PCM frames.
type Detector struct {
	engine pv.Porcupine
}

// NewDetector initializes the engine with one sensitivity per keyword path.
// Missing sensitivities default to 0.5.
func NewDetector(accessKey string, keywordPaths []string, sensitivities []float32) (*Detector, error) {
	if len(keywordPaths) == 0 {
		return nil, fmt.Errorf("at least one keyword path is required")
	}
	if len(sensitivities) == 0 {
		sensitivities = make([]float32, len(keywordPaths))
		for i := range sensitivities {
			sensitivities[i] = 0.5
		}
	}

	detector := Detector{engine: pv.Porcupine{
		AccessKey:     accessKey,
		KeywordPaths:  keywordPaths,
		Sensitivities: sensitivities,
	}}
	if err := detector.engine.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize porcupine: %w", err)
	}
	return &detector, nil
}

// Detect returns the index of the recognized keyword, or -1 when the frame
// contains no wake word.
func (d *Detector) Detect(frame []int16) (int, error) {
	index, err := d.engine.Process(frame)
	if err != nil {
		return -1, fmt.Errorf("failed to process frame: %w", err)
	}
	return index, nil
}

func (d *Detector) Close() error {
	return d.engine.Delete()
}

// FrameLength is the number of samples Detect expects per frame.
func FrameLength() int { return pv.FrameLength }

// SampleRate is the PCM sample rate the engine expects.
func SampleRate() int { return pv.SampleRate }
