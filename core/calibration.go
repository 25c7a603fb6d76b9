package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"time"
)

// CalibrationSettings is the persisted microphone calibration.
type CalibrationSettings struct {
	DeviceID         int   `json:"microphone_device"`
	SilenceThreshold int16 `json:"silence_threshold"`
}

// CalibrationStore persists calibration as a flat JSON file, overwriting the
// whole file on save.
type CalibrationStore struct {
	path string
}

func NewCalibrationStore(path string) *CalibrationStore {
	return &CalibrationStore{path: path}
}

// Load returns nil settings without error when the file does not exist yet.
func (s *CalibrationStore) Load() (*CalibrationSettings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read calibration file: %w", err)
	}

	var settings CalibrationSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse calibration file: %w", err)
	}
	return &settings, nil
}

func (s *CalibrationStore) Save(settings CalibrationSettings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode calibration: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write calibration file: %w", err)
	}
	return nil
}

// DefaultCalibrationDuration is how long Calibrate samples ambient audio.
const DefaultCalibrationDuration = 5 * time.Second

// Calibrate samples ambient room audio for the given duration and derives
// the amplitude silence threshold as 1.5x the mean absolute sample value.
// The room should be quiet while it runs.
func Calibrate(ctx context.Context, source FrameSource, duration time.Duration) (int16, error) {
	ctx, span := tracer.Start(ctx, "microphone calibration")
	defer span.End()

	if duration <= 0 {
		duration = DefaultCalibrationDuration
	}
	deadline := time.Now().Add(duration)

	var sum, count int64
	for time.Now().Before(deadline) {
		frame, err := source.ReadFrame(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, fmt.Errorf("failed to read calibration frame: %w", err)
		}
		for _, sample := range frame {
			value := int64(sample)
			if value < 0 {
				value = -value
			}
			sum += value
		}
		count += int64(len(frame))
	}

	if count == 0 {
		return 0, fmt.Errorf("no audio captured during calibration")
	}

	threshold := float64(sum) / float64(count) * 1.5
	if threshold > math.MaxInt16 {
		threshold = math.MaxInt16
	}
	return int16(threshold), nil
}
