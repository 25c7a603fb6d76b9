package energy

import (
	"testing"

	"github.com/etiennelac/voxhost/core/vad"
)

func constantFrame(value int16) []int16 {
	frame := make([]int16, 160)
	for i := range frame {
		frame[i] = value
	}
	return frame
}

func TestClassifyByEnergy(t *testing.T) {
	classifier := NewClassifier(400)

	cases := []struct {
		name  string
		frame []int16
		want  vad.Outcome
	}{
		{"silence", constantFrame(10), vad.Silence},
		{"noise above floor", constantFrame(150), vad.Noise},
		{"voice at threshold", constantFrame(400), vad.Voice},
		{"voice above threshold", constantFrame(2000), vad.Voice},
		{"empty frame", nil, vad.Error},
	}

	for _, c := range cases {
		if got := classifier.Classify(c.frame); got != c.want {
			t.Fatalf("%s: expected %s, got %s", c.name, c.want, got)
		}
	}
}

func TestNoiseFloorDefaultsToQuarterThreshold(t *testing.T) {
	classifier := NewClassifier(1000)
	if classifier.NoiseFloor != 250 {
		t.Fatalf("expected noise floor 250, got %v", classifier.NoiseFloor)
	}
}
