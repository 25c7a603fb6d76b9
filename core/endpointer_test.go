package pipeline

import (
	"context"
	"fmt"
	"testing"
)

type markerWakeDetector struct {
	err error
}

// Detect recognizes frames whose first sample is the wake marker.
func (d *markerWakeDetector) Detect(frame []int16) (int, error) {
	if d.err != nil {
		return -1, d.err
	}
	if len(frame) > 0 && frame[0] == 999 {
		return 0, nil
	}
	return -1, nil
}

func wakeFrame() []int16 {
	return []int16{999}
}

func voiceFrame() []int16 {
	frame := make([]int16, 10)
	for i := range frame {
		frame[i] = 1000
	}
	return frame
}

func silenceFrame() []int16 {
	return make([]int16, 10)
}

func TestEndpointerEmitsTrimmedUtteranceExactlyOnce(t *testing.T) {
	var utterances [][][]int16
	endpointer := NewEndpointer(&markerWakeDetector{}, AmplitudeSilencePolicy{Threshold: 100},
		WithMaxSilenceFrames(96),
		WithUtteranceCallback(func(_ context.Context, utterance [][]int16) {
			utterances = append(utterances, utterance)
		}),
	)

	ctx := context.Background()
	endpointer.ProcessFrame(ctx, wakeFrame())
	if endpointer.State() != StateRecording {
		t.Fatalf("expected recording state after wake word, got %s", endpointer.State())
	}

	for range 5 {
		endpointer.ProcessFrame(ctx, voiceFrame())
	}
	for range 100 {
		endpointer.ProcessFrame(ctx, silenceFrame())
	}

	if len(utterances) != 1 {
		t.Fatalf("expected exactly 1 utterance, got %d", len(utterances))
	}
	if len(utterances[0]) != 5 {
		t.Fatalf("expected utterance of 5 voice frames, got %d frames", len(utterances[0]))
	}
	if endpointer.State() != StateIdle {
		t.Fatalf("expected idle state after utterance, got %s", endpointer.State())
	}
	if len(endpointer.buffer) != 0 {
		t.Fatalf("expected empty buffer in idle state, got %d frames", len(endpointer.buffer))
	}
}

func TestEndpointerVoiceResetsSilenceRun(t *testing.T) {
	utterances := 0
	endpointer := NewEndpointer(&markerWakeDetector{}, AmplitudeSilencePolicy{Threshold: 100},
		WithMaxSilenceFrames(10),
		WithUtteranceCallback(func(context.Context, [][]int16) { utterances++ }),
	)

	ctx := context.Background()
	endpointer.ProcessFrame(ctx, wakeFrame())
	for range 9 {
		endpointer.ProcessFrame(ctx, silenceFrame())
	}
	endpointer.ProcessFrame(ctx, voiceFrame())
	for range 10 {
		endpointer.ProcessFrame(ctx, silenceFrame())
	}

	if utterances != 0 {
		t.Fatalf("expected no utterance while silence run keeps resetting, got %d", utterances)
	}
	if endpointer.State() != StateRecording {
		t.Fatalf("expected to still be recording, got %s", endpointer.State())
	}

	endpointer.ProcessFrame(ctx, silenceFrame())
	if utterances != 1 {
		t.Fatalf("expected utterance once the silence run completes, got %d", utterances)
	}
}

func TestEndpointerDetectorErrorIsNoWake(t *testing.T) {
	detector := &markerWakeDetector{err: fmt.Errorf("engine gone")}
	endpointer := NewEndpointer(detector, AmplitudeSilencePolicy{Threshold: 100})

	endpointer.ProcessFrame(context.Background(), wakeFrame())
	if endpointer.State() != StateIdle {
		t.Fatalf("expected idle state when detection fails, got %s", endpointer.State())
	}
}

func TestEndpointerWakeCallbackFiresBeforeBuffering(t *testing.T) {
	woke := false
	endpointer := NewEndpointer(&markerWakeDetector{}, AmplitudeSilencePolicy{Threshold: 100},
		WithWakeCallback(func(_ context.Context, keywordIndex int) {
			woke = true
			if keywordIndex != 0 {
				t.Fatalf("expected keyword index 0, got %d", keywordIndex)
			}
		}),
	)

	endpointer.ProcessFrame(context.Background(), wakeFrame())
	if !woke {
		t.Fatalf("expected wake callback to fire")
	}
	if len(endpointer.buffer) != 0 {
		t.Fatalf("expected wake frame to not be buffered, got %d frames", len(endpointer.buffer))
	}
}

func TestEndpointerAllSilenceUtteranceIsDropped(t *testing.T) {
	utterances := 0
	endpointer := NewEndpointer(&markerWakeDetector{}, AmplitudeSilencePolicy{Threshold: 100},
		WithMaxSilenceFrames(5),
		WithUtteranceCallback(func(context.Context, [][]int16) { utterances++ }),
	)

	ctx := context.Background()
	endpointer.ProcessFrame(ctx, wakeFrame())
	for range 6 {
		endpointer.ProcessFrame(ctx, silenceFrame())
	}

	if utterances != 0 {
		t.Fatalf("expected no utterance when only silence was recorded, got %d", utterances)
	}
	if endpointer.State() != StateIdle {
		t.Fatalf("expected idle state, got %s", endpointer.State())
	}
}

func TestEndpointerFinalizesOnlyWhenSilenceExceedsMax(t *testing.T) {
	utterances := 0
	endpointer := NewEndpointer(&markerWakeDetector{}, AmplitudeSilencePolicy{Threshold: 100},
		WithMaxSilenceFrames(3),
		WithUtteranceCallback(func(context.Context, [][]int16) { utterances++ }),
	)

	ctx := context.Background()
	endpointer.ProcessFrame(ctx, wakeFrame())
	endpointer.ProcessFrame(ctx, voiceFrame())
	for range 3 {
		endpointer.ProcessFrame(ctx, silenceFrame())
	}

	if utterances != 0 {
		t.Fatalf("expected a silence run equal to the maximum to keep recording, got %d utterances", utterances)
	}
	if endpointer.State() != StateRecording {
		t.Fatalf("expected to still be recording at the maximum, got %s", endpointer.State())
	}

	endpointer.ProcessFrame(ctx, silenceFrame())
	if utterances != 1 {
		t.Fatalf("expected finalization once the run exceeds the maximum, got %d utterances", utterances)
	}
	if endpointer.State() != StateIdle {
		t.Fatalf("expected idle state after finalization, got %s", endpointer.State())
	}
}
