package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/codes"

	"github.com/etiennelac/voxhost/core/vad"
)

// EndpointerState is the segmentation state machine's current mode.
type EndpointerState string

const (
	StateIdle      EndpointerState = "idle"
	StateRecording EndpointerState = "recording"
)

// DefaultMaxSilenceFrames is the trailing-silence run that ends an utterance.
// At 512 samples per frame and 16kHz, 96 frames is roughly three seconds.
const DefaultMaxSilenceFrames = 96

// FrameSource delivers fixed-size PCM frames from a capture device.
type FrameSource interface {
	ReadFrame(ctx context.Context) ([]int16, error)
}

// WakeDetector reports the index of a recognized wake keyword in a frame, or
// -1 when there is none.
type WakeDetector interface {
	Detect(frame []int16) (int, error)
}

// SilencePolicy decides whether a frame counts as silence while recording.
type SilencePolicy interface {
	IsSilence(frame []int16) bool
}

// AmplitudeSilencePolicy marks a frame silent when at least 90% of its
// samples fall below the calibrated threshold.
type AmplitudeSilencePolicy struct {
	Threshold int16
}

func (p AmplitudeSilencePolicy) IsSilence(frame []int16) bool {
	if len(frame) == 0 {
		return true
	}

	quiet := 0
	for _, sample := range frame {
		value := int(sample)
		if value < 0 {
			value = -value
		}
		if value < int(p.Threshold) {
			quiet++
		}
	}
	return float64(quiet)/float64(len(frame)) >= 0.9
}

// VADSilencePolicy adapts a voice-activity classifier. Only an explicit
// voice outcome resets the silence run; noise and classifier errors count as
// silence so a dead classifier cannot hold a recording open forever.
type VADSilencePolicy struct {
	Classifier vad.Classifier
}

func (p VADSilencePolicy) IsSilence(frame []int16) bool {
	return p.Classifier.Classify(frame) != vad.Voice
}

// Endpointer segments a continuous frame stream into utterances: a wake word
// opens a recording, a trailing silence run longer than maxSilenceFrames
// closes it.
type Endpointer struct {
	detector WakeDetector
	silence  SilencePolicy

	maxSilenceFrames int
	onWake           func(ctx context.Context, keywordIndex int)
	onUtterance      func(ctx context.Context, utterance [][]int16)

	state      EndpointerState
	buffer     [][]int16
	silenceRun int
}

type EndpointerOption func(*Endpointer)

func WithMaxSilenceFrames(frames int) EndpointerOption {
	return func(e *Endpointer) {
		if frames > 0 {
			e.maxSilenceFrames = frames
		}
	}
}

// WithWakeCallback registers a callback fired on the wake transition, before
// any frame of the utterance is buffered.
func WithWakeCallback(callback func(ctx context.Context, keywordIndex int)) EndpointerOption {
	return func(e *Endpointer) { e.onWake = callback }
}

// WithUtteranceCallback registers the utterance handler. The handler runs
// synchronously inside the frame loop, so utterances are processed one at a
// time in arrival order.
func WithUtteranceCallback(callback func(ctx context.Context, utterance [][]int16)) EndpointerOption {
	return func(e *Endpointer) { e.onUtterance = callback }
}

func NewEndpointer(detector WakeDetector, silence SilencePolicy, opts ...EndpointerOption) *Endpointer {
	endpointer := Endpointer{
		detector:         detector,
		silence:          silence,
		maxSilenceFrames: DefaultMaxSilenceFrames,
		state:            StateIdle,
	}
	for _, opt := range opts {
		opt(&endpointer)
	}
	return &endpointer
}

func (e *Endpointer) State() EndpointerState {
	return e.state
}

// ProcessFrame advances the state machine by one frame.
func (e *Endpointer) ProcessFrame(ctx context.Context, frame []int16) {
	switch e.state {
	case StateRecording:
		e.record(ctx, frame)
	default:
		e.listen(ctx, frame)
	}
}

func (e *Endpointer) listen(ctx context.Context, frame []int16) {
	keywordIndex, err := e.detector.Detect(frame)
	if err != nil {
		// A failed detection is treated as no detection; the stream keeps
		// going.
		logger.WarnContext(ctx, "wake detection failed", "error", err)
		return
	}
	if keywordIndex < 0 {
		return
	}

	e.state = StateRecording
	e.buffer = nil
	e.silenceRun = 0
	if e.onWake != nil {
		e.onWake(ctx, keywordIndex)
	}
}

func (e *Endpointer) record(ctx context.Context, frame []int16) {
	e.buffer = append(e.buffer, frame)
	if e.silence.IsSilence(frame) {
		e.silenceRun++
	} else {
		e.silenceRun = 0
	}

	if e.silenceRun <= e.maxSilenceFrames {
		return
	}
	e.finalize(ctx)
}

// finalize closes the recording, trims the trailing silence run off the
// utterance and hands it over exactly once.
func (e *Endpointer) finalize(ctx context.Context) {
	utterance := e.buffer[:len(e.buffer)-e.silenceRun]
	e.buffer = nil
	e.silenceRun = 0
	e.state = StateIdle

	if len(utterance) == 0 || e.onUtterance == nil {
		return
	}
	e.onUtterance(ctx, utterance)
}

// Run pumps frames from the source until the context is cancelled or the
// source is exhausted.
func (e *Endpointer) Run(ctx context.Context, source FrameSource) error {
	ctx, span := tracer.Start(ctx, "endpointer run")
	defer span.End()

	for {
		frame, err := source.ReadFrame(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return nil
			}
			err = fmt.Errorf("failed to read frame: %w", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		e.ProcessFrame(ctx, frame)
	}
}
