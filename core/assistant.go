package pipeline

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/etiennelac/voxhost/core/speechtotext"
	"github.com/etiennelac/voxhost/core/texttospeech"
)

// AudioSink plays audio out loud.
type AudioSink interface {
	Play(ctx context.Context, speech *texttospeech.Audio) error
	PlayFile(ctx context.Context, path string) error
}

// Assistant wires capture, endpointing, transcription, dialogue, synthesis
// and playback into one voice loop.
type Assistant struct {
	endpointer  *Endpointer
	queue       *PlaybackQueue
	dialogue    *DialogueManager
	transcriber speechtotext.Client
	synthesizer texttospeech.Client
	sink        AudioSink
	source      FrameSource

	speaker   SpeakerContext
	biasTerms []string

	wakeSounds []string
	waitSounds []string
}

func New(opts ...AssistantOption) (*Assistant, error) {
	options := assistantOptions{
		maxSilenceFrames: DefaultMaxSilenceFrames,
		speaker:          SpeakerContext{Name: "streamer", Broadcaster: true},
	}
	for _, opt := range opts {
		opt(&options)
	}

	if options.dialogue == nil {
		return nil, fmt.Errorf("a dialogue manager is required")
	}

	assistant := Assistant{
		queue:       NewPlaybackQueue(context.Background()),
		dialogue:    options.dialogue,
		transcriber: options.transcriber,
		synthesizer: options.synthesizer,
		sink:        options.sink,
		source:      options.source,
		speaker:     options.speaker,
		biasTerms:   options.biasTerms,
		wakeSounds:  options.wakeSounds,
		waitSounds:  options.waitSounds,
	}

	if options.detector != nil {
		if options.silence == nil {
			return nil, fmt.Errorf("a silence policy is required with a wake detector")
		}
		if options.transcriber == nil {
			return nil, fmt.Errorf("a transcription client is required with a wake detector")
		}
		assistant.endpointer = NewEndpointer(options.detector, options.silence,
			WithMaxSilenceFrames(options.maxSilenceFrames),
			WithWakeCallback(func(ctx context.Context, _ int) {
				assistant.playRandomClip(assistant.wakeSounds)
			}),
			WithUtteranceCallback(assistant.handleUtterance),
		)
	}

	return &assistant, nil
}

// Run pumps the frame source through the endpointer until the context is
// cancelled. It requires a wake detector and frame source; a deployment that
// only takes transcriptions over HTTP skips Run entirely.
func (a *Assistant) Run(ctx context.Context) error {
	if a.endpointer == nil {
		return fmt.Errorf("no wake detector configured")
	}
	if a.source == nil {
		return fmt.Errorf("no frame source configured")
	}
	return a.endpointer.Run(ctx, a.source)
}

// Close drains and stops the playback queue.
func (a *Assistant) Close() {
	a.queue.Close()
}

func (a *Assistant) handleUtterance(ctx context.Context, utterance [][]int16) {
	ctx, span := tracer.Start(ctx, "handle utterance")
	defer span.End()

	transcript, err := a.transcriber.Transcribe(ctx, utterance,
		speechtotext.WithBiasTerms(a.biasTerms...))
	if err != nil {
		logger.WarnContext(ctx, "transcription failed", "error", err)
		return
	}
	if strings.TrimSpace(transcript) == "" {
		return
	}

	// Something short to fill the air while the answer is generated.
	a.playRandomClip(a.waitSounds)

	a.Say(ctx, a.speaker, transcript)
}

// Say runs a dialogue turn and speaks the reply through the playback queue,
// blocking until the reply has been played out.
func (a *Assistant) Say(ctx context.Context, speaker SpeakerContext, text string) {
	reply, err := a.dialogue.Respond(ctx, speaker, text)
	if err != nil {
		logger.WarnContext(ctx, "dialogue turn failed", "error", err)
		return
	}
	if reply == "" || a.synthesizer == nil || a.sink == nil {
		return
	}

	pending := a.queue.Enqueue(func(ctx context.Context) error {
		speech, err := a.synthesizer.Synthesize(ctx, reply)
		if err != nil {
			return fmt.Errorf("failed to synthesize reply: %w", err)
		}
		defer speech.Reader.Close()
		return a.sink.Play(ctx, speech)
	})
	if err := pending.Await(ctx); err != nil {
		logger.WarnContext(ctx, "failed to speak reply", "error", err)
	}
}

// playRandomClip enqueues one of the configured clips without waiting for it
// to play.
func (a *Assistant) playRandomClip(paths []string) {
	if len(paths) == 0 || a.sink == nil {
		return
	}
	path := paths[rand.IntN(len(paths))]
	a.queue.Enqueue(func(ctx context.Context) error {
		return a.sink.PlayFile(ctx, path)
	})
}

// listSoundClips collects the mp3 files of a directory, for the wake and
// wait sound pools.
func listSoundClips(dir string) []string {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var clips []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".mp3") {
			continue
		}
		clips = append(clips, filepath.Join(dir, entry.Name()))
	}
	return clips
}
