package pipeline

import (
	"github.com/etiennelac/voxhost/core/speechtotext"
	"github.com/etiennelac/voxhost/core/texttospeech"
)

type assistantOptions struct {
	dialogue    *DialogueManager
	transcriber speechtotext.Client
	synthesizer texttospeech.Client
	sink        AudioSink
	source      FrameSource

	detector         WakeDetector
	silence          SilencePolicy
	maxSilenceFrames int

	speaker   SpeakerContext
	biasTerms []string

	wakeSounds []string
	waitSounds []string
}

type AssistantOption func(*assistantOptions)

func WithDialogueManager(dialogue *DialogueManager) AssistantOption {
	return func(o *assistantOptions) { o.dialogue = dialogue }
}

func WithTranscriptionClient(client speechtotext.Client) AssistantOption {
	return func(o *assistantOptions) { o.transcriber = client }
}

func WithSynthesisClient(client texttospeech.Client) AssistantOption {
	return func(o *assistantOptions) { o.synthesizer = client }
}

func WithAudioSink(sink AudioSink) AssistantOption {
	return func(o *assistantOptions) { o.sink = sink }
}

func WithFrameSource(source FrameSource) AssistantOption {
	return func(o *assistantOptions) { o.source = source }
}

func WithWakeDetector(detector WakeDetector) AssistantOption {
	return func(o *assistantOptions) { o.detector = detector }
}

func WithSilencePolicy(policy SilencePolicy) AssistantOption {
	return func(o *assistantOptions) { o.silence = policy }
}

func WithEndpointerSilenceFrames(frames int) AssistantOption {
	return func(o *assistantOptions) {
		if frames > 0 {
			o.maxSilenceFrames = frames
		}
	}
}

// WithSpeaker sets the speaker context attached to spoken utterances. The
// microphone belongs to the broadcaster, so the default is an authorized
// speaker named "streamer".
func WithSpeaker(speaker SpeakerContext) AssistantOption {
	return func(o *assistantOptions) { o.speaker = speaker }
}

// WithBiasTerms sets vocabulary hints passed to the transcriber.
func WithBiasTerms(terms ...string) AssistantOption {
	return func(o *assistantOptions) { o.biasTerms = append(o.biasTerms, terms...) }
}

// WithWakeSoundDir points at a directory of mp3 clips; a random one plays as
// acknowledgment when the wake word is detected.
func WithWakeSoundDir(dir string) AssistantOption {
	return func(o *assistantOptions) { o.wakeSounds = listSoundClips(dir) }
}

// WithWaitSoundDir points at a directory of mp3 clips; a random one plays
// while an answer is being generated.
func WithWaitSoundDir(dir string) AssistantOption {
	return func(o *assistantOptions) { o.waitSounds = listSoundClips(dir) }
}
