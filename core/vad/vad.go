package vad

// Outcome classifies a single audio frame.
type Outcome int

const (
	Silence Outcome = iota
	Voice
	Noise
	Error
)

func (o Outcome) String() string {
	switch o {
	case Silence:
		return "silence"
	case Voice:
		return "voice"
	case Noise:
		return "noise"
	case Error:
		return "error"
	}
	return "unknown"
}

// Classifier decides whether a PCM frame carries voice.
type Classifier interface {
	Classify(frame []int16) Outcome
}
