package pipeline

import "errors"

var (
	// ErrDialogueUnavailable reports that the language model could not be
	// reached after all retry attempts.
	ErrDialogueUnavailable = errors.New("dialogue backend unavailable")

	// ErrToolDepthExceeded reports that completions kept requesting tools
	// past the recursion cap.
	ErrToolDepthExceeded = errors.New("tool call depth exceeded")

	// ErrQueueClosed reports an enqueue on a closed playback queue.
	ErrQueueClosed = errors.New("playback queue closed")
)
