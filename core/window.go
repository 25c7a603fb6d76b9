package pipeline

import "github.com/etiennelac/voxhost/core/llms"

// TokenCounter reports the prompt token footprint of messages for a model.
type TokenCounter interface {
	Count(model string, messages []llms.Message) int
}

// TokenBudget bounds the prompt context sent with each completion.
type TokenBudget struct {
	MaxTotal          int
	ReservedForAnswer int
	// SafetyMargin is the fraction of the prompt window withheld to absorb
	// counting drift between the local tokenizer and the provider. Zero
	// means the 10% default.
	SafetyMargin float64
}

// Usable returns the token allowance for the system prompt plus history.
func (b TokenBudget) Usable() int {
	margin := b.SafetyMargin
	if margin <= 0 {
		margin = 0.10
	}
	return int(float64(b.MaxTotal-b.ReservedForAnswer) * (1 - margin))
}

// trimToBudget selects the most recent history that fits the budget. The
// system message is always first and always included; walking newest to
// oldest, the first message that overflows stops the walk and everything
// older is dropped with it.
func trimToBudget(system llms.Message, history []llms.Message, counter TokenCounter, model string, budget TokenBudget) []llms.Message {
	usable := budget.Usable()

	window := []llms.Message{system}
	for i := len(history) - 1; i >= 0; i-- {
		candidate := make([]llms.Message, 0, len(window)+1)
		candidate = append(candidate, system, history[i])
		candidate = append(candidate, window[1:]...)

		if counter.Count(model, candidate) > usable {
			break
		}
		window = candidate
	}
	return window
}
