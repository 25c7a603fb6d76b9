package pipeline

import (
	"fmt"
	"testing"

	"github.com/etiennelac/voxhost/core/llms"
)

// lengthCounter charges one token per character of content.
type lengthCounter struct{}

func (lengthCounter) Count(_ string, messages []llms.Message) int {
	total := 0
	for _, message := range messages {
		total += len(message.Content)
	}
	return total
}

func TestTokenBudgetUsableAppliesMargin(t *testing.T) {
	budget := TokenBudget{MaxTotal: 1000, ReservedForAnswer: 300}
	if got := budget.Usable(); got != 630 {
		t.Fatalf("expected usable budget 630, got %d", got)
	}

	budget.SafetyMargin = 0.5
	if got := budget.Usable(); got != 350 {
		t.Fatalf("expected usable budget 350, got %d", got)
	}
}

func TestTrimToBudgetKeepsSystemAndNewestHistory(t *testing.T) {
	system := llms.Message{Role: llms.RoleSystem, Content: "0123456789"} // 10 tokens

	history := make([]llms.Message, 6)
	for i := range history {
		history[i] = llms.Message{
			Role: llms.RoleUser,
			// 100 tokens each, tagged so order can be asserted
			Content: fmt.Sprintf("%d%s", i, string(make([]byte, 99))),
		}
	}

	// usable = (600-200) * 0.9 = 360 -> system plus three history messages
	budget := TokenBudget{MaxTotal: 600, ReservedForAnswer: 200}
	window := trimToBudget(system, history, lengthCounter{}, "test-model", budget)

	if len(window) != 4 {
		t.Fatalf("expected window of 4 messages, got %d", len(window))
	}
	if window[0].Role != llms.RoleSystem {
		t.Fatalf("expected system message first, got %s", window[0].Role)
	}
	for i, message := range window[1:] {
		expected := history[len(history)-3+i].Content
		if message.Content != expected {
			t.Fatalf("expected newest history in order at position %d", i+1)
		}
	}
}

func TestTrimToBudgetAlwaysIncludesSystem(t *testing.T) {
	system := llms.Message{Role: llms.RoleSystem, Content: string(make([]byte, 500))}
	history := []llms.Message{{Role: llms.RoleUser, Content: string(make([]byte, 500))}}

	budget := TokenBudget{MaxTotal: 600, ReservedForAnswer: 200}
	window := trimToBudget(system, history, lengthCounter{}, "test-model", budget)

	if len(window) != 1 || window[0].Role != llms.RoleSystem {
		t.Fatalf("expected only the system message to survive, got %d messages", len(window))
	}
}
