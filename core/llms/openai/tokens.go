package openai

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/etiennelac/voxhost/core/llms"
)

// TokenCounter measures the prompt footprint of a message list with the
// model's own tokenizer, so the context window can be trimmed locally before
// a request is sent.
type TokenCounter struct {
	mu        sync.Mutex
	encodings map[string]*tiktoken.Tiktoken
}

func NewTokenCounter() *TokenCounter {
	return &TokenCounter{encodings: map[string]*tiktoken.Tiktoken{}}
}

func (c *TokenCounter) Count(model string, messages []llms.Message) int {
	encoding := c.encoding(model)
	if encoding == nil {
		return 0
	}

	// Per-message overhead mirrors the chat format accounting OpenAI
	// documents for its chat models.
	tokens := 3
	for _, message := range messages {
		tokens += 3
		tokens += len(encoding.Encode(string(message.Role), nil, nil))
		tokens += len(encoding.Encode(message.Content, nil, nil))
		if message.Name != "" {
			tokens += len(encoding.Encode(message.Name, nil, nil)) + 1
		}
		if message.ToolCall != nil {
			tokens += len(encoding.Encode(message.ToolCall.Name, nil, nil))
			tokens += len(encoding.Encode(message.ToolCall.Arguments, nil, nil))
		}
	}
	return tokens
}

func (c *TokenCounter) encoding(model string) *tiktoken.Tiktoken {
	c.mu.Lock()
	defer c.mu.Unlock()

	if encoding, ok := c.encodings[model]; ok {
		return encoding
	}

	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		logger.Warn("no tokenizer for model, falling back to cl100k_base", "model", model)
		if encoding, err = tiktoken.GetEncoding("cl100k_base"); err != nil {
			return nil
		}
	}
	c.encodings[model] = encoding
	return encoding
}
