package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/kaptinlin/jsonrepair"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/etiennelac/voxhost/core/llms"
	"github.com/etiennelac/voxhost/core/tools"
)

const (
	// completionAttempts is how often a failing completion is retried before
	// the turn gives up. Attempts are back to back, no backoff.
	completionAttempts = 3
	// maxToolRounds caps recursive tool resolution within a single turn.
	maxToolRounds = 8
)

// SpeakerContext carries who is talking and their standing on the channel.
// It is serialized into the user message so the model can adapt its tone and
// it gates which tools are advertised.
type SpeakerContext struct {
	Name        string `json:"name"`
	Broadcaster bool   `json:"broadcaster"`
	Moderator   bool   `json:"moderator"`
	VIP         bool   `json:"vip"`
	Subscriber  bool   `json:"subscriber"`
	Follower    bool   `json:"follower"`
}

// ModerationClient screens externally sourced text before it enters the
// dialogue.
type ModerationClient interface {
	Check(ctx context.Context, text string) (bool, error)
}

// DialogueManager owns the conversation transcript: it renders the system
// prompt, trims the context window, resolves tool calls recursively and
// persists the transcript after each completed step.
//
// Turns are serialized; a second Respond blocks until the first finishes.
type DialogueManager struct {
	client     llms.Client
	counter    TokenCounter
	registry   *tools.Registry
	moderation ModerationClient
	store      *HistoryStore

	template    PromptTemplate
	budget      TokenBudget
	model       string
	temperature float32

	mu      sync.Mutex
	history []llms.Message
	status  StatusSnapshot
}

type DialogueOption func(*DialogueManager)

func WithTools(registry *tools.Registry) DialogueOption {
	return func(m *DialogueManager) { m.registry = registry }
}

func WithModeration(client ModerationClient) DialogueOption {
	return func(m *DialogueManager) { m.moderation = client }
}

func WithHistoryStore(store *HistoryStore) DialogueOption {
	return func(m *DialogueManager) { m.store = store }
}

func WithPromptTemplate(template PromptTemplate) DialogueOption {
	return func(m *DialogueManager) { m.template = template }
}

func WithTokenBudget(budget TokenBudget) DialogueOption {
	return func(m *DialogueManager) { m.budget = budget }
}

func WithModel(model string, temperature float32) DialogueOption {
	return func(m *DialogueManager) {
		m.model = model
		m.temperature = temperature
	}
}

func NewDialogueManager(client llms.Client, counter TokenCounter, opts ...DialogueOption) *DialogueManager {
	manager := DialogueManager{
		client:  client,
		counter: counter,
		model:   "gpt-4o",
		budget:  TokenBudget{MaxTotal: 4096, ReservedForAnswer: 512},
	}
	for _, opt := range opts {
		opt(&manager)
	}
	return &manager
}

// RestoreHistory loads the persisted transcript, if any.
func (m *DialogueManager) RestoreHistory() error {
	if m.store == nil {
		return nil
	}
	history, err := m.store.Load()
	if err != nil {
		return fmt.Errorf("failed to restore history: %w", err)
	}

	m.mu.Lock()
	m.history = history
	m.mu.Unlock()
	return nil
}

// SetStatus updates the live-status snapshot used by the next prompt render.
func (m *DialogueManager) SetStatus(status StatusSnapshot) {
	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}

// History returns a copy of the transcript.
func (m *DialogueManager) History() []llms.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	history := make([]llms.Message, len(m.history))
	copy(history, m.history)
	return history
}

// Respond runs one dialogue turn: it appends the speaker's message, resolves
// any tool calls the model requests and returns the final spoken reply.
//
// Tool failures never fail the turn; the model is told what went wrong
// through a tool message and decides how to react. The turn itself fails
// only when the backend stays unreachable (ErrDialogueUnavailable) or tool
// recursion runs away (ErrToolDepthExceeded).
func (m *DialogueManager) Respond(ctx context.Context, speaker SpeakerContext, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, span := tracer.Start(ctx, "dialogue respond")
	defer span.End()
	span.SetAttributes(attribute.String("speaker.name", speaker.Name))

	userData, err := json.Marshal(struct {
		SpeakerContext
		Message string `json:"message"`
	}{SpeakerContext: speaker, Message: text})
	if err != nil {
		return "", fmt.Errorf("failed to encode user message: %w", err)
	}
	m.history = append(m.history, llms.Message{
		Role:    llms.RoleUser,
		Name:    speaker.Name,
		Content: string(userData),
	})

	for range maxToolRounds {
		response, err := m.complete(ctx, speaker)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return "", err
		}

		if response.ToolCall == nil {
			reply := m.shortenIfNeeded(ctx, response.Content)
			m.history = append(m.history, llms.Message{Role: llms.RoleAssistant, Content: reply})
			m.persist(ctx)
			return reply, nil
		}

		m.resolveToolCall(ctx, speaker, response.ToolCall)
		m.persist(ctx)
	}

	err = fmt.Errorf("%w after %d rounds", ErrToolDepthExceeded, maxToolRounds)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return "", err
}

func (m *DialogueManager) complete(ctx context.Context, speaker SpeakerContext) (*llms.Response, error) {
	system := llms.Message{Role: llms.RoleSystem, Content: m.template.Render(m.status)}
	window := trimToBudget(system, m.history, m.counter, m.model, m.budget)

	var visible []llms.Tool
	if m.registry != nil {
		visible = m.registry.Visible(speaker.Broadcaster)
	}

	request := llms.Request{
		Model:       m.model,
		Messages:    window,
		Temperature: m.temperature,
		MaxTokens:   m.budget.ReservedForAnswer,
		Tools:       visible,
	}

	var lastErr error
	for attempt := range completionAttempts {
		response, err := m.client.Complete(ctx, request)
		if err == nil {
			return response, nil
		}
		lastErr = err
		logger.WarnContext(ctx, "completion attempt failed",
			"attempt", attempt+1, "error", err)
	}
	return nil, fmt.Errorf("%w: %v", ErrDialogueUnavailable, lastErr)
}

// resolveToolCall records the assistant's request and the tool's answer as a
// message pair so the transcript always keeps them adjacent.
func (m *DialogueManager) resolveToolCall(ctx context.Context, speaker SpeakerContext, call *llms.ToolCall) {
	ctx, span := tracer.Start(ctx, "resolve tool call")
	defer span.End()
	span.SetAttributes(attribute.String("tool.name", call.Name))

	resolved := llms.ToolCall{
		ID:        call.ID,
		Name:      call.Name,
		Arguments: repairArguments(call.Arguments),
	}
	m.history = append(m.history, llms.Message{Role: llms.RoleAssistant, ToolCall: &resolved})

	result := m.invokeTool(ctx, speaker, resolved)
	m.history = append(m.history, llms.Message{
		Role:     llms.RoleTool,
		Name:     resolved.Name,
		Content:  result,
		ToolCall: &resolved,
	})
}

// repairArguments makes a best effort to hand tools valid JSON: parse as-is,
// otherwise repair, otherwise pass the raw string through and let the tool
// complain.
func repairArguments(raw string) string {
	if raw == "" || json.Valid([]byte(raw)) {
		return raw
	}
	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return raw
	}
	return repaired
}

func (m *DialogueManager) invokeTool(ctx context.Context, speaker SpeakerContext, call llms.ToolCall) string {
	if m.registry == nil {
		return fmt.Sprintf("Function %s not found", call.Name)
	}

	entry, ok := m.registry.Lookup(call.Name)
	if !ok {
		return fmt.Sprintf("Function %s not found", call.Name)
	}
	if entry.AuthorizationRequired && !speaker.Broadcaster {
		return fmt.Sprintf("Function %s requires broadcaster authorization", call.Name)
	}

	result, err := entry.Invoke(ctx, call.Arguments)
	if err != nil {
		logger.WarnContext(ctx, "tool execution failed",
			"tool", call.Name, "error", err)
		return fmt.Sprintf("Error executing function %s", call.Name)
	}
	return result
}

// shortenIfNeeded rewrites replies that blow far past the character budget
// with a secondary summarization call. Shortening failures fall back to the
// original reply.
func (m *DialogueManager) shortenIfNeeded(ctx context.Context, reply string) string {
	budget := m.template.CharacterBudget
	if budget <= 0 || len(reply) <= 4*budget {
		return reply
	}

	response, err := m.client.Complete(ctx, llms.Request{
		Model: m.model,
		Messages: []llms.Message{
			{Role: llms.RoleSystem, Content: fmt.Sprintf(
				"Rewrite the user's text to fit %d characters. Summarize, keep the tone and the language, never truncate mid-sentence.", budget)},
			{Role: llms.RoleUser, Content: reply},
		},
		MaxTokens: m.budget.ReservedForAnswer,
	})
	if err != nil || response.Content == "" {
		logger.WarnContext(ctx, "reply shortening failed", "error", err)
		return reply
	}
	return response.Content
}

func (m *DialogueManager) persist(ctx context.Context) {
	if m.store == nil {
		return
	}
	if err := m.store.Save(m.history); err != nil {
		logger.WarnContext(ctx, "failed to persist history", "error", err)
	}
}

// CheckMessage screens externally sourced text (channel point redemptions,
// donations) before it is spoken or answered. It returns true when the text
// is acceptable.
func (m *DialogueManager) CheckMessage(ctx context.Context, text string) (bool, error) {
	if m.moderation == nil {
		return true, nil
	}
	flagged, err := m.moderation.Check(ctx, text)
	if err != nil {
		return false, fmt.Errorf("failed to moderate message: %w", err)
	}
	return !flagged, nil
}
