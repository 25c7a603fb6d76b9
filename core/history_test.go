package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/etiennelac/voxhost/core/llms"
)

func TestHistoryStoreOverwritesWholeFile(t *testing.T) {
	store := NewHistoryStore(filepath.Join(t.TempDir(), "history.json"))

	history, err := store.Load()
	if err != nil {
		t.Fatalf("expected missing file to load cleanly, got %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history before first save, got %d messages", len(history))
	}

	first := []llms.Message{
		{Role: llms.RoleUser, Name: "viewer", Content: "hello"},
		{Role: llms.RoleAssistant, Content: "hi there"},
	}
	if err := store.Save(first); err != nil {
		t.Fatalf("expected save to succeed, got %v", err)
	}

	second := []llms.Message{{Role: llms.RoleUser, Content: "only this"}}
	if err := store.Save(second); err != nil {
		t.Fatalf("expected save to succeed, got %v", err)
	}

	history, err = store.Load()
	if err != nil {
		t.Fatalf("expected load to succeed, got %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected the second save to fully replace the first, got %d messages", len(history))
	}
	if history[0].Content != "only this" {
		t.Fatalf("expected latest content back, got %q", history[0].Content)
	}
}

func TestHistoryStoreKeepsToolCalls(t *testing.T) {
	store := NewHistoryStore(filepath.Join(t.TempDir(), "history.json"))

	call := &llms.ToolCall{ID: "call-1", Name: "create_poll", Arguments: `{"title":"snacks"}`}
	saved := []llms.Message{
		{Role: llms.RoleAssistant, ToolCall: call},
		{Role: llms.RoleTool, Name: call.Name, Content: "Success", ToolCall: call},
	}
	if err := store.Save(saved); err != nil {
		t.Fatalf("expected save to succeed, got %v", err)
	}

	history, err := store.Load()
	if err != nil {
		t.Fatalf("expected load to succeed, got %v", err)
	}
	if history[0].ToolCall == nil || history[0].ToolCall.Name != "create_poll" {
		t.Fatalf("expected tool call to round-trip, got %+v", history[0].ToolCall)
	}
}
