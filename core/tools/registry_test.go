package tools

import (
	"context"
	"testing"
)

func TestRegisterRejectsDuplicatesAndEmptyNames(t *testing.T) {
	registry := NewRegistry()

	if err := registry.Register(Entry{Name: "get_time"}); err != nil {
		t.Fatalf("expected first registration to succeed, got %v", err)
	}
	if err := registry.Register(Entry{Name: "get_time"}); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := registry.Register(Entry{}); err == nil {
		t.Fatalf("expected empty name to be rejected")
	}
}

func TestVisibleFiltersByAuthorization(t *testing.T) {
	registry := NewRegistry()
	err := registry.Register(
		Entry{Name: "open_tool"},
		Entry{Name: "guarded_tool", AuthorizationRequired: true},
	)
	if err != nil {
		t.Fatalf("expected registration to succeed, got %v", err)
	}

	unauthorized := registry.Visible(false)
	if len(unauthorized) != 1 || unauthorized[0].Name != "open_tool" {
		t.Fatalf("expected only the open tool without authorization, got %+v", unauthorized)
	}

	authorized := registry.Visible(true)
	if len(authorized) != 2 {
		t.Fatalf("expected both tools with authorization, got %d", len(authorized))
	}
}

func TestNewEntryDecodesTypedArguments(t *testing.T) {
	type pollParams struct {
		Title   string   `json:"title"`
		Choices []string `json:"choices"`
	}

	var got pollParams
	entry := NewEntry("create_poll", "creates a poll",
		func(_ context.Context, params pollParams) (string, error) {
			got = params
			return "ok", nil
		})

	if entry.Parameters == nil {
		t.Fatalf("expected a reflected parameter schema")
	}
	if _, ok := entry.Parameters.Properties.Get("title"); !ok {
		t.Fatalf("expected schema to describe the title property")
	}

	result, err := entry.Invoke(context.Background(), `{"title":"snacks","choices":["chips","fruit"]}`)
	if err != nil {
		t.Fatalf("expected invocation to succeed, got %v", err)
	}
	if result != "ok" {
		t.Fatalf("expected handler result, got %q", result)
	}
	if got.Title != "snacks" || len(got.Choices) != 2 {
		t.Fatalf("expected decoded parameters, got %+v", got)
	}
}

func TestNewEntryRejectsUndecodableArguments(t *testing.T) {
	type params struct {
		Count int `json:"count"`
	}
	entry := NewEntry("count", "", func(context.Context, params) (string, error) {
		return "", nil
	})

	if _, err := entry.Invoke(context.Background(), `not json at all`); err == nil {
		t.Fatalf("expected invalid arguments to error")
	}
}
