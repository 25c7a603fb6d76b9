package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/etiennelac/voxhost/core/llms"
)

// Entry is a callable tool with its schema and authorization requirement.
type Entry struct {
	Name        string
	Description string
	// AuthorizationRequired hides the entry from speakers that are not the
	// broadcaster.
	AuthorizationRequired bool
	Parameters            *jsonschema.Schema
	Invoke                func(ctx context.Context, arguments string) (string, error)
}

// Registry holds the tools available to the dialogue.
type Registry struct {
	entries []Entry
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Register(entries ...Entry) error {
	for _, entry := range entries {
		if entry.Name == "" {
			return fmt.Errorf("tool name must not be empty")
		}
		if _, ok := r.Lookup(entry.Name); ok {
			return fmt.Errorf("tool already registered: %s", entry.Name)
		}
		r.entries = append(r.entries, entry)
	}
	return nil
}

func (r *Registry) Lookup(name string) (*Entry, bool) {
	for i := range r.entries {
		if r.entries[i].Name == name {
			return &r.entries[i], true
		}
	}
	return nil, false
}

// Visible returns tool definitions for the model, filtered by the speaker's
// authorization.
func (r *Registry) Visible(authorized bool) []llms.Tool {
	var visible []llms.Tool
	for _, entry := range r.entries {
		if entry.AuthorizationRequired && !authorized {
			continue
		}
		visible = append(visible, llms.Tool{
			Name:        entry.Name,
			Description: entry.Description,
			Parameters:  entry.Parameters,
		})
	}
	return visible
}

// NewEntry builds an Entry whose parameter schema is reflected from T and
// whose handler receives decoded arguments.
func NewEntry[T any](name, description string, handler func(ctx context.Context, params T) (string, error)) Entry {
	reflector := jsonschema.Reflector{
		Anonymous:      true,
		ExpandedStruct: true,
		DoNotReference: true,
	}
	var zero T
	schema := reflector.Reflect(&zero)
	schema.Version = ""

	return Entry{
		Name:        name,
		Description: description,
		Parameters:  schema,
		Invoke: func(ctx context.Context, arguments string) (string, error) {
			var params T
			if arguments != "" {
				if err := json.Unmarshal([]byte(arguments), &params); err != nil {
					return "", fmt.Errorf("failed to parse arguments: %w", err)
				}
			}
			return handler(ctx, params)
		},
	}
}
