package llms

import "github.com/invopop/jsonschema"

// Tool describes a callable function advertised to the model.
type Tool struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
}
