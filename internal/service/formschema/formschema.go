package formschema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Service validates submitted form payloads against a versioned JSON
// schema. The version string is frozen onto a loan file at first
// submission, so changing the active schema never re-validates files that
// already left Draft.
type Service struct {
	version string
	schema  *gojsonschema.Schema
}

// DefaultSchema is the baseline application form contract: an answers
// object keyed by field id.
const DefaultSchema = `{
	"type": "object",
	"required": ["answers"],
	"properties": {
		"answers": {
			"type": "object"
		}
	}
}`

// NewService compiles the given schema under the given version label
func NewService(version string, schemaJSON string) (*Service, error) {
	if version == "" {
		return nil, fmt.Errorf("schema version is required")
	}
	if strings.TrimSpace(schemaJSON) == "" {
		schemaJSON = DefaultSchema
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to compile form schema: %w", err)
	}

	return &Service{
		version: version,
		schema:  schema,
	}, nil
}

// CurrentVersion returns the active schema version label
func (s *Service) CurrentVersion() string {
	return s.version
}

// Validate checks a form payload against the active schema
func (s *Service) Validate(formData json.RawMessage) error {
	if len(formData) == 0 {
		return fmt.Errorf("form data is required")
	}

	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(formData))
	if err != nil {
		return fmt.Errorf("failed to validate form data: %w", err)
	}
	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}
		return fmt.Errorf("form data is invalid: %s", strings.Join(messages, "; "))
	}
	return nil
}
