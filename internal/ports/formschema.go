package ports

import "encoding/json"

// FormSchemaService validates form payloads against the active form config.
// The version it reports is frozen onto the application at submission time.
type FormSchemaService interface {
	// CurrentVersion returns the active form config version
	CurrentVersion() string

	// Validate checks a form payload against the active form config
	Validate(formData json.RawMessage) error
}
