package formschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDefaultSchema(t *testing.T) {
	service, err := NewService("v1", "")
	require.NoError(t, err)
	assert.Equal(t, "v1", service.CurrentVersion())

	assert.NoError(t, service.Validate([]byte(`{"answers":{"turnover":"12cr"}}`)))
	assert.Error(t, service.Validate([]byte(`{"no_answers":true}`)))
	assert.Error(t, service.Validate(nil))
	assert.Error(t, service.Validate([]byte(`not json`)))
}

func TestValidateCustomSchema(t *testing.T) {
	schema := `{
		"type": "object",
		"required": ["answers"],
		"properties": {
			"answers": {
				"type": "object",
				"required": ["loan_amount"],
				"properties": {
					"loan_amount": {"type": "number", "minimum": 1}
				}
			}
		}
	}`

	service, err := NewService("v3", schema)
	require.NoError(t, err)

	assert.NoError(t, service.Validate([]byte(`{"answers":{"loan_amount":500000}}`)))

	err = service.Validate([]byte(`{"answers":{"loan_amount":0}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loan_amount")
}

func TestNewServiceRejectsBadSchema(t *testing.T) {
	_, err := NewService("v1", `{"type": 12}`)
	assert.Error(t, err)
}

func TestNewServiceRequiresVersion(t *testing.T) {
	_, err := NewService("", "")
	assert.Error(t, err)
}
