package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FormConfigLatest is the form config version an application resolves to
// before submission freezes it.
const FormConfigLatest = "latest"

// LoanApplication represents one loan file tracked through its lifecycle
type LoanApplication struct {
	ID                      string            `json:"id"`
	FileID                  string            `json:"file_id"`
	ClientID                string            `json:"client_id"`
	AssignedKamID           string            `json:"assigned_kam_id"`
	AssignedCreditAnalystID string            `json:"assigned_credit_analyst_id,omitempty"`
	AssignedNbfcID          *string           `json:"assigned_nbfc_id,omitempty"`
	Status                  ApplicationStatus `json:"status"`
	FormData                json.RawMessage   `json:"form_data,omitempty"`
	FormConfigVersion       string            `json:"form_config_version"`
	DisbursedAmount         *float64          `json:"disbursed_amount,omitempty"`
	DisbursedAt             *time.Time        `json:"disbursed_at,omitempty"`
	CreatedAt               time.Time         `json:"created_at"`
	SubmittedAt             *time.Time        `json:"submitted_at,omitempty"`
	LastUpdatedAt           time.Time         `json:"last_updated_at"`
}

// NewLoanApplication creates a new loan file in Draft for a client
func NewLoanApplication(clientID, assignedKamID string, formData json.RawMessage) *LoanApplication {
	now := time.Now().UTC()
	return &LoanApplication{
		ID:                generateApplicationID(),
		FileID:            generateFileID(now),
		ClientID:          clientID,
		AssignedKamID:     assignedKamID,
		Status:            StatusDraft,
		FormData:          formData,
		FormConfigVersion: FormConfigLatest,
		CreatedAt:         now,
		LastUpdatedAt:     now,
	}
}

// IsSubmitted reports whether the file left Draft at least once
func (a *LoanApplication) IsSubmitted() bool {
	return a.SubmittedAt != nil
}

// MarkSubmitted records the submission time and freezes the form config
// version. Once set, the version is immutable.
func (a *LoanApplication) MarkSubmitted(configVersion string, at time.Time) {
	if a.SubmittedAt != nil {
		return
	}
	a.SubmittedAt = &at
	a.FormConfigVersion = configVersion
	a.LastUpdatedAt = at
}

// ApplicationFilter represents filters for listing loan applications
type ApplicationFilter struct {
	Status   *ApplicationStatus `json:"status,omitempty"`
	ClientID *string            `json:"client_id,omitempty"`
	NbfcID   *string            `json:"nbfc_id,omitempty"`
	Limit    int                `json:"limit"`
	Offset   int                `json:"offset"`
}

func generateApplicationID() string {
	return "app_" + uuid.NewString()
}

func generateFileID(t time.Time) string {
	return fmt.Sprintf("LF-%s-%s", t.Format("20060102"), uuid.NewString()[:8])
}
