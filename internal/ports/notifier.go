package ports

import (
	"context"

	"github.com/fixr105/Seven-Render-sub004/internal/domain"
)

// Notification is a role-addressed, fire-and-forget message
type Notification struct {
	TargetRole domain.Role            `json:"target_role"`
	Subject    string                 `json:"subject"`
	Message    string                 `json:"message"`
	FileID     string                 `json:"file_id,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

// Notifier delivers notifications to a role. Delivery failure is non-fatal
// to the caller's primary operation, mirroring the audit recorder's policy.
type Notifier interface {
	// Notify sends a notification addressed to a role
	Notify(ctx context.Context, notification Notification) error
}
