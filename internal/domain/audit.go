package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditActionType is the closed enum of loggable action kinds
type AuditActionType string

const (
	AuditActionApplicationCreated   AuditActionType = "application_created"
	AuditActionApplicationSubmitted AuditActionType = "application_submitted"
	AuditActionStatusChanged        AuditActionType = "status_changed"
	AuditActionQueryRaised          AuditActionType = "query_raised"
	AuditActionQueryReplied         AuditActionType = "query_replied"
	AuditActionQueryResolved        AuditActionType = "query_resolved"
	AuditActionQueryReopened        AuditActionType = "query_reopened"
	AuditActionLoginSucceeded       AuditActionType = "login_succeeded"
)

// AuditLogEntry is an append-only fact describing a state-changing or
// sensitive action. Never mutated or deleted after creation; the id doubles
// as the idempotency key for the store's upsert-by-id write.
type AuditLogEntry struct {
	ID             string          `json:"id"`
	Timestamp      time.Time       `json:"timestamp"`
	ActorIdentity  string          `json:"actor_identity"`
	ActorRole      Role            `json:"actor_role"`
	ActionType     AuditActionType `json:"action_type"`
	TargetFileID   string          `json:"target_file_id,omitempty"`
	DetailsMessage string          `json:"details_message"`
	TargetRole     Role            `json:"target_role,omitempty"`
}

// NewAuditID generates a collision-resistant entry id. A timestamp prefix
// keeps ids roughly sortable; the random suffix keeps concurrent writers
// from colliding, since the store upserts by id.
func NewAuditID(t time.Time) string {
	return fmt.Sprintf("aud_%s_%s", t.UTC().Format("20060102T150405.000000000"), uuid.NewString()[:8])
}
