package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fixr105/Seven-Render-sub004/internal/domain"
	"github.com/fixr105/Seven-Render-sub004/internal/metrics"
	"github.com/fixr105/Seven-Render-sub004/internal/ports"
)

// AuditTrailRecorder appends exactly one immutable fact per loggable action.
// A logging failure never fails the caller's primary operation: the error is
// logged locally and the entry is returned anyway.
type AuditTrailRecorder struct {
	auditRepo ports.AuditRepository
	logger    *logrus.Logger
	metrics   *metrics.Metrics
}

// NewAuditTrailRecorder creates a new audit trail recorder
func NewAuditTrailRecorder(auditRepo ports.AuditRepository, logger *logrus.Logger, m *metrics.Metrics) *AuditTrailRecorder {
	return &AuditTrailRecorder{
		auditRepo: auditRepo,
		logger:    logger,
		metrics:   m,
	}
}

// Record completes the entry (filling id and timestamp if absent) and writes
// it via the store's upsert-by-id. Because the id is the idempotency key, a
// retried write with the same pre-generated id stays one logical entry; the
// id must therefore be generated once per logical action and reused across
// retries of that action.
func (r *AuditTrailRecorder) Record(ctx context.Context, entry *domain.AuditLogEntry) *domain.AuditLogEntry {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if entry.ID == "" {
		entry.ID = domain.NewAuditID(entry.Timestamp)
	}

	if err := r.auditRepo.Upsert(ctx, entry); err != nil {
		r.metrics.AuditWriteFailures.Inc()
		r.logger.WithError(err).WithFields(logrus.Fields{
			"audit_id":    entry.ID,
			"action_type": entry.ActionType,
			"file_id":     entry.TargetFileID,
		}).Error("Failed to write audit entry, continuing without it")
	}

	return entry
}

// RecordStatusChange records a status transition fact
func (r *AuditTrailRecorder) RecordStatusChange(ctx context.Context, identity domain.Identity, fileID string, from, to domain.ApplicationStatus, reason string) *domain.AuditLogEntry {
	details := fmt.Sprintf("Status changed from %s to %s", from, to)
	if reason != "" {
		details = fmt.Sprintf("%s: %s", details, reason)
	}
	return r.Record(ctx, &domain.AuditLogEntry{
		ActorIdentity:  identity.Email,
		ActorRole:      identity.Role,
		ActionType:     domain.AuditActionStatusChanged,
		TargetFileID:   fileID,
		DetailsMessage: details,
	})
}

// RecordApplicationAction records an application-family fact
func (r *AuditTrailRecorder) RecordApplicationAction(ctx context.Context, identity domain.Identity, fileID string, action domain.AuditActionType, details string) *domain.AuditLogEntry {
	return r.Record(ctx, &domain.AuditLogEntry{
		ActorIdentity:  identity.Email,
		ActorRole:      identity.Role,
		ActionType:     action,
		TargetFileID:   fileID,
		DetailsMessage: details,
	})
}

// RecordQueryAction records a query-thread fact addressed to a role
func (r *AuditTrailRecorder) RecordQueryAction(ctx context.Context, identity domain.Identity, fileID string, action domain.AuditActionType, targetRole domain.Role, details string) *domain.AuditLogEntry {
	return r.Record(ctx, &domain.AuditLogEntry{
		ActorIdentity:  identity.Email,
		ActorRole:      identity.Role,
		ActionType:     action,
		TargetFileID:   fileID,
		DetailsMessage: details,
		TargetRole:     targetRole,
	})
}
