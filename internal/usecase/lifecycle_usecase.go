package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fixr105/Seven-Render-sub004/internal/domain"
	"github.com/fixr105/Seven-Render-sub004/internal/metrics"
	"github.com/fixr105/Seven-Render-sub004/internal/ports"
)

// CreateApplicationRequest represents the request to create a loan file
type CreateApplicationRequest struct {
	AssignedKamID string          `json:"assigned_kam_id"`
	FormData      json.RawMessage `json:"form_data,omitempty"`
}

// TransitionRequest represents a requested status change
type TransitionRequest struct {
	NewStatus       domain.ApplicationStatus `json:"new_status"`
	Reason          string                   `json:"reason,omitempty"`
	DisbursedAmount *float64                 `json:"disbursed_amount,omitempty"`
	DisbursedDate   *time.Time               `json:"disbursed_date,omitempty"`
}

// LifecycleUseCase is the single write path for all status changes. It
// composes the access filter, the transition guard, the record store and the
// audit recorder in a fixed order: load, ownership check, validate, write,
// audit, notify. The audit and notify steps never unwind the write.
type LifecycleUseCase struct {
	appRepo      ports.ApplicationRepository
	accessFilter *AccessFilter
	auditRepo    ports.AuditRepository
	recorder     *AuditTrailRecorder
	notifier     ports.Notifier
	formSchema   ports.FormSchemaService
	logger       *logrus.Logger
	metrics      *metrics.Metrics
}

// NewLifecycleUseCase creates a new lifecycle use case
func NewLifecycleUseCase(
	appRepo ports.ApplicationRepository,
	accessFilter *AccessFilter,
	auditRepo ports.AuditRepository,
	recorder *AuditTrailRecorder,
	notifier ports.Notifier,
	formSchema ports.FormSchemaService,
	logger *logrus.Logger,
	m *metrics.Metrics,
) *LifecycleUseCase {
	return &LifecycleUseCase{
		appRepo:      appRepo,
		accessFilter: accessFilter,
		auditRepo:    auditRepo,
		recorder:     recorder,
		notifier:     notifier,
		formSchema:   formSchema,
		logger:       logger,
		metrics:      m,
	}
}

// CreateApplication creates a new Draft loan file for the calling client
func (uc *LifecycleUseCase) CreateApplication(ctx context.Context, identity domain.Identity, req CreateApplicationRequest) (*domain.LoanApplication, error) {
	if identity.Role != domain.RoleClient {
		return nil, fmt.Errorf("%w: only a client may create a loan file", domain.ErrPermissionDenied)
	}
	if identity.ClientID == "" {
		return nil, fmt.Errorf("%w: client identity carries no client id", domain.ErrPermissionDenied)
	}
	if req.AssignedKamID == "" {
		return nil, fmt.Errorf("assigned KAM id is required")
	}

	app := domain.NewLoanApplication(identity.ClientID, req.AssignedKamID, req.FormData)

	if err := uc.appRepo.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	uc.recorder.RecordApplicationAction(ctx, identity, app.FileID,
		domain.AuditActionApplicationCreated, "Loan file created in Draft")

	return app, nil
}

// GetApplication retrieves one loan file, enforcing visibility
func (uc *LifecycleUseCase) GetApplication(ctx context.Context, identity domain.Identity, appID string) (*domain.LoanApplication, error) {
	app, err := uc.findApplication(ctx, appID)
	if err != nil {
		return nil, err
	}
	if !uc.accessFilter.CanAccessApplication(ctx, identity, app) {
		return nil, fmt.Errorf("%w: file is outside the caller's scope", domain.ErrPermissionDenied)
	}
	return app, nil
}

// ListApplications lists loan files narrowed to the caller's visibility.
// RBAC is applied post-fetch, before any capability check.
func (uc *LifecycleUseCase) ListApplications(ctx context.Context, identity domain.Identity, filter domain.ApplicationFilter) ([]*domain.LoanApplication, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 200 {
		filter.Limit = 200
	}

	apps, err := uc.appRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	return uc.accessFilter.FilterApplications(ctx, identity, apps), nil
}

// AllowedStatuses enumerates the statuses the caller may move a file to,
// used to drive which actions a caller may even attempt.
func (uc *LifecycleUseCase) AllowedStatuses(ctx context.Context, identity domain.Identity, appID string) ([]domain.ApplicationStatus, error) {
	app, err := uc.GetApplication(ctx, identity, appID)
	if err != nil {
		return nil, err
	}
	capability := domain.CapabilityFor(identity.Role)
	if capability == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, identity.Role)
	}
	return capability.AllowedNextStatuses(app.Status), nil
}

// SubmitApplication moves a Draft file to UnderKamReview
func (uc *LifecycleUseCase) SubmitApplication(ctx context.Context, identity domain.Identity, appID string) (*domain.LoanApplication, error) {
	return uc.TransitionStatus(ctx, identity, appID, TransitionRequest{
		NewStatus: domain.StatusUnderKamReview,
	})
}

// TransitionStatus applies a status change through the fixed write path:
//  1. resolve the current record
//  2. ownership check against this specific record
//  3. validate the transition through the caller's role capability
//  4. apply the new status and side fields in a single record write
//  5. audit entry (failure never unwinds step 4)
//  6. notify the next actor (same policy as step 5)
func (uc *LifecycleUseCase) TransitionStatus(ctx context.Context, identity domain.Identity, appID string, req TransitionRequest) (*domain.LoanApplication, error) {
	if !req.NewStatus.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, req.NewStatus)
	}

	app, err := uc.findApplication(ctx, appID)
	if err != nil {
		return nil, err
	}

	if !uc.accessFilter.CanAccessApplication(ctx, identity, app) {
		return nil, fmt.Errorf("%w: file is outside the caller's scope", domain.ErrPermissionDenied)
	}

	capability := domain.CapabilityFor(identity.Role)
	if capability == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, identity.Role)
	}
	if err := capability.ValidateTransition(app.Status, req.NewStatus); err != nil {
		return nil, err
	}

	from := app.Status
	now := time.Now().UTC()

	if from == domain.StatusDraft && req.NewStatus == domain.StatusUnderKamReview && !app.IsSubmitted() {
		// First submission validates the form payload and freezes the
		// form config version the file was filled against.
		if err := uc.formSchema.Validate(app.FormData); err != nil {
			return nil, fmt.Errorf("form validation failed: %w", err)
		}
		app.MarkSubmitted(uc.formSchema.CurrentVersion(), now)
	}

	if req.NewStatus == domain.StatusDisbursed {
		if req.DisbursedAmount == nil {
			return nil, fmt.Errorf("disbursed amount is required to mark a file disbursed")
		}
		app.DisbursedAmount = req.DisbursedAmount
		disbursedAt := now
		if req.DisbursedDate != nil {
			disbursedAt = *req.DisbursedDate
		}
		app.DisbursedAt = &disbursedAt
	}

	app.Status = req.NewStatus
	app.LastUpdatedAt = now

	if err := uc.appRepo.Update(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}

	uc.metrics.TransitionsTotal.WithLabelValues(string(from), string(req.NewStatus), string(identity.Role)).Inc()

	// The audit entry describes a state that is already true, so it is only
	// issued after the record write completes.
	details := fmt.Sprintf("Status changed from %s to %s", from, req.NewStatus)
	if req.Reason != "" {
		details = fmt.Sprintf("%s: %s", details, req.Reason)
	}
	action := domain.AuditActionStatusChanged
	if from == domain.StatusDraft && req.NewStatus == domain.StatusUnderKamReview {
		action = domain.AuditActionApplicationSubmitted
	}
	entry := uc.recorder.Record(ctx, &domain.AuditLogEntry{
		ActorIdentity:  identity.Email,
		ActorRole:      identity.Role,
		ActionType:     action,
		TargetFileID:   app.FileID,
		DetailsMessage: details,
	})

	uc.notify(ctx, ports.Notification{
		TargetRole: nextActorRole(req.NewStatus),
		Subject:    fmt.Sprintf("Loan file %s moved to %s", app.FileID, req.NewStatus),
		Message:    entry.DetailsMessage,
		FileID:     app.FileID,
	})

	return app, nil
}

// ListAuditTrail returns the audit entries for a file the caller may see
func (uc *LifecycleUseCase) ListAuditTrail(ctx context.Context, identity domain.Identity, appID string, limit int) ([]*domain.AuditLogEntry, error) {
	app, err := uc.GetApplication(ctx, identity, appID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}

	entries, err := uc.auditRepo.ListByFile(ctx, app.FileID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit trail: %w", err)
	}
	return entries, nil
}

func (uc *LifecycleUseCase) findApplication(ctx context.Context, appID string) (*domain.LoanApplication, error) {
	if appID == "" {
		return nil, fmt.Errorf("application id is required")
	}
	app, err := uc.appRepo.FindByID(ctx, appID)
	if err != nil {
		if err == ports.ErrRecordNotFound {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	return app, nil
}

func (uc *LifecycleUseCase) notify(ctx context.Context, notification ports.Notification) {
	if uc.notifier == nil {
		return
	}
	if err := uc.notifier.Notify(ctx, notification); err != nil {
		uc.metrics.NotificationFailures.Inc()
		uc.logger.WithError(err).WithFields(logrus.Fields{
			"target_role": notification.TargetRole,
			"file_id":     notification.FileID,
		}).Error("Failed to deliver notification, continuing without it")
	}
}

// nextActorRole names the role expected to act after a transition lands
func nextActorRole(status domain.ApplicationStatus) domain.Role {
	switch status {
	case domain.StatusUnderKamReview, domain.StatusCreditQueryWithKam:
		return domain.RoleKam
	case domain.StatusQueryWithClient:
		return domain.RoleClient
	case domain.StatusPendingCreditReview, domain.StatusInNegotiation:
		return domain.RoleCreditTeam
	case domain.StatusSentToNbfc:
		return domain.RoleNbfc
	}
	return domain.RoleCreditTeam
}
