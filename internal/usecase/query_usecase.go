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

// RaiseQueryRequest represents the request to start a query thread
type RaiseQueryRequest struct {
	TargetRole domain.Role `json:"target_role"`
	Message    string      `json:"message"`
}

// QueryView is a decoded query node for callers
type QueryView struct {
	ID         string             `json:"id"`
	FileID     string             `json:"file_id"`
	AuthorID   string             `json:"author_id"`
	AuthorRole domain.Role        `json:"author_role"`
	TargetRole domain.Role        `json:"target_role,omitempty"`
	ParentID   string             `json:"parent_id,omitempty"`
	Status     domain.QueryStatus `json:"status"`
	Message    string             `json:"message"`
	CreatedAt  time.Time          `json:"created_at"`
}

// QueryUseCase implements the threaded query engine: any role may raise a
// blocking question against a visible file, replies chain to the root, and
// only the root's original author may resolve or reopen it.
type QueryUseCase struct {
	queryRepo    ports.QueryRepository
	appRepo      ports.ApplicationRepository
	accessFilter *AccessFilter
	recorder     *AuditTrailRecorder
	notifier     ports.Notifier
	logger       *logrus.Logger
	metrics      *metrics.Metrics
}

// NewQueryUseCase creates a new query use case
func NewQueryUseCase(
	queryRepo ports.QueryRepository,
	appRepo ports.ApplicationRepository,
	accessFilter *AccessFilter,
	recorder *AuditTrailRecorder,
	notifier ports.Notifier,
	logger *logrus.Logger,
	m *metrics.Metrics,
) *QueryUseCase {
	return &QueryUseCase{
		queryRepo:    queryRepo,
		appRepo:      appRepo,
		accessFilter: accessFilter,
		recorder:     recorder,
		notifier:     notifier,
		logger:       logger,
		metrics:      m,
	}
}

// RaiseQuery starts a thread against a loan file
func (uc *QueryUseCase) RaiseQuery(ctx context.Context, identity domain.Identity, appID string, req RaiseQueryRequest) (*QueryView, error) {
	if req.Message == "" {
		return nil, fmt.Errorf("query message is required")
	}
	if !req.TargetRole.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, req.TargetRole)
	}

	app, err := uc.visibleApplication(ctx, identity, appID)
	if err != nil {
		return nil, err
	}

	query := domain.NewRootQuery(app.FileID, identity.Email, identity.Role, req.TargetRole, req.Message)
	if err := uc.queryRepo.Create(ctx, query); err != nil {
		return nil, fmt.Errorf("failed to create query: %w", err)
	}

	uc.recorder.RecordQueryAction(ctx, identity, app.FileID,
		domain.AuditActionQueryRaised, req.TargetRole,
		fmt.Sprintf("Query raised for %s: %s", req.TargetRole, req.Message))

	uc.notifyRole(ctx, req.TargetRole, app.FileID,
		fmt.Sprintf("New query on loan file %s", app.FileID), req.Message)

	return toQueryView(query), nil
}

// ReplyQuery appends a reply node to an existing thread
func (uc *QueryUseCase) ReplyQuery(ctx context.Context, identity domain.Identity, appID, queryID, message string) (*QueryView, error) {
	if message == "" {
		return nil, fmt.Errorf("reply message is required")
	}

	app, err := uc.visibleApplication(ctx, identity, appID)
	if err != nil {
		return nil, err
	}

	root, err := uc.findRoot(ctx, app.FileID, queryID)
	if err != nil {
		return nil, err
	}

	reply := domain.NewReplyQuery(app.FileID, root.ID, identity.Email, identity.Role, message)
	if err := uc.queryRepo.Create(ctx, reply); err != nil {
		return nil, fmt.Errorf("failed to create reply: %w", err)
	}

	uc.recorder.RecordQueryAction(ctx, identity, app.FileID,
		domain.AuditActionQueryReplied, root.AuthorRole,
		fmt.Sprintf("Reply to query %s: %s", root.ID, message))

	uc.notifyRole(ctx, root.AuthorRole, app.FileID,
		fmt.Sprintf("Reply on loan file %s", app.FileID), message)

	return toQueryView(reply), nil
}

// ResolveQuery flips a thread root from open to resolved. Resolution
// authority is author-only: only the identity that authored the root may
// resolve it, regardless of role hierarchy. An empty stored author is a
// deliberate escape hatch for legacy rows and permits anyone.
func (uc *QueryUseCase) ResolveQuery(ctx context.Context, identity domain.Identity, appID, queryID string) (*QueryView, error) {
	view, err := uc.setThreadStatus(ctx, identity, appID, queryID, domain.QueryStatusResolved)
	if err != nil {
		return nil, err
	}
	uc.metrics.QueriesResolvedTotal.Inc()
	return view, nil
}

// ReopenQuery flips a resolved thread root back to open. Reopen follows the
// same author-only rule as resolve.
func (uc *QueryUseCase) ReopenQuery(ctx context.Context, identity domain.Identity, appID, queryID string) (*QueryView, error) {
	return uc.setThreadStatus(ctx, identity, appID, queryID, domain.QueryStatusOpen)
}

// ListQueries returns the decoded thread nodes for a visible file
func (uc *QueryUseCase) ListQueries(ctx context.Context, identity domain.Identity, appID string) ([]*QueryView, error) {
	app, err := uc.visibleApplication(ctx, identity, appID)
	if err != nil {
		return nil, err
	}

	queries, err := uc.queryRepo.ListByFile(ctx, app.FileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list queries: %w", err)
	}

	views := make([]*QueryView, len(queries))
	for i, q := range queries {
		views[i] = toQueryView(q)
	}
	return views, nil
}

func (uc *QueryUseCase) setThreadStatus(ctx context.Context, identity domain.Identity, appID, queryID string, status domain.QueryStatus) (*QueryView, error) {
	app, err := uc.visibleApplication(ctx, identity, appID)
	if err != nil {
		return nil, err
	}

	root, err := uc.findRoot(ctx, app.FileID, queryID)
	if err != nil {
		return nil, err
	}

	// Exact, case-sensitive equality on the canonical identity field.
	if root.AuthorID != "" && root.AuthorID != identity.Email {
		return nil, domain.ErrNotQueryAuthor
	}

	// A flip to the current status would fabricate audit and notification
	// traffic for a change that never happened.
	if current := root.Status(); current == status {
		return nil, fmt.Errorf("%w: query %s is already %s", domain.ErrInvalidStatus, root.ID, current)
	}

	root.Content = domain.UpdateQueryStatus(root.Content, status)
	if err := uc.queryRepo.Update(ctx, root); err != nil {
		return nil, fmt.Errorf("failed to update query: %w", err)
	}

	action := domain.AuditActionQueryResolved
	verb := "resolved"
	if status == domain.QueryStatusOpen {
		action = domain.AuditActionQueryReopened
		verb = "reopened"
	}
	uc.recorder.RecordQueryAction(ctx, identity, app.FileID, action, root.TargetRole,
		fmt.Sprintf("Query %s %s by its author", root.ID, verb))

	uc.notifyRole(ctx, root.TargetRole, app.FileID,
		fmt.Sprintf("Query %s on loan file %s", verb, app.FileID), root.Message())

	return toQueryView(root), nil
}

// findRoot resolves a query id to its thread root. A reply id is followed to
// its parent; a dangling id or parent surfaces as "Query not found"
// regardless of caller.
func (uc *QueryUseCase) findRoot(ctx context.Context, fileID, queryID string) (*domain.Query, error) {
	node, err := uc.findQuery(ctx, fileID, queryID)
	if err != nil {
		return nil, err
	}

	if parentID := node.ParentID(); parentID != "" {
		return uc.findQuery(ctx, fileID, parentID)
	}
	return node, nil
}

func (uc *QueryUseCase) findQuery(ctx context.Context, fileID, queryID string) (*domain.Query, error) {
	if queryID == "" {
		return nil, domain.ErrQueryNotFound
	}
	query, err := uc.queryRepo.FindByID(ctx, queryID)
	if err != nil {
		if err == ports.ErrRecordNotFound {
			return nil, domain.ErrQueryNotFound
		}
		return nil, fmt.Errorf("failed to load query: %w", err)
	}
	if query.FileID != fileID {
		return nil, domain.ErrQueryNotFound
	}
	return query, nil
}

func (uc *QueryUseCase) visibleApplication(ctx context.Context, identity domain.Identity, appID string) (*domain.LoanApplication, error) {
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
	if !uc.accessFilter.CanAccessApplication(ctx, identity, app) {
		return nil, fmt.Errorf("%w: file is outside the caller's scope", domain.ErrPermissionDenied)
	}
	return app, nil
}

func (uc *QueryUseCase) notifyRole(ctx context.Context, role domain.Role, fileID, subject, message string) {
	if uc.notifier == nil {
		return
	}
	err := uc.notifier.Notify(ctx, ports.Notification{
		TargetRole: role,
		Subject:    subject,
		Message:    message,
		FileID:     fileID,
	})
	if err != nil {
		uc.metrics.NotificationFailures.Inc()
		uc.logger.WithError(err).WithFields(logrus.Fields{
			"target_role": role,
			"file_id":     fileID,
		}).Error("Failed to deliver notification, continuing without it")
	}
}

func toQueryView(q *domain.Query) *QueryView {
	content := domain.ParseQueryContent(q.Content)
	return &QueryView{
		ID:         q.ID,
		FileID:     q.FileID,
		AuthorID:   q.AuthorID,
		AuthorRole: q.AuthorRole,
		TargetRole: q.TargetRole,
		ParentID:   content.Parent,
		Status:     content.Status,
		Message:    content.Message,
		CreatedAt:  q.CreatedAt,
	}
}
