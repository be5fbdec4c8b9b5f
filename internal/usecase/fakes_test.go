package usecase

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/fixr105/Seven-Render-sub004/internal/domain"
	"github.com/fixr105/Seven-Render-sub004/internal/metrics"
	"github.com/fixr105/Seven-Render-sub004/internal/ports"
)

// In-memory fakes standing in for the webhook-backed record store.

type fakeAppRepo struct {
	mu      sync.Mutex
	apps    map[string]*domain.LoanApplication
	failErr error
}

func newFakeAppRepo() *fakeAppRepo {
	return &fakeAppRepo{apps: make(map[string]*domain.LoanApplication)}
}

func (r *fakeAppRepo) Create(ctx context.Context, app *domain.LoanApplication) error {
	if r.failErr != nil {
		return r.failErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *app
	r.apps[app.ID] = &clone
	return nil
}

func (r *fakeAppRepo) FindByID(ctx context.Context, id string) (*domain.LoanApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, ports.ErrRecordNotFound
	}
	clone := *app
	return &clone, nil
}

func (r *fakeAppRepo) Update(ctx context.Context, app *domain.LoanApplication) error {
	if r.failErr != nil {
		return r.failErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.apps[app.ID]; !ok {
		return ports.ErrRecordNotFound
	}
	clone := *app
	r.apps[app.ID] = &clone
	return nil
}

func (r *fakeAppRepo) List(ctx context.Context, filter domain.ApplicationFilter) ([]*domain.LoanApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.LoanApplication, 0, len(r.apps))
	for _, app := range r.apps {
		clone := *app
		out = append(out, &clone)
	}
	return out, nil
}

type fakeQueryRepo struct {
	mu      sync.Mutex
	queries map[string]*domain.Query
	failErr error
}

func newFakeQueryRepo() *fakeQueryRepo {
	return &fakeQueryRepo{queries: make(map[string]*domain.Query)}
}

func (r *fakeQueryRepo) Create(ctx context.Context, query *domain.Query) error {
	if r.failErr != nil {
		return r.failErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *query
	r.queries[query.ID] = &clone
	return nil
}

func (r *fakeQueryRepo) FindByID(ctx context.Context, id string) (*domain.Query, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	query, ok := r.queries[id]
	if !ok {
		return nil, ports.ErrRecordNotFound
	}
	clone := *query
	return &clone, nil
}

func (r *fakeQueryRepo) ListByFile(ctx context.Context, fileID string) ([]*domain.Query, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Query{}
	for _, query := range r.queries {
		if query.FileID == fileID {
			clone := *query
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeQueryRepo) Update(ctx context.Context, query *domain.Query) error {
	if r.failErr != nil {
		return r.failErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.queries[query.ID]; !ok {
		return ports.ErrRecordNotFound
	}
	clone := *query
	r.queries[query.ID] = &clone
	return nil
}

type fakeAuditRepo struct {
	mu          sync.Mutex
	entries     map[string]*domain.AuditLogEntry
	upsertCalls int
	failErr     error
}

func newFakeAuditRepo() *fakeAuditRepo {
	return &fakeAuditRepo{entries: make(map[string]*domain.AuditLogEntry)}
}

func (r *fakeAuditRepo) Upsert(ctx context.Context, entry *domain.AuditLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertCalls++
	if r.failErr != nil {
		return r.failErr
	}
	clone := *entry
	r.entries[entry.ID] = &clone
	return nil
}

func (r *fakeAuditRepo) ListByFile(ctx context.Context, fileID string, limit int) ([]*domain.AuditLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.AuditLogEntry{}
	for _, entry := range r.entries {
		if entry.TargetFileID == fileID {
			clone := *entry
			out = append(out, &clone)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeAuditRepo) countByAction(action domain.AuditActionType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, entry := range r.entries {
		if entry.ActionType == action {
			n++
		}
	}
	return n
}

type fakeKamDirectory struct {
	records map[string]*domain.KamRecord
}

func newFakeKamDirectory(records ...*domain.KamRecord) *fakeKamDirectory {
	dir := &fakeKamDirectory{records: make(map[string]*domain.KamRecord)}
	for _, record := range records {
		dir.records[record.Email] = record
	}
	return dir
}

func (d *fakeKamDirectory) FindByEmail(ctx context.Context, email string) (*domain.KamRecord, error) {
	record, ok := d.records[email]
	if !ok {
		return nil, ports.ErrRecordNotFound
	}
	return record, nil
}

type fakeNotifier struct {
	mu            sync.Mutex
	notifications []ports.Notification
	failErr       error
}

func (n *fakeNotifier) Notify(ctx context.Context, notification ports.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failErr != nil {
		return n.failErr
	}
	n.notifications = append(n.notifications, notification)
	return nil
}

type fakeFormSchema struct {
	version string
	failErr error
}

func (s *fakeFormSchema) CurrentVersion() string {
	if s.version == "" {
		return "v1"
	}
	return s.version
}

func (s *fakeFormSchema) Validate(formData json.RawMessage) error {
	return s.failErr
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}
