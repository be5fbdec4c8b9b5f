package webhookstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/fixr105/Seven-Render-sub004/internal/domain"
	"github.com/fixr105/Seven-Render-sub004/internal/ports"
)

// Typed repositories over the generic record store. Each marshals its domain
// struct into the opaque record document the gateway stores.

// ApplicationRepository implements ports.ApplicationRepository over the store
type ApplicationRepository struct {
	store ports.RecordStore
}

// NewApplicationRepository creates a new webhook-backed application repository
func NewApplicationRepository(store ports.RecordStore) *ApplicationRepository {
	return &ApplicationRepository{store: store}
}

// Create saves a new loan application
func (r *ApplicationRepository) Create(ctx context.Context, app *domain.LoanApplication) error {
	return r.write(ctx, app)
}

// Update replaces an existing loan application
func (r *ApplicationRepository) Update(ctx context.Context, app *domain.LoanApplication) error {
	return r.write(ctx, app)
}

func (r *ApplicationRepository) write(ctx context.Context, app *domain.LoanApplication) error {
	record, err := json.Marshal(app)
	if err != nil {
		return fmt.Errorf("failed to marshal application: %w", err)
	}
	if _, err := r.store.Upsert(ctx, ports.TableApplications, app.ID, record); err != nil {
		return fmt.Errorf("failed to write application: %w", err)
	}
	return nil
}

// FindByID retrieves a loan application by its id
func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*domain.LoanApplication, error) {
	record, err := r.store.Get(ctx, ports.TableApplications, id)
	if err != nil {
		return nil, err
	}
	var app domain.LoanApplication
	if err := json.Unmarshal(record, &app); err != nil {
		return nil, fmt.Errorf("failed to unmarshal application: %w", err)
	}
	return &app, nil
}

// List retrieves loan applications matching the filter
func (r *ApplicationRepository) List(ctx context.Context, filter domain.ApplicationFilter) ([]*domain.LoanApplication, error) {
	remote := map[string]string{}
	if filter.Status != nil {
		remote["status"] = string(*filter.Status)
	}
	if filter.ClientID != nil {
		remote["client_id"] = *filter.ClientID
	}
	if filter.NbfcID != nil {
		remote["assigned_nbfc_id"] = *filter.NbfcID
	}

	records, err := r.store.List(ctx, ports.TableApplications, remote)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	apps := make([]*domain.LoanApplication, 0, len(records))
	for _, record := range records {
		var app domain.LoanApplication
		if err := json.Unmarshal(record, &app); err != nil {
			return nil, fmt.Errorf("failed to unmarshal application: %w", err)
		}
		apps = append(apps, &app)
	}

	sort.Slice(apps, func(i, j int) bool {
		return apps[i].CreatedAt.After(apps[j].CreatedAt)
	})

	// The gateway has no pagination; apply limit/offset post-fetch
	if filter.Offset > 0 {
		if filter.Offset >= len(apps) {
			return []*domain.LoanApplication{}, nil
		}
		apps = apps[filter.Offset:]
	}
	if filter.Limit > 0 && len(apps) > filter.Limit {
		apps = apps[:filter.Limit]
	}
	return apps, nil
}

// QueryRepository implements ports.QueryRepository over the store
type QueryRepository struct {
	store ports.RecordStore
}

// NewQueryRepository creates a new webhook-backed query repository
func NewQueryRepository(store ports.RecordStore) *QueryRepository {
	return &QueryRepository{store: store}
}

// Create saves a new query node
func (r *QueryRepository) Create(ctx context.Context, query *domain.Query) error {
	return r.write(ctx, query)
}

// Update replaces an existing query node
func (r *QueryRepository) Update(ctx context.Context, query *domain.Query) error {
	return r.write(ctx, query)
}

func (r *QueryRepository) write(ctx context.Context, query *domain.Query) error {
	record, err := json.Marshal(query)
	if err != nil {
		return fmt.Errorf("failed to marshal query: %w", err)
	}
	if _, err := r.store.Upsert(ctx, ports.TableQueries, query.ID, record); err != nil {
		return fmt.Errorf("failed to write query: %w", err)
	}
	return nil
}

// FindByID retrieves a query node by its id
func (r *QueryRepository) FindByID(ctx context.Context, id string) (*domain.Query, error) {
	record, err := r.store.Get(ctx, ports.TableQueries, id)
	if err != nil {
		return nil, err
	}
	var query domain.Query
	if err := json.Unmarshal(record, &query); err != nil {
		return nil, fmt.Errorf("failed to unmarshal query: %w", err)
	}
	return &query, nil
}

// ListByFile retrieves all query nodes for a loan file
func (r *QueryRepository) ListByFile(ctx context.Context, fileID string) ([]*domain.Query, error) {
	records, err := r.store.List(ctx, ports.TableQueries, map[string]string{"file_id": fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to list queries: %w", err)
	}

	queries := make([]*domain.Query, 0, len(records))
	for _, record := range records {
		var query domain.Query
		if err := json.Unmarshal(record, &query); err != nil {
			return nil, fmt.Errorf("failed to unmarshal query: %w", err)
		}
		queries = append(queries, &query)
	}

	sort.Slice(queries, func(i, j int) bool {
		return queries[i].CreatedAt.Before(queries[j].CreatedAt)
	})
	return queries, nil
}

// AuditRepository implements ports.AuditRepository over the store
type AuditRepository struct {
	store ports.RecordStore
}

// NewAuditRepository creates a new webhook-backed audit repository
func NewAuditRepository(store ports.RecordStore) *AuditRepository {
	return &AuditRepository{store: store}
}

// Upsert writes an audit entry keyed by its id
func (r *AuditRepository) Upsert(ctx context.Context, entry *domain.AuditLogEntry) error {
	record, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}
	if _, err := r.store.Upsert(ctx, ports.TableAuditLog, entry.ID, record); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// ListByFile retrieves audit entries for a loan file, newest first
func (r *AuditRepository) ListByFile(ctx context.Context, fileID string, limit int) ([]*domain.AuditLogEntry, error) {
	records, err := r.store.List(ctx, ports.TableAuditLog, map[string]string{"target_file_id": fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	entries := make([]*domain.AuditLogEntry, 0, len(records))
	for _, record := range records {
		var entry domain.AuditLogEntry
		if err := json.Unmarshal(record, &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal audit entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// KamDirectory implements ports.KamDirectory over the store
type KamDirectory struct {
	store ports.RecordStore
}

// NewKamDirectory creates a new webhook-backed KAM directory
func NewKamDirectory(store ports.RecordStore) *KamDirectory {
	return &KamDirectory{store: store}
}

// FindByEmail retrieves the KAM record for a login email
func (d *KamDirectory) FindByEmail(ctx context.Context, email string) (*domain.KamRecord, error) {
	records, err := d.store.List(ctx, ports.TableKams, map[string]string{"email": email})
	if err != nil {
		return nil, fmt.Errorf("failed to look up KAM: %w", err)
	}
	if len(records) == 0 {
		return nil, ports.ErrRecordNotFound
	}
	var record domain.KamRecord
	if err := json.Unmarshal(records[0], &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal KAM record: %w", err)
	}
	return &record, nil
}

// UserRepository implements ports.UserRepository over the store
type UserRepository struct {
	store ports.RecordStore
}

// NewUserRepository creates a new webhook-backed user repository
func NewUserRepository(store ports.RecordStore) *UserRepository {
	return &UserRepository{store: store}
}

// FindByEmail retrieves a user account by its canonical email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.UserAccount, error) {
	records, err := r.store.List(ctx, ports.TableUsers, map[string]string{"email": email})
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if len(records) == 0 {
		return nil, ports.ErrRecordNotFound
	}
	var account domain.UserAccount
	if err := json.Unmarshal(records[0], &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user account: %w", err)
	}
	return &account, nil
}
