package ports

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/fixr105/Seven-Render-sub004/internal/domain"
)

// ErrRecordNotFound is returned by stores and repositories when an id does
// not resolve to any stored row.
var ErrRecordNotFound = errors.New("record not found")

// Logical table names in the external record store
const (
	TableApplications = "loan_applications"
	TableQueries      = "queries"
	TableAuditLog     = "audit_log"
	TableKams         = "kams"
	TableUsers        = "users"
)

// RecordStore is the narrow boundary contract to the external table store.
// Records are opaque JSON documents addressed by logical table and id;
// Upsert uses the record id as the idempotency key.
type RecordStore interface {
	// Get retrieves a record by id, ErrRecordNotFound if absent
	Get(ctx context.Context, table, id string) (json.RawMessage, error)

	// List retrieves records matching equality filters on top-level fields
	List(ctx context.Context, table string, filter map[string]string) ([]json.RawMessage, error)

	// Upsert creates or replaces the record carrying the given id
	Upsert(ctx context.Context, table, id string, record json.RawMessage) (json.RawMessage, error)
}

// ApplicationRepository defines the interface for loan application persistence
type ApplicationRepository interface {
	// Create saves a new loan application
	Create(ctx context.Context, app *domain.LoanApplication) error

	// FindByID retrieves a loan application by its id
	FindByID(ctx context.Context, id string) (*domain.LoanApplication, error)

	// Update replaces an existing loan application
	Update(ctx context.Context, app *domain.LoanApplication) error

	// List retrieves loan applications matching the filter
	List(ctx context.Context, filter domain.ApplicationFilter) ([]*domain.LoanApplication, error)
}

// QueryRepository defines the interface for query thread persistence
type QueryRepository interface {
	// Create saves a new query node
	Create(ctx context.Context, query *domain.Query) error

	// FindByID retrieves a query node by its id
	FindByID(ctx context.Context, id string) (*domain.Query, error)

	// ListByFile retrieves all query nodes for a loan file
	ListByFile(ctx context.Context, fileID string) ([]*domain.Query, error)

	// Update replaces an existing query node
	Update(ctx context.Context, query *domain.Query) error
}

// AuditRepository defines the interface for the append-only audit trail.
// Upsert-by-id means a retried write with the same id stays one entry.
type AuditRepository interface {
	// Upsert writes an audit entry keyed by its id
	Upsert(ctx context.Context, entry *domain.AuditLogEntry) error

	// ListByFile retrieves audit entries for a loan file
	ListByFile(ctx context.Context, fileID string, limit int) ([]*domain.AuditLogEntry, error)
}

// KamDirectory resolves a KAM login email to its directory record
type KamDirectory interface {
	// FindByEmail retrieves the KAM record for a login email
	FindByEmail(ctx context.Context, email string) (*domain.KamRecord, error)
}

// UserRepository defines the interface for credential lookup at login
type UserRepository interface {
	// FindByEmail retrieves a user account by its canonical email
	FindByEmail(ctx context.Context, email string) (*domain.UserAccount, error)
}
