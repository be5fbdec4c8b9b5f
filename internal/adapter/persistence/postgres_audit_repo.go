package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fixr105/Seven-Render-sub004/internal/domain"
	"github.com/fixr105/Seven-Render-sub004/internal/ports"
)

// PostgresAuditRepository implements AuditRepository using PostgreSQL
type PostgresAuditRepository struct {
	db *sql.DB
}

// NewPostgresAuditRepository creates a new PostgreSQL audit repository
func NewPostgresAuditRepository(db *sql.DB) ports.AuditRepository {
	return &PostgresAuditRepository{db: db}
}

// Upsert writes an audit entry keyed by its id. A retried write with the
// same id updates the existing row instead of appending a duplicate.
func (r *PostgresAuditRepository) Upsert(ctx context.Context, entry *domain.AuditLogEntry) error {
	stmt := `
		INSERT INTO audit_log (id, logged_at, actor_identity, actor_role, action_type, target_file_id, details_message, target_role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			details_message = EXCLUDED.details_message
	`

	_, err := r.db.ExecContext(ctx, stmt,
		entry.ID,
		entry.Timestamp,
		entry.ActorIdentity,
		string(entry.ActorRole),
		string(entry.ActionType),
		entry.TargetFileID,
		entry.DetailsMessage,
		string(entry.TargetRole),
	)
	if err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// ListByFile retrieves audit entries for a loan file, newest first
func (r *PostgresAuditRepository) ListByFile(ctx context.Context, fileID string, limit int) ([]*domain.AuditLogEntry, error) {
	stmt := `
		SELECT id, logged_at, actor_identity, actor_role, action_type, target_file_id, details_message, target_role
		FROM audit_log
		WHERE target_file_id = $1
		ORDER BY logged_at DESC
	`
	args := []interface{}{fileID}
	if limit > 0 {
		stmt += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	entries := []*domain.AuditLogEntry{}
	for rows.Next() {
		var entry domain.AuditLogEntry
		err := rows.Scan(
			&entry.ID,
			&entry.Timestamp,
			&entry.ActorIdentity,
			&entry.ActorRole,
			&entry.ActionType,
			&entry.TargetFileID,
			&entry.DetailsMessage,
			&entry.TargetRole,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit entries: %w", err)
	}
	return entries, nil
}
