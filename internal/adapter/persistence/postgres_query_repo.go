package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fixr105/Seven-Render-sub004/internal/domain"
	"github.com/fixr105/Seven-Render-sub004/internal/ports"
)

// PostgresQueryRepository implements QueryRepository using PostgreSQL
type PostgresQueryRepository struct {
	db *sql.DB
}

// NewPostgresQueryRepository creates a new PostgreSQL query repository
func NewPostgresQueryRepository(db *sql.DB) ports.QueryRepository {
	return &PostgresQueryRepository{db: db}
}

// Create saves a new query node
func (r *PostgresQueryRepository) Create(ctx context.Context, query *domain.Query) error {
	return r.upsert(ctx, query)
}

// Update replaces an existing query node
func (r *PostgresQueryRepository) Update(ctx context.Context, query *domain.Query) error {
	return r.upsert(ctx, query)
}

func (r *PostgresQueryRepository) upsert(ctx context.Context, query *domain.Query) error {
	stmt := `
		INSERT INTO queries (id, file_id, author_id, author_role, target_role, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content
	`

	_, err := r.db.ExecContext(ctx, stmt,
		query.ID,
		query.FileID,
		query.AuthorID,
		string(query.AuthorRole),
		string(query.TargetRole),
		query.Content,
		query.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to write query: %w", err)
	}
	return nil
}

// FindByID retrieves a query node by its id
func (r *PostgresQueryRepository) FindByID(ctx context.Context, id string) (*domain.Query, error) {
	stmt := `
		SELECT id, file_id, author_id, author_role, target_role, content, created_at
		FROM queries
		WHERE id = $1
	`

	query, err := scanQuery(r.db.QueryRowContext(ctx, stmt, id))
	if err == sql.ErrNoRows {
		return nil, ports.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find query: %w", err)
	}
	return query, nil
}

// ListByFile retrieves all query nodes for a loan file, oldest first
func (r *PostgresQueryRepository) ListByFile(ctx context.Context, fileID string) ([]*domain.Query, error) {
	stmt := `
		SELECT id, file_id, author_id, author_role, target_role, content, created_at
		FROM queries
		WHERE file_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, stmt, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list queries: %w", err)
	}
	defer rows.Close()

	queries := []*domain.Query{}
	for rows.Next() {
		query, err := scanQuery(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan query: %w", err)
		}
		queries = append(queries, query)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate queries: %w", err)
	}
	return queries, nil
}

func scanQuery(row scanner) (*domain.Query, error) {
	var query domain.Query
	err := row.Scan(
		&query.ID,
		&query.FileID,
		&query.AuthorID,
		&query.AuthorRole,
		&query.TargetRole,
		&query.Content,
		&query.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &query, nil
}
