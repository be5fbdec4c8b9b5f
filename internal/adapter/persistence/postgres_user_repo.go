package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/fixr105/Seven-Render-sub004/internal/domain"
	"github.com/fixr105/Seven-Render-sub004/internal/ports"
)

// PostgresUserRepository implements UserRepository using PostgreSQL
type PostgresUserRepository struct {
	db *sql.DB
}

// NewPostgresUserRepository creates a new PostgreSQL user repository
func NewPostgresUserRepository(db *sql.DB) ports.UserRepository {
	return &PostgresUserRepository{db: db}
}

// FindByEmail retrieves a user account by its canonical email
func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*domain.UserAccount, error) {
	stmt := `
		SELECT id, email, password_hash, role, client_id, kam_id, nbfc_id
		FROM users
		WHERE email = $1
	`

	var account domain.UserAccount
	var clientID, kamID, nbfcID sql.NullString
	err := r.db.QueryRowContext(ctx, stmt, email).Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.Role,
		&clientID,
		&kamID,
		&nbfcID,
	)
	if err == sql.ErrNoRows {
		return nil, ports.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	account.ClientID = clientID.String
	account.KamID = kamID.String
	account.NbfcID = nbfcID.String
	return &account, nil
}

// PostgresKamDirectory implements KamDirectory using PostgreSQL
type PostgresKamDirectory struct {
	db *sql.DB
}

// NewPostgresKamDirectory creates a new PostgreSQL KAM directory
func NewPostgresKamDirectory(db *sql.DB) ports.KamDirectory {
	return &PostgresKamDirectory{db: db}
}

// FindByEmail retrieves the KAM record for a login email
func (d *PostgresKamDirectory) FindByEmail(ctx context.Context, email string) (*domain.KamRecord, error) {
	stmt := `
		SELECT id, email, kam_id, name, client_ids
		FROM kams
		WHERE email = $1
	`

	var record domain.KamRecord
	err := d.db.QueryRowContext(ctx, stmt, email).Scan(
		&record.ID,
		&record.Email,
		&record.KamID,
		&record.Name,
		pq.Array(&record.ClientIDs),
	)
	if err == sql.ErrNoRows {
		return nil, ports.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find KAM: %w", err)
	}
	return &record, nil
}
