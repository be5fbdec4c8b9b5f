package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fixr105/Seven-Render-sub004/internal/domain"
	"github.com/fixr105/Seven-Render-sub004/internal/ports"
)

// PostgresApplicationRepository implements ApplicationRepository using
// PostgreSQL, for self-hosted deployments that bypass the webhook gateway.
type PostgresApplicationRepository struct {
	db *sql.DB
}

// NewPostgresApplicationRepository creates a new PostgreSQL application repository
func NewPostgresApplicationRepository(db *sql.DB) ports.ApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

// Create saves a new loan application
func (r *PostgresApplicationRepository) Create(ctx context.Context, app *domain.LoanApplication) error {
	return r.upsert(ctx, app)
}

// Update replaces an existing loan application
func (r *PostgresApplicationRepository) Update(ctx context.Context, app *domain.LoanApplication) error {
	return r.upsert(ctx, app)
}

func (r *PostgresApplicationRepository) upsert(ctx context.Context, app *domain.LoanApplication) error {
	query := `
		INSERT INTO loan_applications (id, file_id, client_id, assigned_kam_id, assigned_credit_analyst_id, assigned_nbfc_id, status, form_data, form_config_version, disbursed_amount, disbursed_at, created_at, submitted_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			assigned_credit_analyst_id = EXCLUDED.assigned_credit_analyst_id,
			assigned_nbfc_id = EXCLUDED.assigned_nbfc_id,
			status = EXCLUDED.status,
			form_data = EXCLUDED.form_data,
			form_config_version = EXCLUDED.form_config_version,
			disbursed_amount = EXCLUDED.disbursed_amount,
			disbursed_at = EXCLUDED.disbursed_at,
			submitted_at = EXCLUDED.submitted_at,
			last_updated_at = EXCLUDED.last_updated_at
	`

	var formData []byte
	if app.FormData != nil {
		formData = app.FormData
	}

	_, err := r.db.ExecContext(ctx, query,
		app.ID,
		app.FileID,
		app.ClientID,
		app.AssignedKamID,
		app.AssignedCreditAnalystID,
		app.AssignedNbfcID,
		string(app.Status),
		formData,
		app.FormConfigVersion,
		app.DisbursedAmount,
		app.DisbursedAt,
		app.CreatedAt,
		app.SubmittedAt,
		app.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to write application: %w", err)
	}
	return nil
}

// FindByID retrieves a loan application by its id
func (r *PostgresApplicationRepository) FindByID(ctx context.Context, id string) (*domain.LoanApplication, error) {
	query := `
		SELECT id, file_id, client_id, assigned_kam_id, assigned_credit_analyst_id, assigned_nbfc_id, status, form_data, form_config_version, disbursed_amount, disbursed_at, created_at, submitted_at, last_updated_at
		FROM loan_applications
		WHERE id = $1
	`

	app, err := scanApplication(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ports.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return app, nil
}

// List retrieves loan applications matching the filter
func (r *PostgresApplicationRepository) List(ctx context.Context, filter domain.ApplicationFilter) ([]*domain.LoanApplication, error) {
	query := `
		SELECT id, file_id, client_id, assigned_kam_id, assigned_credit_analyst_id, assigned_nbfc_id, status, form_data, form_config_version, disbursed_amount, disbursed_at, created_at, submitted_at, last_updated_at
		FROM loan_applications
	`

	conditions := []string{}
	args := []interface{}{}
	argIdx := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, string(*filter.Status))
		argIdx++
	}
	if filter.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("client_id = $%d", argIdx))
		args = append(args, *filter.ClientID)
		argIdx++
	}
	if filter.NbfcID != nil {
		conditions = append(conditions, fmt.Sprintf("assigned_nbfc_id = $%d", argIdx))
		args = append(args, *filter.NbfcID)
		argIdx++
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, filter.Limit)
		argIdx++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := []*domain.LoanApplication{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}
	return apps, nil
}

// scanner abstracts *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(row scanner) (*domain.LoanApplication, error) {
	var app domain.LoanApplication
	var analystID sql.NullString
	var nbfcID sql.NullString
	var formData []byte
	var disbursedAmount sql.NullFloat64
	var disbursedAt, submittedAt sql.NullTime

	err := row.Scan(
		&app.ID,
		&app.FileID,
		&app.ClientID,
		&app.AssignedKamID,
		&analystID,
		&nbfcID,
		&app.Status,
		&formData,
		&app.FormConfigVersion,
		&disbursedAmount,
		&disbursedAt,
		&app.CreatedAt,
		&submittedAt,
		&app.LastUpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	app.AssignedCreditAnalystID = analystID.String
	if nbfcID.Valid {
		app.AssignedNbfcID = &nbfcID.String
	}
	if formData != nil {
		app.FormData = json.RawMessage(formData)
	}
	if disbursedAmount.Valid {
		app.DisbursedAmount = &disbursedAmount.Float64
	}
	if disbursedAt.Valid {
		app.DisbursedAt = &disbursedAt.Time
	}
	if submittedAt.Valid {
		app.SubmittedAt = &submittedAt.Time
	}
	return &app, nil
}
