package postgres

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/Strizzyy/care-engine/internal/domain"
	"github.com/Strizzyy/care-engine/pkg/errors"
)

type escalationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewEscalationRepository creates a new escalation repository
func NewEscalationRepository(db *sql.DB, logger *zap.Logger) *escalationRepository {
	return &escalationRepository{
		db:     db,
		logger: logger,
	}
}

// Add persists a pending escalation case. Case IDs are assumed unique by
// the caller; a colliding ID overwrites the existing row.
func (r *escalationRepository) Add(ctx context.Context, caseID, customerID, issueDetails string) error {
	query := `
		INSERT INTO escalations (case_id, customer_id, issue_details, status, escalation_time)
		VALUES ($1, $2, $3, 'pending', $4)
		ON CONFLICT (case_id) DO UPDATE
		SET customer_id = EXCLUDED.customer_id,
		    issue_details = EXCLUDED.issue_details,
		    status = 'pending',
		    escalation_time = EXCLUDED.escalation_time
	`

	_, err := r.db.ExecContext(ctx, query, caseID, customerID, issueDetails, time.Now().Format(time.RFC3339))
	if err != nil {
		r.logger.Error("Failed to add escalation", zap.String("case_id", caseID), zap.Error(err))
		return err
	}

	return nil
}

func (r *escalationRepository) GetByCaseID(ctx context.Context, caseID string) (*domain.EscalationCase, error) {
	query := `
		SELECT case_id, customer_id, issue_details, status, escalation_time, resolution, resolved_at
		FROM escalations
		WHERE case_id = $1
	`

	esc, err := scanEscalation(r.db.QueryRowContext(ctx, query, caseID))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "escalation", ID: caseID}
	}
	if err != nil {
		r.logger.Error("Failed to get escalation", zap.String("case_id", caseID), zap.Error(err))
		return nil, err
	}

	return esc, nil
}

func (r *escalationRepository) GetByCustomer(ctx context.Context, customerID string) ([]*domain.EscalationCase, error) {
	query := `
		SELECT case_id, customer_id, issue_details, status, escalation_time, resolution, resolved_at
		FROM escalations
		WHERE customer_id = $1
		ORDER BY escalation_time DESC
	`
	return r.queryEscalations(ctx, query, customerID)
}

func (r *escalationRepository) List(ctx context.Context) ([]*domain.EscalationCase, error) {
	query := `
		SELECT case_id, customer_id, issue_details, status, escalation_time, resolution, resolved_at
		FROM escalations
		ORDER BY escalation_time DESC
	`
	return r.queryEscalations(ctx, query)
}

// Resolve marks a pending case resolved with the agent's resolution payload.
// Returns true iff a record was modified.
func (r *escalationRepository) Resolve(ctx context.Context, caseID string, resolution string) (bool, error) {
	query := `
		UPDATE escalations
		SET status = 'resolved', resolution = $2, resolved_at = $3
		WHERE case_id = $1
	`

	result, err := r.db.ExecContext(ctx, query, caseID, resolution, time.Now().Format(time.RFC3339))
	if err != nil {
		r.logger.Error("Failed to resolve escalation", zap.String("case_id", caseID), zap.Error(err))
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *escalationRepository) queryEscalations(ctx context.Context, query string, args ...interface{}) ([]*domain.EscalationCase, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query escalations", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var escalations []*domain.EscalationCase
	for rows.Next() {
		esc, err := scanEscalation(rows)
		if err != nil {
			return nil, err
		}
		escalations = append(escalations, esc)
	}

	return escalations, rows.Err()
}

func scanEscalation(row rowScanner) (*domain.EscalationCase, error) {
	var esc domain.EscalationCase
	var resolution, resolvedAt sql.NullString

	err := row.Scan(
		&esc.CaseID,
		&esc.CustomerID,
		&esc.IssueDetails,
		&esc.Status,
		&esc.EscalationTime,
		&resolution,
		&resolvedAt,
	)
	if err != nil {
		return nil, err
	}

	if resolution.Valid {
		esc.Resolution = &resolution.String
	}
	if resolvedAt.Valid {
		esc.ResolvedAt = &resolvedAt.String
	}

	return &esc, nil
}
