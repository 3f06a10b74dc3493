package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/clearmed/clearmed-api/internal/data/pgxutil"
	"github.com/clearmed/clearmed-api/internal/domain/model"
)

// ScanHistoryRepo persists the per-user scan log in PostgreSQL. Entries are
// append-only; the result payloads themselves are not stored here.
type ScanHistoryRepo struct {
	DB *sql.DB
}

// NewScanHistoryRepo constructs a ScanHistoryRepo.
func NewScanHistoryRepo(db *sql.DB) *ScanHistoryRepo {
	return &ScanHistoryRepo{DB: db}
}

// Append records a triggered execution for a user.
func (r *ScanHistoryRepo) Append(ctx context.Context, email, executionID string) error {
	if r == nil || r.DB == nil {
		return ErrNotConfigured
	}
	if email == "" || executionID == "" {
		return errors.New("email and execution ID are required")
	}
	const query = `
		INSERT INTO scan_history (user_email, execution_id, created_at)
		VALUES ($1, $2, now())`
	if _, err := r.DB.ExecContext(ctx, query, normalizeEmail(email), executionID); err != nil {
		return fmt.Errorf("insert scan_history: %w", err)
	}
	return nil
}

// ListByUser returns a user's scan records, newest first.
func (r *ScanHistoryRepo) ListByUser(ctx context.Context, email string) ([]model.ScanRecord, error) {
	if r == nil || r.DB == nil {
		return nil, ErrNotConfigured
	}
	const query = `
		SELECT execution_id, created_at
		FROM scan_history
		WHERE user_email = $1
		ORDER BY created_at DESC`

	var records []model.ScanRecord
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, normalizeEmail(email))
		if err != nil {
			return err
		}
		defer rows.Close()
		collected, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.ScanRecord])
		if err != nil {
			return err
		}
		records = collected
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("select scan_history: %w", err)
	}
	if records == nil {
		records = []model.ScanRecord{}
	}
	return records, nil
}
