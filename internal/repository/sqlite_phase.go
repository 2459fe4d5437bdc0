package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ptarrant/phaseline/internal/db"
	"github.com/ptarrant/phaseline/internal/domain"
)

// SQLitePhaseRepo implements PhaseRepo over a SQLite connection or
// transaction.
type SQLitePhaseRepo struct {
	db db.DBTX
}

// NewSQLitePhaseRepo creates a new SQLitePhaseRepo.
func NewSQLitePhaseRepo(conn db.DBTX) *SQLitePhaseRepo {
	return &SQLitePhaseRepo{db: conn}
}

const phaseColumns = `id, project_id, name, start_date, end_date, color, order_index, created_at, updated_at`

func (r *SQLitePhaseRepo) Create(ctx context.Context, p *domain.Phase) error {
	query := `INSERT INTO phases (` + phaseColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.ProjectID,
		p.Name,
		p.StartDate.Format(dateLayout),
		p.EndDate.Format(dateLayout),
		p.Color,
		p.OrderIndex,
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting phase: %w", err)
	}
	return nil
}

func (r *SQLitePhaseRepo) GetByID(ctx context.Context, id string) (*domain.Phase, error) {
	query := `SELECT ` + phaseColumns + ` FROM phases WHERE id = ?`
	return scanPhase(r.db.QueryRowContext(ctx, query, id))
}

// ListByProject returns a project's phases ordered by start date, the
// canonical order the timeline and the cascade both rely on.
func (r *SQLitePhaseRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Phase, error) {
	query := `SELECT ` + phaseColumns + ` FROM phases WHERE project_id = ? ORDER BY start_date, order_index, id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing phases: %w", err)
	}
	defer rows.Close()

	var phases []*domain.Phase
	for rows.Next() {
		p, err := scanPhase(rows)
		if err != nil {
			return nil, err
		}
		phases = append(phases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating phases: %w", err)
	}
	return phases, nil
}

func (r *SQLitePhaseRepo) Update(ctx context.Context, p *domain.Phase) error {
	query := `UPDATE phases SET name = ?, start_date = ?, end_date = ?, color = ?, order_index = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.StartDate.Format(dateLayout),
		p.EndDate.Format(dateLayout),
		p.Color,
		p.OrderIndex,
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating phase: %w", err)
	}
	return nil
}

// UpdateDates writes only the date columns; gesture commits use this so
// a cascade of shifts stays a cheap sequence of single-column updates.
func (r *SQLitePhaseRepo) UpdateDates(ctx context.Context, id string, start, end string) error {
	query := `UPDATE phases SET start_date = ?, end_date = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, start, end, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating phase dates: %w", err)
	}
	return nil
}

func (r *SQLitePhaseRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM phases WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting phase: %w", err)
	}
	return nil
}

func scanPhase(row rowScanner) (*domain.Phase, error) {
	var p domain.Phase
	var startDateStr, endDateStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&p.ID, &p.ProjectID, &p.Name,
		&startDateStr, &endDateStr,
		&p.Color, &p.OrderIndex,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("phase not found")
		}
		return nil, fmt.Errorf("scanning phase: %w", err)
	}

	var parseErr error
	p.StartDate, parseErr = time.Parse(dateLayout, startDateStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing start_date: %w", parseErr)
	}
	p.EndDate, parseErr = time.Parse(dateLayout, endDateStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing end_date: %w", parseErr)
	}
	p.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	p.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	return &p, nil
}
