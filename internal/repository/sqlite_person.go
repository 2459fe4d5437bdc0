package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ptarrant/phaseline/internal/db"
	"github.com/ptarrant/phaseline/internal/domain"
)

// SQLitePersonRepo implements PersonRepo over a SQLite connection or
// transaction.
type SQLitePersonRepo struct {
	db db.DBTX
}

// NewSQLitePersonRepo creates a new SQLitePersonRepo.
func NewSQLitePersonRepo(conn db.DBTX) *SQLitePersonRepo {
	return &SQLitePersonRepo{db: conn}
}

const personColumns = `id, name, role, weekly_hours, status, created_at, updated_at`

func (r *SQLitePersonRepo) Create(ctx context.Context, p *domain.Person) error {
	query := `INSERT INTO people (` + personColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Role,
		p.WeeklyHours,
		string(p.Status),
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting person: %w", err)
	}
	return nil
}

func (r *SQLitePersonRepo) GetByID(ctx context.Context, id string) (*domain.Person, error) {
	query := `SELECT ` + personColumns + ` FROM people WHERE id = ?`
	return scanPerson(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLitePersonRepo) List(ctx context.Context, includeInactive bool) ([]*domain.Person, error) {
	query := `SELECT ` + personColumns + ` FROM people ORDER BY name`
	if !includeInactive {
		query = `SELECT ` + personColumns + ` FROM people WHERE status = 'active' ORDER BY name`
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing people: %w", err)
	}
	defer rows.Close()

	var people []*domain.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating people: %w", err)
	}
	return people, nil
}

func (r *SQLitePersonRepo) Update(ctx context.Context, p *domain.Person) error {
	query := `UPDATE people SET name = ?, role = ?, weekly_hours = ?, status = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.Role,
		p.WeeklyHours,
		string(p.Status),
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating person: %w", err)
	}
	return nil
}

func (r *SQLitePersonRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM people WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting person: %w", err)
	}
	return nil
}

func scanPerson(row rowScanner) (*domain.Person, error) {
	var p domain.Person
	var statusStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&p.ID, &p.Name, &p.Role, &p.WeeklyHours,
		&statusStr, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("person not found")
		}
		return nil, fmt.Errorf("scanning person: %w", err)
	}

	p.Status = domain.PersonStatus(statusStr)

	var parseErr error
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
