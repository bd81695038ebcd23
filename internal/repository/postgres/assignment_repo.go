package postgres

import (
	"context"
	"database/sql"
	"errors"

	"refereehub/internal/domain"
)

const assignmentSelect = `
	SELECT a.id, a.tournament_id, a.user_id, a.role, a.is_confirmed, a.assigned_by, a.assigned_at, a.notes,
		u.first_name, u.last_name, u.email, u.level
	FROM assignments a
	JOIN users u ON u.id = a.user_id
`

type assignmentRepository struct {
	DB *sql.DB
}

// NewAssignmentRepository returns a domain.AssignmentRepository implemented with Postgres.
func NewAssignmentRepository(db *sql.DB) domain.AssignmentRepository {
	return &assignmentRepository{DB: db}
}

func scanAssignment(row rowScanner) (*domain.Assignment, error) {
	a := &domain.Assignment{}
	var notes sql.NullString
	var first, last string
	if err := row.Scan(&a.ID, &a.TournamentID, &a.UserID, &a.Role, &a.IsConfirmed, &a.AssignedBy, &a.AssignedAt, &notes,
		&first, &last, &a.RefereeEmail, &a.RefereeLevel); err != nil {
		return nil, err
	}
	a.Notes = notes.String
	u := domain.User{FirstName: first, LastName: last, Email: a.RefereeEmail}
	a.RefereeName = u.FullName()
	return a, nil
}

func (r *assignmentRepository) Create(ctx context.Context, a *domain.Assignment) error {
	query := `
		INSERT INTO assignments (tournament_id, user_id, role, is_confirmed, assigned_by, assigned_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, a.TournamentID, a.UserID, a.Role, a.IsConfirmed, a.AssignedBy, a.AssignedAt, a.Notes).Scan(&a.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyAssigned
		}
		return err
	}
	return nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, id string) (*domain.Assignment, error) {
	a, err := scanAssignment(r.DB.QueryRowContext(ctx, assignmentSelect+` WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *assignmentRepository) list(ctx context.Context, query, arg string) ([]*domain.Assignment, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]*domain.Assignment, 0)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *assignmentRepository) ListByTournament(ctx context.Context, tournamentID string) ([]*domain.Assignment, error) {
	return r.list(ctx, assignmentSelect+` WHERE a.tournament_id = $1 ORDER BY a.role, u.last_name, u.first_name`, tournamentID)
}

func (r *assignmentRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Assignment, error) {
	return r.list(ctx, assignmentSelect+` WHERE a.user_id = $1 ORDER BY a.assigned_at DESC`, userID)
}

func (r *assignmentRepository) CountByTournament(ctx context.Context, tournamentID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM assignments WHERE tournament_id = $1`, tournamentID).Scan(&n)
	return n, err
}

func (r *assignmentRepository) Confirm(ctx context.Context, id string) (*domain.Assignment, error) {
	result, err := r.DB.ExecContext(ctx, `UPDATE assignments SET is_confirmed = TRUE WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if err := expectRows(result); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *assignmentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectRows(result)
}
