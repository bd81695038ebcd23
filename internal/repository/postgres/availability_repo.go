package postgres

import (
	"context"
	"database/sql"
	"errors"

	"refereehub/internal/domain"
)

type availabilityRepository struct {
	DB *sql.DB
}

// NewAvailabilityRepository returns a domain.AvailabilityRepository implemented with Postgres.
func NewAvailabilityRepository(db *sql.DB) domain.AvailabilityRepository {
	return &availabilityRepository{DB: db}
}

const insertAvailability = `
	INSERT INTO availabilities (user_id, tournament_id, notes, submitted_at)
	VALUES ($1, $2, $3, $4)
	RETURNING id
`

func (r *availabilityRepository) Create(ctx context.Context, a *domain.Availability) error {
	err := r.DB.QueryRowContext(ctx, insertAvailability, a.UserID, a.TournamentID, a.Notes, a.SubmittedAt).Scan(&a.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyDeclared
		}
		return err
	}
	return nil
}

func scanAvailability(row rowScanner) (*domain.Availability, error) {
	a := &domain.Availability{}
	var notes sql.NullString
	if err := row.Scan(&a.ID, &a.UserID, &a.TournamentID, &notes, &a.SubmittedAt); err != nil {
		return nil, err
	}
	a.Notes = notes.String
	return a, nil
}

func (r *availabilityRepository) GetByUserAndTournament(ctx context.Context, userID, tournamentID string) (*domain.Availability, error) {
	query := `
		SELECT id, user_id, tournament_id, notes, submitted_at
		FROM availabilities
		WHERE user_id = $1 AND tournament_id = $2
	`
	a, err := scanAvailability(r.DB.QueryRowContext(ctx, query, userID, tournamentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *availabilityRepository) Delete(ctx context.Context, userID, tournamentID string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM availabilities WHERE user_id = $1 AND tournament_id = $2`, userID, tournamentID)
	if err != nil {
		return err
	}
	return expectRows(result)
}

func (r *availabilityRepository) list(ctx context.Context, query string, arg string) ([]*domain.Availability, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]*domain.Availability, 0)
	for rows.Next() {
		a, err := scanAvailability(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *availabilityRepository) ListByTournament(ctx context.Context, tournamentID string) ([]*domain.Availability, error) {
	return r.list(ctx, `
		SELECT id, user_id, tournament_id, notes, submitted_at
		FROM availabilities
		WHERE tournament_id = $1
		ORDER BY submitted_at
	`, tournamentID)
}

func (r *availabilityRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Availability, error) {
	return r.list(ctx, `
		SELECT id, user_id, tournament_id, notes, submitted_at
		FROM availabilities
		WHERE user_id = $1
		ORDER BY submitted_at DESC
	`, userID)
}

func (r *availabilityRepository) CountByTournament(ctx context.Context, tournamentID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM availabilities WHERE tournament_id = $1`, tournamentID).Scan(&n)
	return n, err
}

func (r *availabilityRepository) Sync(ctx context.Context, userID string, add []*domain.Availability, remove []string) error {
	return runInTx(ctx, r.DB, func(tx *sql.Tx) error {
		for _, tournamentID := range remove {
			if _, err := tx.ExecContext(ctx, `DELETE FROM availabilities WHERE user_id = $1 AND tournament_id = $2`, userID, tournamentID); err != nil {
				return err
			}
		}
		for _, a := range add {
			if err := tx.QueryRowContext(ctx, insertAvailability, userID, a.TournamentID, a.Notes, a.SubmittedAt).Scan(&a.ID); err != nil {
				if isUniqueViolation(err) {
					return domain.ErrAlreadyDeclared
				}
				return err
			}
			a.UserID = userID
		}
		return nil
	})
}
