package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"refereehub/internal/domain"
)

const tournamentSelect = `
	SELECT t.id, t.name, t.start_date, t.end_date, t.availability_deadline, t.status, t.zone_id, t.club_id,
		t.tournament_type_id, t.description, t.notes, t.created_by, t.created_at, t.updated_at,
		c.name, c.email, z.name, z.code, tt.name, tt.min_referees, tt.max_referees, tt.is_national
	FROM tournaments t
	JOIN clubs c ON c.id = t.club_id
	JOIN zones z ON z.id = t.zone_id
	JOIN tournament_types tt ON tt.id = t.tournament_type_id
`

type tournamentRepository struct {
	DB *sql.DB
}

// NewTournamentRepository returns a domain.TournamentRepository implemented with Postgres.
func NewTournamentRepository(db *sql.DB) domain.TournamentRepository {
	return &tournamentRepository{DB: db}
}

func scanTournament(row rowScanner) (*domain.Tournament, error) {
	t := &domain.Tournament{}
	var status string
	var desc, notes sql.NullString
	if err := row.Scan(&t.ID, &t.Name, &t.StartDate, &t.EndDate, &t.AvailabilityDeadline, &status, &t.ZoneID, &t.ClubID,
		&t.TournamentTypeID, &desc, &notes, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
		&t.ClubName, &t.ClubEmail, &t.ZoneName, &t.ZoneCode, &t.TypeName, &t.MinReferees, &t.MaxReferees, &t.IsNational); err != nil {
		return nil, err
	}
	t.Status = domain.TournamentStatus(status)
	t.Description = desc.String
	t.Notes = notes.String
	return t, nil
}

func (r *tournamentRepository) Create(ctx context.Context, t *domain.Tournament) error {
	query := `
		INSERT INTO tournaments (name, start_date, end_date, availability_deadline, status, zone_id, club_id,
			tournament_type_id, description, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, t.Name, t.StartDate, t.EndDate, t.AvailabilityDeadline, string(t.Status),
		t.ZoneID, t.ClubID, t.TournamentTypeID, t.Description, t.Notes, t.CreatedBy, t.CreatedAt, t.UpdatedAt).Scan(&t.ID)
}

func (r *tournamentRepository) GetByID(ctx context.Context, id string) (*domain.Tournament, error) {
	t, err := scanTournament(r.DB.QueryRowContext(ctx, tournamentSelect+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func tournamentWhere(filter domain.TournamentFilter) *whereBuilder {
	w := &whereBuilder{}
	if filter.ScopeZoneID != "" {
		if filter.ScopeIncludeNational {
			w.add("(t.zone_id = ? OR tt.is_national)", filter.ScopeZoneID)
		} else {
			w.add("t.zone_id = ?", filter.ScopeZoneID)
		}
	}
	if filter.ZoneID != "" {
		w.add("t.zone_id = ?", filter.ZoneID)
	}
	if filter.ClubID != "" {
		w.add("t.club_id = ?", filter.ClubID)
	}
	if filter.TournamentTypeID != "" {
		w.add("t.tournament_type_id = ?", filter.TournamentTypeID)
	}
	if filter.Status != "" {
		w.add("t.status = ?", string(filter.Status))
	}
	if filter.From != nil {
		w.add("t.end_date >= ?", *filter.From)
	}
	if filter.To != nil {
		w.add("t.start_date <= ?", *filter.To)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		w.add("(t.name ILIKE ? OR c.name ILIKE ?)", "%"+s+"%")
	}
	if filter.HideDrafts {
		w.addRaw("t.status <> 'draft'")
	}
	return w
}

func (r *tournamentRepository) List(ctx context.Context, filter domain.TournamentFilter, params domain.PaginationParams) ([]*domain.Tournament, int, error) {
	w := tournamentWhere(filter)

	var total int
	countQuery := `
		SELECT COUNT(*) FROM tournaments t
		JOIN clubs c ON c.id = t.club_id
		JOIN tournament_types tt ON tt.id = t.tournament_type_id
	` + w.clause()
	if err := r.DB.QueryRowContext(ctx, countQuery, w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, args := w.pageClause(params.Limit(), params.Offset())
	query := fmt.Sprintf(`%s %s ORDER BY t.start_date, t.name %s`, tournamentSelect, w.clause(), page)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	list := make([]*domain.Tournament, 0)
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, t)
	}
	return list, total, rows.Err()
}

func (r *tournamentRepository) Update(ctx context.Context, id string, patch domain.TournamentPatch) (*domain.Tournament, error) {
	b := newUpdateBuilder()
	if patch.Name != nil {
		b.set("name", *patch.Name)
	}
	if patch.StartDate != nil {
		b.set("start_date", *patch.StartDate)
	}
	if patch.EndDate != nil {
		b.set("end_date", *patch.EndDate)
	}
	if patch.AvailabilityDeadline != nil {
		b.set("availability_deadline", *patch.AvailabilityDeadline)
	}
	if patch.ClubID != nil {
		b.set("club_id", *patch.ClubID)
	}
	if patch.TournamentTypeID != nil {
		b.set("tournament_type_id", *patch.TournamentTypeID)
	}
	if patch.Description != nil {
		b.set("description", *patch.Description)
	}
	if patch.Notes != nil {
		b.set("notes", *patch.Notes)
	}
	if !b.empty() {
		set, args, idArg := b.build(id)
		query := fmt.Sprintf(`UPDATE tournaments SET %s WHERE id = %s`, set, idArg)
		result, err := r.DB.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		if err := expectRows(result); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

func (r *tournamentRepository) UpdateStatus(ctx context.Context, id string, status domain.TournamentStatus) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE tournaments SET status = $1, updated_at = NOW() WHERE id = $2`, string(status), id)
	if err != nil {
		return err
	}
	return expectRows(result)
}

func (r *tournamentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectRows(result)
}

func (r *tournamentRepository) CountByStatus(ctx context.Context, filter domain.TournamentFilter) ([]domain.StatusCount, error) {
	w := tournamentWhere(filter)
	query := `
		SELECT t.status, COUNT(*) FROM tournaments t
		JOIN clubs c ON c.id = t.club_id
		JOIN tournament_types tt ON tt.id = t.tournament_type_id
	` + w.clause() + ` GROUP BY t.status ORDER BY t.status`
	rows, err := r.DB.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make([]domain.StatusCount, 0)
	for rows.Next() {
		var c domain.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
