package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"refereehub/internal/domain"
)

type zoneRepository struct {
	DB *sql.DB
}

// NewZoneRepository returns a domain.ZoneRepository implemented with Postgres.
func NewZoneRepository(db *sql.DB) domain.ZoneRepository {
	return &zoneRepository{DB: db}
}

func (r *zoneRepository) Create(ctx context.Context, z *domain.Zone) error {
	query := `
		INSERT INTO zones (name, code, is_national, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, z.Name, z.Code, z.IsNational, z.CreatedAt).Scan(&z.ID)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateCode
	}
	return err
}

func (r *zoneRepository) GetByID(ctx context.Context, id string) (*domain.Zone, error) {
	z := &domain.Zone{}
	err := r.DB.QueryRowContext(ctx, `SELECT id, name, code, is_national, created_at FROM zones WHERE id = $1`, id).
		Scan(&z.ID, &z.Name, &z.Code, &z.IsNational, &z.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return z, nil
}

func (r *zoneRepository) List(ctx context.Context) ([]*domain.Zone, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name, code, is_national, created_at FROM zones ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	zones := make([]*domain.Zone, 0)
	for rows.Next() {
		z := &domain.Zone{}
		if err := rows.Scan(&z.ID, &z.Name, &z.Code, &z.IsNational, &z.CreatedAt); err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

const clubColumns = `id, name, code, email, phone, city, zone_id, is_active, created_at, updated_at`

type clubRepository struct {
	DB *sql.DB
}

// NewClubRepository returns a domain.ClubRepository implemented with Postgres.
func NewClubRepository(db *sql.DB) domain.ClubRepository {
	return &clubRepository{DB: db}
}

func scanClub(row rowScanner) (*domain.Club, error) {
	c := &domain.Club{}
	var phone, city sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &c.Code, &c.Email, &phone, &city, &c.ZoneID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Phone = phone.String
	c.City = city.String
	return c, nil
}

func (r *clubRepository) Create(ctx context.Context, c *domain.Club) error {
	query := `
		INSERT INTO clubs (name, code, email, phone, city, zone_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, c.Name, c.Code, c.Email, c.Phone, c.City, c.ZoneID, c.IsActive, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateCode
	}
	return err
}

func (r *clubRepository) GetByID(ctx context.Context, id string) (*domain.Club, error) {
	c, err := scanClub(r.DB.QueryRowContext(ctx, `SELECT `+clubColumns+` FROM clubs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *clubRepository) List(ctx context.Context, filter domain.ClubFilter) ([]*domain.Club, error) {
	var w whereBuilder
	if filter.ZoneID != "" {
		w.add("zone_id = ?", filter.ZoneID)
	}
	if filter.IsActive != nil {
		w.add("is_active = ?", *filter.IsActive)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		w.add("(name ILIKE ? OR code ILIKE ? OR city ILIKE ?)", "%"+s+"%")
	}
	query := fmt.Sprintf(`SELECT %s FROM clubs %s ORDER BY name`, clubColumns, w.clause())
	rows, err := r.DB.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	clubs := make([]*domain.Club, 0)
	for rows.Next() {
		c, err := scanClub(rows)
		if err != nil {
			return nil, err
		}
		clubs = append(clubs, c)
	}
	return clubs, rows.Err()
}

func (r *clubRepository) Update(ctx context.Context, id string, patch domain.ClubPatch) (*domain.Club, error) {
	b := newUpdateBuilder()
	if patch.Name != nil {
		b.set("name", *patch.Name)
	}
	if patch.Code != nil {
		b.set("code", *patch.Code)
	}
	if patch.Email != nil {
		b.set("email", *patch.Email)
	}
	if patch.Phone != nil {
		b.set("phone", *patch.Phone)
	}
	if patch.City != nil {
		b.set("city", *patch.City)
	}
	if patch.IsActive != nil {
		b.set("is_active", *patch.IsActive)
	}
	if b.empty() {
		return r.GetByID(ctx, id)
	}
	set, args, idArg := b.build(id)
	query := fmt.Sprintf(`UPDATE clubs SET %s WHERE id = %s RETURNING %s`, set, idArg, clubColumns)
	c, err := scanClub(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateCode
		}
		return nil, err
	}
	return c, nil
}

const tournamentTypeColumns = `id, name, code, min_referees, max_referees, is_national, sort_order`

type tournamentTypeRepository struct {
	DB *sql.DB
}

// NewTournamentTypeRepository returns a domain.TournamentTypeRepository implemented with Postgres.
func NewTournamentTypeRepository(db *sql.DB) domain.TournamentTypeRepository {
	return &tournamentTypeRepository{DB: db}
}

func scanTournamentType(row rowScanner) (*domain.TournamentType, error) {
	t := &domain.TournamentType{}
	if err := row.Scan(&t.ID, &t.Name, &t.Code, &t.MinReferees, &t.MaxReferees, &t.IsNational, &t.SortOrder); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *tournamentTypeRepository) Create(ctx context.Context, t *domain.TournamentType) error {
	query := `
		INSERT INTO tournament_types (name, code, min_referees, max_referees, is_national, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, t.Name, t.Code, t.MinReferees, t.MaxReferees, t.IsNational, t.SortOrder).Scan(&t.ID)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateCode
	}
	return err
}

func (r *tournamentTypeRepository) GetByID(ctx context.Context, id string) (*domain.TournamentType, error) {
	t, err := scanTournamentType(r.DB.QueryRowContext(ctx, `SELECT `+tournamentTypeColumns+` FROM tournament_types WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *tournamentTypeRepository) List(ctx context.Context) ([]*domain.TournamentType, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+tournamentTypeColumns+` FROM tournament_types ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	types := make([]*domain.TournamentType, 0)
	for rows.Next() {
		t, err := scanTournamentType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func (r *tournamentTypeRepository) Update(ctx context.Context, id string, patch domain.TournamentTypePatch) (*domain.TournamentType, error) {
	// tournament_types has no updated_at column.
	b := &updateBuilder{}
	if patch.Name != nil {
		b.set("name", *patch.Name)
	}
	if patch.MinReferees != nil {
		b.set("min_referees", *patch.MinReferees)
	}
	if patch.MaxReferees != nil {
		b.set("max_referees", *patch.MaxReferees)
	}
	if patch.IsNational != nil {
		b.set("is_national", *patch.IsNational)
	}
	if patch.SortOrder != nil {
		b.set("sort_order", *patch.SortOrder)
	}
	if b.empty() {
		return r.GetByID(ctx, id)
	}
	set, args, idArg := b.build(id)
	query := fmt.Sprintf(`UPDATE tournament_types SET %s WHERE id = %s RETURNING %s`, set, idArg, tournamentTypeColumns)
	t, err := scanTournamentType(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}
