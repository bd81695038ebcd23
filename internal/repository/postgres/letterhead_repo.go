package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"refereehub/internal/domain"
)

const letterheadColumns = `id, title, zone_id, header_text, footer_text, logo_path, contact_email, contact_phone, address,
	is_active, is_default, created_at, updated_at`

type letterheadRepository struct {
	DB *sql.DB
}

// NewLetterheadRepository returns a domain.LetterheadRepository implemented with Postgres.
func NewLetterheadRepository(db *sql.DB) domain.LetterheadRepository {
	return &letterheadRepository{DB: db}
}

func scanLetterhead(row rowScanner) (*domain.Letterhead, error) {
	l := &domain.Letterhead{}
	var zoneID, logo, email, phone, address sql.NullString
	if err := row.Scan(&l.ID, &l.Title, &zoneID, &l.HeaderText, &l.FooterText, &logo, &email, &phone, &address,
		&l.IsActive, &l.IsDefault, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.ZoneID = fromNullString(zoneID)
	l.LogoPath = logo.String
	l.ContactEmail = email.String
	l.ContactPhone = phone.String
	l.Address = address.String
	return l, nil
}

func (r *letterheadRepository) Create(ctx context.Context, l *domain.Letterhead) error {
	query := `
		INSERT INTO letterheads (title, zone_id, header_text, footer_text, logo_path, contact_email, contact_phone, address,
			is_active, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRowContext(ctx, query, l.Title, toNullString(l.ZoneID), l.HeaderText, l.FooterText,
		toNullString(&l.LogoPath), toNullString(&l.ContactEmail), toNullString(&l.ContactPhone), toNullString(&l.Address),
		l.IsActive, l.IsDefault).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

func (r *letterheadRepository) GetByID(ctx context.Context, id string) (*domain.Letterhead, error) {
	l, err := scanLetterhead(r.DB.QueryRowContext(ctx, `SELECT `+letterheadColumns+` FROM letterheads WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

// List returns the letterheads visible from zoneID, including global ones. An empty zoneID lists all.
func (r *letterheadRepository) List(ctx context.Context, zoneID string) ([]*domain.Letterhead, error) {
	var w whereBuilder
	if zoneID != "" {
		w.add("(zone_id = ? OR zone_id IS NULL)", zoneID)
	}
	query := fmt.Sprintf(`SELECT %s FROM letterheads %s ORDER BY is_default DESC, title`, letterheadColumns, w.clause())
	rows, err := r.DB.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]*domain.Letterhead, 0)
	for rows.Next() {
		l, err := scanLetterhead(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// FindDefault prefers the zone's active default letterhead and falls back to the global one.
func (r *letterheadRepository) FindDefault(ctx context.Context, zoneID string) (*domain.Letterhead, error) {
	query := `
		SELECT ` + letterheadColumns + `
		FROM letterheads
		WHERE is_active AND is_default AND (zone_id::text = $1 OR zone_id IS NULL)
		ORDER BY zone_id NULLS LAST
		LIMIT 1
	`
	l, err := scanLetterhead(r.DB.QueryRowContext(ctx, query, zoneID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *letterheadRepository) Update(ctx context.Context, id string, patch domain.LetterheadPatch) (*domain.Letterhead, error) {
	b := newUpdateBuilder()
	if patch.Title != nil {
		b.set("title", *patch.Title)
	}
	if patch.HeaderText != nil {
		b.set("header_text", *patch.HeaderText)
	}
	if patch.FooterText != nil {
		b.set("footer_text", *patch.FooterText)
	}
	if patch.LogoPath != nil {
		b.set("logo_path", *patch.LogoPath)
	}
	if patch.ContactEmail != nil {
		b.set("contact_email", *patch.ContactEmail)
	}
	if patch.ContactPhone != nil {
		b.set("contact_phone", *patch.ContactPhone)
	}
	if patch.Address != nil {
		b.set("address", *patch.Address)
	}
	if patch.IsActive != nil {
		b.set("is_active", *patch.IsActive)
	}
	if patch.IsDefault != nil {
		b.set("is_default", *patch.IsDefault)
	}
	if b.empty() {
		return r.GetByID(ctx, id)
	}
	set, args, idArg := b.build(id)
	query := fmt.Sprintf(`UPDATE letterheads SET %s WHERE id = %s RETURNING %s`, set, idArg, letterheadColumns)
	l, err := scanLetterhead(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}
