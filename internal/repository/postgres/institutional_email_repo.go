package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"refereehub/internal/domain"
)

const institutionalEmailColumns = `id, name, email, description, zone_id, category, receive_all_notifications, is_active, created_at, updated_at`

type institutionalEmailRepository struct {
	DB *sql.DB
}

// NewInstitutionalEmailRepository returns a domain.InstitutionalEmailRepository implemented with Postgres.
func NewInstitutionalEmailRepository(db *sql.DB) domain.InstitutionalEmailRepository {
	return &institutionalEmailRepository{DB: db}
}

func scanInstitutionalEmail(row rowScanner) (*domain.InstitutionalEmail, error) {
	e := &domain.InstitutionalEmail{}
	var description, zoneID sql.NullString
	if err := row.Scan(&e.ID, &e.Name, &e.Email, &description, &zoneID, &e.Category, &e.ReceiveAllNotifications,
		&e.IsActive, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Description = description.String
	e.ZoneID = fromNullString(zoneID)
	return e, nil
}

func (r *institutionalEmailRepository) Create(ctx context.Context, e *domain.InstitutionalEmail) error {
	query := `
		INSERT INTO institutional_emails (name, email, description, zone_id, category, receive_all_notifications, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRowContext(ctx, query, e.Name, e.Email, toNullString(&e.Description), toNullString(e.ZoneID),
		e.Category, e.ReceiveAllNotifications, e.IsActive).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateEmail
	}
	return err
}

func (r *institutionalEmailRepository) GetByID(ctx context.Context, id string) (*domain.InstitutionalEmail, error) {
	e, err := scanInstitutionalEmail(r.DB.QueryRowContext(ctx, `SELECT `+institutionalEmailColumns+` FROM institutional_emails WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *institutionalEmailRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.InstitutionalEmail, error) {
	if len(ids) == 0 {
		return []*domain.InstitutionalEmail{}, nil
	}
	query := `SELECT ` + institutionalEmailColumns + ` FROM institutional_emails WHERE id = ANY($1) ORDER BY name`
	return r.query(ctx, query, pq.Array(ids))
}

func (r *institutionalEmailRepository) List(ctx context.Context, filter domain.InstitutionalEmailFilter) ([]*domain.InstitutionalEmail, error) {
	var w whereBuilder
	if filter.ZoneID != "" {
		w.add("(zone_id = ? OR zone_id IS NULL)", filter.ZoneID)
	}
	if filter.Category != "" {
		w.add("category = ?", filter.Category)
	}
	if filter.ActiveOnly {
		w.addRaw("is_active")
	}
	if filter.ReceiveAllOnly {
		w.addRaw("receive_all_notifications")
	}
	query := fmt.Sprintf(`SELECT %s FROM institutional_emails %s ORDER BY category, name`, institutionalEmailColumns, w.clause())
	return r.query(ctx, query, w.args...)
}

func (r *institutionalEmailRepository) query(ctx context.Context, query string, args ...any) ([]*domain.InstitutionalEmail, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]*domain.InstitutionalEmail, 0)
	for rows.Next() {
		e, err := scanInstitutionalEmail(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *institutionalEmailRepository) Update(ctx context.Context, id string, patch domain.InstitutionalEmailPatch) (*domain.InstitutionalEmail, error) {
	b := newUpdateBuilder()
	if patch.Name != nil {
		b.set("name", *patch.Name)
	}
	if patch.Email != nil {
		b.set("email", *patch.Email)
	}
	if patch.Description != nil {
		b.set("description", *patch.Description)
	}
	if patch.Category != nil {
		b.set("category", *patch.Category)
	}
	if patch.ReceiveAllNotifications != nil {
		b.set("receive_all_notifications", *patch.ReceiveAllNotifications)
	}
	if patch.IsActive != nil {
		b.set("is_active", *patch.IsActive)
	}
	if b.empty() {
		return r.GetByID(ctx, id)
	}
	set, args, idArg := b.build(id)
	query := fmt.Sprintf(`UPDATE institutional_emails SET %s WHERE id = %s RETURNING %s`, set, idArg, institutionalEmailColumns)
	e, err := scanInstitutionalEmail(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}
	return e, nil
}

func (r *institutionalEmailRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM institutional_emails WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectRows(result)
}
