package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"refereehub/internal/domain"
)

const letterTemplateColumns = `id, name, type, subject, body, zone_id, tournament_type_id, is_active, is_default, created_at, updated_at`

type letterTemplateRepository struct {
	DB *sql.DB
}

// NewLetterTemplateRepository returns a domain.LetterTemplateRepository implemented with Postgres.
func NewLetterTemplateRepository(db *sql.DB) domain.LetterTemplateRepository {
	return &letterTemplateRepository{DB: db}
}

func scanLetterTemplate(row rowScanner) (*domain.LetterTemplate, error) {
	t := &domain.LetterTemplate{}
	var zoneID, typeID sql.NullString
	if err := row.Scan(&t.ID, &t.Name, &t.Type, &t.Subject, &t.Body, &zoneID, &typeID, &t.IsActive, &t.IsDefault,
		&t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.ZoneID = fromNullString(zoneID)
	t.TournamentTypeID = fromNullString(typeID)
	return t, nil
}

// clearDefault unsets the default flag of the other templates sharing type and zone.
func clearDefault(ctx context.Context, tx *sql.Tx, templateType string, zoneID *string, exceptID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE letter_templates SET is_default = FALSE, updated_at = NOW()
		WHERE type = $1 AND zone_id IS NOT DISTINCT FROM $2 AND is_default AND id::text <> $3
	`, templateType, toNullString(zoneID), exceptID)
	return err
}

func (r *letterTemplateRepository) Create(ctx context.Context, t *domain.LetterTemplate) error {
	return runInTx(ctx, r.DB, func(tx *sql.Tx) error {
		if t.IsDefault {
			if err := clearDefault(ctx, tx, t.Type, t.ZoneID, ""); err != nil {
				return err
			}
		}
		query := `
			INSERT INTO letter_templates (name, type, subject, body, zone_id, tournament_type_id, is_active, is_default, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
			RETURNING id, created_at, updated_at
		`
		return tx.QueryRowContext(ctx, query, t.Name, t.Type, t.Subject, t.Body, toNullString(t.ZoneID),
			toNullString(t.TournamentTypeID), t.IsActive, t.IsDefault).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	})
}

func (r *letterTemplateRepository) GetByID(ctx context.Context, id string) (*domain.LetterTemplate, error) {
	t, err := scanLetterTemplate(r.DB.QueryRowContext(ctx, `SELECT `+letterTemplateColumns+` FROM letter_templates WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *letterTemplateRepository) List(ctx context.Context, filter domain.LetterTemplateFilter) ([]*domain.LetterTemplate, error) {
	var w whereBuilder
	if filter.Type != "" {
		w.add("type = ?", filter.Type)
	}
	if filter.ZoneID != "" {
		w.add("(zone_id = ? OR zone_id IS NULL)", filter.ZoneID)
	}
	if filter.ActiveOnly {
		w.addRaw("is_active")
	}
	query := fmt.Sprintf(`SELECT %s FROM letter_templates %s ORDER BY type, is_default DESC, name`, letterTemplateColumns, w.clause())
	rows, err := r.DB.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]*domain.LetterTemplate, 0)
	for rows.Next() {
		t, err := scanLetterTemplate(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *letterTemplateRepository) FindDefault(ctx context.Context, templateType, zoneID string) (*domain.LetterTemplate, error) {
	query := `
		SELECT ` + letterTemplateColumns + `
		FROM letter_templates
		WHERE type = $1 AND is_active AND is_default AND zone_id IS NOT DISTINCT FROM $2
		ORDER BY updated_at DESC
		LIMIT 1
	`
	t, err := scanLetterTemplate(r.DB.QueryRowContext(ctx, query, templateType, toNullString(&zoneID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *letterTemplateRepository) Update(ctx context.Context, id string, patch domain.LetterTemplatePatch) (*domain.LetterTemplate, error) {
	b := newUpdateBuilder()
	if patch.Name != nil {
		b.set("name", *patch.Name)
	}
	if patch.Subject != nil {
		b.set("subject", *patch.Subject)
	}
	if patch.Body != nil {
		b.set("body", *patch.Body)
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

	var updated *domain.LetterTemplate
	err := runInTx(ctx, r.DB, func(tx *sql.Tx) error {
		set, args, idArg := b.build(id)
		query := fmt.Sprintf(`UPDATE letter_templates SET %s WHERE id = %s RETURNING %s`, set, idArg, letterTemplateColumns)
		t, err := scanLetterTemplate(tx.QueryRowContext(ctx, query, args...))
		if err != nil {
			return err
		}
		if patch.IsDefault != nil && *patch.IsDefault {
			if err := clearDefault(ctx, tx, t.Type, t.ZoneID, t.ID); err != nil {
				return err
			}
		}
		updated = t
		return nil
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (r *letterTemplateRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM letter_templates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectRows(result)
}
