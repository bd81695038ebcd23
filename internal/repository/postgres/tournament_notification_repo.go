package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"refereehub/internal/domain"
)

const tournamentNotificationSelect = `
	SELECT tn.id, tn.tournament_id, tn.status, tn.total_recipients, tn.referee_recipients, tn.club_recipients,
		tn.institutional_recipients, tn.additional_recipients, tn.sent_count, tn.failed_count, tn.templates_used,
		tn.sent_at, tn.sent_by, tn.created_at, tn.updated_at, t.name, t.zone_id
	FROM tournament_notifications tn
	JOIN tournaments t ON t.id = tn.tournament_id
	JOIN tournament_types tt ON tt.id = t.tournament_type_id
`

type tournamentNotificationRepository struct {
	DB *sql.DB
}

// NewTournamentNotificationRepository returns a domain.TournamentNotificationRepository implemented with Postgres.
func NewTournamentNotificationRepository(db *sql.DB) domain.TournamentNotificationRepository {
	return &tournamentNotificationRepository{DB: db}
}

func scanTournamentNotification(row rowScanner) (*domain.TournamentNotification, error) {
	tn := &domain.TournamentNotification{}
	var templates []byte
	var sentAt sql.NullTime
	var sentBy sql.NullString
	if err := row.Scan(&tn.ID, &tn.TournamentID, &tn.Status, &tn.TotalRecipients, &tn.RefereeRecipients, &tn.ClubRecipients,
		&tn.InstitutionalRecipients, &tn.AdditionalRecipients, &tn.SentCount, &tn.FailedCount, &templates,
		&sentAt, &sentBy, &tn.CreatedAt, &tn.UpdatedAt, &tn.TournamentName, &tn.ZoneID); err != nil {
		return nil, err
	}
	tn.TemplatesUsed = map[string]string{}
	if len(templates) > 0 {
		if err := json.Unmarshal(templates, &tn.TemplatesUsed); err != nil {
			return nil, fmt.Errorf("decode templates_used: %w", err)
		}
	}
	tn.SentAt = fromNullTime(sentAt)
	tn.SentBy = sentBy.String
	return tn, nil
}

func (r *tournamentNotificationRepository) GetOrCreate(ctx context.Context, tournamentID string) (*domain.TournamentNotification, error) {
	// The no-op DO UPDATE makes RETURNING yield the existing row on conflict.
	query := `
		INSERT INTO tournament_notifications (tournament_id, status, templates_used, created_at, updated_at)
		VALUES ($1, $2, '{}', NOW(), NOW())
		ON CONFLICT (tournament_id) DO UPDATE SET tournament_id = EXCLUDED.tournament_id
		RETURNING id
	`
	var id string
	if err := r.DB.QueryRowContext(ctx, query, tournamentID, domain.SummaryPending).Scan(&id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *tournamentNotificationRepository) GetByID(ctx context.Context, id string) (*domain.TournamentNotification, error) {
	tn, err := scanTournamentNotification(r.DB.QueryRowContext(ctx, tournamentNotificationSelect+` WHERE tn.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return tn, nil
}

func (r *tournamentNotificationRepository) Update(ctx context.Context, tn *domain.TournamentNotification) error {
	templates, err := json.Marshal(tn.TemplatesUsed)
	if err != nil {
		return fmt.Errorf("encode templates_used: %w", err)
	}
	var sentAt sql.NullTime
	if tn.SentAt != nil {
		sentAt = sql.NullTime{Time: *tn.SentAt, Valid: true}
	}
	query := `
		UPDATE tournament_notifications
		SET status = $1, total_recipients = $2, referee_recipients = $3, club_recipients = $4,
			institutional_recipients = $5, additional_recipients = $6, sent_count = $7, failed_count = $8,
			templates_used = $9, sent_at = $10, sent_by = $11, updated_at = $12
		WHERE id = $13
	`
	result, err := r.DB.ExecContext(ctx, query, tn.Status, tn.TotalRecipients, tn.RefereeRecipients, tn.ClubRecipients,
		tn.InstitutionalRecipients, tn.AdditionalRecipients, tn.SentCount, tn.FailedCount, templates, sentAt,
		toNullString(&tn.SentBy), tn.UpdatedAt, tn.ID)
	if err != nil {
		return err
	}
	return expectRows(result)
}

func (r *tournamentNotificationRepository) List(ctx context.Context, filter domain.TournamentNotificationFilter, params domain.PaginationParams) ([]*domain.TournamentNotification, int, error) {
	var w whereBuilder
	switch {
	case filter.ZoneID != "" && filter.IncludeNational:
		w.add("(t.zone_id = ? OR tt.is_national)", filter.ZoneID)
	case filter.ZoneID != "":
		w.add("t.zone_id = ?", filter.ZoneID)
	}
	if filter.Status != "" {
		w.add("tn.status = ?", filter.Status)
	}
	if filter.TournamentID != "" {
		w.add("tn.tournament_id = ?", filter.TournamentID)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM tournament_notifications tn JOIN tournaments t ON t.id = tn.tournament_id
		JOIN tournament_types tt ON tt.id = t.tournament_type_id ` + w.clause()
	if err := r.DB.QueryRowContext(ctx, countQuery, w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, args := w.pageClause(params.Limit(), params.Offset())
	query := fmt.Sprintf(`%s %s ORDER BY tn.updated_at DESC %s`, tournamentNotificationSelect, w.clause(), page)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	list := make([]*domain.TournamentNotification, 0)
	for rows.Next() {
		tn, err := scanTournamentNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, tn)
	}
	return list, total, rows.Err()
}

func (r *tournamentNotificationRepository) Delete(ctx context.Context, id string) error {
	return runInTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM notifications WHERE tournament_notification_id = $1`, id); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM tournament_notifications WHERE id = $1`, id)
		if err != nil {
			return err
		}
		return expectRows(result)
	})
}
