package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"refereehub/internal/domain"
)

const notificationColumns = `id, tournament_id, tournament_notification_id, assignment_id, recipient_type, recipient_email,
	recipient_name, subject, body, template_used, status, sent_at, error_message, retry_count, attachments, created_at, updated_at`

type notificationRepository struct {
	DB *sql.DB
}

// NewNotificationRepository returns a domain.NotificationRepository implemented with Postgres.
func NewNotificationRepository(db *sql.DB) domain.NotificationRepository {
	return &notificationRepository{DB: db}
}

func scanNotification(row rowScanner) (*domain.Notification, error) {
	n := &domain.Notification{}
	var assignmentID, templateUsed, errMsg sql.NullString
	var sentAt sql.NullTime
	var status string
	var attachments pq.StringArray
	if err := row.Scan(&n.ID, &n.TournamentID, &n.TournamentNotificationID, &assignmentID, &n.RecipientType, &n.RecipientEmail,
		&n.RecipientName, &n.Subject, &n.Body, &templateUsed, &status, &sentAt, &errMsg, &n.RetryCount, &attachments,
		&n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	n.AssignmentID = fromNullString(assignmentID)
	n.TemplateUsed = templateUsed.String
	n.Status = domain.NotificationStatus(status)
	n.SentAt = fromNullTime(sentAt)
	n.ErrorMessage = errMsg.String
	n.Attachments = []string(attachments)
	if n.Attachments == nil {
		n.Attachments = []string{}
	}
	return n, nil
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (tournament_id, tournament_notification_id, assignment_id, recipient_type, recipient_email,
			recipient_name, subject, body, template_used, status, retry_count, attachments, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, n.TournamentID, n.TournamentNotificationID, toNullString(n.AssignmentID),
		n.RecipientType, n.RecipientEmail, n.RecipientName, n.Subject, n.Body, n.TemplateUsed, string(n.Status),
		n.RetryCount, pq.Array(n.Attachments), n.CreatedAt, n.UpdatedAt).Scan(&n.ID)
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	n, err := scanNotification(r.DB.QueryRowContext(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return n, nil
}

func (r *notificationRepository) UpdateDelivery(ctx context.Context, n *domain.Notification) error {
	query := `
		UPDATE notifications
		SET status = $1, sent_at = $2, error_message = $3, retry_count = $4, attachments = $5, updated_at = $6
		WHERE id = $7
	`
	var sentAt sql.NullTime
	if n.SentAt != nil {
		sentAt = sql.NullTime{Time: *n.SentAt, Valid: true}
	}
	var errMsg sql.NullString
	if n.ErrorMessage != "" {
		errMsg = sql.NullString{String: n.ErrorMessage, Valid: true}
	}
	result, err := r.DB.ExecContext(ctx, query, string(n.Status), sentAt, errMsg, n.RetryCount, pq.Array(n.Attachments), n.UpdatedAt, n.ID)
	if err != nil {
		return err
	}
	return expectRows(result)
}

func (r *notificationRepository) ListByTournamentNotification(ctx context.Context, tournamentNotificationID string) ([]*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE tournament_notification_id = $1 ORDER BY recipient_type, created_at`
	rows, err := r.DB.QueryContext(ctx, query, tournamentNotificationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]*domain.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

func (r *notificationRepository) CountByTournamentNotification(ctx context.Context, tournamentNotificationID string) ([]domain.NotificationCount, error) {
	query := `
		SELECT recipient_type, status, COUNT(*)
		FROM notifications
		WHERE tournament_notification_id = $1
		GROUP BY recipient_type, status
	`
	rows, err := r.DB.QueryContext(ctx, query, tournamentNotificationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make([]domain.NotificationCount, 0)
	for rows.Next() {
		var c domain.NotificationCount
		var status string
		if err := rows.Scan(&c.RecipientType, &status, &c.Count); err != nil {
			return nil, err
		}
		c.Status = domain.NotificationStatus(status)
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *notificationRepository) CountByStatus(ctx context.Context, zoneID string) (map[domain.NotificationStatus]int, error) {
	query := `
		SELECT n.status, COUNT(*)
		FROM notifications n
		JOIN tournaments t ON t.id = n.tournament_id
		WHERE ($1 = '' OR t.zone_id::text = $1)
		GROUP BY n.status
	`
	rows, err := r.DB.QueryContext(ctx, query, zoneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[domain.NotificationStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[domain.NotificationStatus(status)] = n
	}
	return counts, rows.Err()
}
