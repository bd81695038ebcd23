package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refereehub/internal/domain"
)

var tournamentNotificationRowColumns = []string{"id", "tournament_id", "status", "total_recipients", "referee_recipients",
	"club_recipients", "institutional_recipients", "additional_recipients", "sent_count", "failed_count", "templates_used",
	"sent_at", "sent_by", "created_at", "updated_at", "name", "zone_id"}

func TestNotificationRepository_UpdateDelivery(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 6, 1, 8, 30, 0, 0, time.UTC)

	t.Run("failed delivery keeps error and retry count", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		n := &domain.Notification{ID: "n-1", Status: domain.NotificationPending, Attachments: []string{}}
		n.MarkFailed(at, errors.New("smtp timeout"))

		mock.ExpectExec(`UPDATE notifications SET status = \$1`).
			WithArgs("failed", nil, "smtp timeout", 1, sqlmock.AnyArg(), at, "n-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewNotificationRepository(db).UpdateDelivery(ctx, n))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		n := &domain.Notification{ID: "n-9"}
		n.MarkSent(at)
		mock.ExpectExec(`UPDATE notifications SET status = \$1`).
			WithArgs("sent", at, nil, 0, sqlmock.AnyArg(), at, "n-9").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = NewNotificationRepository(db).UpdateDelivery(ctx, n)
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNotificationRepository_CountByTournamentNotification(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT recipient_type, status, COUNT\(\*\) FROM notifications WHERE tournament_notification_id = \$1 GROUP BY`).
		WithArgs("tn-1").
		WillReturnRows(sqlmock.NewRows([]string{"recipient_type", "status", "count"}).
			AddRow("referee", "sent", 3).
			AddRow("club", "failed", 1))

	counts, err := NewNotificationRepository(db).CountByTournamentNotification(context.Background(), "tn-1")
	require.NoError(t, err)
	assert.Equal(t, []domain.NotificationCount{
		{RecipientType: "referee", Status: domain.NotificationSent, Count: 3},
		{RecipientType: "club", Status: domain.NotificationFailed, Count: 1},
	}, counts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTournamentNotificationRepository_GetOrCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO tournament_notifications .+ ON CONFLICT \(tournament_id\)`).
		WithArgs("t-1", domain.SummaryPending).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("tn-1"))
	mock.ExpectQuery(`FROM tournament_notifications tn .+ WHERE tn.id = \$1`).
		WithArgs("tn-1").
		WillReturnRows(sqlmock.NewRows(tournamentNotificationRowColumns).AddRow(
			"tn-1", "t-1", "partial", 4, 2, 1, 1, 0, 3, 1, []byte(`{"referee":"Convocazione standard"}`),
			now, "admin-1", now, now, "Coppa Lazio", "zone-1"))

	tn, err := NewTournamentNotificationRepository(db).GetOrCreate(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SummaryPartial, tn.Status)
	assert.Equal(t, "Convocazione standard", tn.TemplatesUsed["referee"])
	assert.Equal(t, "Coppa Lazio", tn.TournamentName)
	require.NotNil(t, tn.SentAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTournamentNotificationRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes notifications and summary in one transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM notifications WHERE tournament_notification_id = \$1`).
			WithArgs("tn-1").
			WillReturnResult(sqlmock.NewResult(0, 5))
		mock.ExpectExec(`DELETE FROM tournament_notifications WHERE id = \$1`).
			WithArgs("tn-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, NewTournamentNotificationRepository(db).Delete(ctx, "tn-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when summary is missing", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM notifications`).
			WithArgs("tn-9").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM tournament_notifications`).
			WithArgs("tn-9").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err = NewTournamentNotificationRepository(db).Delete(ctx, "tn-9")
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
