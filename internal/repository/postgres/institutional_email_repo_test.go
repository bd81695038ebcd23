package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refereehub/internal/domain"
)

var institutionalRowColumns = []string{"id", "name", "email", "description", "zone_id", "category",
	"receive_all_notifications", "is_active", "created_at", "updated_at"}

func TestInstitutionalEmailRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("global address stores a null zone", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO institutional_emails`).
			WithArgs("Comitato Regole", "regole@federgolf.it", nil, nil, domain.CategoryFederazione, true, true).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("inst-1", now, now))

		e := &domain.InstitutionalEmail{Name: "Comitato Regole", Email: "regole@federgolf.it",
			Category: domain.CategoryFederazione, ReceiveAllNotifications: true, IsActive: true}
		require.NoError(t, NewInstitutionalEmailRepository(db).Create(ctx, e))
		assert.Equal(t, "inst-1", e.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO institutional_emails`).WillReturnError(&pq.Error{Code: uniqueViolation})

		err = NewInstitutionalEmailRepository(db).Create(ctx, &domain.InstitutionalEmail{Email: "x@y.it"})
		require.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})
}

func TestInstitutionalEmailRepository_List(t *testing.T) {
	now := time.Now()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM institutional_emails WHERE (zone_id = $1 OR zone_id IS NULL) AND is_active AND receive_all_notifications ORDER BY category, name`)).
		WithArgs("zone-1").
		WillReturnRows(sqlmock.NewRows(institutionalRowColumns).
			AddRow("inst-1", "Comitato Regole", "regole@federgolf.it", nil, nil, "federazione", true, true, now, now).
			AddRow("inst-2", "Sezione 1", "szr1@federgolf.it", "segreteria", "zone-1", "zona", true, true, now, now))

	list, err := NewInstitutionalEmailRepository(db).List(context.Background(),
		domain.InstitutionalEmailFilter{ZoneID: "zone-1", ActiveOnly: true, ReceiveAllOnly: true})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Nil(t, list[0].ZoneID)
	require.NotNil(t, list[1].ZoneID)
	assert.Equal(t, "zone-1", *list[1].ZoneID)
	assert.Equal(t, "segreteria", list[1].Description)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInstitutionalEmailRepository_ListByIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewInstitutionalEmailRepository(db)
	empty, err := repo.ListByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	mock.ExpectQuery(`WHERE id = ANY`).
		WithArgs(pq.Array([]string{"inst-1"})).
		WillReturnRows(sqlmock.NewRows(institutionalRowColumns).
			AddRow("inst-1", "Comitato Regole", "regole@federgolf.it", nil, nil, "federazione", false, true, time.Now(), time.Now()))

	list, err := repo.ListByIDs(context.Background(), []string{"inst-1"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInstitutionalEmailRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM institutional_emails`).WithArgs("inst-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM institutional_emails`).WithArgs("missing").WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewInstitutionalEmailRepository(db)
	require.NoError(t, repo.Delete(context.Background(), "inst-1"))
	require.ErrorIs(t, repo.Delete(context.Background(), "missing"), domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
