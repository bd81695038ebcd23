package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refereehub/internal/domain"
)

func newTestSettingsService(institutional *fakeInstitutionalRepo, templates *fakeTemplateRepo, letterheads *fakeLetterheadRepo) domain.SettingsService {
	return NewSettingsService(institutional, templates, letterheads, 5*time.Second)
}

func TestSettingsService_CreateInstitutionalEmail(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		actor    *domain.Actor
		input    *domain.InstitutionalEmail
		wantErr  error
		wantZone *string
	}{
		{
			name:     "zone admin row lands in their zone",
			actor:    northAdmin,
			input:    &domain.InstitutionalEmail{Name: "Comitato", Email: "Comitato@Example.com"},
			wantZone: strPtr("zone-n"),
		},
		{
			name:  "super admin may create global rows",
			actor: superAdmin,
			input: &domain.InstitutionalEmail{Name: "Federazione", Email: "fed@example.com", Category: domain.CategoryFederazione},
		},
		{
			name:    "zone admin cannot target another zone",
			actor:   northAdmin,
			input:   &domain.InstitutionalEmail{Name: "Sud", Email: "sud@example.com", ZoneID: strPtr("zone-s")},
			wantErr: domain.ErrForbidden,
		},
		{
			name:    "bad category",
			actor:   northAdmin,
			input:   &domain.InstitutionalEmail{Name: "X", Email: "x@example.com", Category: "stampa"},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "bad email",
			actor:   northAdmin,
			input:   &domain.InstitutionalEmail{Name: "X", Email: "x-at-example"},
			wantErr: domain.ErrInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeInstitutionalRepo()
			svc := newTestSettingsService(repo, newFakeTemplateRepo(), newFakeLetterheadRepo())
			err := svc.CreateInstitutionalEmail(ctx, tt.actor, tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, repo.byID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantZone, tt.input.ZoneID)
			assert.NotEmpty(t, tt.input.Category)
			assert.Equal(t, normalizeEmail(tt.input.Email), tt.input.Email)
		})
	}
}

func TestSettingsService_globalRowsBelongToSuperAdmins(t *testing.T) {
	ctx := context.Background()
	global := &domain.InstitutionalEmail{ID: "ie-1", Email: "fed@example.com", IsActive: true}
	repo := newFakeInstitutionalRepo(global)
	svc := newTestSettingsService(repo, newFakeTemplateRepo(), newFakeLetterheadRepo())

	inactive := false
	_, err := svc.UpdateInstitutionalEmail(ctx, northAdmin, "ie-1", domain.InstitutionalEmailPatch{IsActive: &inactive})
	require.ErrorIs(t, err, domain.ErrForbidden)
	require.ErrorIs(t, svc.DeleteInstitutionalEmail(ctx, northAdmin, "ie-1"), domain.ErrForbidden)

	got, err := svc.UpdateInstitutionalEmail(ctx, superAdmin, "ie-1", domain.InstitutionalEmailPatch{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestSettingsService_LetterTemplates(t *testing.T) {
	ctx := context.Background()
	global := &domain.LetterTemplate{ID: "lt-g", Name: "Globale", Type: domain.TemplateClub, Subject: "s", Body: "b"}
	south := &domain.LetterTemplate{ID: "lt-s", Name: "Sud", Type: domain.TemplateClub, Subject: "s", Body: "b", ZoneID: strPtr("zone-s")}
	repo := newFakeTemplateRepo(global, south)
	svc := newTestSettingsService(newFakeInstitutionalRepo(), repo, newFakeLetterheadRepo())

	got, err := svc.GetLetterTemplate(ctx, northAdmin, "lt-g")
	require.NoError(t, err)
	assert.Equal(t, "Globale", got.Name)

	_, err = svc.GetLetterTemplate(ctx, northAdmin, "lt-s")
	require.ErrorIs(t, err, domain.ErrForbidden)

	err = svc.CreateLetterTemplate(ctx, northAdmin, &domain.LetterTemplate{Name: "Nuovo", Type: "memo", Subject: "s", Body: "b"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	err = svc.CreateLetterTemplate(ctx, northAdmin, &domain.LetterTemplate{Name: "Nuovo", Type: domain.TemplateReferee, Subject: " ", Body: "b"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	created := &domain.LetterTemplate{Name: "Nuovo", Type: domain.TemplateReferee, Subject: "Convocazione {{tournament_name}}", Body: "b", TournamentTypeID: strPtr("")}
	require.NoError(t, svc.CreateLetterTemplate(ctx, northAdmin, created))
	assert.Equal(t, "zone-n", *created.ZoneID)
	assert.Nil(t, created.TournamentTypeID)

	empty := ""
	_, err = svc.UpdateLetterTemplate(ctx, northAdmin, created.ID, domain.LetterTemplatePatch{Body: &empty})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	require.ErrorIs(t, svc.DeleteLetterTemplate(ctx, northAdmin, "lt-g"), domain.ErrForbidden)
	require.NoError(t, svc.DeleteLetterTemplate(ctx, northAdmin, created.ID))
}

func TestSettingsService_Letterheads(t *testing.T) {
	ctx := context.Background()
	repo := newFakeLetterheadRepo(&domain.Letterhead{ID: "lh-s", Title: "Sud", ZoneID: strPtr("zone-s")})
	svc := newTestSettingsService(newFakeInstitutionalRepo(), newFakeTemplateRepo(), repo)

	require.ErrorIs(t, svc.CreateLetterhead(ctx, northAdmin, &domain.Letterhead{Title: " "}), domain.ErrInvalidInput)
	require.ErrorIs(t, svc.CreateLetterhead(ctx, northAdmin, &domain.Letterhead{Title: "Nord", ContactEmail: "nope"}), domain.ErrInvalidInput)

	l := &domain.Letterhead{Title: "Nord", ContactEmail: "info@nord.example.com"}
	require.NoError(t, svc.CreateLetterhead(ctx, northAdmin, l))
	assert.Equal(t, "zone-n", *l.ZoneID)

	title := "Sud aggiornata"
	_, err := svc.UpdateLetterhead(ctx, northAdmin, "lh-s", domain.LetterheadPatch{Title: &title})
	require.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.UpdateLetterhead(ctx, northAdmin, "missing", domain.LetterheadPatch{Title: &title})
	require.ErrorIs(t, err, domain.ErrNotFound)
}
