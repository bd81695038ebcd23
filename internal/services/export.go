package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"refereehub/internal/domain"
)

const exportTimeLayout = "2006-01-02 15:04"

type exportService struct {
	tournaments   domain.TournamentService
	assignments   domain.AssignmentService
	notifications domain.NotificationService
}

// NewExportService creates an ExportService on top of the scoped services, so exports see
// exactly what the caller could list.
func NewExportService(tournaments domain.TournamentService, assignments domain.AssignmentService, notifications domain.NotificationService) domain.ExportService {
	return &exportService{tournaments: tournaments, assignments: assignments, notifications: notifications}
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(exportTimeLayout)
}

func (s *exportService) Tournaments(ctx context.Context, actor *domain.Actor, filter domain.TournamentFilter, w io.Writer) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	list, _, err := s.tournaments.List(ctx, actor, filter, domain.PaginationParams{})
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(list))
	for _, t := range list {
		rows = append(rows, []string{
			t.ID,
			t.Name,
			t.StartDate.Format(dateLayout),
			t.EndDate.Format(dateLayout),
			t.AvailabilityDeadline.Format(dateLayout),
			string(t.Status),
			t.ZoneName,
			t.ClubName,
			t.TypeName,
			strconv.Itoa(t.MinReferees),
			strconv.Itoa(t.MaxReferees),
		})
	}
	return writeCSV(w, []string{"id", "name", "start_date", "end_date", "availability_deadline", "status",
		"zone", "club", "tournament_type", "min_referees", "max_referees"}, rows)
}

func (s *exportService) TournamentAssignments(ctx context.Context, actor *domain.Actor, tournamentID string, w io.Writer) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	list, err := s.assignments.ListForTournament(ctx, actor, tournamentID)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(list))
	for _, a := range list {
		rows = append(rows, []string{
			a.RefereeName,
			a.RefereeEmail,
			a.RefereeLevel,
			a.Role,
			strconv.FormatBool(a.IsConfirmed),
			a.AssignedAt.Format(exportTimeLayout),
			a.Notes,
		})
	}
	return writeCSV(w, []string{"referee", "email", "level", "role", "confirmed", "assigned_at", "notes"}, rows)
}

func (s *exportService) TournamentNotifications(ctx context.Context, actor *domain.Actor, filter domain.TournamentNotificationFilter, w io.Writer) error {
	list, _, err := s.notifications.List(ctx, actor, filter, domain.PaginationParams{})
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(list))
	for _, tn := range list {
		templates := make([]string, 0, len(tn.TemplatesUsed))
		for _, kind := range []string{domain.TemplateReferee, domain.TemplateClub, domain.TemplateInstitutional} {
			if name, ok := tn.TemplatesUsed[kind]; ok {
				templates = append(templates, kind+"="+name)
			}
		}
		rows = append(rows, []string{
			tn.TournamentName,
			tn.Status,
			strconv.Itoa(tn.TotalRecipients),
			strconv.Itoa(tn.RefereeRecipients),
			strconv.Itoa(tn.ClubRecipients),
			strconv.Itoa(tn.InstitutionalRecipients),
			strconv.Itoa(tn.AdditionalRecipients),
			strconv.Itoa(tn.SentCount),
			strconv.Itoa(tn.FailedCount),
			formatOptionalTime(tn.SentAt),
			strings.Join(templates, "; "),
		})
	}
	return writeCSV(w, []string{"tournament", "status", "total_recipients", "referee_recipients", "club_recipients",
		"institutional_recipients", "additional_recipients", "sent", "failed", "sent_at", "templates_used"}, rows)
}
