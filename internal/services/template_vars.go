package services

import (
	"html"
	"sort"
	"strings"
	"time"

	"refereehub/internal/domain"
)

const dateLayout = "02/01/2006"

// templateVars maps placeholder names to their values. Placeholders are written {{name}}
// and replaced literally, so unknown placeholders are left untouched.
type templateVars map[string]string

func formatDates(start, end time.Time) string {
	if start.Format(dateLayout) == end.Format(dateLayout) {
		return start.Format(dateLayout)
	}
	return start.Format(dateLayout) + " - " + end.Format(dateLayout)
}

func namesByRole(assignments []*domain.Assignment, role string) string {
	var names []string
	for _, a := range assignments {
		if a.Role == role {
			names = append(names, a.RefereeName)
		}
	}
	return strings.Join(names, ", ")
}

// tournamentVars returns the variables shared by every recipient of a tournament notification.
func tournamentVars(t *domain.Tournament, assignments []*domain.Assignment, message string, now time.Time) templateVars {
	return templateVars{
		"tournament_name":       t.Name,
		"tournament_dates":      formatDates(t.StartDate, t.EndDate),
		"start_date":            t.StartDate.Format(dateLayout),
		"end_date":              t.EndDate.Format(dateLayout),
		"availability_deadline": t.AvailabilityDeadline.Format(dateLayout),
		"club_name":             t.ClubName,
		"club_email":            t.ClubEmail,
		"zone_name":             t.ZoneName,
		"tournament_type":       t.TypeName,
		"referees_list":         namesByRole(assignments, domain.RoleArbitro),
		"directors_list":        namesByRole(assignments, domain.RoleDirettore),
		"observers_list":        namesByRole(assignments, domain.RoleOsservatore),
		"message":               message,
		"sent_date":             now.Format(dateLayout),
		"recipient_name":        "",
		"referee_name":          "",
		"assignment_role":       "",
	}
}

// with returns a copy of v with the given pairs set.
func (v templateVars) with(pairs ...string) templateVars {
	out := make(templateVars, len(v)+len(pairs)/2)
	for k, val := range v {
		out[k] = val
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		out[pairs[i]] = pairs[i+1]
	}
	return out
}

// apply substitutes every {{name}} occurrence in text.
func (v templateVars) apply(text string) string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	oldnew := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		oldnew = append(oldnew, "{{"+k+"}}", v[k])
	}
	return strings.NewReplacer(oldnew...).Replace(text)
}

// textToHTML renders a plain text body as minimal HTML.
func textToHTML(text string) string {
	paragraphs := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n")
	var b strings.Builder
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(html.EscapeString(p), "\n", "<br>\n"))
		b.WriteString("</p>\n")
	}
	return b.String()
}
