package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/jonboulle/clockwork"

	"refereehub/internal/domain"
)

var documentLayout = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html lang="it">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{- with .Letterhead}}
<header>
{{- if .LogoPath}}<img src="{{.LogoPath}}" alt="{{.Title}}">{{end}}
<h1>{{.Title}}</h1>
<p>{{.HeaderText}}</p>
</header>
{{- end}}
<main>
<h2>{{.Title}}</h2>
{{.Body}}
</main>
{{- with .Letterhead}}
<footer>
<p>{{.FooterText}}</p>
<p>{{.Address}}{{if .ContactEmail}} - {{.ContactEmail}}{{end}}{{if .ContactPhone}} - {{.ContactPhone}}{{end}}</p>
</footer>
{{- end}}
</body>
</html>
`))

type documentService struct {
	tournamentRepo domain.TournamentRepository
	assignmentRepo domain.AssignmentRepository
	letterheadRepo domain.LetterheadRepository
	templates      *templateResolver
	store          domain.DocumentStore
	clock          clockwork.Clock
	contextTimeout time.Duration
}

// NewDocumentService creates a DocumentService that renders letters to the document store.
func NewDocumentService(
	tournamentRepo domain.TournamentRepository,
	assignmentRepo domain.AssignmentRepository,
	templateRepo domain.LetterTemplateRepository,
	letterheadRepo domain.LetterheadRepository,
	renderer domain.EmailTemplateRenderer,
	store domain.DocumentStore,
	clock clockwork.Clock,
	timeout time.Duration,
) domain.DocumentService {
	return &documentService{
		tournamentRepo: tournamentRepo,
		assignmentRepo: assignmentRepo,
		letterheadRepo: letterheadRepo,
		templates:      newTemplateResolver(templateRepo, renderer),
		store:          store,
		clock:          clock,
		contextTimeout: timeout,
	}
}

func (s *documentService) Generate(ctx context.Context, actor *domain.Actor, tournamentID, kind string) (*domain.StoredDocument, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if !domain.ValidDocumentKind(kind) {
		return nil, invalidInput("unknown document kind %q", kind)
	}
	t, err := loadTournament(ctx, s.tournamentRepo, actor, tournamentID)
	if err != nil {
		return nil, err
	}
	assignments, err := s.assignmentRepo.ListByTournament(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}

	// Document kinds share their names with the template types.
	tpl, err := s.templates.resolve(ctx, "", kind, t.ZoneID)
	if err != nil {
		return nil, err
	}
	vars := tournamentVars(t, assignments, "", s.clock.Now())
	if kind == domain.DocumentClubLetter {
		vars = vars.with("recipient_name", t.ClubName)
	}
	content, err := s.templates.render(tpl, vars)
	if err != nil {
		return nil, err
	}

	letterhead, err := s.letterheadRepo.FindDefault(ctx, t.ZoneID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("find letterhead: %w", err)
		}
		letterhead = nil
	}

	var buf bytes.Buffer
	err = documentLayout.Execute(&buf, struct {
		Title      string
		Body       template.HTML
		Letterhead *domain.Letterhead
	}{
		Title:      content.Subject,
		Body:       template.HTML(content.HTML),
		Letterhead: letterhead,
	})
	if err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}
	doc, err := s.store.Save(ctx, kind, t, "html", buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	return doc, nil
}
