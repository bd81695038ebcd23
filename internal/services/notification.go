package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"refereehub/internal/domain"
)

// NotificationDeps groups the collaborators of the notification service.
type NotificationDeps struct {
	Tournaments        domain.TournamentRepository
	Assignments        domain.AssignmentRepository
	InstitutionalEmail domain.InstitutionalEmailRepository
	Templates          domain.LetterTemplateRepository
	Notifications      domain.NotificationRepository
	Summaries          domain.TournamentNotificationRepository
	Aggregator         domain.NotificationAggregator
	Documents          domain.DocumentStore
	Mailer             domain.Mailer
	Renderer           domain.EmailTemplateRenderer
	Clock              clockwork.Clock
	Logger             *slog.Logger
	MaxRetries         int
	SendTimeout        time.Duration
}

type notificationService struct {
	tournamentRepo    domain.TournamentRepository
	assignmentRepo    domain.AssignmentRepository
	institutionalRepo domain.InstitutionalEmailRepository
	notificationRepo  domain.NotificationRepository
	summaryRepo       domain.TournamentNotificationRepository
	aggregator        domain.NotificationAggregator
	templates         *templateResolver
	documents         domain.DocumentStore
	mailer            domain.Mailer
	clock             clockwork.Clock
	logger            *slog.Logger
	maxRetries        int
	sendTimeout       time.Duration
}

// NewNotificationService creates the tournament notification dispatcher.
func NewNotificationService(deps NotificationDeps) domain.NotificationService {
	if deps.MaxRetries <= 0 {
		deps.MaxRetries = 3
	}
	return &notificationService{
		tournamentRepo:    deps.Tournaments,
		assignmentRepo:    deps.Assignments,
		institutionalRepo: deps.InstitutionalEmail,
		notificationRepo:  deps.Notifications,
		summaryRepo:       deps.Summaries,
		aggregator:        deps.Aggregator,
		templates:         newTemplateResolver(deps.Templates, deps.Renderer),
		documents:         deps.Documents,
		mailer:            deps.Mailer,
		clock:             deps.Clock,
		logger:            deps.Logger,
		maxRetries:        deps.MaxRetries,
		sendTimeout:       deps.SendTimeout,
	}
}

type recipient struct {
	kind       string
	email      string
	name       string
	assignment *domain.Assignment
}

// recipientSet collects recipients in order, keeping the first occurrence of each address.
type recipientSet struct {
	seen map[string]bool
	list []recipient
}

func (r *recipientSet) add(rc recipient) {
	key := normalizeEmail(rc.email)
	if key == "" || r.seen[key] {
		return
	}
	if r.seen == nil {
		r.seen = make(map[string]bool)
	}
	r.seen[key] = true
	rc.email = key
	r.list = append(r.list, rc)
}

// templateTypeFor maps a recipient category to its template type.
func templateTypeFor(kind string) string {
	switch kind {
	case domain.RecipientReferee:
		return domain.TemplateReferee
	case domain.RecipientClub:
		return domain.TemplateClub
	default:
		return domain.TemplateInstitutional
	}
}

func (s *notificationService) collectRecipients(ctx context.Context, t *domain.Tournament, assignments []*domain.Assignment, req domain.DispatchRequest) ([]recipient, error) {
	var set recipientSet

	if req.IncludeReferees {
		only := make(map[string]bool, len(req.RefereeIDs))
		for _, id := range req.RefereeIDs {
			only[id] = true
		}
		for _, a := range assignments {
			if len(only) > 0 && !only[a.UserID] {
				continue
			}
			set.add(recipient{kind: domain.RecipientReferee, email: a.RefereeEmail, name: a.RefereeName, assignment: a})
		}
	}

	if req.IncludeClub {
		if t.ClubEmail == "" {
			s.logger.Warn("club has no email, skipping", "tournament_id", t.ID, "club_id", t.ClubID)
		} else {
			set.add(recipient{kind: domain.RecipientClub, email: t.ClubEmail, name: t.ClubName})
		}
	}

	institutional, err := s.institutionalRepo.ListByIDs(ctx, req.InstitutionalEmailIDs)
	if err != nil {
		return nil, fmt.Errorf("list institutional emails: %w", err)
	}
	if req.IncludeDefaultInstitutional {
		defaults, err := s.institutionalRepo.List(ctx, domain.InstitutionalEmailFilter{
			ZoneID:         t.ZoneID,
			ActiveOnly:     true,
			ReceiveAllOnly: true,
		})
		if err != nil {
			return nil, fmt.Errorf("list default institutional emails: %w", err)
		}
		institutional = append(institutional, defaults...)
	}
	for _, e := range institutional {
		if !e.IsActive || (e.ZoneID != nil && *e.ZoneID != t.ZoneID) {
			continue
		}
		set.add(recipient{kind: domain.RecipientInstitutional, email: e.Email, name: e.Name})
	}

	for _, extra := range req.AdditionalEmails {
		email := normalizeEmail(extra.Email)
		if !validEmail(email) {
			return nil, invalidInput("invalid additional email %q", extra.Email)
		}
		name := strings.TrimSpace(extra.Name)
		if name == "" {
			name = email
		}
		set.add(recipient{kind: domain.RecipientAdditional, email: email, name: name})
	}

	return set.list, nil
}

// loadAttachment reads a generated document; a missing document is logged and skipped.
func (s *notificationService) loadAttachment(ctx context.Context, kind string, t *domain.Tournament) (*domain.StoredDocument, *domain.Attachment) {
	doc, err := s.documents.Find(ctx, kind, t)
	if err != nil {
		s.logger.Warn("document not found, sending without it", "tournament_id", t.ID, "kind", kind, "error", err)
		return nil, nil
	}
	att, err := s.readAttachment(ctx, doc)
	if err != nil {
		s.logger.Warn("document unreadable, sending without it", "tournament_id", t.ID, "path", doc.Path, "error", err)
		return nil, nil
	}
	return doc, att
}

func (s *notificationService) readAttachment(ctx context.Context, doc *domain.StoredDocument) (*domain.Attachment, error) {
	content, err := s.documents.Read(ctx, doc)
	if err != nil {
		return nil, err
	}
	return &domain.Attachment{Filename: doc.Filename, ContentType: contentTypeFor(doc.Filename), Content: content}, nil
}

func contentTypeFor(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(filename, ".docx"):
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case strings.HasSuffix(filename, ".html"):
		return "text/html; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

type attachmentSet struct {
	doc *domain.StoredDocument
	att *domain.Attachment
}

// attachmentsFor returns the documents a recipient category receives.
func attachmentsFor(kind string, convocation, clubLetter attachmentSet) []attachmentSet {
	var out []attachmentSet
	wantConvocation := kind != domain.RecipientClub
	wantClubLetter := kind != domain.RecipientReferee
	if wantConvocation && convocation.att != nil {
		out = append(out, convocation)
	}
	if wantClubLetter && clubLetter.att != nil {
		out = append(out, clubLetter)
	}
	return out
}

func (s *notificationService) Dispatch(ctx context.Context, actor *domain.Actor, req domain.DispatchRequest) (*domain.DispatchResult, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	t, err := loadTournament(ctx, s.tournamentRepo, actor, req.TournamentID)
	if err != nil {
		return nil, err
	}
	if t.Status == domain.StatusDraft {
		return nil, domain.ErrTournamentLocked
	}
	assignments, err := s.assignmentRepo.ListByTournament(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	recipients, err := s.collectRecipients(ctx, t, assignments, req)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return nil, domain.ErrNoRecipients
	}

	templateIDs := map[string]string{
		domain.TemplateReferee:       req.RefereeTemplateID,
		domain.TemplateClub:          req.ClubTemplateID,
		domain.TemplateInstitutional: req.InstitutionalTemplateID,
	}
	resolved := make(map[string]*letterTemplate)
	for _, rc := range recipients {
		tt := templateTypeFor(rc.kind)
		if _, ok := resolved[tt]; ok {
			continue
		}
		tpl, err := s.templates.resolve(ctx, templateIDs[tt], tt, t.ZoneID)
		if err != nil {
			return nil, err
		}
		resolved[tt] = tpl
	}

	var convocation, clubLetter attachmentSet
	if req.AttachConvocation {
		convocation.doc, convocation.att = s.loadAttachment(ctx, domain.DocumentConvocation, t)
	}
	if req.AttachClubLetter {
		clubLetter.doc, clubLetter.att = s.loadAttachment(ctx, domain.DocumentClubLetter, t)
	}

	summary, err := s.summaryRepo.GetOrCreate(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("get summary: %w", err)
	}

	now := s.clock.Now()
	base := tournamentVars(t, assignments, req.Message, now)
	result := &domain.DispatchResult{Notifications: make([]*domain.Notification, 0, len(recipients))}
	var unsaved []*domain.Notification
	for _, rc := range recipients {
		vars := base.with("recipient_name", rc.name)
		var assignmentID *string
		if rc.assignment != nil {
			id := rc.assignment.ID
			assignmentID = &id
			vars = vars.with("referee_name", rc.assignment.RefereeName, "assignment_role", rc.assignment.Role)
		}
		n := &domain.Notification{
			TournamentID:             t.ID,
			TournamentNotificationID: summary.ID,
			AssignmentID:             assignmentID,
			RecipientType:            rc.kind,
			RecipientEmail:           rc.email,
			RecipientName:            rc.name,
			Status:                   domain.NotificationPending,
			Attachments:              []string{},
			CreatedAt:                now,
			UpdatedAt:                now,
		}
		result.Notifications = append(result.Notifications, n)

		content, err := s.templates.render(resolved[templateTypeFor(rc.kind)], vars)
		if err != nil {
			s.notRecorded(n, fmt.Errorf("render template: %w", err))
			continue
		}
		n.Subject = content.Subject
		n.Body = content.Text
		n.TemplateUsed = content.TemplateName
		msg := &domain.EmailMessage{
			To:      rc.email,
			ToName:  rc.name,
			Subject: content.Subject,
			HTML:    content.HTML,
			Text:    content.Text,
		}
		for _, f := range attachmentsFor(rc.kind, convocation, clubLetter) {
			n.Attachments = append(n.Attachments, f.doc.Path)
			msg.Attachments = append(msg.Attachments, *f.att)
		}
		if err := s.notificationRepo.Create(ctx, n); err != nil {
			s.notRecorded(n, fmt.Errorf("record notification: %w", err))
			continue
		}
		if err := s.deliver(ctx, n, msg); err != nil {
			s.logger.Error("notification outcome not saved",
				"notification_id", n.ID, "recipient", n.RecipientEmail, "status", n.Status, "error", err)
			unsaved = append(unsaved, n)
		}
	}
	s.saveOutcomes(ctx, unsaved)

	if summary.TemplatesUsed == nil {
		summary.TemplatesUsed = map[string]string{}
	}
	for tt, tpl := range resolved {
		summary.TemplatesUsed[tt] = tpl.name()
	}
	sentAt := s.clock.Now()
	summary.SentAt = &sentAt
	summary.SentBy = actor.UserID
	summary.UpdatedAt = sentAt
	if err := s.summaryRepo.Update(ctx, summary); err != nil {
		s.logger.Error("summary metadata not saved", "tournament_notification_id", summary.ID, "error", err)
	}
	return s.finish(ctx, summary.ID, result)
}

// notRecorded marks a recipient that never got a stored row as failed. No email is sent for it.
func (s *notificationService) notRecorded(n *domain.Notification, err error) {
	n.MarkFailed(s.clock.Now(), err)
	s.logger.Error("notification not recorded",
		"recipient_type", n.RecipientType, "recipient", n.RecipientEmail, "error", err)
}

// saveOutcomes writes again the delivery outcome of rows whose first update failed, so a row
// whose email already went out does not stay pending.
func (s *notificationService) saveOutcomes(ctx context.Context, unsaved []*domain.Notification) {
	for _, n := range unsaved {
		if err := s.notificationRepo.UpdateDelivery(ctx, n); err != nil {
			s.logger.Error("notification outcome lost",
				"notification_id", n.ID, "recipient", n.RecipientEmail, "status", n.Status, "error", err)
		}
	}
}

// deliver sends one message and records the outcome on n. Send failures are recorded, not returned.
func (s *notificationService) deliver(ctx context.Context, n *domain.Notification, msg *domain.EmailMessage) error {
	sendCtx := ctx
	if s.sendTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, s.sendTimeout)
		defer cancel()
	}
	if err := s.mailer.Send(sendCtx, msg); err != nil {
		n.MarkFailed(s.clock.Now(), err)
		s.logger.Warn("notification failed",
			"notification_id", n.ID, "recipient_type", n.RecipientType, "recipient", n.RecipientEmail,
			"retry_count", n.RetryCount, "error", err)
	} else {
		n.MarkSent(s.clock.Now())
		s.logger.Info("notification sent",
			"notification_id", n.ID, "recipient_type", n.RecipientType, "recipient", n.RecipientEmail)
	}
	if err := s.notificationRepo.UpdateDelivery(ctx, n); err != nil {
		return fmt.Errorf("update notification: %w", err)
	}
	return nil
}

func (s *notificationService) finish(ctx context.Context, summaryID string, result *domain.DispatchResult) (*domain.DispatchResult, error) {
	for _, n := range result.Notifications {
		switch n.Status {
		case domain.NotificationSent:
			result.Sent++
		case domain.NotificationFailed:
			result.Failed++
		}
	}
	summary, err := s.aggregator.Recompute(ctx, summaryID)
	if err != nil {
		return nil, fmt.Errorf("recompute summary: %w", err)
	}
	result.Summary = summary
	s.logger.Info("tournament notification dispatched",
		"tournament_notification_id", summary.ID, "tournament_id", summary.TournamentID,
		"status", summary.Status, "sent", result.Sent, "failed", result.Failed)
	return result, nil
}

// resend delivers a stored notification again, reloading its attachments from the store.
func (s *notificationService) resend(ctx context.Context, n *domain.Notification) error {
	msg := &domain.EmailMessage{
		To:      n.RecipientEmail,
		ToName:  n.RecipientName,
		Subject: n.Subject,
		HTML:    textToHTML(n.Body),
		Text:    n.Body,
	}
	for _, path := range n.Attachments {
		doc := &domain.StoredDocument{Path: path, Filename: filenameOf(path)}
		att, err := s.readAttachment(ctx, doc)
		if err != nil {
			s.logger.Warn("attachment missing on resend", "notification_id", n.ID, "path", path, "error", err)
			continue
		}
		msg.Attachments = append(msg.Attachments, *att)
	}
	return s.deliver(ctx, n, msg)
}

func filenameOf(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

func (s *notificationService) loadSummary(ctx context.Context, actor *domain.Actor, id string) (*domain.TournamentNotification, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	summary, err := s.summaryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get summary: %w", err)
	}
	if _, err := loadTournament(ctx, s.tournamentRepo, actor, summary.TournamentID); err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *notificationService) ResendNotification(ctx context.Context, actor *domain.Actor, notificationID string) (*domain.DispatchResult, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	n, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get notification: %w", err)
	}
	if _, err := loadTournament(ctx, s.tournamentRepo, actor, n.TournamentID); err != nil {
		return nil, err
	}
	if n.Status != domain.NotificationFailed {
		return nil, invalidInput("only failed notifications can be resent")
	}
	if !n.CanRetry(s.maxRetries) {
		return nil, invalidInput("retry limit of %d reached", s.maxRetries)
	}
	if err := s.resend(ctx, n); err != nil {
		if err := s.notificationRepo.UpdateDelivery(ctx, n); err != nil {
			return nil, fmt.Errorf("update notification: %w", err)
		}
	}
	return s.finish(ctx, n.TournamentNotificationID, &domain.DispatchResult{Notifications: []*domain.Notification{n}})
}

func (s *notificationService) ResendFailed(ctx context.Context, actor *domain.Actor, tournamentNotificationID string) (*domain.DispatchResult, error) {
	summary, err := s.loadSummary(ctx, actor, tournamentNotificationID)
	if err != nil {
		return nil, err
	}
	rows, err := s.notificationRepo.ListByTournamentNotification(ctx, summary.ID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	result := &domain.DispatchResult{Notifications: []*domain.Notification{}}
	var unsaved []*domain.Notification
	for _, n := range rows {
		if !n.CanRetry(s.maxRetries) {
			continue
		}
		if err := s.resend(ctx, n); err != nil {
			s.logger.Error("notification outcome not saved",
				"notification_id", n.ID, "recipient", n.RecipientEmail, "status", n.Status, "error", err)
			unsaved = append(unsaved, n)
		}
		result.Notifications = append(result.Notifications, n)
	}
	s.saveOutcomes(ctx, unsaved)
	return s.finish(ctx, summary.ID, result)
}

func (s *notificationService) List(ctx context.Context, actor *domain.Actor, filter domain.TournamentNotificationFilter, params domain.PaginationParams) ([]*domain.TournamentNotification, int, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, 0, err
	}
	if zone := actor.ZoneFilter(); zone != "" {
		filter.ZoneID = zone
		filter.IncludeNational = actor.SeesNationalTournaments()
	}
	list, total, err := s.summaryRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list summaries: %w", err)
	}
	return list, total, nil
}

func (s *notificationService) Get(ctx context.Context, actor *domain.Actor, id string) (*domain.TournamentNotificationDetail, error) {
	summary, err := s.loadSummary(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	rows, err := s.notificationRepo.ListByTournamentNotification(ctx, summary.ID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return &domain.TournamentNotificationDetail{Summary: summary, Notifications: rows}, nil
}

func (s *notificationService) Delete(ctx context.Context, actor *domain.Actor, id string) error {
	summary, err := s.loadSummary(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.summaryRepo.Delete(ctx, summary.ID)
}
