package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"refereehub/internal/domain"
)

type settingsService struct {
	institutionalRepo domain.InstitutionalEmailRepository
	templateRepo      domain.LetterTemplateRepository
	letterheadRepo    domain.LetterheadRepository
	contextTimeout    time.Duration
}

// NewSettingsService creates a SettingsService for institutional emails, letter templates and letterheads.
func NewSettingsService(
	institutionalRepo domain.InstitutionalEmailRepository,
	templateRepo domain.LetterTemplateRepository,
	letterheadRepo domain.LetterheadRepository,
	timeout time.Duration,
) domain.SettingsService {
	return &settingsService{
		institutionalRepo: institutionalRepo,
		templateRepo:      templateRepo,
		letterheadRepo:    letterheadRepo,
		contextTimeout:    timeout,
	}
}

// checkOwnership allows zone admins to manage rows of their zone; global rows (nil zone)
// belong to super admins.
func checkOwnership(actor *domain.Actor, zoneID *string) error {
	if actor.IsSuperAdmin() {
		return nil
	}
	if zoneID == nil || !actor.CanAccessZone(*zoneID) {
		return domain.ErrForbidden
	}
	return nil
}

// defaultZone places rows created by zone admins in their zone.
func defaultZone(actor *domain.Actor, zoneID *string) *string {
	if zoneID != nil && *zoneID == "" {
		zoneID = nil
	}
	if zoneID == nil && !actor.IsSuperAdmin() {
		zone := actor.ZoneID
		return &zone
	}
	return zoneID
}

func (s *settingsService) ListInstitutionalEmails(ctx context.Context, actor *domain.Actor, filter domain.InstitutionalEmailFilter) ([]*domain.InstitutionalEmail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if zone := actor.ZoneFilter(); zone != "" {
		filter.ZoneID = zone
	}
	return s.institutionalRepo.List(ctx, filter)
}

func (s *settingsService) CreateInstitutionalEmail(ctx context.Context, actor *domain.Actor, e *domain.InstitutionalEmail) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return err
	}
	e.ZoneID = defaultZone(actor, e.ZoneID)
	if err := checkOwnership(actor, e.ZoneID); err != nil {
		return err
	}
	e.Email = normalizeEmail(e.Email)
	if !validEmail(e.Email) {
		return invalidInput("invalid email format")
	}
	if e.Category == "" {
		e.Category = domain.CategoryAltro
	}
	if !domain.ValidInstitutionalCategory(e.Category) {
		return invalidInput("unknown category %q", e.Category)
	}
	e.Name = strings.TrimSpace(e.Name)
	return s.institutionalRepo.Create(ctx, e)
}

func (s *settingsService) UpdateInstitutionalEmail(ctx context.Context, actor *domain.Actor, id string, patch domain.InstitutionalEmailPatch) (*domain.InstitutionalEmail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	current, err := s.institutionalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(actor, current.ZoneID); err != nil {
		return nil, err
	}
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if !validEmail(email) {
			return nil, invalidInput("invalid email format")
		}
		patch.Email = &email
	}
	if patch.Category != nil && !domain.ValidInstitutionalCategory(*patch.Category) {
		return nil, invalidInput("unknown category %q", *patch.Category)
	}
	return s.institutionalRepo.Update(ctx, id, patch)
}

func (s *settingsService) DeleteInstitutionalEmail(ctx context.Context, actor *domain.Actor, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return err
	}
	current, err := s.institutionalRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := checkOwnership(actor, current.ZoneID); err != nil {
		return err
	}
	return s.institutionalRepo.Delete(ctx, id)
}

func (s *settingsService) ListLetterTemplates(ctx context.Context, actor *domain.Actor, filter domain.LetterTemplateFilter) ([]*domain.LetterTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if zone := actor.ZoneFilter(); zone != "" {
		filter.ZoneID = zone
	}
	return s.templateRepo.List(ctx, filter)
}

func (s *settingsService) GetLetterTemplate(ctx context.Context, actor *domain.Actor, id string) (*domain.LetterTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	tpl, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Global templates are readable by every admin.
	if tpl.ZoneID != nil && !actor.CanAccessZone(*tpl.ZoneID) {
		return nil, domain.ErrForbidden
	}
	return tpl, nil
}

func (s *settingsService) CreateLetterTemplate(ctx context.Context, actor *domain.Actor, t *domain.LetterTemplate) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return err
	}
	t.ZoneID = defaultZone(actor, t.ZoneID)
	if err := checkOwnership(actor, t.ZoneID); err != nil {
		return err
	}
	if !domain.ValidTemplateType(t.Type) {
		return invalidInput("unknown template type %q", t.Type)
	}
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" || strings.TrimSpace(t.Subject) == "" || strings.TrimSpace(t.Body) == "" {
		return invalidInput("name, subject and body are required")
	}
	if t.TournamentTypeID != nil && *t.TournamentTypeID == "" {
		t.TournamentTypeID = nil
	}
	return s.templateRepo.Create(ctx, t)
}

func (s *settingsService) UpdateLetterTemplate(ctx context.Context, actor *domain.Actor, id string, patch domain.LetterTemplatePatch) (*domain.LetterTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	current, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(actor, current.ZoneID); err != nil {
		return nil, err
	}
	for _, field := range []*string{patch.Name, patch.Subject, patch.Body} {
		if field != nil && strings.TrimSpace(*field) == "" {
			return nil, invalidInput("name, subject and body must not be empty")
		}
	}
	return s.templateRepo.Update(ctx, id, patch)
}

func (s *settingsService) DeleteLetterTemplate(ctx context.Context, actor *domain.Actor, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return err
	}
	current, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := checkOwnership(actor, current.ZoneID); err != nil {
		return err
	}
	return s.templateRepo.Delete(ctx, id)
}

func (s *settingsService) ListLetterheads(ctx context.Context, actor *domain.Actor) ([]*domain.Letterhead, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.letterheadRepo.List(ctx, actor.ZoneFilter())
}

func (s *settingsService) CreateLetterhead(ctx context.Context, actor *domain.Actor, l *domain.Letterhead) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return err
	}
	l.ZoneID = defaultZone(actor, l.ZoneID)
	if err := checkOwnership(actor, l.ZoneID); err != nil {
		return err
	}
	l.Title = strings.TrimSpace(l.Title)
	if l.Title == "" {
		return invalidInput("title is required")
	}
	if l.ContactEmail != "" && !validEmail(normalizeEmail(l.ContactEmail)) {
		return invalidInput("invalid contact email")
	}
	return s.letterheadRepo.Create(ctx, l)
}

func (s *settingsService) UpdateLetterhead(ctx context.Context, actor *domain.Actor, id string, patch domain.LetterheadPatch) (*domain.Letterhead, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	current, err := s.letterheadRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get letterhead: %w", err)
	}
	if err := checkOwnership(actor, current.ZoneID); err != nil {
		return nil, err
	}
	return s.letterheadRepo.Update(ctx, id, patch)
}
