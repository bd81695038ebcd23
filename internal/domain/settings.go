package domain

import (
	"context"
	"time"
)

// Institutional email categories.
const (
	CategoryFederazione = "federazione"
	CategoryComitato    = "comitato"
	CategoryZona        = "zona"
	CategoryAltro       = "altro"
)

// ValidInstitutionalCategory reports whether c is a known category.
func ValidInstitutionalCategory(c string) bool {
	switch c {
	case CategoryFederazione, CategoryComitato, CategoryZona, CategoryAltro:
		return true
	}
	return false
}

// InstitutionalEmail is a fixed organisational address receiving copies of notifications.
// A nil ZoneID means the address applies to every zone.
// swagger:model InstitutionalEmail
type InstitutionalEmail struct {
	ID                      string    `json:"id"`
	Name                    string    `json:"name"`
	Email                   string    `json:"email"`
	Description             string    `json:"description,omitempty"`
	ZoneID                  *string   `json:"zone_id"`
	Category                string    `json:"category"`
	ReceiveAllNotifications bool      `json:"receive_all_notifications"`
	IsActive                bool      `json:"is_active"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// InstitutionalEmailFilter narrows institutional email listings. ZoneID also matches global rows.
type InstitutionalEmailFilter struct {
	ZoneID         string
	Category       string
	ActiveOnly     bool
	ReceiveAllOnly bool
}

// InstitutionalEmailPatch holds optional fields; nil means unchanged.
type InstitutionalEmailPatch struct {
	Name                    *string
	Email                   *string
	Description             *string
	Category                *string
	ReceiveAllNotifications *bool
	IsActive                *bool
}

// Letter template types.
const (
	TemplateReferee       = "referee"
	TemplateClub          = "club"
	TemplateInstitutional = "institutional"
	TemplateConvocation   = "convocation"
	TemplateClubLetter    = "club_letter"
)

// ValidTemplateType reports whether t is a known template type.
func ValidTemplateType(t string) bool {
	switch t {
	case TemplateReferee, TemplateClub, TemplateInstitutional, TemplateConvocation, TemplateClubLetter:
		return true
	}
	return false
}

// LetterTemplate is an editable subject/body pair with {{variable}} placeholders.
// swagger:model LetterTemplate
type LetterTemplate struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Type             string    `json:"type"`
	Subject          string    `json:"subject"`
	Body             string    `json:"body"`
	ZoneID           *string   `json:"zone_id"`
	TournamentTypeID *string   `json:"tournament_type_id"`
	IsActive         bool      `json:"is_active"`
	IsDefault        bool      `json:"is_default"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// LetterTemplateFilter narrows template listings.
type LetterTemplateFilter struct {
	Type       string
	ZoneID     string
	ActiveOnly bool
}

// LetterTemplatePatch holds optional fields; nil means unchanged.
type LetterTemplatePatch struct {
	Name      *string
	Subject   *string
	Body      *string
	IsActive  *bool
	IsDefault *bool
}

// Letterhead is the branding used on generated documents.
// swagger:model Letterhead
type Letterhead struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ZoneID       *string   `json:"zone_id"`
	HeaderText   string    `json:"header_text"`
	FooterText   string    `json:"footer_text"`
	LogoPath     string    `json:"logo_path,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	IsActive     bool      `json:"is_active"`
	IsDefault    bool      `json:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LetterheadPatch holds optional fields; nil means unchanged.
type LetterheadPatch struct {
	Title        *string
	HeaderText   *string
	FooterText   *string
	LogoPath     *string
	ContactEmail *string
	ContactPhone *string
	Address      *string
	IsActive     *bool
	IsDefault    *bool
}

// InstitutionalEmailRepository stores institutional emails.
type InstitutionalEmailRepository interface {
	Create(ctx context.Context, e *InstitutionalEmail) error
	GetByID(ctx context.Context, id string) (*InstitutionalEmail, error)
	ListByIDs(ctx context.Context, ids []string) ([]*InstitutionalEmail, error)
	List(ctx context.Context, filter InstitutionalEmailFilter) ([]*InstitutionalEmail, error)
	Update(ctx context.Context, id string, patch InstitutionalEmailPatch) (*InstitutionalEmail, error)
	Delete(ctx context.Context, id string) error
}

// LetterTemplateRepository stores letter templates.
type LetterTemplateRepository interface {
	Create(ctx context.Context, t *LetterTemplate) error
	GetByID(ctx context.Context, id string) (*LetterTemplate, error)
	List(ctx context.Context, filter LetterTemplateFilter) ([]*LetterTemplate, error)
	// FindDefault returns the active default template of the type for the zone; an empty zoneID
	// looks for the global default.
	FindDefault(ctx context.Context, templateType, zoneID string) (*LetterTemplate, error)
	Update(ctx context.Context, id string, patch LetterTemplatePatch) (*LetterTemplate, error)
	Delete(ctx context.Context, id string) error
}

// LetterheadRepository stores letterheads.
type LetterheadRepository interface {
	Create(ctx context.Context, l *Letterhead) error
	GetByID(ctx context.Context, id string) (*Letterhead, error)
	List(ctx context.Context, zoneID string) ([]*Letterhead, error)
	FindDefault(ctx context.Context, zoneID string) (*Letterhead, error)
	Update(ctx context.Context, id string, patch LetterheadPatch) (*Letterhead, error)
}

// SettingsService manages notification configuration entities.
type SettingsService interface {
	ListInstitutionalEmails(ctx context.Context, actor *Actor, filter InstitutionalEmailFilter) ([]*InstitutionalEmail, error)
	CreateInstitutionalEmail(ctx context.Context, actor *Actor, e *InstitutionalEmail) error
	UpdateInstitutionalEmail(ctx context.Context, actor *Actor, id string, patch InstitutionalEmailPatch) (*InstitutionalEmail, error)
	DeleteInstitutionalEmail(ctx context.Context, actor *Actor, id string) error

	ListLetterTemplates(ctx context.Context, actor *Actor, filter LetterTemplateFilter) ([]*LetterTemplate, error)
	GetLetterTemplate(ctx context.Context, actor *Actor, id string) (*LetterTemplate, error)
	CreateLetterTemplate(ctx context.Context, actor *Actor, t *LetterTemplate) error
	UpdateLetterTemplate(ctx context.Context, actor *Actor, id string, patch LetterTemplatePatch) (*LetterTemplate, error)
	DeleteLetterTemplate(ctx context.Context, actor *Actor, id string) error

	ListLetterheads(ctx context.Context, actor *Actor) ([]*Letterhead, error)
	CreateLetterhead(ctx context.Context, actor *Actor, l *Letterhead) error
	UpdateLetterhead(ctx context.Context, actor *Actor, id string, patch LetterheadPatch) (*Letterhead, error)
}
