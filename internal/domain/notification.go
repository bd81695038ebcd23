package domain

import (
	"context"
	"time"
)

// NotificationStatus is the delivery state of one outbound email.
type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

// Recipient categories.
const (
	RecipientReferee       = "referee"
	RecipientClub          = "club"
	RecipientInstitutional = "institutional"
	RecipientAdditional    = "additional"
)

// Notification is one outbound email to one recipient.
// swagger:model Notification
type Notification struct {
	ID                       string             `json:"id"`
	TournamentID             string             `json:"tournament_id"`
	TournamentNotificationID string             `json:"tournament_notification_id"`
	AssignmentID             *string            `json:"assignment_id,omitempty"`
	RecipientType            string             `json:"recipient_type"`
	RecipientEmail           string             `json:"recipient_email"`
	RecipientName            string             `json:"recipient_name"`
	Subject                  string             `json:"subject"`
	Body                     string             `json:"body"`
	TemplateUsed             string             `json:"template_used,omitempty"`
	Status                   NotificationStatus `json:"status"`
	SentAt                   *time.Time         `json:"sent_at,omitempty"`
	ErrorMessage             string             `json:"error_message,omitempty"`
	RetryCount               int                `json:"retry_count"`
	Attachments              []string           `json:"attachments"`
	CreatedAt                time.Time          `json:"created_at"`
	UpdatedAt                time.Time          `json:"updated_at"`
}

// MarkSent moves the notification to sent.
func (n *Notification) MarkSent(at time.Time) {
	n.Status = NotificationSent
	n.SentAt = &at
	n.ErrorMessage = ""
	n.UpdatedAt = at
}

// MarkFailed moves the notification to failed and counts the attempt.
func (n *Notification) MarkFailed(at time.Time, err error) {
	n.Status = NotificationFailed
	n.ErrorMessage = err.Error()
	n.RetryCount++
	n.UpdatedAt = at
}

// CanRetry reports whether a failed notification is still under the retry limit.
func (n *Notification) CanRetry(maxRetries int) bool {
	return n.Status == NotificationFailed && n.RetryCount < maxRetries
}

// Tournament notification summary statuses.
const (
	SummaryPending = "pending"
	SummarySent    = "sent"
	SummaryPartial = "partial"
	SummaryFailed  = "failed"
)

// TournamentNotification summarises every notification sent for one tournament.
// swagger:model TournamentNotification
type TournamentNotification struct {
	ID                      string            `json:"id"`
	TournamentID            string            `json:"tournament_id"`
	Status                  string            `json:"status"`
	TotalRecipients         int               `json:"total_recipients"`
	RefereeRecipients       int               `json:"referee_recipients"`
	ClubRecipients          int               `json:"club_recipients"`
	InstitutionalRecipients int               `json:"institutional_recipients"`
	AdditionalRecipients    int               `json:"additional_recipients"`
	SentCount               int               `json:"sent_count"`
	FailedCount             int               `json:"failed_count"`
	TemplatesUsed           map[string]string `json:"templates_used"`
	SentAt                  *time.Time        `json:"sent_at,omitempty"`
	SentBy                  string            `json:"sent_by,omitempty"`
	CreatedAt               time.Time         `json:"created_at"`
	UpdatedAt               time.Time         `json:"updated_at"`

	// Joined read-only fields.
	TournamentName string `json:"tournament_name,omitempty"`
	ZoneID         string `json:"zone_id,omitempty"`
}

// NotificationCount is a count of notifications grouped by recipient type and status.
type NotificationCount struct {
	RecipientType string
	Status        NotificationStatus
	Count         int
}

// TournamentNotificationFilter narrows summary listings.
type TournamentNotificationFilter struct {
	ZoneID string
	// IncludeNational also matches summaries of national tournaments outside ZoneID.
	IncludeNational bool
	Status       string
	TournamentID string
}

// TournamentNotificationDetail bundles a summary with its per-recipient rows.
type TournamentNotificationDetail struct {
	Summary       *TournamentNotification `json:"summary"`
	Notifications []*Notification         `json:"notifications"`
}

// AdditionalRecipient is an ad-hoc email address added to a dispatch.
type AdditionalRecipient struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// DispatchRequest selects the recipients and content of a tournament notification.
type DispatchRequest struct {
	TournamentID                string
	IncludeReferees             bool
	RefereeIDs                  []string
	IncludeClub                 bool
	InstitutionalEmailIDs       []string
	IncludeDefaultInstitutional bool
	AdditionalEmails            []AdditionalRecipient
	RefereeTemplateID           string
	ClubTemplateID              string
	InstitutionalTemplateID     string
	AttachConvocation           bool
	AttachClubLetter            bool
	Message                     string
}

// DispatchResult is the outcome of a dispatch or resend.
type DispatchResult struct {
	Summary       *TournamentNotification `json:"summary"`
	Notifications []*Notification         `json:"notifications"`
	Sent          int                     `json:"sent"`
	Failed        int                     `json:"failed"`
}

// NotificationRepository stores per-recipient notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id string) (*Notification, error)
	UpdateDelivery(ctx context.Context, n *Notification) error
	ListByTournamentNotification(ctx context.Context, tournamentNotificationID string) ([]*Notification, error)
	CountByTournamentNotification(ctx context.Context, tournamentNotificationID string) ([]NotificationCount, error)
	CountByStatus(ctx context.Context, zoneID string) (map[NotificationStatus]int, error)
}

// TournamentNotificationRepository stores the per-tournament summaries.
type TournamentNotificationRepository interface {
	// GetOrCreate returns the summary row of the tournament, creating an empty pending one if missing.
	GetOrCreate(ctx context.Context, tournamentID string) (*TournamentNotification, error)
	GetByID(ctx context.Context, id string) (*TournamentNotification, error)
	Update(ctx context.Context, tn *TournamentNotification) error
	List(ctx context.Context, filter TournamentNotificationFilter, params PaginationParams) ([]*TournamentNotification, int, error)
	// Delete removes the summary and its notifications in one transaction.
	Delete(ctx context.Context, id string) error
}

// NotificationService dispatches tournament notifications and maintains their summaries.
type NotificationService interface {
	Dispatch(ctx context.Context, actor *Actor, req DispatchRequest) (*DispatchResult, error)
	ResendNotification(ctx context.Context, actor *Actor, notificationID string) (*DispatchResult, error)
	ResendFailed(ctx context.Context, actor *Actor, tournamentNotificationID string) (*DispatchResult, error)
	List(ctx context.Context, actor *Actor, filter TournamentNotificationFilter, params PaginationParams) ([]*TournamentNotification, int, error)
	Get(ctx context.Context, actor *Actor, id string) (*TournamentNotificationDetail, error)
	Delete(ctx context.Context, actor *Actor, id string) error
}

// NotificationAggregator rolls per-recipient rows up into the tournament summary.
type NotificationAggregator interface {
	Recompute(ctx context.Context, tournamentNotificationID string) (*TournamentNotification, error)
}
