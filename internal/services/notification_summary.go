package services

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"

	"refereehub/internal/domain"
)

type notificationAggregator struct {
	notificationRepo domain.NotificationRepository
	summaryRepo      domain.TournamentNotificationRepository
	clock            clockwork.Clock
}

// NewNotificationAggregator returns a NotificationAggregator that recounts summaries from the
// per-recipient rows.
func NewNotificationAggregator(notificationRepo domain.NotificationRepository, summaryRepo domain.TournamentNotificationRepository, clock clockwork.Clock) domain.NotificationAggregator {
	return &notificationAggregator{
		notificationRepo: notificationRepo,
		summaryRepo:      summaryRepo,
		clock:            clock,
	}
}

func (a *notificationAggregator) Recompute(ctx context.Context, tournamentNotificationID string) (*domain.TournamentNotification, error) {
	tn, err := a.summaryRepo.GetByID(ctx, tournamentNotificationID)
	if err != nil {
		return nil, err
	}
	counts, err := a.notificationRepo.CountByTournamentNotification(ctx, tournamentNotificationID)
	if err != nil {
		return nil, fmt.Errorf("count notifications: %w", err)
	}
	applyCounts(tn, counts)
	tn.UpdatedAt = a.clock.Now()
	if err := a.summaryRepo.Update(ctx, tn); err != nil {
		return nil, fmt.Errorf("update summary: %w", err)
	}
	return tn, nil
}

// applyCounts overwrites the counters and status of tn from grouped notification counts.
func applyCounts(tn *domain.TournamentNotification, counts []domain.NotificationCount) {
	tn.TotalRecipients = 0
	tn.RefereeRecipients = 0
	tn.ClubRecipients = 0
	tn.InstitutionalRecipients = 0
	tn.AdditionalRecipients = 0
	tn.SentCount = 0
	tn.FailedCount = 0
	for _, c := range counts {
		tn.TotalRecipients += c.Count
		switch c.RecipientType {
		case domain.RecipientReferee:
			tn.RefereeRecipients += c.Count
		case domain.RecipientClub:
			tn.ClubRecipients += c.Count
		case domain.RecipientInstitutional:
			tn.InstitutionalRecipients += c.Count
		case domain.RecipientAdditional:
			tn.AdditionalRecipients += c.Count
		}
		switch c.Status {
		case domain.NotificationSent:
			tn.SentCount += c.Count
		case domain.NotificationFailed:
			tn.FailedCount += c.Count
		}
	}
	tn.Status = summaryStatus(tn.TotalRecipients, tn.SentCount, tn.FailedCount)
}

// summaryStatus derives the overall status: pending with no rows, sent when every row is sent,
// failed when nothing was sent and something failed, partial otherwise.
func summaryStatus(total, sent, failed int) string {
	switch {
	case total == 0:
		return domain.SummaryPending
	case sent == total:
		return domain.SummarySent
	case sent == 0 && failed > 0:
		return domain.SummaryFailed
	default:
		return domain.SummaryPartial
	}
}
