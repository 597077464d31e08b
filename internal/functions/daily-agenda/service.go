// internal/functions/daily-agenda/service.go
package dailyagenda

import (
	"context"
	"fmt"
	"time"

	stderrors "eventdesk-functions/internal/common/errors"
	"eventdesk-functions/internal/common/logger"
	"eventdesk-functions/internal/common/mail"
	"eventdesk-functions/internal/common/metrics"
	"eventdesk-functions/internal/models"
	"eventdesk-functions/internal/notify"
	"eventdesk-functions/internal/template"

	"github.com/google/uuid"
)

// ScheduleStore is the slice of the store used by this function, defined
// here for mocking.
type ScheduleStore interface {
	DigestTargets(ctx context.Context, eventID string) ([]models.NotificationSettings, error)
	ScheduleRows(ctx context.Context, eventIDs []string, from, to time.Time, registeredOnly bool) ([]models.ScheduleRow, error)
	SponsorTiers(ctx context.Context, eventID string) (models.SponsorTiers, error)
	NearestUpcomingSession(ctx context.Context, eventID string, after time.Time) (*models.ScheduleRow, error)
}

type ServiceDependencies struct {
	Store  ScheduleStore
	Sender mail.Sender
	Logger logger.Logger
	Now    func() time.Time
}

type Service struct {
	config *Config
	store  ScheduleStore
	sender mail.Sender
	logger logger.Logger
	now    func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		config: config,
		store:  deps.Store,
		sender: deps.Sender,
		logger: deps.Logger.WithFields(map[string]interface{}{"function": notify.KindDigest}),
		now:    now,
	}
}

// Window computes the digest query window: the whole of the next calendar
// day in the given location, [next midnight, the midnight after).
func Window(now time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	return start, start.AddDate(0, 0, 1)
}

// Execute runs one daily-agenda dispatch: one email per attendee with any
// registration on the next calendar day of an enabled event.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input != nil && input.IsTest {
		return s.executeTest(ctx, input)
	}

	eventID := ""
	if input != nil {
		eventID = input.EventID
	}

	targets, err := s.store.DigestTargets(ctx, eventID)
	if err != nil {
		return nil, stderrors.Wrap(stderrors.ErrCodeQueryExecutionFailed, "query digest targets", err, true)
	}
	if len(targets) == 0 {
		return &Output{Sent: 0, Message: "no events with the daily agenda enabled"}, nil
	}

	runID := uuid.New().String()
	now := s.now().UTC()

	var result notify.Result
	for _, target := range targets {
		loc := notify.Location(target.Timezone)
		from, to := Window(now, loc)

		rows, err := s.store.ScheduleRows(ctx, []string{target.EventID}, from, to, false)
		if err != nil {
			return nil, stderrors.Wrap(stderrors.ErrCodeQueryExecutionFailed, "query schedule rows", err, true)
		}

		groups := notify.GroupByRecipient(rows)
		if len(groups) == 0 {
			continue
		}

		tiers, err := s.store.SponsorTiers(ctx, target.EventID)
		if err != nil {
			return nil, stderrors.Wrap(stderrors.ErrCodeQueryExecutionFailed, "query sponsor tiers", err, true)
		}

		for _, group := range groups {
			bag := notify.BuildBag(group, target, tiers, s.config.PortalURL, loc)
			err := s.sendOne(ctx, target, group.Email, bag)
			result.Record(group.Email, err)
		}
	}

	s.logger.Info("dispatch run finished", map[string]interface{}{
		"runId":  runID,
		"sent":   result.Sent,
		"total":  result.Total,
		"errors": len(result.Errors),
	})

	return outputFromResult(result), nil
}

func (s *Service) sendOne(ctx context.Context, target models.NotificationSettings, to string, bag template.Vars) error {
	err := s.sender.Send(ctx, mail.Message{
		From:    s.fromAddress(target),
		To:      to,
		Subject: template.Render(digestSubject, bag),
		HTML:    digestTmpl.Render(bag),
	})
	if err != nil {
		metrics.EmailsFailed.WithLabelValues(notify.KindDigest).Inc()
		s.logger.Warn("send failed", map[string]interface{}{
			"to":      to,
			"eventId": target.EventID,
			"error":   err.Error(),
		})
		return err
	}
	metrics.EmailsSent.WithLabelValues(notify.KindDigest).Inc()
	return nil
}

// executeTest sends exactly one digest to the given test recipient, built
// from the nearest real upcoming session when one exists and a synthetic
// agenda otherwise.
func (s *Service) executeTest(ctx context.Context, input *Input) (*Output, error) {
	if input.TestEmail == "" {
		return nil, stderrors.New(stderrors.ErrCodeInvalidInvocation, "testEmail is required for test invocations", "", false)
	}

	now := s.now().UTC()
	row, err := s.store.NearestUpcomingSession(ctx, input.EventID, now)
	if err != nil {
		return nil, stderrors.Wrap(stderrors.ErrCodeQueryExecutionFailed, "query nearest session", err, true)
	}
	if row == nil {
		start := now.AddDate(0, 0, 1)
		row = &models.ScheduleRow{
			EventID:     input.EventID,
			EventName:   "Sample Event",
			SessionID:   "test-session",
			SessionName: "Sample Keynote",
			Description: "This is a test daily agenda.",
			Speaker:     "Sample Speaker",
			Location:    "Main Hall",
			StartsAt:    start,
			EndsAt:      start.Add(time.Hour),
		}
	}

	var tiers models.SponsorTiers
	if input.EventID != "" {
		tiers, err = s.store.SponsorTiers(ctx, input.EventID)
		if err != nil {
			s.logger.Warn("sponsor query failed for test send", map[string]interface{}{"error": err.Error()})
			tiers = models.SponsorTiers{}
		}
	}

	group := notify.RecipientGroup{
		AttendeeID: "test",
		Email:      input.TestEmail,
		FirstName:  "there",
		Rows:       []models.ScheduleRow{*row},
	}
	target := models.NotificationSettings{EventID: row.EventID, EventName: row.EventName}
	bag := notify.BuildBag(group, target, tiers, s.config.PortalURL, time.UTC)

	var result notify.Result
	result.Record(group.Email, s.sendOne(ctx, target, group.Email, bag))

	out := outputFromResult(result)
	out.Message = fmt.Sprintf("test agenda for session %q", row.SessionName)
	return out, nil
}

func (s *Service) fromAddress(target models.NotificationSettings) string {
	if target.FromName != "" {
		return fmt.Sprintf("%s <%s>", target.FromName, s.config.FromEmail)
	}
	return s.config.FromEmail
}

func outputFromResult(r notify.Result) *Output {
	return &Output{
		Sent:   r.Sent,
		Total:  r.Total,
		Errors: r.Errors,
	}
}
