package triage

import (
	"context"
	"net/mail"
	"time"
	"unicode/utf8"

	"mailmind_server/core/agent/llm"
	"mailmind_server/core/domain"
	"mailmind_server/core/port/out"
	calendarsvc "mailmind_server/core/service/calendar"
	notificationsvc "mailmind_server/core/service/notification"
	preferencesvc "mailmind_server/core/service/preference"
	"mailmind_server/pkg/apperr"
	"mailmind_server/pkg/logger"
)

// Classifier is the reasoning surface the pipeline needs; llm.Agent
// satisfies it.
type Classifier interface {
	ClassifyEmail(ctx context.Context, email *domain.Email, prefs *domain.Preferences) (*llm.RawClassification, error)
}

// Config tunes the pipeline.
type Config struct {
	FetchMaxResults  int           // inbox messages per run
	BodyCharLimit    int           // stored body cap
	ClassifyInterval time.Duration // pause between model calls
}

func (c Config) withDefaults() Config {
	if c.FetchMaxResults <= 0 {
		c.FetchMaxResults = 50
	}
	if c.BodyCharLimit <= 0 {
		c.BodyCharLimit = 2000
	}
	if c.ClassifyInterval <= 0 {
		c.ClassifyInterval = 500 * time.Millisecond
	}
	return c
}

// Report summarizes one pipeline run.
type Report struct {
	Fetched       int `json:"fetched"`
	New           int `json:"new"`
	Classified    int `json:"classified"`
	Fallbacks     int `json:"fallbacks"`
	CalendarAdded int `json:"calendar_added"`
	Notifications int `json:"notifications"`
}

// Service runs the triage pipeline for one user at a time.
type Service struct {
	emailRepo     out.EmailRepository
	providers     out.ProviderFactory
	classifier    Classifier
	preferences   *preferencesvc.Service
	calendar      *calendarsvc.Service
	notifications *notificationsvc.Service
	cfg           Config
	log           *logger.Logger
}

func NewService(
	emailRepo out.EmailRepository,
	providers out.ProviderFactory,
	classifier Classifier,
	preferences *preferencesvc.Service,
	calendar *calendarsvc.Service,
	notifications *notificationsvc.Service,
	cfg Config,
) *Service {
	return &Service{
		emailRepo:     emailRepo,
		providers:     providers,
		classifier:    classifier,
		preferences:   preferences,
		calendar:      calendar,
		notifications: notifications,
		cfg:           cfg.withDefaults(),
		log:           logger.Default().WithField("service", "triage"),
	}
}

// RunForUser fetches the user's recent inbox, classifies everything new, and
// routes each classification to the calendar and notification services.
// A user without stored preferences is rejected before anything is fetched.
// Messages already stored are skipped, so re-running is idempotent. Every new
// message leaves the run classified: a model failure stores the fallback
// instead of leaving a hole.
func (s *Service) RunForUser(ctx context.Context, userID string) (*Report, error) {
	start := time.Now()
	report := &Report{}

	prefs, err := s.preferences.Stored(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		return nil, apperr.BadRequest("no preferences set, submit interests before fetching")
	}

	provider, err := s.providers.MailFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	messages, err := provider.FetchInbox(ctx, s.cfg.FetchMaxResults)
	if err != nil {
		return nil, err
	}
	report.Fetched = len(messages)

	for _, msg := range messages {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		email := s.toEmail(userID, msg)
		created, err := s.emailRepo.SaveIfAbsent(ctx, email)
		if err != nil {
			return report, err
		}
		if !created {
			continue
		}
		report.New++

		if report.Classified+report.Fallbacks > 0 {
			// Pace model calls so one fetch burst cannot exhaust the quota.
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(s.cfg.ClassifyInterval):
			}
		}

		var classification *domain.Classification
		raw, err := s.classifier.ClassifyEmail(ctx, email, prefs)
		if err != nil {
			s.log.WithError(err).WithField("message_id", email.MessageID).Warn("classification failed, storing fallback")
			classification = Fallback(email)
			report.Fallbacks++
		} else {
			classification = Normalize(raw, email)
			report.Classified++
		}

		if err := s.emailRepo.UpdateClassification(ctx, userID, email.MessageID, classification); err != nil {
			return report, err
		}
		email.Classified = true
		email.Classification = classification

		s.route(ctx, userID, email, prefs, report)
	}

	s.log.WithDuration(time.Since(start)).WithField("user_id", userID).
		Info("triage run done: %d fetched, %d new, %d calendar, %d notifications",
			report.Fetched, report.New, report.CalendarAdded, report.Notifications)
	return report, nil
}

// route applies the classification's consequences. Routing failures are
// logged, not returned: the classification itself is already persisted.
func (s *Service) route(ctx context.Context, userID string, email *domain.Email, prefs *domain.Preferences, report *Report) {
	c := email.Classification

	if c.IsInformal && !prefs.InformalsEnabled {
		return
	}

	if c.Action == domain.ActionNotify {
		created, err := s.notifications.EmitForEmail(ctx, userID, email)
		if err != nil {
			s.log.WithError(err).WithField("message_id", email.MessageID).Warn("notification emit failed")
		} else if created {
			report.Notifications++
		}
	}

	orgPriority := prefs.Profile.PriorityFor(c.Category)
	if domain.CalendarEligible(c.Action, c.EventDate, orgPriority) {
		if _, err := s.calendar.ProjectEmail(ctx, userID, email); err != nil {
			s.log.WithError(err).WithField("message_id", email.MessageID).Warn("calendar projection failed")
		} else {
			report.CalendarAdded++
		}
	}
}

func (s *Service) toEmail(userID string, msg *out.MailMessage) *domain.Email {
	now := time.Now().UTC()
	receivedAt := now
	if t, err := mail.ParseDate(msg.Date); err == nil {
		receivedAt = t.UTC()
	}

	body := msg.Body
	if len(body) > s.cfg.BodyCharLimit {
		// Back off to a rune boundary so the cap never splits a character.
		cut := s.cfg.BodyCharLimit
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut]
	}

	return &domain.Email{
		UserID:     userID,
		MessageID:  msg.MessageID,
		Subject:    msg.Subject,
		Sender:     msg.Sender,
		SenderFull: msg.SenderFull,
		Date:       msg.Date,
		ReceivedAt: receivedAt,
		Body:       body,
		Snippet:    msg.Snippet,
		FetchedAt:  now,
	}
}

// ListClassified exposes the stored dashboard view.
func (s *Service) ListClassified(ctx context.Context, userID string, filter *domain.EmailFilter) ([]*domain.Email, error) {
	return s.emailRepo.ListClassified(ctx, userID, filter)
}

// Search matches classified emails against a free-text query.
func (s *Service) Search(ctx context.Context, userID, query string, limit int) ([]*domain.Email, error) {
	return s.emailRepo.Search(ctx, userID, query, limit)
}
