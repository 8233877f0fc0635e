// Package calendar projects classified emails into calendar entries, both
// locally and, best-effort, into the user's external Google calendar.
package calendar

import (
	"context"
	"time"

	"github.com/google/uuid"

	"mailmind_server/core/domain"
	"mailmind_server/core/port/out"
	"mailmind_server/pkg/logger"
)

// Service handles calendar operations.
type Service struct {
	eventRepo out.CalendarEventRepository
	providers out.ProviderFactory
	log       *logger.Logger
}

func NewService(eventRepo out.CalendarEventRepository, providers out.ProviderFactory) *Service {
	return &Service{
		eventRepo: eventRepo,
		providers: providers,
		log:       logger.Default().WithField("service", "calendar"),
	}
}

// ProjectEmail turns a classified email into a calendar entry. The external
// mirror is strictly best-effort: a Google Calendar failure is logged and the
// local entry is persisted regardless. Re-projection of the same email
// replaces the entry but keeps the user's attended mark.
func (s *Service) ProjectEmail(ctx context.Context, userID string, email *domain.Email) (*domain.CalendarEvent, error) {
	c := email.Classification

	event := &domain.CalendarEvent{
		ID:               uuid.NewString(),
		UserID:           userID,
		Title:            email.Subject,
		Summary:          c.Summary,
		EventDate:        c.EventDate,
		EventTime:        c.EventTime,
		EventVenue:       c.EventVenue,
		RegistrationLink: c.RegistrationLink,
		Organizer:        c.Organizer,
		Colour:           c.Colour,
		Quadrant:         c.Quadrant,
		Category:         c.Category,
		SourceMessageID:  email.MessageID,
		CreatedAt:        time.Now().UTC(),
	}
	if event.EventDate == "" {
		// Undated but calendar-bound mail lands on tomorrow so it stays visible.
		event.EventDate = time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	}

	if s.providers != nil {
		if provider, err := s.providers.CalendarFor(ctx, userID); err != nil {
			s.log.WithError(err).WithField("user_id", userID).Warn("calendar provider unavailable, keeping event local")
		} else if externalID, err := provider.CreateEvent(ctx, &out.CalendarEntry{
			Title:       event.Title,
			Description: describeEvent(event),
			Date:        event.EventDate,
			Colour:      string(event.Colour),
		}); err != nil {
			s.log.WithError(err).WithField("user_id", userID).Warn("external calendar insert failed, keeping event local")
		} else {
			event.ExternalEventID = externalID
		}
	}

	if err := s.eventRepo.UpsertBySource(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// ManualEventInput is a user-entered calendar entry.
type ManualEventInput struct {
	Title     string `json:"title"`
	EventType string `json:"event_type"` // exam, assignment, lecture, lab, study, club
	EventDate string `json:"event_date"`
	EventTime string `json:"event_time"`
	Venue     string `json:"venue"`
	Notes     string `json:"notes"`
}

// AddManualEvent stores a user-entered entry. The event type drives colour
// and quadrant; manual entries never touch the external calendar.
func (s *Service) AddManualEvent(ctx context.Context, userID string, in *ManualEventInput) (*domain.CalendarEvent, error) {
	colour, quadrant := domain.ManualEventStyle(in.EventType)

	event := &domain.CalendarEvent{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       in.Title,
		Summary:     in.Notes,
		EventDate:   in.EventDate,
		EventTime:   in.EventTime,
		EventVenue:  in.Venue,
		Colour:      colour,
		Quadrant:    quadrant,
		Category:    in.EventType,
		ManualEntry: true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.eventRepo.UpsertBySource(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// List returns the user's events, optionally narrowed to a "YYYY-MM" month.
func (s *Service) List(ctx context.Context, userID, yearMonth string) ([]*domain.CalendarEvent, error) {
	return s.eventRepo.List(ctx, userID, yearMonth)
}

// SetAttended flips the attended mark on one event.
func (s *Service) SetAttended(ctx context.Context, userID, eventID string, attended bool) error {
	return s.eventRepo.SetAttended(ctx, userID, eventID, attended)
}

// ListExternal reads the user's Google calendar directly, so the dashboard
// can show entries that exist only there (created outside this app).
func (s *Service) ListExternal(ctx context.Context, userID, fromDate, toDate string) ([]*out.CalendarEntry, error) {
	provider, err := s.providers.CalendarFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return provider.ListEvents(ctx, fromDate, toDate)
}

func describeEvent(e *domain.CalendarEvent) string {
	desc := e.Summary
	if e.EventVenue != "" {
		desc += "\nVenue: " + e.EventVenue
	}
	if e.EventTime != "" {
		desc += "\nTime: " + e.EventTime
	}
	if e.RegistrationLink != "" {
		desc += "\nRegister: " + e.RegistrationLink
	}
	if e.Organizer != "" {
		desc += "\nOrganizer: " + e.Organizer
	}
	return desc
}
