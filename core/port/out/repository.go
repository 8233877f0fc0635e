// Package out defines the outbound ports: persistence, mail/calendar
// providers, and the reasoning-service client.
package out

import (
	"context"

	"mailmind_server/core/domain"
)

// UserRepository persists authenticated users keyed by Google id.
type UserRepository interface {
	Upsert(ctx context.Context, user *domain.User) error
	Get(ctx context.Context, googleID string) (*domain.User, error)
}

// PreferenceRepository persists one preference document per user. Save
// replaces the document wholesale; UpdateManualAbsences touches only that
// field.
type PreferenceRepository interface {
	Save(ctx context.Context, prefs *domain.Preferences) error
	Get(ctx context.Context, userID string) (*domain.Preferences, error)
	UpdateManualAbsences(ctx context.Context, userID string, absences []string) error
}

// EmailRepository persists fetched and classified emails keyed by
// (user id, message id).
type EmailRepository interface {
	// SaveIfAbsent inserts the email unless one with the same natural key
	// exists. Returns true when a new record was created.
	SaveIfAbsent(ctx context.Context, email *domain.Email) (bool, error)

	// UpdateClassification attaches classification fields to a stored email
	// and marks it classified.
	UpdateClassification(ctx context.Context, userID, messageID string, c *domain.Classification) error

	// ListClassified returns classified emails, newest first, narrowed by the
	// filter.
	ListClassified(ctx context.Context, userID string, filter *domain.EmailFilter) ([]*domain.Email, error)

	// Search matches the query case-insensitively against subject, summary,
	// category, and sender of classified emails.
	Search(ctx context.Context, userID, query string, limit int) ([]*domain.Email, error)
}

// CalendarEventRepository persists local calendar entries.
type CalendarEventRepository interface {
	// UpsertBySource replaces the event carrying the same source message id,
	// preserving the stored Attended flag; events without a source id are
	// appended.
	UpsertBySource(ctx context.Context, event *domain.CalendarEvent) error

	// List returns the user's events, soonest first. yearMonth optionally
	// narrows to "YYYY-MM".
	List(ctx context.Context, userID, yearMonth string) ([]*domain.CalendarEvent, error)

	SetAttended(ctx context.Context, userID, eventID string, attended bool) error
}

// NotificationRepository persists notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ExistsForMessage(ctx context.Context, userID, messageID string) (bool, error)
	ListUnseen(ctx context.Context, userID string) ([]*domain.Notification, error)
	MarkAllSeen(ctx context.Context, userID string) error
}

// Store bundles the repositories one storage backend provides. Bootstrap
// selects the backend once, with a connectivity probe, and hands the same
// Store to every service.
type Store interface {
	Users() UserRepository
	Preferences() PreferenceRepository
	Emails() EmailRepository
	CalendarEvents() CalendarEventRepository
	Notifications() NotificationRepository
}
