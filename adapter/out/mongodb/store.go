package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"mailmind_server/core/port/out"
)

// Store bundles the MongoDB repositories behind the out.Store port.
type Store struct {
	users         *UserAdapter
	preferences   *PreferenceAdapter
	emails        *EmailAdapter
	calendar      *CalendarAdapter
	notifications *NotificationAdapter
}

func NewStore(db *mongo.Database) *Store {
	return &Store{
		users:         NewUserAdapter(db),
		preferences:   NewPreferenceAdapter(db),
		emails:        NewEmailAdapter(db),
		calendar:      NewCalendarAdapter(db),
		notifications: NewNotificationAdapter(db),
	}
}

var _ out.Store = (*Store)(nil)

// EnsureIndexes creates every collection's indexes. Called once at startup.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	for _, ensure := range []func(context.Context) error{
		s.users.EnsureIndexes,
		s.preferences.EnsureIndexes,
		s.emails.EnsureIndexes,
		s.calendar.EnsureIndexes,
		s.notifications.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Users() out.UserRepository                  { return s.users }
func (s *Store) Preferences() out.PreferenceRepository      { return s.preferences }
func (s *Store) Emails() out.EmailRepository                { return s.emails }
func (s *Store) CalendarEvents() out.CalendarEventRepository { return s.calendar }
func (s *Store) Notifications() out.NotificationRepository  { return s.notifications }
