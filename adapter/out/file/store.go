// Package file implements the document-store repositories on a single JSON
// file. It is the fallback backend when MongoDB is unreachable, so a fresh
// checkout still runs end to end.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"mailmind_server/core/domain"
	"mailmind_server/core/port/out"
)

const dataFileName = "mailmind_store.json"

type fileData struct {
	Users         map[string]*domain.User        `json:"users"`
	Preferences   map[string]*domain.Preferences `json:"preferences"`
	Emails        map[string]*domain.Email       `json:"emails"` // keyed user_id/message_id
	Events        []*domain.CalendarEvent        `json:"events"`
	Notifications []*domain.Notification         `json:"notifications"`
}

// Store holds everything in memory and rewrites the JSON file on every
// mutation. Writes go through a temp file and rename so a crash mid-write
// never corrupts the store.
type Store struct {
	mu   sync.RWMutex
	path string
	data *fileData
}

func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	s := &Store{
		path: filepath.Join(dataDir, dataFileName),
		data: &fileData{
			Users:       make(map[string]*domain.User),
			Preferences: make(map[string]*domain.Preferences),
			Emails:      make(map[string]*domain.Email),
		},
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

var _ out.Store = (*Store)(nil)

func (s *Store) Users() out.UserRepository                   { return (*userRepo)(s) }
func (s *Store) Preferences() out.PreferenceRepository       { return (*preferenceRepo)(s) }
func (s *Store) Emails() out.EmailRepository                 { return (*emailRepo)(s) }
func (s *Store) CalendarEvents() out.CalendarEventRepository { return (*calendarRepo)(s) }
func (s *Store) Notifications() out.NotificationRepository   { return (*notificationRepo)(s) }

func (s *Store) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read store file: %w", err)
	}

	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to parse store file: %w", err)
	}
	if data.Users == nil {
		data.Users = make(map[string]*domain.User)
	}
	if data.Preferences == nil {
		data.Preferences = make(map[string]*domain.Preferences)
	}
	if data.Emails == nil {
		data.Emails = make(map[string]*domain.Email)
	}
	s.data = &data
	return nil
}

// persist is called with the write lock held.
func (s *Store) persist() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}

func emailKey(userID, messageID string) string {
	return userID + "/" + messageID
}

// ---- users ----

type userRepo Store

func (r *userRepo) Upsert(_ context.Context, user *domain.User) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Users[user.GoogleID] = user
	return s.persist()
}

func (r *userRepo) Get(_ context.Context, googleID string) (*domain.User, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Users[googleID], nil
}

// ---- preferences ----

type preferenceRepo Store

func (r *preferenceRepo) Save(_ context.Context, prefs *domain.Preferences) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Preferences[prefs.UserID] = prefs
	return s.persist()
}

func (r *preferenceRepo) Get(_ context.Context, userID string) (*domain.Preferences, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Preferences[userID], nil
}

func (r *preferenceRepo) UpdateManualAbsences(_ context.Context, userID string, absences []string) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	prefs, ok := s.data.Preferences[userID]
	if !ok {
		prefs = &domain.Preferences{UserID: userID}
		s.data.Preferences[userID] = prefs
	}
	prefs.ManualAbsences = absences
	return s.persist()
}

// ---- emails ----

type emailRepo Store

func (r *emailRepo) SaveIfAbsent(_ context.Context, email *domain.Email) (bool, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	key := emailKey(email.UserID, email.MessageID)
	if _, ok := s.data.Emails[key]; ok {
		return false, nil
	}
	s.data.Emails[key] = email
	return true, s.persist()
}

func (r *emailRepo) UpdateClassification(_ context.Context, userID, messageID string, c *domain.Classification) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.data.Emails[emailKey(userID, messageID)]
	if !ok {
		return fmt.Errorf("email %s not found for user", messageID)
	}
	email.Classified = true
	email.Classification = c
	return s.persist()
}

func (r *emailRepo) ListClassified(_ context.Context, userID string, filter *domain.EmailFilter) ([]*domain.Email, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := 100
	emails := []*domain.Email{}
	for _, email := range s.data.Emails {
		if email.UserID != userID || !email.Classified {
			continue
		}
		c := email.Classification
		if filter != nil {
			if filter.Quadrant != nil && c.Quadrant != *filter.Quadrant {
				continue
			}
			if filter.Category != nil && c.Category != *filter.Category {
				continue
			}
			if filter.InformalOnly && !c.IsInformal {
				continue
			}
			if filter.Limit > 0 {
				limit = filter.Limit
			}
		}
		emails = append(emails, email)
	}

	sort.Slice(emails, func(i, j int) bool {
		return emails[i].ReceivedAt.After(emails[j].ReceivedAt)
	})
	if len(emails) > limit {
		emails = emails[:limit]
	}
	return emails, nil
}

func (r *emailRepo) Search(_ context.Context, userID, query string, limit int) ([]*domain.Email, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	q := strings.ToLower(query)

	emails := []*domain.Email{}
	for _, email := range s.data.Emails {
		if email.UserID != userID || !email.Classified {
			continue
		}
		c := email.Classification
		if strings.Contains(strings.ToLower(email.Subject), q) ||
			strings.Contains(strings.ToLower(email.Sender), q) ||
			strings.Contains(strings.ToLower(c.Summary), q) ||
			strings.Contains(strings.ToLower(c.Category), q) {
			emails = append(emails, email)
		}
	}

	sort.Slice(emails, func(i, j int) bool {
		return emails[i].ReceivedAt.After(emails[j].ReceivedAt)
	})
	if len(emails) > limit {
		emails = emails[:limit]
	}
	return emails, nil
}

// ---- calendar events ----

type calendarRepo Store

func (r *calendarRepo) UpsertBySource(_ context.Context, event *domain.CalendarEvent) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.SourceMessageID != "" {
		for i, old := range s.data.Events {
			if old.UserID == event.UserID && old.SourceMessageID == event.SourceMessageID {
				event.ID = old.ID
				event.Attended = old.Attended
				s.data.Events[i] = event
				return s.persist()
			}
		}
	}
	s.data.Events = append(s.data.Events, event)
	return s.persist()
}

func (r *calendarRepo) List(_ context.Context, userID, yearMonth string) ([]*domain.CalendarEvent, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := []*domain.CalendarEvent{}
	for _, event := range s.data.Events {
		if event.UserID != userID {
			continue
		}
		if yearMonth != "" && !strings.HasPrefix(event.EventDate, yearMonth) {
			continue
		}
		events = append(events, event)
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].EventDate != events[j].EventDate {
			return events[i].EventDate < events[j].EventDate
		}
		return events[i].EventTime < events[j].EventTime
	})
	return events, nil
}

func (r *calendarRepo) SetAttended(_ context.Context, userID, eventID string, attended bool) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, event := range s.data.Events {
		if event.UserID == userID && event.ID == eventID {
			event.Attended = attended
			return s.persist()
		}
	}
	return fmt.Errorf("event %s not found for user", eventID)
}

// ---- notifications ----

type notificationRepo Store

func (r *notificationRepo) Create(_ context.Context, n *domain.Notification) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Notifications = append(s.data.Notifications, n)
	return s.persist()
}

func (r *notificationRepo) ExistsForMessage(_ context.Context, userID, messageID string) (bool, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.data.Notifications {
		if n.UserID == userID && n.SourceMessageID == messageID {
			return true, nil
		}
	}
	return false, nil
}

func (r *notificationRepo) ListUnseen(_ context.Context, userID string) ([]*domain.Notification, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	notifications := []*domain.Notification{}
	for _, n := range s.data.Notifications {
		if n.UserID == userID && !n.Seen {
			notifications = append(notifications, n)
		}
	}
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}

func (r *notificationRepo) MarkAllSeen(_ context.Context, userID string) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.data.Notifications {
		if n.UserID == userID {
			n.Seen = true
		}
	}
	return s.persist()
}
