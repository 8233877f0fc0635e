package file

import (
	"context"
	"testing"
	"time"

	"mailmind_server/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func storedEmail(userID, messageID string, receivedAt time.Time) *domain.Email {
	return &domain.Email{
		UserID:     userID,
		MessageID:  messageID,
		Subject:    "subject " + messageID,
		Sender:     "sender@iitj.ac.in",
		ReceivedAt: receivedAt,
	}
}

func TestSaveIfAbsent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	repo := s.Emails()

	created, err := repo.SaveIfAbsent(ctx, storedEmail("u1", "m1", time.Now()))
	if err != nil || !created {
		t.Fatalf("first save: created=%v err=%v", created, err)
	}
	created, err = repo.SaveIfAbsent(ctx, storedEmail("u1", "m1", time.Now()))
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if created {
		t.Error("duplicate save reported created")
	}

	// Same message id under a different user is a distinct document.
	created, _ = repo.SaveIfAbsent(ctx, storedEmail("u2", "m1", time.Now()))
	if !created {
		t.Error("other user's save deduplicated")
	}
}

func TestListClassifiedFilterAndOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	repo := s.Emails()

	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	for i, cat := range []string{"RAID", "IGNUS", "RAID"} {
		e := storedEmail("u1", string(rune('a'+i)), base.Add(time.Duration(i)*time.Hour))
		if _, err := repo.SaveIfAbsent(ctx, e); err != nil {
			t.Fatal(err)
		}
		q := domain.QuadrantQ2
		if cat == "IGNUS" {
			q = domain.QuadrantQ3
		}
		if err := repo.UpdateClassification(ctx, "u1", e.MessageID, &domain.Classification{
			Category: cat, Quadrant: q, Summary: "s",
		}); err != nil {
			t.Fatal(err)
		}
	}

	all, err := repo.ListClassified(ctx, "u1", nil)
	if err != nil {
		t.Fatalf("ListClassified: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d emails", len(all))
	}
	if all[0].MessageID != "c" || all[2].MessageID != "a" {
		t.Errorf("not newest first: %s %s %s", all[0].MessageID, all[1].MessageID, all[2].MessageID)
	}

	q := domain.QuadrantQ3
	byQuadrant, _ := repo.ListClassified(ctx, "u1", &domain.EmailFilter{Quadrant: &q})
	if len(byQuadrant) != 1 || byQuadrant[0].Classification.Category != "IGNUS" {
		t.Errorf("quadrant filter = %+v", byQuadrant)
	}

	cat := "RAID"
	byCategory, _ := repo.ListClassified(ctx, "u1", &domain.EmailFilter{Category: &cat})
	if len(byCategory) != 2 {
		t.Errorf("category filter returned %d", len(byCategory))
	}
}

func TestSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	repo := s.Emails()

	e := storedEmail("u1", "m1", time.Now())
	e.Subject = "Robotics Workshop Registration"
	if _, err := repo.SaveIfAbsent(ctx, e); err != nil {
		t.Fatal(err)
	}
	if err := repo.UpdateClassification(ctx, "u1", "m1", &domain.Classification{
		Category: "ROBOTICS_CLUB", Summary: "Arduino session on Saturday",
	}); err != nil {
		t.Fatal(err)
	}

	for _, query := range []string{"robotics", "ARDUINO", "workshop"} {
		got, err := repo.Search(ctx, "u1", query, 10)
		if err != nil {
			t.Fatalf("Search(%q): %v", query, err)
		}
		if len(got) != 1 {
			t.Errorf("Search(%q) = %d results", query, len(got))
		}
	}
	if got, _ := repo.Search(ctx, "u1", "cricket", 10); len(got) != 0 {
		t.Errorf("Search(cricket) = %d results", len(got))
	}
}

func TestCalendarUpsertPreservesAttended(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	repo := s.CalendarEvents()

	first := &domain.CalendarEvent{
		ID: "e1", UserID: "u1", Title: "Workshop",
		EventDate: "2026-09-12", SourceMessageID: "m1",
	}
	if err := repo.UpsertBySource(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := repo.SetAttended(ctx, "u1", "e1", true); err != nil {
		t.Fatalf("SetAttended: %v", err)
	}

	replacement := &domain.CalendarEvent{
		ID: "e2", UserID: "u1", Title: "Workshop (updated)",
		EventDate: "2026-09-13", SourceMessageID: "m1",
	}
	if err := repo.UpsertBySource(ctx, replacement); err != nil {
		t.Fatal(err)
	}

	events, _ := repo.List(ctx, "u1", "")
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if !events[0].Attended {
		t.Error("attended mark lost")
	}
	if events[0].ID != "e1" {
		t.Errorf("event id changed to %s", events[0].ID)
	}
	if events[0].Title != "Workshop (updated)" {
		t.Errorf("title = %q", events[0].Title)
	}
}

func TestCalendarListMonthFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	repo := s.CalendarEvents()

	for i, date := range []string{"2026-09-05", "2026-09-01", "2026-10-01"} {
		if err := repo.UpsertBySource(ctx, &domain.CalendarEvent{
			ID: string(rune('a' + i)), UserID: "u1", EventDate: date,
		}); err != nil {
			t.Fatal(err)
		}
	}

	events, err := repo.List(ctx, "u1", "2026-09")
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("month filter returned %d", len(events))
	}
	if events[0].EventDate != "2026-09-01" {
		t.Errorf("not sorted soonest first: %s", events[0].EventDate)
	}
}

func TestPersistenceAcrossReload(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s1.Emails().SaveIfAbsent(ctx, storedEmail("u1", "m1", time.Now())); err != nil {
		t.Fatal(err)
	}
	if err := s1.Preferences().Save(ctx, &domain.Preferences{
		UserID:  "u1",
		Profile: domain.PriorityProfile{"RAID": domain.PriorityHigh},
	}); err != nil {
		t.Fatal(err)
	}

	s2, err := NewStore(dir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	created, _ := s2.Emails().SaveIfAbsent(ctx, storedEmail("u1", "m1", time.Now()))
	if created {
		t.Error("email lost across reload")
	}
	prefs, _ := s2.Preferences().Get(ctx, "u1")
	if prefs == nil || prefs.Profile["RAID"] != domain.PriorityHigh {
		t.Errorf("preferences lost across reload: %+v", prefs)
	}
}

func TestNotificationsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	repo := s.Notifications()

	if err := repo.Create(ctx, &domain.Notification{
		ID: "n1", UserID: "u1", SourceMessageID: "m1", Message: "hi",
		CreatedAt: time.Now(),
	}); err != nil {
		t.Fatal(err)
	}

	exists, _ := repo.ExistsForMessage(ctx, "u1", "m1")
	if !exists {
		t.Error("ExistsForMessage = false")
	}
	exists, _ = repo.ExistsForMessage(ctx, "u1", "m2")
	if exists {
		t.Error("ExistsForMessage(m2) = true")
	}

	if err := repo.MarkAllSeen(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	unseen, _ := repo.ListUnseen(ctx, "u1")
	if len(unseen) != 0 {
		t.Errorf("unseen = %d after mark", len(unseen))
	}
}
