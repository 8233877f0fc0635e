package triage

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"mailmind_server/core/agent/llm"
	"mailmind_server/core/domain"
	"mailmind_server/core/port/out"
	calendarsvc "mailmind_server/core/service/calendar"
	notificationsvc "mailmind_server/core/service/notification"
	preferencesvc "mailmind_server/core/service/preference"
	"mailmind_server/pkg/apperr"
)

type fakeEmailRepo struct {
	emails map[string]*domain.Email
}

func newFakeEmailRepo() *fakeEmailRepo {
	return &fakeEmailRepo{emails: make(map[string]*domain.Email)}
}

func (r *fakeEmailRepo) SaveIfAbsent(_ context.Context, e *domain.Email) (bool, error) {
	key := e.UserID + "/" + e.MessageID
	if _, ok := r.emails[key]; ok {
		return false, nil
	}
	cp := *e
	r.emails[key] = &cp
	return true, nil
}

func (r *fakeEmailRepo) UpdateClassification(_ context.Context, userID, messageID string, c *domain.Classification) error {
	e, ok := r.emails[userID+"/"+messageID]
	if !ok {
		return errors.New("email not found")
	}
	e.Classified = true
	e.Classification = c
	return nil
}

func (r *fakeEmailRepo) ListClassified(_ context.Context, userID string, _ *domain.EmailFilter) ([]*domain.Email, error) {
	var res []*domain.Email
	for _, e := range r.emails {
		if e.UserID == userID && e.Classified {
			res = append(res, e)
		}
	}
	return res, nil
}

func (r *fakeEmailRepo) Search(_ context.Context, userID, query string, _ int) ([]*domain.Email, error) {
	var res []*domain.Email
	for _, e := range r.emails {
		if e.UserID == userID && strings.Contains(strings.ToLower(e.Subject), strings.ToLower(query)) {
			res = append(res, e)
		}
	}
	return res, nil
}

type fakeMailProvider struct {
	messages []*out.MailMessage
}

func (p *fakeMailProvider) FetchInbox(_ context.Context, max int) ([]*out.MailMessage, error) {
	if len(p.messages) > max {
		return p.messages[:max], nil
	}
	return p.messages, nil
}

type fakeProviderFactory struct {
	mail out.MailProvider
}

func (f *fakeProviderFactory) MailFor(_ context.Context, _ string) (out.MailProvider, error) {
	return f.mail, nil
}

func (f *fakeProviderFactory) CalendarFor(_ context.Context, _ string) (out.CalendarProvider, error) {
	return nil, errors.New("no external calendar in tests")
}

type fakeClassifier struct {
	results map[string]*llm.RawClassification
	err     error
	calls   int
}

func (c *fakeClassifier) ClassifyEmail(_ context.Context, e *domain.Email, _ *domain.Preferences) (*llm.RawClassification, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	if raw, ok := c.results[e.MessageID]; ok {
		return raw, nil
	}
	return &llm.RawClassification{Category: domain.CategoryOther, Importance: "low", Urgency: "low", Summary: "nothing"}, nil
}

type fakePrefRepo struct {
	prefs map[string]*domain.Preferences
}

func newFakePrefRepo() *fakePrefRepo {
	return &fakePrefRepo{prefs: make(map[string]*domain.Preferences)}
}

func (r *fakePrefRepo) Save(_ context.Context, p *domain.Preferences) error {
	r.prefs[p.UserID] = p
	return nil
}

func (r *fakePrefRepo) Get(_ context.Context, userID string) (*domain.Preferences, error) {
	return r.prefs[userID], nil
}

func (r *fakePrefRepo) UpdateManualAbsences(_ context.Context, userID string, absences []string) error {
	if p, ok := r.prefs[userID]; ok {
		p.ManualAbsences = absences
	}
	return nil
}

type fakeEventRepo struct {
	events []*domain.CalendarEvent
}

func (r *fakeEventRepo) UpsertBySource(_ context.Context, e *domain.CalendarEvent) error {
	if e.SourceMessageID != "" {
		for i, old := range r.events {
			if old.UserID == e.UserID && old.SourceMessageID == e.SourceMessageID {
				e.Attended = old.Attended
				r.events[i] = e
				return nil
			}
		}
	}
	r.events = append(r.events, e)
	return nil
}

func (r *fakeEventRepo) List(_ context.Context, userID, _ string) ([]*domain.CalendarEvent, error) {
	var res []*domain.CalendarEvent
	for _, e := range r.events {
		if e.UserID == userID {
			res = append(res, e)
		}
	}
	return res, nil
}

func (r *fakeEventRepo) SetAttended(_ context.Context, userID, eventID string, attended bool) error {
	for _, e := range r.events {
		if e.UserID == userID && e.ID == eventID {
			e.Attended = attended
			return nil
		}
	}
	return errors.New("event not found")
}

type fakeNotifRepo struct {
	notifications []*domain.Notification
}

func (r *fakeNotifRepo) Create(_ context.Context, n *domain.Notification) error {
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *fakeNotifRepo) ExistsForMessage(_ context.Context, userID, messageID string) (bool, error) {
	for _, n := range r.notifications {
		if n.UserID == userID && n.SourceMessageID == messageID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNotifRepo) ListUnseen(_ context.Context, userID string) ([]*domain.Notification, error) {
	var res []*domain.Notification
	for _, n := range r.notifications {
		if n.UserID == userID && !n.Seen {
			res = append(res, n)
		}
	}
	return res, nil
}

func (r *fakeNotifRepo) MarkAllSeen(_ context.Context, userID string) error {
	for _, n := range r.notifications {
		if n.UserID == userID {
			n.Seen = true
		}
	}
	return nil
}

type fakeInterpreter struct {
	raw *llm.RawProfile
	err error
}

func (f *fakeInterpreter) InterpretPreferences(_ context.Context, _ string) (*llm.RawProfile, error) {
	return f.raw, f.err
}

type pipelineFixture struct {
	svc       *Service
	emailRepo *fakeEmailRepo
	eventRepo *fakeEventRepo
	notifRepo *fakeNotifRepo
	prefRepo  *fakePrefRepo
}

func newPipeline(t *testing.T, messages []*out.MailMessage, classifier Classifier) *pipelineFixture {
	t.Helper()

	emailRepo := newFakeEmailRepo()
	eventRepo := &fakeEventRepo{}
	notifRepo := &fakeNotifRepo{}
	prefRepo := newFakePrefRepo()
	providers := &fakeProviderFactory{mail: &fakeMailProvider{messages: messages}}

	prefs := preferencesvc.NewService(prefRepo, &fakeInterpreter{raw: &llm.RawProfile{}})
	cal := calendarsvc.NewService(eventRepo, nil)
	notif := notificationsvc.NewService(notifRepo)

	// Fetching requires submitted preferences, so seed a default document.
	prefRepo.prefs["u1"] = &domain.Preferences{
		UserID:           "u1",
		Profile:          preferencesvc.FillProfile(nil),
		InformalsEnabled: true,
	}

	svc := NewService(emailRepo, providers, classifier, prefs, cal, notif, Config{
		ClassifyInterval: time.Millisecond,
	})
	return &pipelineFixture{svc: svc, emailRepo: emailRepo, eventRepo: eventRepo, notifRepo: notifRepo, prefRepo: prefRepo}
}

func msg(id, subject, sender string) *out.MailMessage {
	return &out.MailMessage{
		MessageID:  id,
		Subject:    subject,
		Sender:     sender,
		SenderFull: sender,
		Date:       "Fri, 28 Aug 2026 10:00:00 +0530",
		Body:       "body of " + subject,
	}
}

func TestRunForUserClassifiesAndRoutes(t *testing.T) {
	classifier := &fakeClassifier{results: map[string]*llm.RawClassification{
		"m1": {Category: "RAID", Importance: "high", Urgency: "high", Summary: "AI hackathon registration closes tomorrow", EventDate: "2026-09-01"},
		"m2": {Category: "IGNUS", Importance: "low", Urgency: "low", Summary: "newsletter"},
	}}
	f := newPipeline(t, []*out.MailMessage{
		msg("m1", "AI Hackathon", "raid@iitj.ac.in"),
		msg("m2", "Ignus newsletter", "ignus@gmail.com"),
	}, classifier)

	report, err := f.svc.RunForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("RunForUser: %v", err)
	}
	if report.Fetched != 2 || report.New != 2 || report.Classified != 2 {
		t.Errorf("report = %+v", report)
	}
	if report.Notifications != 1 {
		t.Errorf("notifications = %d, want 1 (Q1 only)", report.Notifications)
	}
	if report.CalendarAdded != 1 {
		t.Errorf("calendar added = %d, want 1", report.CalendarAdded)
	}
	if len(f.eventRepo.events) != 1 || f.eventRepo.events[0].SourceMessageID != "m1" {
		t.Errorf("events = %+v", f.eventRepo.events)
	}
}

func TestRunForUserRefetchIsIdempotent(t *testing.T) {
	classifier := &fakeClassifier{results: map[string]*llm.RawClassification{
		"m1": {Category: "RAID", Importance: "high", Urgency: "high", Summary: "urgent", EventDate: "2026-09-01"},
	}}
	f := newPipeline(t, []*out.MailMessage{msg("m1", "AI Hackathon", "raid@iitj.ac.in")}, classifier)

	if _, err := f.svc.RunForUser(context.Background(), "u1"); err != nil {
		t.Fatalf("first run: %v", err)
	}
	report, err := f.svc.RunForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if report.New != 0 || report.Classified != 0 {
		t.Errorf("second run reclassified: %+v", report)
	}
	if classifier.calls != 1 {
		t.Errorf("classifier calls = %d, want 1", classifier.calls)
	}
	if len(f.notifRepo.notifications) != 1 {
		t.Errorf("notifications = %d, want 1", len(f.notifRepo.notifications))
	}
	if len(f.eventRepo.events) != 1 {
		t.Errorf("events = %d, want 1", len(f.eventRepo.events))
	}
}

func TestRunForUserStoresFallbackOnClassifierError(t *testing.T) {
	classifier := &fakeClassifier{err: errors.New("model down")}
	f := newPipeline(t, []*out.MailMessage{msg("m1", "Anything", "someone@gmail.com")}, classifier)

	report, err := f.svc.RunForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("RunForUser: %v", err)
	}
	if report.Fallbacks != 1 || report.Classified != 0 {
		t.Errorf("report = %+v", report)
	}

	stored := f.emailRepo.emails["u1/m1"]
	if stored == nil || !stored.Classified {
		t.Fatal("email not stored classified")
	}
	if stored.Classification.Summary != FallbackSummary {
		t.Errorf("summary = %q", stored.Classification.Summary)
	}
	if stored.Classification.Quadrant != domain.QuadrantQ4 {
		t.Errorf("quadrant = %s, want Q4", stored.Classification.Quadrant)
	}
}

func TestRunForUserDatedQ4StillProjected(t *testing.T) {
	classifier := &fakeClassifier{results: map[string]*llm.RawClassification{
		"m1": {Category: "SANGAM", Importance: "low", Urgency: "low", Summary: "jam session", EventDate: "2026-09-05"},
	}}
	f := newPipeline(t, []*out.MailMessage{msg("m1", "Jam session", "sangam@gmail.com")}, classifier)

	report, err := f.svc.RunForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("RunForUser: %v", err)
	}
	if report.CalendarAdded != 1 {
		t.Errorf("dated Q4 mail was not projected: %+v", report)
	}
}

func TestRunForUserIgnoredOrgBlocksProjection(t *testing.T) {
	classifier := &fakeClassifier{results: map[string]*llm.RawClassification{
		"m1": {Category: "FOOTBALL_SOCIETY", Importance: "low", Urgency: "low", Summary: "practice match", EventDate: "2026-09-05"},
	}}
	f := newPipeline(t, []*out.MailMessage{msg("m1", "Practice match", "football@gmail.com")}, classifier)

	// Default profile: opt-in sports societies are ignored.
	report, err := f.svc.RunForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("RunForUser: %v", err)
	}
	if report.CalendarAdded != 0 {
		t.Errorf("ignored org was projected: %+v", report)
	}
	if len(f.eventRepo.events) != 0 {
		t.Errorf("events = %+v", f.eventRepo.events)
	}
}

func TestRunForUserRequiresPreferences(t *testing.T) {
	classifier := &fakeClassifier{}
	f := newPipeline(t, []*out.MailMessage{msg("m1", "AI Hackathon", "raid@iitj.ac.in")}, classifier)
	delete(f.prefRepo.prefs, "u1")

	_, err := f.svc.RunForUser(context.Background(), "u1")
	if err == nil {
		t.Fatal("run succeeded with no stored preferences")
	}
	var appErr *apperr.AppError
	if !errors.As(err, &appErr) || appErr.Status != http.StatusBadRequest {
		t.Fatalf("err = %v, want a bad-request rejection", err)
	}
	if classifier.calls != 0 {
		t.Errorf("classifier called %d times before rejection", classifier.calls)
	}
	if len(f.emailRepo.emails) != 0 {
		t.Errorf("emails stored despite rejection: %d", len(f.emailRepo.emails))
	}
}

func TestRunForUserKeepsUndatedCalendarAction(t *testing.T) {
	classifier := &fakeClassifier{results: map[string]*llm.RawClassification{
		"m1": {Category: "PROMETEO", Importance: "high", Urgency: "low", Summary: "hackathon announced, date TBA", Action: "add_to_calendar"},
	}}
	f := newPipeline(t, []*out.MailMessage{msg("m1", "Hackathon teaser", "prometeo@iitj.ac.in")}, classifier)

	report, err := f.svc.RunForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("RunForUser: %v", err)
	}
	if report.CalendarAdded != 1 {
		t.Fatalf("undated calendar mail was not projected: %+v", report)
	}
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	if f.eventRepo.events[0].EventDate != tomorrow {
		t.Errorf("event date = %q, want %q", f.eventRepo.events[0].EventDate, tomorrow)
	}
}

func TestRunForUserBodyCap(t *testing.T) {
	long := strings.Repeat("x", 5000)
	classifier := &fakeClassifier{}
	m := msg("m1", "Long", "x@y.com")
	m.Body = long
	f := newPipeline(t, []*out.MailMessage{m}, classifier)

	if _, err := f.svc.RunForUser(context.Background(), "u1"); err != nil {
		t.Fatalf("RunForUser: %v", err)
	}
	stored := f.emailRepo.emails["u1/m1"]
	if len(stored.Body) != 2000 {
		t.Errorf("stored body length = %d, want 2000", len(stored.Body))
	}
}

func TestRunForUserBodyCapKeepsRunesWhole(t *testing.T) {
	classifier := &fakeClassifier{}
	m := msg("m1", "Devanagari", "x@y.com")
	// Three bytes per rune, so the 2000-byte cap falls mid-rune.
	m.Body = strings.Repeat("त", 1000)
	f := newPipeline(t, []*out.MailMessage{m}, classifier)

	if _, err := f.svc.RunForUser(context.Background(), "u1"); err != nil {
		t.Fatalf("RunForUser: %v", err)
	}
	stored := f.emailRepo.emails["u1/m1"]
	if !utf8.ValidString(stored.Body) {
		t.Fatal("body cap split a rune")
	}
	if len(stored.Body) != 1998 {
		t.Errorf("stored body length = %d, want 1998", len(stored.Body))
	}
}
