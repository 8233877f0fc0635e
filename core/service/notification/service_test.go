package notification

import (
	"context"
	"testing"

	"mailmind_server/core/domain"
)

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

func criticalEmail(messageID string) *domain.Email {
	return &domain.Email{
		MessageID: messageID,
		Subject:   "Fee payment deadline",
		Classification: &domain.Classification{
			Importance: domain.LevelHigh,
			Urgency:    domain.LevelHigh,
			Quadrant:   domain.QuadrantQ1,
			Summary:    "Pay semester fees by Friday",
		},
	}
}

func TestEmitForEmailDeduplicates(t *testing.T) {
	repo := &fakeNotifRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.EmitForEmail(ctx, "u1", criticalEmail("m1"))
	if err != nil || !created {
		t.Fatalf("first emit: created=%v err=%v", created, err)
	}
	created, err = svc.EmitForEmail(ctx, "u1", criticalEmail("m1"))
	if err != nil {
		t.Fatalf("second emit: %v", err)
	}
	if created {
		t.Error("duplicate notification for same source message")
	}
	if len(repo.notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(repo.notifications))
	}

	// Same message for a different user is a separate notification.
	created, err = svc.EmitForEmail(ctx, "u2", criticalEmail("m1"))
	if err != nil || !created {
		t.Fatalf("other user emit: created=%v err=%v", created, err)
	}
}

func TestMarkAllSeenIsIdempotent(t *testing.T) {
	repo := &fakeNotifRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.EmitForEmail(ctx, "u1", criticalEmail("m1")); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.EmitForEmail(ctx, "u1", criticalEmail("m2")); err != nil {
		t.Fatal(err)
	}

	unseen, _ := svc.ListUnseen(ctx, "u1")
	if len(unseen) != 2 {
		t.Fatalf("unseen = %d, want 2", len(unseen))
	}

	if err := svc.MarkAllSeen(ctx, "u1"); err != nil {
		t.Fatalf("MarkAllSeen: %v", err)
	}
	unseen, _ = svc.ListUnseen(ctx, "u1")
	if len(unseen) != 0 {
		t.Fatalf("unseen after mark = %d", len(unseen))
	}

	// Second pass finds nothing and still succeeds.
	if err := svc.MarkAllSeen(ctx, "u1"); err != nil {
		t.Fatalf("second MarkAllSeen: %v", err)
	}
}

func TestEmitMessageIncludesSummary(t *testing.T) {
	repo := &fakeNotifRepo{}
	svc := NewService(repo)

	if _, err := svc.EmitForEmail(context.Background(), "u1", criticalEmail("m1")); err != nil {
		t.Fatal(err)
	}
	n := repo.notifications[0]
	if n.Message != "Important: Fee payment deadline - Pay semester fees by Friday" {
		t.Errorf("message = %q", n.Message)
	}
	if n.Importance != domain.LevelHigh {
		t.Errorf("importance = %s", n.Importance)
	}
}
