// Package notification raises and manages unseen-until-acknowledged alerts
// for critical classifications.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mailmind_server/core/domain"
	"mailmind_server/core/port/out"
)

// Service handles notification operations.
type Service struct {
	notificationRepo out.NotificationRepository
}

// NewService creates a new notification service.
func NewService(notificationRepo out.NotificationRepository) *Service {
	return &Service{notificationRepo: notificationRepo}
}

// EmitForEmail raises a notification for a critical email. At most one
// notification ever exists per (user, source message): re-running the pipeline
// over an already-notified email is a no-op. Returns true when a new
// notification was created.
func (s *Service) EmitForEmail(ctx context.Context, userID string, email *domain.Email) (bool, error) {
	exists, err := s.notificationRepo.ExistsForMessage(ctx, userID, email.MessageID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	c := email.Classification
	message := fmt.Sprintf("Important: %s", email.Subject)
	if c != nil && c.Summary != "" {
		message = fmt.Sprintf("Important: %s - %s", email.Subject, c.Summary)
	}

	importance := domain.LevelHigh
	if c != nil {
		importance = c.Importance
	}

	n := &domain.Notification{
		ID:              uuid.NewString(),
		UserID:          userID,
		SourceMessageID: email.MessageID,
		Message:         message,
		Importance:      importance,
		Seen:            false,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return false, err
	}
	return true, nil
}

// ListUnseen returns the user's pending notifications, newest first.
func (s *Service) ListUnseen(ctx context.Context, userID string) ([]*domain.Notification, error) {
	return s.notificationRepo.ListUnseen(ctx, userID)
}

// MarkAllSeen acknowledges every pending notification. Idempotent: a second
// call finds nothing unseen and succeeds.
func (s *Service) MarkAllSeen(ctx context.Context, userID string) error {
	return s.notificationRepo.MarkAllSeen(ctx, userID)
}
