package domain

import "time"

// Notification is one unseen-until-acknowledged alert raised for a critical
// classification. One notification per source message: the emitter
// deduplicates by (UserID, SourceMessageID).
type Notification struct {
	ID              string    `bson:"notification_id" json:"notification_id"`
	UserID          string    `bson:"user_id" json:"user_id"`
	SourceMessageID string    `bson:"source_message_id,omitempty" json:"source_message_id,omitempty"`
	Message         string    `bson:"message" json:"message"`
	Importance      Level     `bson:"importance" json:"importance"`
	Seen            bool      `bson:"seen" json:"seen"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
}
