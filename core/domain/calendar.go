package domain

import "time"

// CalendarEvent is a locally persisted calendar entry, either projected from a
// classified email (SourceMessageID set, upserted by it) or entered manually.
// Attended is the only field a user mutates, and it survives re-projection
// from the same source email.
type CalendarEvent struct {
	ID      string `bson:"event_id" json:"event_id"`
	UserID  string `bson:"user_id" json:"user_id"`
	Title   string `bson:"title" json:"title"`
	Summary string `bson:"summary" json:"summary"`

	EventDate        string `bson:"event_date" json:"event_date"` // YYYY-MM-DD
	EventTime        string `bson:"event_time,omitempty" json:"event_time,omitempty"`
	EventVenue       string `bson:"event_venue,omitempty" json:"event_venue,omitempty"`
	RegistrationLink string `bson:"registration_link,omitempty" json:"registration_link,omitempty"`
	Organizer        string `bson:"organizer,omitempty" json:"organizer,omitempty"`

	Colour   Colour   `bson:"colour" json:"colour"`
	Quadrant Quadrant `bson:"quadrant" json:"quadrant"`
	Category string   `bson:"category" json:"category"`

	ExternalEventID string `bson:"external_event_id,omitempty" json:"external_event_id,omitempty"`
	SourceMessageID string `bson:"source_message_id,omitempty" json:"source_message_id,omitempty"`

	Attended    bool      `bson:"attended" json:"attended"`
	ManualEntry bool      `bson:"manual_entry" json:"manual_entry"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
