package domain

import "time"

// Email is one fetched inbox message, scoped to a user by the external message
// id. Classification fields are attached in place after the LLM pass; the raw
// fields are immutable once stored.
type Email struct {
	UserID     string    `bson:"user_id" json:"user_id"`
	MessageID  string    `bson:"message_id" json:"message_id"`
	Subject    string    `bson:"subject" json:"subject"`
	Sender     string    `bson:"sender" json:"sender"` // bare address
	SenderFull string    `bson:"sender_full" json:"sender_full"`
	Date       string    `bson:"date" json:"date"` // raw Date header
	ReceivedAt time.Time `bson:"received_at" json:"received_at"`
	Body       string    `bson:"body" json:"body"` // capped at config.BodyCharLimit
	Snippet    string    `bson:"snippet" json:"snippet"`
	FetchedAt  time.Time `bson:"fetched_at" json:"fetched_at"`

	Classified     bool            `bson:"classified" json:"classified"`
	Classification *Classification `bson:"classification,omitempty" json:"classification,omitempty"`
}

// Classification holds the derived fields attached to an email.
//
// Invariants: Quadrant is a pure function of (Importance, Urgency) per
// QuadrantFor, and Colour a pure function of Quadrant. The triage validator
// enforces both before anything is persisted.
type Classification struct {
	Category   string   `bson:"category" json:"category"` // org code or sentinel
	Importance Level    `bson:"importance" json:"importance"`
	Urgency    Level    `bson:"urgency" json:"urgency"`
	Quadrant   Quadrant `bson:"quadrant" json:"quadrant"`
	Colour     Colour   `bson:"colour" json:"colour"`
	Action     Action   `bson:"action" json:"action"`
	Summary    string   `bson:"summary" json:"summary"`

	// Event metadata, present only when the email announces a concrete event.
	EventDate        string `bson:"event_date,omitempty" json:"event_date,omitempty"` // YYYY-MM-DD
	EventTime        string `bson:"event_time,omitempty" json:"event_time,omitempty"` // HH:MM
	EventVenue       string `bson:"event_venue,omitempty" json:"event_venue,omitempty"`
	RegistrationLink string `bson:"registration_link,omitempty" json:"registration_link,omitempty"`
	Organizer        string `bson:"organizer,omitempty" json:"organizer,omitempty"`

	IsInformal   bool      `bson:"is_informal" json:"is_informal"`
	ClassifiedAt time.Time `bson:"classified_at" json:"classified_at"`
}

// EmailFilter narrows a classified-email listing.
type EmailFilter struct {
	Quadrant     *Quadrant
	Category     *string
	InformalOnly bool
	Limit        int
}
