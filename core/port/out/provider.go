package out

import "context"

// MailMessage is a provider-normalized inbox message, headers flattened and
// body already decoded to plain text.
type MailMessage struct {
	MessageID  string
	Subject    string
	Sender     string // bare address, lowercased
	SenderFull string // original From header
	Date       string
	Snippet    string
	Body       string
}

// MailProvider reads a user's inbox.
type MailProvider interface {
	// FetchInbox returns up to max recent inbox messages, newest first.
	FetchInbox(ctx context.Context, max int) ([]*MailMessage, error)
}

// CalendarEntry is a provider-level event, used both for inserts and for
// listing what the external calendar already holds.
type CalendarEntry struct {
	ExternalID  string
	Title       string
	Description string
	Date        string // YYYY-MM-DD; empty on insert means "tomorrow"
	Colour      string // domain colour name; providers map it to their own ids
}

// CalendarProvider mirrors events into the user's external calendar.
// Failures here are reported but never block local persistence.
type CalendarProvider interface {
	CreateEvent(ctx context.Context, entry *CalendarEntry) (externalID string, err error)
	ListEvents(ctx context.Context, fromDate, toDate string) ([]*CalendarEntry, error)
}

// ProviderFactory builds per-user providers from stored OAuth credentials.
type ProviderFactory interface {
	MailFor(ctx context.Context, userID string) (MailProvider, error)
	CalendarFor(ctx context.Context, userID string) (CalendarProvider, error)
}
