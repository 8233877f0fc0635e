// Package googlecal mirrors triage events into the user's Google Calendar.
package googlecal

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"mailmind_server/core/port/out"
)

const campusTimezone = "Asia/Kolkata"

// colourIDs maps domain colour names to Google Calendar colorId values.
var colourIDs = map[string]string{
	"red":    "11", // Tomato
	"yellow": "5",  // Banana
	"blue":   "9",  // Blueberry
	"grey":   "8",  // Graphite
	"purple": "3",  // Grape
}

// Provider implements out.CalendarProvider for Google Calendar.
type Provider struct {
	service *calendar.Service
}

// NewProvider builds a Calendar client from a user's OAuth token.
func NewProvider(ctx context.Context, token *oauth2.Token, config *oauth2.Config) (*Provider, error) {
	client := config.Client(ctx, token)
	service, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &Provider{service: service}, nil
}

var _ out.CalendarProvider = (*Provider)(nil)

// CreateEvent inserts an all-day event on the user's primary calendar with a
// 60-minute popup reminder. Entries without a date land on tomorrow.
func (p *Provider) CreateEvent(ctx context.Context, entry *out.CalendarEntry) (string, error) {
	date := entry.Date
	if date == "" {
		date = time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	}
	start, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", fmt.Errorf("bad event date %q: %w", date, err)
	}
	end := start.AddDate(0, 0, 1)

	event := &calendar.Event{
		Summary:     entry.Title,
		Description: entry.Description,
		Start: &calendar.EventDateTime{
			Date:     start.Format("2006-01-02"),
			TimeZone: campusTimezone,
		},
		End: &calendar.EventDateTime{
			Date:     end.Format("2006-01-02"),
			TimeZone: campusTimezone,
		},
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "popup", Minutes: 60},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}
	if id, ok := colourIDs[entry.Colour]; ok {
		event.ColorId = id
	}

	created, err := p.service.Events.Insert("primary", event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to insert event: %w", err)
	}
	return created.Id, nil
}

// ListEvents returns the primary calendar's events between two YYYY-MM-DD
// dates, soonest first.
func (p *Provider) ListEvents(ctx context.Context, fromDate, toDate string) ([]*out.CalendarEntry, error) {
	timeMin, err := time.Parse("2006-01-02", fromDate)
	if err != nil {
		return nil, fmt.Errorf("bad from date %q: %w", fromDate, err)
	}
	timeMax, err := time.Parse("2006-01-02", toDate)
	if err != nil {
		return nil, fmt.Errorf("bad to date %q: %w", toDate, err)
	}

	resp, err := p.service.Events.List("primary").
		SingleEvents(true).
		OrderBy("startTime").
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.AddDate(0, 0, 1).Format(time.RFC3339)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	entries := make([]*out.CalendarEntry, 0, len(resp.Items))
	for _, item := range resp.Items {
		entry := &out.CalendarEntry{
			ExternalID:  item.Id,
			Title:       item.Summary,
			Description: item.Description,
		}
		if item.Start != nil {
			if item.Start.Date != "" {
				entry.Date = item.Start.Date
			} else if item.Start.DateTime != "" {
				if t, err := time.Parse(time.RFC3339, item.Start.DateTime); err == nil {
					entry.Date = t.Format("2006-01-02")
				}
			}
		}
		for colour, id := range colourIDs {
			if item.ColorId == id {
				entry.Colour = colour
				break
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
