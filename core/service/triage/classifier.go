// Package triage runs the fetch-classify-route pipeline: inbox messages in,
// validated classifications, calendar projections, and notifications out.
package triage

import (
	"time"

	"mailmind_server/core/agent/llm"
	"mailmind_server/core/domain"
)

// FallbackSummary is stored when the classifier could not produce a usable
// answer for an email.
const FallbackSummary = "Could not classify this email"

const defaultSummary = "No summary available"

// Normalize coerces the model's untrusted output into a classification that
// honors every matrix invariant. Unknown categories collapse to OTHER,
// unparseable levels to low, and the quadrant and colour are always recomputed
// from the validated fields. The model's recommended action survives only
// where the matrix allows it: Q1 is always notify, and notify never escapes
// Q1, but an add_to_calendar call is kept even when the mail carries no date.
func Normalize(raw *llm.RawClassification, email *domain.Email) *domain.Classification {
	category := raw.Category
	if !domain.ValidCategory(category) {
		category = domain.CategoryOther
	}

	importance := domain.ParseLevel(raw.Importance)
	urgency := domain.ParseLevel(raw.Urgency)

	// Official institute mail is never unimportant, whatever the model said.
	if domain.IsTrustedSender(email.Sender) {
		importance = domain.LevelHigh
	}

	quadrant := domain.QuadrantFor(importance, urgency)

	summary := raw.Summary
	if summary == "" {
		summary = defaultSummary
	}

	eventDate := validDate(raw.EventDate)
	eventTime := validTime(raw.EventTime)

	action := domain.DefaultAction(quadrant, eventDate != "")
	if quadrant != domain.QuadrantQ1 && domain.ParseAction(raw.Action) == domain.ActionAddToCalendar {
		action = domain.ActionAddToCalendar
	}

	c := &domain.Classification{
		Category:         category,
		Importance:       importance,
		Urgency:          urgency,
		Quadrant:         quadrant,
		Colour:           quadrant.Colour(),
		Action:           action,
		Summary:          summary,
		EventDate:        eventDate,
		EventTime:        eventTime,
		EventVenue:       raw.EventVenue,
		RegistrationLink: raw.RegistrationLink,
		Organizer:        raw.Organizer,
		IsInformal:       category == domain.CategoryInformalFood || category == domain.CategoryInformalDeals,
		ClassifiedAt:     time.Now().UTC(),
	}
	return c
}

// Fallback is the classification stored when the model call or parse failed.
// The email stays visible in Q4 rather than vanishing from the dashboard.
func Fallback(email *domain.Email) *domain.Classification {
	c := &domain.Classification{
		Category:     domain.CategoryOther,
		Importance:   domain.LevelLow,
		Urgency:      domain.LevelLow,
		Quadrant:     domain.QuadrantQ4,
		Colour:       domain.ColourGrey,
		Action:       domain.ActionIgnore,
		Summary:      FallbackSummary,
		ClassifiedAt: time.Now().UTC(),
	}
	if domain.IsTrustedSender(email.Sender) {
		c.Importance = domain.LevelHigh
		c.Quadrant = domain.QuadrantQ2
		c.Colour = domain.ColourYellow
	}
	return c
}

func validDate(s string) string {
	if s == "" {
		return ""
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return ""
	}
	return s
}

func validTime(s string) string {
	if s == "" {
		return ""
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return ""
	}
	return s
}
