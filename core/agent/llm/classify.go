package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"mailmind_server/core/domain"
	"mailmind_server/core/port/out"
)

// RawClassification is the untrusted JSON shape the model returns for one
// email. Every field is re-validated by the triage normalizer before it
// reaches storage.
type RawClassification struct {
	Category         string `json:"category"`
	Importance       string `json:"importance"`
	Urgency          string `json:"urgency"`
	Quadrant         string `json:"quadrant"`
	Colour           string `json:"colour"`
	Action           string `json:"action"`
	Summary          string `json:"summary"`
	EventDate        string `json:"event_date"`
	EventTime        string `json:"event_time"`
	EventVenue       string `json:"event_venue"`
	RegistrationLink string `json:"registration_link"`
	Organizer        string `json:"organizer"`
	IsInformal       bool   `json:"is_informal"`
}

// Agent drives the prompt round-trips against a Completer.
type Agent struct {
	llm       out.Completer
	bodyLimit int
}

func NewAgent(completer out.Completer, classifyBodyLimit int) *Agent {
	if classifyBodyLimit <= 0 {
		classifyBodyLimit = 1000
	}
	return &Agent{llm: completer, bodyLimit: classifyBodyLimit}
}

const classifySystemPrompt = `You are the email triage engine of a student assistant for IIT Jodhpur.
You classify campus emails against a fixed club/fest taxonomy and an Eisenhower priority matrix.
Respond with a single JSON object and nothing else.`

// ClassifyEmail asks the model to classify one email in the context of the
// user's priority profile.
func (a *Agent) ClassifyEmail(ctx context.Context, email *domain.Email, prefs *domain.Preferences) (*RawClassification, error) {
	prompt := buildClassifyPrompt(email, prefs, a.bodyLimit)

	resp, err := a.llm.Complete(ctx, classifySystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	result, err := parseClassification(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse classification response: %w", err)
	}
	return result, nil
}

func buildClassifyPrompt(email *domain.Email, prefs *domain.Preferences, bodyLimit int) string {
	var b strings.Builder

	b.WriteString("## Taxonomy (category MUST be one of these codes, or a sentinel)\n\nFests:\n")
	for _, org := range domain.Fests {
		fmt.Fprintf(&b, "- %s: %s (keywords: %s)\n", org.Code, org.FullName, strings.Join(org.Keywords, ", "))
	}
	b.WriteString("\nClubs:\n")
	for _, org := range domain.Clubs {
		fmt.Fprintf(&b, "- %s: %s (keywords: %s)\n", org.Code, org.FullName, strings.Join(org.Keywords, ", "))
	}

	b.WriteString("\nSentinels:\n")
	fmt.Fprintf(&b, "- %s: courses, exams, grades, fees, hostel, placement, official institute mail\n", domain.CategoryAcademic)
	fmt.Fprintf(&b, "- %s: mess menu, food stalls, night canteen\n", domain.CategoryInformalFood)
	fmt.Fprintf(&b, "- %s: student buy/sell, discounts, coupons\n", domain.CategoryInformalDeals)
	fmt.Fprintf(&b, "- %s: unsolicited or irrelevant bulk mail\n", domain.CategorySpam)
	fmt.Fprintf(&b, "- %s: anything that fits nothing above\n", domain.CategoryOther)

	b.WriteString("\n## Campus shorthand\n")
	for term, gloss := range domain.AcademicTerms {
		fmt.Fprintf(&b, "- %s: %s\n", term, gloss)
	}

	if prefs != nil && len(prefs.Profile) > 0 {
		b.WriteString("\n## This user's interest profile\n")
		for _, w := range []domain.Priority{domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow, domain.PriorityIgnore} {
			if codes := prefs.Profile.Codes(w); len(codes) > 0 {
				fmt.Fprintf(&b, "- %s interest: %s\n", w, strings.Join(codes, ", "))
			}
		}
	}

	b.WriteString(`
## Rules
- importance reflects the user's profile: mail from a high-interest organization is important to them.
- urgency reflects deadlines: registration closing, event tomorrow, exam announced.
- Mail from official institute addresses (`)
	b.WriteString(strings.Join(domain.TrustedSenders, ", "))
	b.WriteString(`) is never unimportant.
- quadrant: Q1 = important+urgent, Q2 = important only, Q3 = urgent only, Q4 = neither. Treat "medium" as not high.
- colour: Q1 red, Q2 yellow, Q3 blue, Q4 grey.
- action: "notify" for Q1, "add_to_calendar" when the email announces a dated event, else "ignore".
- event_date must be YYYY-MM-DD or empty; event_time HH:MM or empty.
- is_informal is true only for the two INFORMAL_* sentinels.
- summary is one short sentence; never leave it empty.

Respond with this exact JSON format:
{
  "category": "CODE_OR_SENTINEL",
  "importance": "high|medium|low",
  "urgency": "high|medium|low",
  "quadrant": "Q1|Q2|Q3|Q4",
  "colour": "red|yellow|blue|grey",
  "action": "notify|add_to_calendar|ignore",
  "summary": "one sentence",
  "event_date": "YYYY-MM-DD or empty",
  "event_time": "HH:MM or empty",
  "event_venue": "venue or empty",
  "registration_link": "url or empty",
  "organizer": "name or empty",
  "is_informal": false
}

## Email
`)
	fmt.Fprintf(&b, "From: %s\nSubject: %s\nDate: %s\n\nBody:\n%s",
		email.SenderFull, email.Subject, email.Date, truncateBody(email.Body, bodyLimit))

	return b.String()
}

func parseClassification(resp string) (*RawClassification, error) {
	resp = stripFences(resp)

	var result RawClassification
	if err := json.Unmarshal([]byte(resp), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
