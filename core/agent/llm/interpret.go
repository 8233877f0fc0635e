package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"mailmind_server/core/domain"
)

// RawProfile is the untrusted JSON shape the model returns for a preference
// interpretation pass. Weights are strings on purpose; the preference service
// coerces and fills gaps.
type RawProfile struct {
	Profile            map[string]string `json:"priority_profile"`
	InformalCategories []string          `json:"informal_categories"`
}

const interpretSystemPrompt = `You translate a student's free-text interests into a priority profile
over the IIT Jodhpur club/fest taxonomy. Respond with a single JSON object and nothing else.`

// InterpretPreferences asks the model to turn free interest text into a
// per-organization weight map.
func (a *Agent) InterpretPreferences(ctx context.Context, text string) (*RawProfile, error) {
	prompt := buildInterpretPrompt(text)

	resp, err := a.llm.Complete(ctx, interpretSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	result, err := parseProfile(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse preference response: %w", err)
	}
	return result, nil
}

func buildInterpretPrompt(text string) string {
	var b strings.Builder

	b.WriteString("## Taxonomy codes (the profile must cover EVERY code below)\n")
	for _, code := range domain.OrganizationCodes() {
		org := domain.OrganizationByCode(code)
		fmt.Fprintf(&b, "- %s: %s [%s]\n", code, org.FullName, org.Category)
	}

	b.WriteString("\n## Interest hints (phrase -> codes)\n")
	for phrase, codes := range domain.InterestMap {
		fmt.Fprintf(&b, "- %q -> %s\n", phrase, strings.Join(codes, ", "))
	}

	b.WriteString(`
## Rules
- Weights are "high", "medium", "low", or "ignore".
- Interests the student names get "high"; adjacent areas get "medium".
- Individual sports societies (FOOTBALL_SOCIETY, CRICKET_SOCIETY, BASKETBALL_SOCIETY,
  TABLE_TENNIS_SOCIETY, BADMINTON_SOCIETY) get "ignore" unless the student names that sport.
- Everything else gets "low".
- informal_categories lists INFORMAL_FOOD and/or INFORMAL_DEALS when the student
  mentions food, deals, or campus informals; otherwise it is empty.

Respond with this exact JSON format:
{
  "priority_profile": {"CODE": "high|medium|low|ignore", ...},
  "informal_categories": []
}

## Student's interests
`)
	b.WriteString(text)

	return b.String()
}

func parseProfile(resp string) (*RawProfile, error) {
	resp = stripFences(resp)

	var result RawProfile
	if err := json.Unmarshal([]byte(resp), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
