package triage

import (
	"testing"

	"mailmind_server/core/agent/llm"
	"mailmind_server/core/domain"
)

func TestNormalizeRecomputesQuadrantAndColour(t *testing.T) {
	email := &domain.Email{Sender: "secretary@ignus.org"}

	tests := []struct {
		name       string
		raw        llm.RawClassification
		wantQ      domain.Quadrant
		wantColour domain.Colour
		wantAction domain.Action
	}{
		{
			name:       "model contradiction is overridden",
			raw:        llm.RawClassification{Category: "RAID", Importance: "high", Urgency: "high", Quadrant: "Q4", Colour: "grey", Action: "ignore"},
			wantQ:      domain.QuadrantQ1,
			wantColour: domain.ColourRed,
			wantAction: domain.ActionNotify,
		},
		{
			name:       "medium on both axes lands in Q4",
			raw:        llm.RawClassification{Category: "IGNUS", Importance: "medium", Urgency: "medium"},
			wantQ:      domain.QuadrantQ4,
			wantColour: domain.ColourGrey,
			wantAction: domain.ActionIgnore,
		},
		{
			name:       "dated Q2 goes to calendar",
			raw:        llm.RawClassification{Category: "PROMETEO", Importance: "high", Urgency: "low", EventDate: "2026-09-12"},
			wantQ:      domain.QuadrantQ2,
			wantColour: domain.ColourYellow,
			wantAction: domain.ActionAddToCalendar,
		},
		{
			name:       "garbage levels coerce to low",
			raw:        llm.RawClassification{Category: "SANGAM", Importance: "extreme", Urgency: "asap"},
			wantQ:      domain.QuadrantQ4,
			wantColour: domain.ColourGrey,
			wantAction: domain.ActionIgnore,
		},
		{
			name:       "undated calendar call survives",
			raw:        llm.RawClassification{Category: "PROMETEO", Importance: "high", Urgency: "low", Action: "add_to_calendar"},
			wantQ:      domain.QuadrantQ2,
			wantColour: domain.ColourYellow,
			wantAction: domain.ActionAddToCalendar,
		},
		{
			name:       "Q1 always notifies despite calendar call",
			raw:        llm.RawClassification{Category: "RAID", Importance: "high", Urgency: "high", Action: "add_to_calendar"},
			wantQ:      domain.QuadrantQ1,
			wantColour: domain.ColourRed,
			wantAction: domain.ActionNotify,
		},
		{
			name:       "notify never escapes Q1",
			raw:        llm.RawClassification{Category: "IGNUS", Importance: "low", Urgency: "low", Action: "notify"},
			wantQ:      domain.QuadrantQ4,
			wantColour: domain.ColourGrey,
			wantAction: domain.ActionIgnore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Normalize(&tt.raw, email)
			if c.Quadrant != tt.wantQ {
				t.Errorf("quadrant = %s, want %s", c.Quadrant, tt.wantQ)
			}
			if c.Colour != tt.wantColour {
				t.Errorf("colour = %s, want %s", c.Colour, tt.wantColour)
			}
			if c.Action != tt.wantAction {
				t.Errorf("action = %s, want %s", c.Action, tt.wantAction)
			}
		})
	}
}

func TestNormalizeUnknownCategory(t *testing.T) {
	email := &domain.Email{Sender: "someone@gmail.com"}
	c := Normalize(&llm.RawClassification{Category: "KNITTING_CLUB", Importance: "low", Urgency: "low"}, email)
	if c.Category != domain.CategoryOther {
		t.Errorf("category = %q, want OTHER", c.Category)
	}
}

func TestNormalizeTrustedSenderFloor(t *testing.T) {
	email := &domain.Email{Sender: "exam@iitj.ac.in"}
	c := Normalize(&llm.RawClassification{Category: domain.CategoryAcademic, Importance: "low", Urgency: "low"}, email)
	if c.Importance != domain.LevelHigh {
		t.Errorf("importance = %s, want high for trusted sender", c.Importance)
	}
	if c.Quadrant != domain.QuadrantQ2 {
		t.Errorf("quadrant = %s, want Q2", c.Quadrant)
	}
}

func TestNormalizeEventFieldValidation(t *testing.T) {
	email := &domain.Email{Sender: "raid@iitj.ac.in"}
	c := Normalize(&llm.RawClassification{
		Category: "RAID", Importance: "high", Urgency: "high",
		EventDate: "next friday", EventTime: "evening",
	}, email)
	if c.EventDate != "" {
		t.Errorf("event date = %q, want empty for invalid input", c.EventDate)
	}
	if c.EventTime != "" {
		t.Errorf("event time = %q, want empty for invalid input", c.EventTime)
	}

	c = Normalize(&llm.RawClassification{
		Category: "RAID", Importance: "high", Urgency: "high",
		EventDate: "2026-09-12", EventTime: "17:30",
	}, email)
	if c.EventDate != "2026-09-12" || c.EventTime != "17:30" {
		t.Errorf("valid event fields were dropped: %q %q", c.EventDate, c.EventTime)
	}
}

func TestNormalizeInformalFlag(t *testing.T) {
	email := &domain.Email{Sender: "canteen@gmail.com"}
	c := Normalize(&llm.RawClassification{Category: domain.CategoryInformalFood, Importance: "low", Urgency: "low", IsInformal: false}, email)
	if !c.IsInformal {
		t.Error("INFORMAL_FOOD must set is_informal regardless of model output")
	}
	c = Normalize(&llm.RawClassification{Category: "RAID", Importance: "low", Urgency: "low", IsInformal: true}, email)
	if c.IsInformal {
		t.Error("taxonomy categories are never informal")
	}
}

func TestNormalizeSummaryDefault(t *testing.T) {
	email := &domain.Email{Sender: "x@y.com"}
	c := Normalize(&llm.RawClassification{Category: "RAID"}, email)
	if c.Summary != "No summary available" {
		t.Errorf("summary = %q", c.Summary)
	}
}

func TestFallback(t *testing.T) {
	c := Fallback(&domain.Email{Sender: "random@gmail.com"})
	if c.Category != domain.CategoryOther || c.Quadrant != domain.QuadrantQ4 ||
		c.Colour != domain.ColourGrey || c.Action != domain.ActionIgnore {
		t.Errorf("fallback = %+v", c)
	}
	if c.Summary != FallbackSummary {
		t.Errorf("summary = %q", c.Summary)
	}

	trusted := Fallback(&domain.Email{Sender: "hod.cse@iitj.ac.in"})
	if trusted.Importance != domain.LevelHigh || trusted.Quadrant != domain.QuadrantQ2 {
		t.Errorf("trusted fallback = %s/%s, want high/Q2", trusted.Importance, trusted.Quadrant)
	}
}
