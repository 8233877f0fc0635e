package domain

// Priority is a per-organization interest weight from the user's profile.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
	PriorityIgnore Priority = "ignore"
)

// ParsePriority coerces an untrusted string to a Priority, defaulting to low.
func ParsePriority(s string) Priority {
	switch Priority(s) {
	case PriorityHigh, PriorityMedium, PriorityLow, PriorityIgnore:
		return Priority(s)
	default:
		return PriorityLow
	}
}

// Level is an importance or urgency grade assigned by the classifier.
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// ParseLevel coerces an untrusted string to a Level, defaulting to low.
func ParseLevel(s string) Level {
	switch Level(s) {
	case LevelHigh, LevelMedium, LevelLow:
		return Level(s)
	default:
		return LevelLow
	}
}

// Quadrant is an Eisenhower bucket: Q1 critical down to Q4 discard.
type Quadrant string

const (
	QuadrantQ1 Quadrant = "Q1"
	QuadrantQ2 Quadrant = "Q2"
	QuadrantQ3 Quadrant = "Q3"
	QuadrantQ4 Quadrant = "Q4"
)

// Colour tags a quadrant (or a manual calendar entry) for display and for the
// external calendar's colour id.
type Colour string

const (
	ColourRed    Colour = "red"
	ColourYellow Colour = "yellow"
	ColourBlue   Colour = "blue"
	ColourGrey   Colour = "grey"
	ColourPurple Colour = "purple" // manual club entries only
)

// Action is the recommended handling for a classified email.
type Action string

const (
	ActionNotify        Action = "notify"
	ActionAddToCalendar Action = "add_to_calendar"
	ActionIgnore        Action = "ignore"
)

// ParseAction coerces an untrusted string to an Action, defaulting to ignore.
func ParseAction(s string) Action {
	switch Action(s) {
	case ActionNotify, ActionAddToCalendar, ActionIgnore:
		return Action(s)
	default:
		return ActionIgnore
	}
}

// QuadrantFor maps an (importance, urgency) pair onto the priority matrix.
// The grid is keyed on "high or not": medium counts as not-high on both axes,
// so only LevelHigh moves an email up. Total order: high > medium > low.
func QuadrantFor(importance, urgency Level) Quadrant {
	switch {
	case importance == LevelHigh && urgency == LevelHigh:
		return QuadrantQ1
	case importance == LevelHigh:
		return QuadrantQ2
	case urgency == LevelHigh:
		return QuadrantQ3
	default:
		return QuadrantQ4
	}
}

// Colour returns the display colour for a quadrant.
func (q Quadrant) Colour() Colour {
	switch q {
	case QuadrantQ1:
		return ColourRed
	case QuadrantQ2:
		return ColourYellow
	case QuadrantQ3:
		return ColourBlue
	default:
		return ColourGrey
	}
}

// DefaultAction returns the matrix's suggested action for a quadrant. Q2 and
// Q3 only suggest calendar projection when the email carries a concrete date.
func DefaultAction(q Quadrant, hasDate bool) Action {
	switch q {
	case QuadrantQ1:
		return ActionNotify
	case QuadrantQ2, QuadrantQ3:
		if hasDate {
			return ActionAddToCalendar
		}
		return ActionIgnore
	default:
		return ActionIgnore
	}
}

// CalendarEligible reports whether a classified email should be projected to
// the calendar. Dated mail is never silently dropped, whatever its quadrant,
// unless the user's profile ignores the organization outright.
func CalendarEligible(action Action, eventDate string, orgPriority Priority) bool {
	if orgPriority == PriorityIgnore {
		return false
	}
	if action == ActionAddToCalendar {
		return true
	}
	return eventDate != ""
}

// ManualEventStyle maps a manual calendar entry's event-type tag onto a
// colour/quadrant pair.
func ManualEventStyle(eventType string) (Colour, Quadrant) {
	switch eventType {
	case "exam":
		return ColourRed, QuadrantQ1
	case "assignment", "lecture", "lab", "study":
		return ColourYellow, QuadrantQ2
	case "club":
		return ColourPurple, QuadrantQ3
	default:
		return ColourGrey, QuadrantQ4
	}
}
