package domain

import "time"

// PriorityProfile maps every taxonomy code to an interest weight. The
// preference interpreter guarantees total coverage: exactly one entry per
// organization code.
type PriorityProfile map[string]Priority

// PriorityFor returns the profile weight for a category. Sentinel categories
// and unknown codes report low so that matrix defaults apply.
func (p PriorityProfile) PriorityFor(category string) Priority {
	if v, ok := p[category]; ok {
		return v
	}
	return PriorityLow
}

// Codes returns the codes carrying the given weight, for prompt construction.
func (p PriorityProfile) Codes(weight Priority) []string {
	var codes []string
	for code, v := range p {
		if v == weight {
			codes = append(codes, code)
		}
	}
	return codes
}

// Preferences is the stored per-user preference document. It is replaced
// wholesale on every resubmission of interest text; only ManualAbsences is
// ever partially updated.
type Preferences struct {
	UserID             string          `bson:"user_id" json:"user_id"`
	RawText            string          `bson:"raw_text" json:"raw_text"`
	Profile            PriorityProfile `bson:"priority_profile" json:"priority_profile"`
	InformalsEnabled   bool            `bson:"informals_enabled" json:"informals_enabled"`
	InformalCategories []string        `bson:"informal_categories" json:"informal_categories"`
	ManualAbsences     []string        `bson:"manual_absences,omitempty" json:"manual_absences,omitempty"`
	UpdatedAt          time.Time       `bson:"updated_at" json:"updated_at"`
}
