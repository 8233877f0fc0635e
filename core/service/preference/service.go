// Package preference turns free interest text into a total priority profile
// over the club/fest taxonomy and persists it.
package preference

import (
	"context"
	"time"

	"mailmind_server/core/agent/llm"
	"mailmind_server/core/domain"
	"mailmind_server/core/port/out"
	"mailmind_server/pkg/logger"
)

// Interpreter is the reasoning surface the service needs; llm.Agent
// satisfies it.
type Interpreter interface {
	InterpretPreferences(ctx context.Context, text string) (*llm.RawProfile, error)
}

// Service handles preference operations.
type Service struct {
	preferenceRepo out.PreferenceRepository
	interpreter    Interpreter
	log            *logger.Logger
}

func NewService(preferenceRepo out.PreferenceRepository, interpreter Interpreter) *Service {
	return &Service{
		preferenceRepo: preferenceRepo,
		interpreter:    interpreter,
		log:            logger.Default().WithField("service", "preference"),
	}
}

// Submit interprets the user's interest text and replaces the stored
// preference document wholesale. The informals flag comes from the request,
// not the model. Interpretation failure degrades to a uniform-low profile
// rather than an error: a bad LLM day must not lock the user out of the
// pipeline.
func (s *Service) Submit(ctx context.Context, userID, text string, informals bool) (*domain.Preferences, error) {
	prefs := &domain.Preferences{
		UserID:           userID,
		RawText:          text,
		InformalsEnabled: informals,
		UpdatedAt:        time.Now().UTC(),
	}

	raw, err := s.interpreter.InterpretPreferences(ctx, text)
	if err != nil {
		s.log.WithError(err).Warn("preference interpretation failed, falling back to uniform low")
		prefs.Profile = FillProfile(nil)
		prefs.InformalCategories = []string{}
	} else {
		prefs.Profile = FillProfile(raw.Profile)
		prefs.InformalCategories = sanitizeInformals(raw.InformalCategories)
	}

	if err := s.preferenceRepo.Save(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// Stored returns the stored preferences, or nil when the user has never
// submitted any. Callers that require a submitted document check for nil.
func (s *Service) Stored(ctx context.Context, userID string) (*domain.Preferences, error) {
	return s.preferenceRepo.Get(ctx, userID)
}

// Get returns the stored preferences, or a default uniform-low document when
// the user has never submitted any. The default is a view for the dashboard
// only; it is never persisted.
func (s *Service) Get(ctx context.Context, userID string) (*domain.Preferences, error) {
	prefs, err := s.preferenceRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		prefs = &domain.Preferences{
			UserID:             userID,
			Profile:            FillProfile(nil),
			InformalsEnabled:   true,
			InformalCategories: []string{},
		}
	}
	return prefs, nil
}

// UpdateManualAbsences replaces the manual-absence date list.
func (s *Service) UpdateManualAbsences(ctx context.Context, userID string, absences []string) error {
	if absences == nil {
		absences = []string{}
	}
	return s.preferenceRepo.UpdateManualAbsences(ctx, userID, absences)
}

// FillProfile coerces an untrusted weight map into a total profile: exactly
// one entry per taxonomy code. Codes the interpreter skipped fall back to the
// organization's default weight (opt-in sports societies default to ignore,
// everything else to low). Unknown codes are dropped.
func FillProfile(raw map[string]string) domain.PriorityProfile {
	profile := make(domain.PriorityProfile, len(domain.Clubs)+len(domain.Fests))
	for _, code := range domain.OrganizationCodes() {
		if w, ok := raw[code]; ok {
			profile[code] = domain.ParsePriority(w)
			continue
		}
		org := domain.OrganizationByCode(code)
		if org.DefaultPriority == domain.PriorityIgnore {
			profile[code] = domain.PriorityIgnore
		} else {
			profile[code] = domain.PriorityLow
		}
	}
	return profile
}

func sanitizeInformals(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, c := range raw {
		if c == domain.CategoryInformalFood || c == domain.CategoryInformalDeals {
			out = append(out, c)
		}
	}
	return out
}
