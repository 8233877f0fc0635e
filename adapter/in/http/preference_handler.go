package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"mailmind_server/core/service/preference"
	"mailmind_server/pkg/apperr"
	"mailmind_server/pkg/response"
)

// PreferenceHandler manages the user's interest profile.
type PreferenceHandler struct {
	preferenceService *preference.Service
}

func NewPreferenceHandler(preferenceService *preference.Service) *PreferenceHandler {
	return &PreferenceHandler{preferenceService: preferenceService}
}

// Register registers preference routes on the protected /emails group.
func (h *PreferenceHandler) Register(router fiber.Router) {
	prefs := router.Group("/preferences")
	prefs.Post("/", h.Submit)
	prefs.Get("/", h.Get)
	prefs.Put("/absences", h.UpdateAbsences)
}

// SubmitRequest carries the free-text interest description. The informals
// flag is optional and defaults to on.
type SubmitRequest struct {
	Text      string `json:"text"`
	Informals *bool  `json:"informals"`
}

// Submit interprets the interest text into a full priority profile and
// replaces the stored preferences.
func (h *PreferenceHandler) Submit(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return apperr.MissingField("text")
	}
	informals := true
	if req.Informals != nil {
		informals = *req.Informals
	}

	prefs, err := h.preferenceService.Submit(c.Context(), userID, req.Text, informals)
	if err != nil {
		return err
	}
	return response.OK(c, prefs)
}

// Get returns the stored preferences, or the uniform default profile when
// the user never submitted any.
func (h *PreferenceHandler) Get(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	prefs, err := h.preferenceService.Get(c.Context(), userID)
	if err != nil {
		return apperr.DatabaseError("load preferences", err)
	}
	return response.OK(c, prefs)
}

// AbsencesRequest carries the manual-absence date list.
type AbsencesRequest struct {
	Dates []string `json:"dates"`
}

// UpdateAbsences replaces the manual absence dates without touching the
// rest of the profile.
func (h *PreferenceHandler) UpdateAbsences(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	var req AbsencesRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	if err := h.preferenceService.UpdateManualAbsences(c.Context(), userID, req.Dates); err != nil {
		return apperr.DatabaseError("update absences", err)
	}
	return response.OK(c, fiber.Map{"dates": req.Dates})
}
