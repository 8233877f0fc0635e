package http

import (
	"github.com/gofiber/fiber/v2"

	"mailmind_server/core/domain"
	"mailmind_server/core/service/triage"
	"mailmind_server/pkg/apperr"
	"mailmind_server/pkg/ratelimit"
	"mailmind_server/pkg/response"
)

// EmailHandler exposes the triage pipeline and the classified inbox view.
type EmailHandler struct {
	triageService *triage.Service
	fetchCooldown *ratelimit.Cooldown
}

func NewEmailHandler(triageService *triage.Service, fetchCooldown *ratelimit.Cooldown) *EmailHandler {
	return &EmailHandler{
		triageService: triageService,
		fetchCooldown: fetchCooldown,
	}
}

// Register registers email routes on the protected /emails group.
func (h *EmailHandler) Register(router fiber.Router) {
	router.Post("/fetch", h.Fetch)
	router.Get("/", h.List)
	router.Get("/search", h.Search)
}

// Fetch runs the full pipeline for the signed-in user: pull the inbox,
// classify what is new, project events, raise notifications. A per-user
// cooldown keeps the Gmail and OpenAI quotas safe from repeated clicks.
func (h *EmailHandler) Fetch(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	if h.fetchCooldown != nil && h.fetchCooldown.Active(c.Context(), userID) {
		return apperr.RateLimited("fetch already ran recently, try again shortly")
	}

	report, err := h.triageService.RunForUser(c.Context(), userID)
	if err != nil {
		return err
	}

	if h.fetchCooldown != nil {
		h.fetchCooldown.Touch(c.Context(), userID)
	}
	return response.OK(c, report)
}

// List returns classified emails grouped by quadrant, with informal mail in
// its own bucket. Optional narrowing by quadrant, category, or informal-only.
func (h *EmailHandler) List(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	filter := &domain.EmailFilter{
		Category:     QueryString(c, "category"),
		InformalOnly: c.Query("informal") == "true",
		Limit:        c.QueryInt("limit", 0),
	}
	if q := c.Query("quadrant"); q != "" {
		quadrant := domain.Quadrant(q)
		switch quadrant {
		case domain.QuadrantQ1, domain.QuadrantQ2, domain.QuadrantQ3, domain.QuadrantQ4:
			filter.Quadrant = &quadrant
		default:
			return apperr.InvalidInput("quadrant", "must be one of Q1, Q2, Q3, Q4")
		}
	}

	emails, err := h.triageService.ListClassified(c.Context(), userID, filter)
	if err != nil {
		return apperr.DatabaseError("list emails", err)
	}
	return response.OK(c, groupByQuadrant(emails))
}

// GroupedEmails is the dashboard view: one bucket per quadrant plus informal.
type GroupedEmails struct {
	Quadrants map[domain.Quadrant][]*domain.Email `json:"quadrants"`
	Informal  []*domain.Email                     `json:"informal"`
	Counts    map[string]int                      `json:"counts"`
	Total     int                                 `json:"total"`
}

func groupByQuadrant(emails []*domain.Email) *GroupedEmails {
	grouped := &GroupedEmails{
		Quadrants: map[domain.Quadrant][]*domain.Email{
			domain.QuadrantQ1: {},
			domain.QuadrantQ2: {},
			domain.QuadrantQ3: {},
			domain.QuadrantQ4: {},
		},
		Informal: []*domain.Email{},
		Counts:   make(map[string]int),
		Total:    len(emails),
	}
	for _, email := range emails {
		c := email.Classification
		if c.IsInformal {
			grouped.Informal = append(grouped.Informal, email)
			grouped.Counts["informal"]++
			continue
		}
		grouped.Quadrants[c.Quadrant] = append(grouped.Quadrants[c.Quadrant], email)
		grouped.Counts[string(c.Quadrant)]++
	}
	return grouped
}

// Search matches classified emails against a free-text query.
func (h *EmailHandler) Search(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	query := c.Query("q")
	if query == "" {
		return apperr.MissingField("q")
	}
	limit := c.QueryInt("limit", 50)

	emails, err := h.triageService.Search(c.Context(), userID, query, limit)
	if err != nil {
		return apperr.DatabaseError("search emails", err)
	}
	return response.OKWithMeta(c, emails, &response.Meta{Total: len(emails)})
}
