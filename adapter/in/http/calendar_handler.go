package http

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"

	"mailmind_server/core/service/calendar"
	"mailmind_server/pkg/apperr"
	"mailmind_server/pkg/response"
)

var yearMonthRe = regexp.MustCompile(`^\d{4}-\d{2}$`)

// CalendarHandler exposes the locally persisted calendar.
type CalendarHandler struct {
	calendarService *calendar.Service
}

func NewCalendarHandler(calendarService *calendar.Service) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService}
}

// Register registers calendar routes on the protected /emails group.
func (h *CalendarHandler) Register(router fiber.Router) {
	events := router.Group("/calendar")
	events.Get("/", h.List)
	events.Get("/external", h.ListExternal)
	events.Post("/add", h.AddManual)
	events.Post("/:id/attended", h.SetAttended)
}

// List returns the user's events, optionally limited to one month
// (?month=YYYY-MM).
func (h *CalendarHandler) List(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	month := c.Query("month")
	if month != "" && !yearMonthRe.MatchString(month) {
		return apperr.InvalidInput("month", "expected YYYY-MM")
	}

	events, err := h.calendarService.List(c.Context(), userID, month)
	if err != nil {
		return apperr.DatabaseError("list events", err)
	}
	return response.OKWithMeta(c, events, &response.Meta{Total: len(events)})
}

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ListExternal reads events straight from the user's Google calendar between
// ?from= and ?to= (YYYY-MM-DD, inclusive).
func (h *CalendarHandler) ListExternal(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	from, to := c.Query("from"), c.Query("to")
	if !dateRe.MatchString(from) || !dateRe.MatchString(to) {
		return apperr.InvalidInput("from/to", "expected YYYY-MM-DD")
	}

	entries, err := h.calendarService.ListExternal(c.Context(), userID, from, to)
	if err != nil {
		return err
	}
	return response.OKWithMeta(c, entries, &response.Meta{Total: len(entries)})
}

// AddManual stores a user-entered calendar event.
func (h *CalendarHandler) AddManual(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	var req calendar.ManualEventInput
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if strings.TrimSpace(req.Title) == "" {
		return apperr.MissingField("title")
	}
	if req.EventDate == "" {
		return apperr.MissingField("event_date")
	}

	event, err := h.calendarService.AddManualEvent(c.Context(), userID, &req)
	if err != nil {
		return err
	}
	return response.Created(c, event)
}

// AttendedRequest toggles the attended mark.
type AttendedRequest struct {
	Attended bool `json:"attended"`
}

// SetAttended marks an event attended or not.
func (h *CalendarHandler) SetAttended(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	eventID := c.Params("id")
	if eventID == "" {
		return apperr.MissingField("id")
	}

	// Empty body marks the event attended; a body can clear the flag.
	req := AttendedRequest{Attended: true}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperr.BadRequest("invalid request body")
		}
	}

	if err := h.calendarService.SetAttended(c.Context(), userID, eventID, req.Attended); err != nil {
		return apperr.NotFound("event").WithError(err)
	}
	return response.OK(c, fiber.Map{"event_id": eventID, "attended": req.Attended})
}
