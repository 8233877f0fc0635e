package http

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"mailmind_server/adapter/out/file"
	"mailmind_server/core/domain"
	"mailmind_server/core/service/triage"
	"mailmind_server/infra/middleware"
)

func newEmailApp(t *testing.T) (*fiber.App, *file.Store) {
	t.Helper()
	store, err := file.NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	triageService := triage.NewService(store.Emails(), nil, nil, nil, nil, nil, triage.Config{})

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "u1")
		return c.Next()
	})
	NewEmailHandler(triageService, nil).Register(app.Group("/emails"))
	return app, store
}

func seedClassified(t *testing.T, store *file.Store, messageID string, c *domain.Classification) {
	t.Helper()
	ctx := context.Background()
	email := &domain.Email{
		UserID:     "u1",
		MessageID:  messageID,
		Subject:    "subject " + messageID,
		Sender:     "club@iitj.ac.in",
		ReceivedAt: time.Now(),
	}
	if _, err := store.Emails().SaveIfAbsent(ctx, email); err != nil {
		t.Fatal(err)
	}
	if err := store.Emails().UpdateClassification(ctx, "u1", messageID, c); err != nil {
		t.Fatal(err)
	}
}

func TestListGroupsByQuadrant(t *testing.T) {
	app, store := newEmailApp(t)
	seedClassified(t, store, "m1", &domain.Classification{Category: "RAID", Quadrant: domain.QuadrantQ1})
	seedClassified(t, store, "m2", &domain.Classification{Category: "IGNUS", Quadrant: domain.QuadrantQ2})
	seedClassified(t, store, "m3", &domain.Classification{Category: "INFORMAL_FOOD", Quadrant: domain.QuadrantQ4, IsInformal: true})

	resp, err := app.Test(httptest.NewRequest("GET", "/emails/", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var envelope struct {
		Success bool          `json:"success"`
		Data    GroupedEmails `json:"data"`
	}
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !envelope.Success {
		t.Error("success = false")
	}
	got := envelope.Data
	if got.Total != 3 {
		t.Errorf("total = %d", got.Total)
	}
	if len(got.Quadrants[domain.QuadrantQ1]) != 1 || len(got.Quadrants[domain.QuadrantQ2]) != 1 {
		t.Errorf("quadrant buckets = %d/%d", len(got.Quadrants[domain.QuadrantQ1]), len(got.Quadrants[domain.QuadrantQ2]))
	}
	if len(got.Informal) != 1 {
		t.Errorf("informal bucket = %d", len(got.Informal))
	}
	if got.Counts["Q1"] != 1 || got.Counts["informal"] != 1 {
		t.Errorf("counts = %v", got.Counts)
	}
}

func TestListRejectsBadQuadrant(t *testing.T) {
	app, _ := newEmailApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/emails/?quadrant=Q9", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	app, _ := newEmailApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/emails/search", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
