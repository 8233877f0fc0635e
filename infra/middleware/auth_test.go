package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

const testSecret = "test-secret"

func newProtectedApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(JWTAuth(testSecret))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": c.Locals("user_id"),
			"email":   c.Locals("user_email"),
		})
	})
	return app
}

func TestJWTAuthValidToken(t *testing.T) {
	app := newProtectedApp()

	token, err := IssueSessionToken(testSecret, "google-123", "b23cs999@iitj.ac.in", "Test Student", time.Hour)
	if err != nil {
		t.Fatalf("IssueSessionToken: %v", err)
	}

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestJWTAuthRejections(t *testing.T) {
	app := newProtectedApp()

	expired, err := IssueSessionToken(testSecret, "google-123", "a@iitj.ac.in", "", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	wrongKey, err := IssueSessionToken("other-secret", "google-123", "a@iitj.ac.in", "", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Token abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired", "Bearer " + expired},
		{"wrong key", "Bearer " + wrongKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != fiber.StatusUnauthorized {
				t.Errorf("status = %d, want 401", resp.StatusCode)
			}
		})
	}
}

func TestJWTAuthSkipsPreflight(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(JWTAuth(testSecret))
	app.Options("/whoami", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("OPTIONS", "/whoami", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", resp.StatusCode)
	}
}
