package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/oauth2"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"mailmind_server/core/domain"
	"mailmind_server/core/port/out"
	"mailmind_server/infra/middleware"
	"mailmind_server/pkg/apperr"
	"mailmind_server/pkg/logger"
	"mailmind_server/pkg/response"
)

const (
	stateCookie = "oauth_state"
	stateTTL    = 10 * time.Minute
	sessionTTL  = 7 * 24 * time.Hour
)

// AuthHandler runs the Google OAuth flow and issues session tokens.
type AuthHandler struct {
	users       out.UserRepository
	oauthConfig *oauth2.Config
	jwtSecret   string
}

func NewAuthHandler(users out.UserRepository, oauthConfig *oauth2.Config, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		users:       users,
		oauthConfig: oauthConfig,
		jwtSecret:   jwtSecret,
	}
}

// Register registers the auth routes. The callback and login are public;
// /auth/me sits behind the session-token middleware.
func (h *AuthHandler) Register(router fiber.Router, requireSession fiber.Handler) {
	auth := router.Group("/auth")
	auth.Get("/google/login", h.Login)
	auth.Get("/google/callback", h.Callback)
	auth.Post("/logout", h.Logout)
	auth.Get("/me", requireSession, h.Me)
}

// Login redirects the browser to Google's consent screen. The state is
// double-submitted through a short-lived cookie.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	state, err := generateState()
	if err != nil {
		return apperr.InternalWithError(err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    state,
		Expires:  time.Now().Add(stateTTL),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	// AccessTypeOffline so Google returns a refresh token; the pipeline
	// needs Gmail access long after this session expires.
	url := h.oauthConfig.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
	return c.Redirect(url, fiber.StatusTemporaryRedirect)
}

// Callback exchanges the authorization code, stores the user with their
// token, and returns a signed session token.
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	if errParam := c.Query("error"); errParam != "" {
		return apperr.OAuthFailed(fmt.Errorf("provider returned %q", errParam))
	}

	code := c.Query("code")
	if code == "" {
		return apperr.MissingField("code")
	}

	state := c.Query("state")
	if state == "" || state != c.Cookies(stateCookie) {
		return apperr.BadRequest("oauth state mismatch")
	}
	c.ClearCookie(stateCookie)

	token, err := h.oauthConfig.Exchange(c.Context(), code)
	if err != nil {
		return apperr.OAuthFailed(fmt.Errorf("code exchange: %w", err))
	}

	info, err := h.fetchUserInfo(c, token)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user := &domain.User{
		GoogleID:  info.Id,
		Email:     info.Email,
		Name:      info.Name,
		Picture:   info.Picture,
		Token:     token,
		CreatedAt: now,
		LastLogin: now,
	}
	if existing, err := h.users.Get(c.Context(), info.Id); err == nil && existing != nil {
		user.CreatedAt = existing.CreatedAt
		if token.RefreshToken == "" && existing.Token != nil {
			// Google omits the refresh token on repeat consent.
			user.Token.RefreshToken = existing.Token.RefreshToken
		}
	}
	if err := h.users.Upsert(c.Context(), user); err != nil {
		return apperr.DatabaseError("save user", err)
	}

	session, err := middleware.IssueSessionToken(h.jwtSecret, user.GoogleID, user.Email, user.Name, sessionTTL)
	if err != nil {
		return apperr.InternalWithError(err)
	}

	logger.WithField("user_id", user.GoogleID).Info("user signed in: %s", user.Email)
	return response.OK(c, fiber.Map{
		"token": session,
		"user": fiber.Map{
			"google_id": user.GoogleID,
			"email":     user.Email,
			"name":      user.Name,
			"picture":   user.Picture,
		},
	})
}

func (h *AuthHandler) fetchUserInfo(c *fiber.Ctx, token *oauth2.Token) (*googleoauth.Userinfo, error) {
	client := h.oauthConfig.Client(c.Context(), token)
	svc, err := googleoauth.NewService(c.Context(), option.WithHTTPClient(client))
	if err != nil {
		return nil, apperr.OAuthFailed(err)
	}
	info, err := svc.Userinfo.Get().Do()
	if err != nil {
		return nil, apperr.OAuthFailed(fmt.Errorf("userinfo: %w", err))
	}
	if info.Id == "" {
		return nil, apperr.OAuthFailed(fmt.Errorf("userinfo missing account id"))
	}
	return info, nil
}

// Me returns the signed-in user's profile.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	user, err := h.users.Get(c.Context(), userID)
	if err != nil {
		return apperr.DatabaseError("load user", err)
	}
	if user == nil {
		return apperr.NotFound("user")
	}
	return response.OK(c, user)
}

// Logout is a no-op on the server: sessions are stateless JWTs the client
// discards.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return response.OK(c, fiber.Map{"message": "logged out"})
}

func generateState() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate oauth state: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
