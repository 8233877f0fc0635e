package middleware

import (
	"strings"
	"time"

	"mailmind_server/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload of the session tokens issued after the
// Google OAuth callback.
type SessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// IssueSessionToken signs a session token for the given user. The subject
// is the user's Google account id, which keys every collection.
func IssueSessionToken(secret, googleID, email, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   googleID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "mailmind",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// JWTAuth validates the Bearer session token and stores the user identity
// in request locals for downstream handlers.
func JWTAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions {
			return c.Next()
		}

		header := c.Get("Authorization")
		if header == "" {
			return apperr.Unauthorized("missing authorization header")
		}
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			return apperr.InvalidToken("authorization header must be 'Bearer <token>'")
		}

		claims := &SessionClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, apperr.InvalidToken("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return apperr.InvalidToken("invalid or expired session token").WithError(err)
		}
		if claims.Subject == "" {
			return apperr.InvalidToken("token missing subject")
		}

		c.Locals("user_id", claims.Subject)
		c.Locals("user_email", claims.Email)
		return c.Next()
	}
}
