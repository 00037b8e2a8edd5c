package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"techshop-backend/internal/apperr"
	"techshop-backend/internal/auth"
	"techshop-backend/internal/models"
)

const (
	roleKey   = "role"
	userIDKey = "userId"
)

// Authenticate verifies the bearer token and stores the caller's id and
// role on the context.
func Authenticate(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apperr.Respond(c, apperr.Unauthorized("Unauthorized"))
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
			apperr.Respond(c, apperr.New(apperr.KindMissingToken, "No token provided"))
			return
		}
		if !strings.EqualFold(parts[0], "Bearer") {
			apperr.Respond(c, apperr.New(apperr.KindBadRequest, "Authorization scheme must be Bearer"))
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			apperr.Respond(c, apperr.Wrap(apperr.KindInvalidToken, "Invalid or expired token", err))
			return
		}

		c.Set(userIDKey, claims.Subject)
		c.Set(roleKey, claims.Role)
		c.Next()
	}
}

// RequireRole lets the request through when the caller has the given role.
// ADMIN passes every guard.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := CallerRole(c)
		if got != role && got != models.RoleAdmin {
			apperr.Respond(c, apperr.Forbidden("Access Forbidden"))
			return
		}
		c.Next()
	}
}

func CallerID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func CallerRole(c *gin.Context) string {
	return c.GetString(roleKey)
}

func IsAdmin(c *gin.Context) bool {
	return CallerRole(c) == models.RoleAdmin
}

// RequireSelf fails with Forbidden unless the caller is ownerID or an admin.
func RequireSelf(c *gin.Context, ownerID string) error {
	if IsAdmin(c) || (ownerID != "" && CallerID(c) == ownerID) {
		return nil
	}
	return apperr.Forbidden("You can only act on your own resources")
}
