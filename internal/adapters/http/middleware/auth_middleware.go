package middleware

import (
	"strings"

	"limpay/internal/core/domain"
	"limpay/internal/core/services"
	"limpay/internal/pkg/jwt"
	"limpay/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const localsClaims = "claims"

// AuthMiddleware requires a valid bearer token and stores its claims
func AuthMiddleware(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := auth.VerifyToken(bearerToken(c))
		if err != nil {
			return response.Unauthorized(c, err.Error())
		}

		c.Locals(localsClaims, claims)
		c.Locals("userID", claims.UserID)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// RequireRole allows only callers whose token carries role.
// Must run after AuthMiddleware.
func RequireRole(auth *services.AuthService, role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := CurrentClaims(c)
		if claims == nil {
			return response.Unauthorized(c, domain.ErrTokenMissing.Error())
		}
		if err := auth.RequireRole(claims, role); err != nil {
			return response.Forbidden(c, err.Error())
		}
		return c.Next()
	}
}

// AdminOnly middleware allows only the admin role
func AdminOnly(auth *services.AuthService) fiber.Handler {
	return RequireRole(auth, domain.RoleAdmin)
}

// CurrentClaims returns the verified token claims, or nil outside AuthMiddleware
func CurrentClaims(c *fiber.Ctx) *jwt.Claims {
	claims, _ := c.Locals(localsClaims).(*jwt.Claims)
	return claims
}

// CurrentUserID returns the authenticated user's id
func CurrentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals("userID").(string)
	return id
}

func bearerToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
