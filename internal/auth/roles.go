package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ticket-tally/helpdesk-service/internal/domain"
	apperrors "github.com/ticket-tally/helpdesk-service/pkg/util"
)

// RequireRole ensures the principal holds one of the allowed roles. With no
// arguments it only requires an authenticated principal.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireStaff allows IT staff and administrators.
func RequireStaff() fiber.Handler {
	return RequireRole(domain.RoleITStaff, domain.RoleAdmin)
}

// RequireAdmin allows administrators only.
func RequireAdmin() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}
