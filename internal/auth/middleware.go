package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ticket-tally/helpdesk-service/internal/domain"
	"github.com/ticket-tally/helpdesk-service/internal/repository"
	apperrors "github.com/ticket-tally/helpdesk-service/pkg/util"
)

const principalKey = "auth_principal"

// Middleware resolves the caller's Principal. A bearer token issued by the
// authentication collaborator wins; without one the persisted session
// document is consulted, matching the single-client deployment where the
// session is stored alongside the collections.
type Middleware struct {
	tokens  *TokenManager
	session repository.SessionRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, session repository.SessionRepository) *Middleware {
	return &Middleware{tokens: tokens, session: session}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return apperrors.NewUnauthorized("invalid authorization header")
		}
		principal, err := m.tokens.ParseToken(parts[1])
		if err != nil {
			return apperrors.NewUnauthorized("invalid token")
		}
		c.Locals(principalKey, principal)
		return c.Next()
	}

	if m.session != nil {
		principal, err := m.session.Load(c.UserContext())
		if err != nil {
			return apperrors.MapError(err)
		}
		if principal != nil {
			c.Locals(principalKey, principal)
			return c.Next()
		}
	}
	return apperrors.NewUnauthorized("authentication required")
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*domain.Principal)
	return principal, ok
}
