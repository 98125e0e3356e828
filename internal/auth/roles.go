package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/armonia-platform/pqr-service/internal/domain"
)

// RequireRole ensures the principal has one of the allowed roles. An
// empty list only requires authentication.
func RequireRole(allowed ...domain.UserRole) fiber.Handler {
	allowedSet := make(map[domain.UserRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return fiber.NewError(http.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}

// RequireStaff admits STAFF and COMPLEX_ADMIN principals.
func RequireStaff() fiber.Handler {
	return RequireRole(domain.RoleStaff, domain.RoleComplexAdmin)
}

// RequireAdmin admits COMPLEX_ADMIN principals only.
func RequireAdmin() fiber.Handler {
	return RequireRole(domain.RoleComplexAdmin)
}
