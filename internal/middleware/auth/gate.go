package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mkotelnikov/elearning_platform/internal/blacklist"
	"github.com/mkotelnikov/elearning_platform/internal/models"
	"github.com/mkotelnikov/elearning_platform/internal/token"
)

// Gate authenticates requests and gates them by role. The blacklist is
// consulted before signature verification so a revoked token is rejected
// the same way whether or not it is still cryptographically valid.
type Gate struct {
	DB        *gorm.DB
	Tokens    *token.Service
	Blacklist blacklist.Store
}

func (g *Gate) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := bearerToken(c)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
		}

		revoked, err := g.Blacklist.IsRevoked(c.Request().Context(), raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if revoked {
			return echo.NewHTTPError(http.StatusForbidden, "token revoked")
		}

		userID, _, err := g.Tokens.Verify(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusForbidden, "invalid or expired token")
		}

		var user models.User
		if err := g.DB.First(&user, userID).Error; err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}

		c.Set("user", user)
		c.Set("userID", user.ID)
		c.Set("role", user.Role)
		c.Set("token", raw)
		return next(c)
	}
}

// RequireRole passes the request through only when the authenticated user's
// role is in the allowed set. Must run after RequireAuth.
func (g *Gate) RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if !allowed[role] {
				return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
			}
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(header)
}

// CurrentUser pulls the user attached by RequireAuth.
func CurrentUser(c echo.Context) (models.User, bool) {
	user, ok := c.Get("user").(models.User)
	return user, ok
}
