package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"studenthub/internal/model"
	"studenthub/internal/repository"
)

// Context keys used by the secured route group. echo-jwt stores the value
// returned by ParseToken under subjectContextKey; ResolveIdentity replaces it
// with the loaded user under IdentityContextKey.
const (
	subjectContextKey  = "user"
	IdentityContextKey = "identity"
)

// ParseToken adapts the token service to echo-jwt's ParseTokenFunc. Any
// verification failure, expiry included, surfaces as 401 via the middleware.
func ParseToken(tokens *JWTService) func(c echo.Context, auth string) (interface{}, error) {
	return func(c echo.Context, auth string) (interface{}, error) {
		userID, err := tokens.Verify(auth)
		if err != nil {
			return nil, err
		}
		return userID, nil
	}
}

// ResolveIdentity turns the verified token subject into a live identity. The
// user row is re-fetched on every request, so a deleted account loses access
// immediately rather than at token expiry.
func ResolveIdentity(users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := c.Get(subjectContextKey).(uint)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "account no longer exists")
			}
			c.Set(IdentityContextKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the identity resolved for a secured request.
func CurrentUser(c echo.Context) (*model.User, error) {
	user, ok := c.Get(IdentityContextKey).(*model.User)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}
	return user, nil
}
