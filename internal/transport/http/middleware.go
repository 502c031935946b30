package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/syria-community/role-bridge/internal/util"
)

const contextClientKey = "auth.client"

// RequireBearer rejects requests without a valid HS256 bearer token. A nil
// manager disables the check.
func RequireBearer(tokens *util.JWTManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if tokens == nil {
			return next
		}
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if strings.TrimSpace(authHeader) == "" {
				return c.JSON(http.StatusUnauthorized, util.Error("Missing Authorization Header"))
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return c.JSON(http.StatusUnauthorized, util.Error("Invalid Authorization Header"))
			}
			claims, err := tokens.Parse(strings.TrimSpace(parts[1]))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, util.Error("Invalid Or Expired Token"))
			}
			c.Set(contextClientKey, claims.Client)
			return next(c)
		}
	}
}

func CurrentClient(c echo.Context) (string, bool) {
	client, ok := c.Get(contextClientKey).(string)
	return client, ok && client != ""
}
