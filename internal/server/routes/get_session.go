package routes

import (
	"net/http"

	"translator/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

// GetSessionStatusHandler reports who the request is authenticated as.
func GetSessionStatusHandler(c echo.Context) error {
	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusOK, map[string]any{"authenticated": false})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"authenticated": true,
		"user_id":       user.UserID,
		"role":          user.Role,
	})
}
