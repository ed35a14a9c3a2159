package routes

import (
	"errors"
	"net/http"

	"translator/internal/registry"
	"translator/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

// RefreshResultsHandler applies a stashed fresh snapshot to the visible
// list. A refresh with nothing pending is a no-op, not an error.
func RefreshResultsHandler(c echo.Context) error {
	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	queryID := c.Param("id")

	q, err := app.Queries.Get(ctx, queryID)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Query not found"})
		}
		return c.String(http.StatusInternalServerError, err.Error())
	}
	if q.UserID != user.UserID {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Query not found"})
	}

	list, refreshed, err := app.Lists.Refresh(ctx, queryID)
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}

	resp := buildViewResponse(c, queryID, list.View())
	return c.JSON(http.StatusOK, map[string]any{
		"refreshed": refreshed,
		"view":      resp,
	})
}
