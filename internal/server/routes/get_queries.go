package routes

import (
	"errors"
	"net/http"

	"translator/internal/registry"
	"translator/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

func GetQueriesHandler(c echo.Context) error {
	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	queries, err := app.Queries.ListForUser(ctx, user.UserID)
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, queries)
}

func GetQueryStatusHandler(c echo.Context) error {
	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	q, err := app.Queries.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Query not found"})
		}
		return c.String(http.StatusInternalServerError, err.Error())
	}
	if q.UserID != user.UserID {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Query not found"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"id":              q.ID,
		"status":          q.Status,
		"has_results":     q.AppliedKey != "",
		"fresh_available": q.FreshKey != "" && q.FreshKey != q.AppliedKey,
		"created_at":      q.CreatedAt,
		"updated_at":      q.UpdatedAt,
	})
}
