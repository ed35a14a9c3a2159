package routes

import (
	"errors"
	"net/http"

	"translator/internal/registry"
	"translator/internal/server/middleware"
	"translator/internal/storage"
	"translator/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DeleteQueryHandler removes a query, its in-memory list and its archived
// snapshots.
func DeleteQueryHandler(c echo.Context) error {
	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	queryID := c.Param("id")

	if err := app.Queries.Delete(ctx, queryID, user.UserID); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Query not found"})
		}
		return c.String(http.StatusInternalServerError, err.Error())
	}

	app.Lists.Remove(queryID)

	if err := storage.DeleteQuerySnapshots(ctx, app.S3, queryID); err != nil {
		// The registry row is gone; orphaned snapshots only cost storage.
		logger.Warn("[Server] Failed to delete query snapshots", "query_id", queryID, "err", err)
	}

	return c.NoContent(http.StatusNoContent)
}
