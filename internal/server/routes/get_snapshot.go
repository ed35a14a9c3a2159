package routes

import (
	"net/http"

	"translator/internal/server/middleware"
	"translator/internal/storage"

	"github.com/labstack/echo/v4"
)

// GetSnapshotHandler presigns a download link for the raw result payload
// currently backing the query's visible list.
func GetSnapshotHandler(c echo.Context) error {
	_, q, err := resolveQueryList(c)
	if err != nil {
		return err
	}
	if q.AppliedKey == "" {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No results yet"})
	}

	app := c.(*middleware.AppContext).App
	link, err := storage.GenerateDownloadLink(c.Request().Context(), app.S3, q.AppliedKey)
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{"url": link})
}
