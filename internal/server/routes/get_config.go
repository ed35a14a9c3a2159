package routes

import (
	"net/http"

	"translator/internal/util"

	"github.com/labstack/echo/v4"
)

// GetConfigHandler exposes the client-relevant service configuration.
func GetConfigHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"poll_interval_seconds": util.GetEnvNumeric("POLL_INTERVAL_SECONDS", 10),
		"poll_max_attempts":     util.GetEnvNumeric("POLL_MAX_ATTEMPTS", 120),
		"page_sizes":            []int{5, 10, 20, 50},
	})
}
