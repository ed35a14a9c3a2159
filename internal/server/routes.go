package server

import (
	"translator/internal/server/middleware"
	"translator/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Query routes
	apiRoutes.GET("/queries", routes.GetQueriesHandler)
	apiRoutes.POST("/queries", routes.SubmitQueryHandler)
	apiRoutes.GET("/queries/:id", routes.GetQueryStatusHandler)
	apiRoutes.DELETE("/queries/:id", routes.DeleteQueryHandler)

	// Result view routes
	apiRoutes.GET("/queries/:id/results", routes.GetResultsHandler)
	apiRoutes.POST("/queries/:id/filters", routes.ToggleFilterHandler)
	apiRoutes.DELETE("/queries/:id/filters", routes.ClearFiltersHandler)
	apiRoutes.POST("/queries/:id/refresh", routes.RefreshResultsHandler)
	apiRoutes.GET("/queries/:id/facets", routes.GetFacetsHandler)
	apiRoutes.GET("/queries/:id/snapshot", routes.GetSnapshotHandler)
	apiRoutes.GET("/queries/:id/results/:result_id/evidence", routes.GetEvidenceHandler)
	apiRoutes.GET("/queries/:id/results/:result_id/share", routes.GetShareLinkHandler)

	// User save routes
	apiRoutes.GET("/users/me/saves", routes.GetSavesHandler)
	apiRoutes.POST("/users/me/saves", routes.CreateSaveHandler)
	apiRoutes.PUT("/users/me/saves/:id", routes.UpdateSaveHandler)
	apiRoutes.DELETE("/users/me/saves/:id", routes.DeleteSaveHandler)

	// Session and config routes
	apiRoutes.GET("/session/status", routes.GetSessionStatusHandler)
	apiRoutes.POST("/session/status", routes.GetSessionStatusHandler)
	e.GET("/api/config", routes.GetConfigHandler)
}
