package routes

import (
	"encoding/json"
	"net/http"

	"translator/internal/queue"
	"translator/internal/registry"
	"translator/internal/server/middleware"
	"translator/internal/timing"
	"translator/internal/util"
	"translator/pkg/ars"
	"translator/pkg/logger"

	"github.com/labstack/echo/v4"
)

func SubmitQueryHandler(c echo.Context) error {
	type submitRequest struct {
		Label     string `json:"label"`
		Curie     string `json:"curie" validate:"required"`
		Type      string `json:"type" validate:"required"`
		Direction string `json:"direction"`
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	req := new(submitRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	arsClient := ars.NewClient(util.GetEnv("ARS_URL"))
	queryID, err := arsClient.Submit(ctx, ars.QuerySubmission{
		Type:      req.Type,
		Curie:     req.Curie,
		Direction: req.Direction,
	})
	if err != nil {
		logger.Error("[Server] Query submission failed", "curie", req.Curie, "err", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Upstream submission failed"})
	}

	err = app.Queries.Create(ctx, registry.Query{
		ID:        queryID,
		UserID:    user.UserID,
		Label:     req.Label,
		Curie:     req.Curie,
		Type:      req.Type,
		Direction: req.Direction,
	})
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}

	job, err := json.Marshal(queue.PollJobMsg{QueryID: queryID})
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}
	if err := queue.PublishFIFO(app.Queue, queue.PollQueue, job); err != nil {
		logger.Error("[Server] Failed to publish poll job", "query_id", queryID, "err", err)
		return c.String(http.StatusInternalServerError, err.Error())
	}

	estimate, err := timing.EstimatePollDuration(ctx, app.DBConn)
	if err != nil {
		logger.Warn("[Server] Failed to estimate poll duration", "err", err)
		estimate = 0
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"id":                    queryID,
		"status":                registry.StatusPending,
		"estimated_duration_ms": estimate,
	})
}
