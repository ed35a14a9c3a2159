package routes

import (
	"encoding/json"
	"net/http"

	"translator/internal/saves"
	"translator/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

func CreateSaveHandler(c echo.Context) error {
	type createRequest struct {
		Label    string          `json:"label"`
		Notes    string          `json:"notes"`
		QueryID  string          `json:"query_id" validate:"required"`
		ResultID string          `json:"result_id" validate:"required"`
		Data     json.RawMessage `json:"data"`
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	req := new(createRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	save, err := app.Saves.Create(ctx, saves.Save{
		UserID:   user.UserID,
		Label:    req.Label,
		Notes:    req.Notes,
		QueryID:  req.QueryID,
		ResultID: req.ResultID,
		Data:     req.Data,
	})
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, save)
}
