package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"translator/internal/saves"
	"translator/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

func UpdateSaveHandler(c echo.Context) error {
	type updateRequest struct {
		Label string          `json:"label"`
		Notes string          `json:"notes"`
		Data  json.RawMessage `json:"data"`
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	req := new(updateRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	save, err := app.Saves.Update(ctx, user.UserID, c.Param("id"), req.Label, req.Notes, req.Data)
	if err != nil {
		if errors.Is(err, saves.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Save not found"})
		}
		return c.String(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, save)
}
