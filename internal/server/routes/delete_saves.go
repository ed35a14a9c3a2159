package routes

import (
	"errors"
	"net/http"

	"translator/internal/saves"
	"translator/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

func DeleteSaveHandler(c echo.Context) error {
	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	if err := app.Saves.Delete(ctx, user.UserID, c.Param("id")); err != nil {
		if errors.Is(err, saves.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Save not found"})
		}
		return c.String(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
