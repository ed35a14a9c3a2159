package routes

import (
	"net/http"

	"translator/internal/saves"
	"translator/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

func GetSavesHandler(c echo.Context) error {
	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	var list []saves.Save
	var err error
	if queryID := c.QueryParam("query_id"); queryID != "" {
		list, err = app.Saves.ListForQuery(ctx, user.UserID, queryID)
	} else {
		list, err = app.Saves.ListForUser(ctx, user.UserID)
	}
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, list)
}
