package routes

import (
	"errors"
	"net/http"

	"translator/internal/registry"
	"translator/internal/server/middleware"
	"translator/pkg/results"

	"github.com/labstack/echo/v4"
)

// resolveQueryList loads the view controller of the query in the :id param,
// enforcing ownership. Unknown and foreign queries both read as not found.
func resolveQueryList(c echo.Context) (*results.List, registry.Query, error) {
	user := c.(*middleware.AppContext).User
	if user == nil {
		return nil, registry.Query{}, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	list, q, err := app.Lists.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return nil, registry.Query{}, echo.NewHTTPError(http.StatusNotFound, "Query not found")
		}
		return nil, registry.Query{}, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if q.UserID != user.UserID {
		return nil, registry.Query{}, echo.NewHTTPError(http.StatusNotFound, "Query not found")
	}
	return list, q, nil
}

// viewResponse decorates a view with the user's save state for the query.
// Entries are shared between users, so bookmark state rides alongside the
// results instead of being written into them.
type viewResponse struct {
	results.View
	Saves map[string]results.SaveState `json:"saves,omitempty"`
}

func buildViewResponse(c echo.Context, queryID string, view results.View) viewResponse {
	user := c.(*middleware.AppContext).User
	app := c.(*middleware.AppContext).App

	resp := viewResponse{View: view}
	if user == nil {
		return resp
	}

	state, err := app.Saves.StateForQuery(c.Request().Context(), user.UserID, queryID)
	if err == nil && len(state) > 0 {
		resp.Saves = state
	}
	return resp
}
