package routes

import (
	"net/http"

	"translator/pkg/common"

	"github.com/labstack/echo/v4"
)

// ToggleFilterHandler adds the posted filter, or removes it when an
// identical one is already active.
func ToggleFilterHandler(c echo.Context) error {
	type filterRequest struct {
		ID      string `json:"id" validate:"required"`
		Value   string `json:"value"`
		Negated bool   `json:"negated"`
	}

	list, q, err := resolveQueryList(c)
	if err != nil {
		return err
	}

	req := new(filterRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	list.HandleFilter(common.Filter{
		ID:      req.ID,
		Value:   req.Value,
		Negated: req.Negated,
	})

	return c.JSON(http.StatusOK, buildViewResponse(c, q.ID, list.View()))
}

func ClearFiltersHandler(c echo.Context) error {
	list, q, err := resolveQueryList(c)
	if err != nil {
		return err
	}

	list.ClearFilters()
	return c.JSON(http.StatusOK, buildViewResponse(c, q.ID, list.View()))
}
