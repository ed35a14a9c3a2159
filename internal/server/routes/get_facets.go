package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetFacetsHandler serves the tag counts under the current filter set,
// without the result page itself.
func GetFacetsHandler(c echo.Context) error {
	list, _, err := resolveQueryList(c)
	if err != nil {
		return err
	}

	view := list.View()
	return c.JSON(http.StatusOK, map[string]any{
		"facet_counts":         view.FacetCounts,
		"negated_facet_counts": view.NegatedFacetCounts,
		"tags":                 view.Tags,
		"filters":              view.Filters,
		"entity_filters":       view.EntityFilters,
	})
}
