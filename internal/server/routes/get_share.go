package routes

import (
	"errors"
	"net/http"

	"translator/pkg/results"

	"github.com/labstack/echo/v4"
)

// GetShareLinkHandler builds the deep link for one result of a query.
func GetShareLinkHandler(c echo.Context) error {
	list, q, err := resolveQueryList(c)
	if err != nil {
		return err
	}

	resultID := c.Param("result_id")
	entry, err := list.Entry(resultID)
	if err != nil {
		if errors.Is(err, results.ErrUnknownResult) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.String(http.StatusInternalServerError, err.Error())
	}

	label := c.QueryParam("label")
	if label == "" {
		label = q.Label
	}
	nodeID := q.Curie
	if entry.Object != nil {
		nodeID = entry.Object.ID
	}

	return c.JSON(http.StatusOK, map[string]string{
		"url": list.ShareLink(label, nodeID, q.Type, resultID),
	})
}
