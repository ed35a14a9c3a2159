package routes

import (
	"errors"
	"net/http"

	"translator/pkg/results"

	"github.com/labstack/echo/v4"
)

// GetEvidenceHandler serves the aggregated evidence of one result, or of a
// single edge slot when path_id and edge_id query params are given.
func GetEvidenceHandler(c echo.Context) error {
	list, _, err := resolveQueryList(c)
	if err != nil {
		return err
	}

	resultID := c.Param("result_id")
	pathID := c.QueryParam("path_id")
	edgeID := c.QueryParam("edge_id")

	var evidence *results.Evidence
	if pathID != "" && edgeID != "" {
		evidence, err = list.EdgeEvidence(resultID, pathID, edgeID)
	} else {
		evidence, err = list.Evidence(resultID)
	}
	if err != nil {
		if errors.Is(err, results.ErrUnknownResult) || errors.Is(err, results.ErrUnknownPath) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.String(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, evidence)
}
