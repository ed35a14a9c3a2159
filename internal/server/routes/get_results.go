package routes

import (
	"net/http"
	"strconv"

	"translator/pkg/results"

	"github.com/labstack/echo/v4"
)

func GetResultsHandler(c echo.Context) error {
	list, q, err := resolveQueryList(c)
	if err != nil {
		return err
	}

	if sortParam := c.QueryParam("sort"); sortParam != "" {
		key := results.SortKey(sortParam)
		if !key.Valid() {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unknown sort key"})
		}
		list.HandleSort(key)
	}

	if sizeParam := c.QueryParam("page_size"); sizeParam != "" {
		size, err := strconv.Atoi(sizeParam)
		if err != nil || size <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid page size"})
		}
		list.SetPageSize(size)
	}

	if pageParam := c.QueryParam("page"); pageParam != "" {
		page, err := strconv.Atoi(pageParam)
		if err != nil || page < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid page"})
		}
		list.SetPage(page)
	}

	view := list.View()
	view.Status = q.Status

	return c.JSON(http.StatusOK, buildViewResponse(c, q.ID, view))
}
