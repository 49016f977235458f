package exchange

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Xploreicon/timebankng/internal/category"
)

// ComputeHandler handles GET /exchange/compute?hours=&from=&to=
func ComputeHandler(c echo.Context) error {
	from := c.QueryParam("from")
	to := c.QueryParam("to")
	if from == "" || to == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from and to categories are required"})
	}

	hours := 1.0
	if h := c.QueryParam("hours"); h != "" {
		v, err := strconv.ParseFloat(h, 64)
		if err != nil || v <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "hours must be a positive number"})
		}
		hours = v
	}

	return c.JSON(http.StatusOK, echo.Map{
		"exchange": Compute(category.Current(), hours, from, to),
	})
}
