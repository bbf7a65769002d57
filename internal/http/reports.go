package http

import (
	"net/http"
	"strconv"
	"strings"

	echo "github.com/labstack/echo/v4"

	"github.com/vitalya-dev/tickethub/internal/repository"
)

func listDeliveriesHandler(deliveries repository.DeliveriesRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit := 50
		offset := 0
		if v := c.QueryParam("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
				limit = n
			}
		}
		if v := c.QueryParam("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				offset = n
			}
		}

		source := strings.TrimSpace(c.QueryParam("source"))

		rows, err := deliveries.ListRecent(c.Request().Context(), source, limit, offset)
		if err != nil {
			c.Logger().Errorf("clickhouse list failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
		}

		results := make([]map[string]any, 0, len(rows))
		for _, d := range rows {
			results = append(results, map[string]any{
				"id":         d.ID,
				"source":     d.Source,
				"row_id":     d.RowID,
				"result":     d.Result.String(),
				"created_at": d.CreatedAt,
			})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"limit":   limit,
			"offset":  offset,
			"count":   len(results),
			"results": results,
		})
	}
}
