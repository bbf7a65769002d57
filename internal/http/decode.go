package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vitalya-dev/tickethub/internal/metrics"
	"github.com/vitalya-dev/tickethub/internal/token"
)

type decodeReq struct {
	Message string `json:"message"`
}

// decodeTokenHandler backs the label-print action: given the stored text of
// a previously published message, it returns the embedded payload. The two
// failure modes stay distinguishable: "data not found" when no marker line
// exists, "could not be read" when a marker is present but its payload does
// not decode.
func decodeTokenHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req decodeReq
		if err := c.Bind(&req); err != nil || req.Message == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		if t, err := token.DecodeTicket(req.Message); err == nil {
			metrics.TokenDecodesTotal.WithLabelValues("ticket", "ok").Inc()
			return c.JSON(http.StatusOK, map[string]any{
				"family": "ticket",
				"ticket": ticketResponse(t),
			})
		} else if errors.Is(err, token.ErrMalformed) {
			metrics.TokenDecodesTotal.WithLabelValues("ticket", "malformed").Inc()
			return unreadable(c)
		}
		metrics.TokenDecodesTotal.WithLabelValues("ticket", "not_found").Inc()

		if r, err := token.DecodeReceipt(req.Message); err == nil {
			metrics.TokenDecodesTotal.WithLabelValues("receipt", "ok").Inc()
			return c.JSON(http.StatusOK, map[string]any{
				"family": "receipt",
				"receipt": map[string]string{
					"operator":  r.Operator,
					"total":     r.Total,
					"timestamp": r.Timestamp,
				},
			})
		} else if errors.Is(err, token.ErrMalformed) {
			metrics.TokenDecodesTotal.WithLabelValues("receipt", "malformed").Inc()
			return unreadable(c)
		}
		metrics.TokenDecodesTotal.WithLabelValues("receipt", "not_found").Inc()

		return c.JSON(http.StatusNotFound, map[string]string{
			"error":       "data_not_found",
			"description": "the message carries no ticket or receipt data",
		})
	}
}

func unreadable(c echo.Context) error {
	return c.JSON(http.StatusUnprocessableEntity, map[string]string{
		"error":       "unreadable",
		"description": "the message carries data that could not be read",
	})
}
