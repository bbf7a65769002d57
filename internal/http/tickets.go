package http

import (
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/vitalya-dev/tickethub/internal/metrics"
	"github.com/vitalya-dev/tickethub/internal/model"
	"github.com/vitalya-dev/tickethub/internal/notify"
	"github.com/vitalya-dev/tickethub/internal/repository"
	"github.com/vitalya-dev/tickethub/internal/util"
)

type submitTicketReq struct {
	Phone       string `json:"phone"`
	Description string `json:"description"`
	SubmittedBy string `json:"submitted_by"`
}

// submitTicketHandler is the web-form intake path: it builds the same
// canonical Ticket the CDC path builds and publishes the same notification.
// There is no row id and no cursor here; a failed publish is reported to
// the submitter and not retried.
func submitTicketHandler(
	composer notify.Composer,
	pub notify.Publisher,
	deliveries repository.DeliveriesRepository,
	loc *time.Location,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req submitTicketReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		submitter := model.Flatten(req.SubmittedBy)
		if submitter == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "submitted_by required"})
		}
		if utf8.RuneCountInString(req.Description) > 1000 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "description too long"})
		}

		ticket := model.Ticket{
			Phone:       util.FormatPhone(req.Phone),
			Description: model.BuildDescription(req.Description),
			SubmittedBy: submitter,
			Timestamp:   time.Now().In(loc).Format(model.TimeLayout),
		}

		message, err := composer.ComposeTicket(ticket)
		if err != nil {
			log.Errorf("compose ticket: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "ticket could not be prepared",
			})
		}

		deliveryID := util.NewDeliveryID()
		if err := pub.Send(c.Request().Context(), message); err != nil {
			log.Errorf("publish form ticket: %v", err)
			metrics.NotificationsTotal.WithLabelValues("webform", "failed").Inc()
			auditForm(c, deliveries, deliveryID, model.DeliveryFailed)
			return c.JSON(http.StatusBadGateway, map[string]string{"error": "publish failed"})
		}

		metrics.NotificationsTotal.WithLabelValues("webform", "sent").Inc()
		auditForm(c, deliveries, deliveryID, model.DeliverySent)

		return c.JSON(http.StatusAccepted, map[string]any{
			"published": true,
			"id":        deliveryID,
			"ticket":    ticketResponse(ticket),
		})
	}
}

func auditForm(c echo.Context, deliveries repository.DeliveriesRepository, id string, result model.DeliveryResult) {
	if deliveries == nil {
		return
	}
	rec := model.Delivery{
		ID:        id,
		Source:    "webform",
		Result:    result,
		CreatedAt: time.Now().UTC(),
	}
	if err := deliveries.Insert(c.Request().Context(), rec); err != nil {
		log.Warnf("audit insert: %v", err)
	}
}

// ticketResponse maps the canonical short-key payload to full field names
// for API consumers.
func ticketResponse(t model.Ticket) map[string]string {
	return map[string]string{
		"phone":        t.Phone,
		"description":  t.Description,
		"submitted_by": t.SubmittedBy,
		"timestamp":    t.Timestamp,
	}
}
