package watch

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/vitalya-dev/tickethub/internal/cursor"
	"github.com/vitalya-dev/tickethub/internal/metrics"
	"github.com/vitalya-dev/tickethub/internal/model"
	"github.com/vitalya-dev/tickethub/internal/notify"
	"github.com/vitalya-dev/tickethub/internal/util"
)

// Fetcher is the read-only view of the legacy database the scanner needs.
type Fetcher interface {
	ChangesAfter(ctx context.Context, id int64) ([]model.ChangeEvent, error)
	MaxID(ctx context.Context) (int64, error)
}

// Mirror re-publishes raw change events to a side channel (Kafka). Best
// effort: the scanner logs mirror errors and moves on.
type Mirror interface {
	Publish(ctx context.Context, ev model.ChangeEvent) error
}

// Auditor records the outcome of each publish attempt (ClickHouse).
type Auditor interface {
	Insert(ctx context.Context, d model.Delivery) error
}

// Scanner runs one scan of the legacy database: fetch rows past the
// watermark, publish a notification per row in ascending id order, and
// advance the persisted cursor. A single Scanner is owned by a single
// Scheduler, so Scan never runs concurrently with itself; the watermark
// field has exactly one writer.
type Scanner struct {
	Source   string
	Fetcher  Fetcher
	Cursor   *cursor.Store
	Composer notify.Composer
	Pub      notify.Publisher
	Mirror   Mirror  // optional
	Audit    Auditor // optional
	Loc      *time.Location
	Log      *zap.Logger

	watermark int64
}

// Bootstrap resolves the starting watermark before the scheduler starts:
// the persisted value when one exists, otherwise the source's current
// maximum id (rows written before the very first run are not replayed).
func (s *Scanner) Bootstrap(ctx context.Context) error {
	v, ok, err := s.Cursor.Load(s.Source)
	if err != nil {
		return err
	}
	if ok {
		s.watermark = v
		s.Log.Info("cursor loaded", zap.Int64("cursor", v))
		return nil
	}

	max, err := s.Fetcher.MaxID(ctx)
	if err != nil {
		return err
	}
	s.watermark = max
	s.Log.Info("no cursor file, starting from current max id", zap.Int64("cursor", max))

	return s.Cursor.Save(s.Source, max)
}

// Watermark returns the current in-memory cursor value.
func (s *Scanner) Watermark() int64 {
	return s.watermark
}

// Scan executes one publish pass. Delivery is at-least-once: a crash
// between a publish and the cursor write replays that row on restart.
//
// The cursor stops at the first publish failure in ascending order, so a
// failed row is never skipped by a later success in the same batch; the
// next scan retries from it.
func (s *Scanner) Scan(ctx context.Context) {
	rows, err := s.Fetcher.ChangesAfter(ctx, s.watermark)
	if err != nil {
		s.Log.Error("fetch changes", zap.Int64("cursor", s.watermark), zap.Error(err))
		metrics.ScansTotal.WithLabelValues(s.Source, "fetch_error").Inc()
		return
	}
	if len(rows) == 0 {
		metrics.ScansTotal.WithLabelValues(s.Source, "empty").Inc()
		return
	}

	candidate := s.watermark
	for _, ev := range rows {
		if s.Mirror != nil {
			if err := s.Mirror.Publish(ctx, ev); err != nil {
				s.Log.Warn("mirror change event", zap.Int64("row", ev.ID), zap.Error(err))
			}
		}

		ticket := model.NewTicketFromChange(ev, s.Loc)
		message, err := s.Composer.ComposeTicket(ticket)
		if err != nil {
			// re-encoding this row would fail identically forever; skip it
			s.Log.Error("compose notification", zap.Int64("row", ev.ID), zap.Error(err))
			metrics.NotificationsTotal.WithLabelValues(s.Source, "encode_error").Inc()
			candidate = ev.ID
			continue
		}

		deliveryID := util.NewDeliveryID()
		if err := s.Pub.Send(ctx, message); err != nil {
			s.Log.Error("publish notification",
				zap.String("delivery", deliveryID),
				zap.Int64("row", ev.ID),
				zap.Error(err))
			metrics.NotificationsTotal.WithLabelValues(s.Source, "failed").Inc()
			s.audit(ctx, deliveryID, ev.ID, model.DeliveryFailed)
			break
		}

		s.Log.Info("notification published",
			zap.String("delivery", deliveryID),
			zap.Int64("row", ev.ID))
		metrics.NotificationsTotal.WithLabelValues(s.Source, "sent").Inc()
		s.audit(ctx, deliveryID, ev.ID, model.DeliverySent)
		candidate = ev.ID
	}

	if candidate > s.watermark {
		if err := s.Cursor.Save(s.Source, candidate); err != nil {
			// keep the in-memory advance: rows already went out, and a
			// restart replaying them is the documented at-least-once case
			s.Log.Error("persist cursor", zap.Int64("cursor", candidate), zap.Error(err))
		}
		s.watermark = candidate
	}
	metrics.ScansTotal.WithLabelValues(s.Source, "ok").Inc()
}

func (s *Scanner) audit(ctx context.Context, deliveryID string, rowID int64, result model.DeliveryResult) {
	if s.Audit == nil {
		return
	}
	rec := model.Delivery{
		ID:        deliveryID,
		Source:    s.Source,
		RowID:     rowID,
		Result:    result,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Audit.Insert(ctx, rec); err != nil {
		s.Log.Warn("audit insert", zap.String("delivery", deliveryID), zap.Error(err))
	}
}
