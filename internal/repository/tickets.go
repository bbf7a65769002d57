package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vitalya-dev/tickethub/internal/model"
)

// TicketsRepository reads the legacy service-desk database. The connection
// is opened read-only; this code never mutates the source of truth.
type TicketsRepository interface {
	// ChangesAfter returns every ticket row with id greater than the
	// watermark, ascending, enriched with the submitter display name.
	ChangesAfter(ctx context.Context, id int64) ([]model.ChangeEvent, error)
	// MaxID returns the current highest ticket id (0 for an empty table).
	// Used to bootstrap the cursor on first run.
	MaxID(ctx context.Context) (int64, error)
}

type TicketsRepositoryImpl struct {
	db *sqlx.DB
}

func NewTicketsRepository(db *sqlx.DB) *TicketsRepositoryImpl {
	return &TicketsRepositoryImpl{db: db}
}

// The employees join is best-effort decoration: a miss yields an empty
// submitter and the caller substitutes a reference built from employee_id.
const changesAfterQuery = `
	SELECT t.id,
	       t.employee_id,
	       COALESCE(e.display_name, '') AS submitter,
	       COALESCE(t.phone, '')        AS phone,
	       COALESCE(t.reason, '')       AS reason,
	       COALESCE(t.equipment, '')    AS equipment,
	       COALESCE(t.defects, '')      AS defects,
	       COALESCE(t.client_name, '')  AS client_name,
	       COALESCE(t.input_time, '')   AS input_time
	FROM tickets t
	LEFT JOIN employees e ON e.id = t.employee_id
	WHERE t.id > ?
	ORDER BY t.id ASC
`

func (r *TicketsRepositoryImpl) ChangesAfter(ctx context.Context, id int64) ([]model.ChangeEvent, error) {
	var rows []model.ChangeEvent
	if err := r.db.SelectContext(ctx, &rows, changesAfterQuery, id); err != nil {
		return nil, fmt.Errorf("select changes after %d: %w", id, err)
	}
	return rows, nil
}

func (r *TicketsRepositoryImpl) MaxID(ctx context.Context) (int64, error) {
	var max int64
	if err := r.db.GetContext(ctx, &max, `SELECT COALESCE(MAX(id), 0) FROM tickets`); err != nil {
		return 0, fmt.Errorf("select max ticket id: %w", err)
	}
	return max, nil
}
