package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/vitalya-dev/tickethub/internal/model"
)

// DeliveriesRepository records publish outcomes in ClickHouse for reporting.
type DeliveriesRepository interface {
	Insert(ctx context.Context, d model.Delivery) error
	ListRecent(ctx context.Context, source string, limit, offset int) ([]model.Delivery, error)
}

type chDeliveriesRepository struct {
	ch *sqlx.DB
}

func NewDeliveriesRepository(ch *sqlx.DB) DeliveriesRepository {
	return &chDeliveriesRepository{ch: ch}
}

func (r *chDeliveriesRepository) Insert(ctx context.Context, d model.Delivery) error {
	const q = `
		INSERT INTO tickethub.deliveries (id, source, row_id, result, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.ch.ExecContext(ctx, q, d.ID, d.Source, d.RowID, d.Result.String(), d.CreatedAt)
	return err
}

func (r *chDeliveriesRepository) ListRecent(ctx context.Context, source string, limit, offset int) ([]model.Delivery, error) {
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	q := `
		SELECT id, source, row_id, result, created_at
		FROM tickethub.deliveries
	`
	args := []any{}

	if source != "" {
		q += " WHERE source = ?"
		args = append(args, source)
	}

	q += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	var rows []model.Delivery
	if err := r.ch.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}
