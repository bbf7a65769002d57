package model

import "time"

type DeliveryResult string

const (
	DeliverySent   DeliveryResult = "sent"
	DeliveryFailed DeliveryResult = "failed"
)

func (r DeliveryResult) String() string {
	return string(r)
}

// Delivery is one publish attempt recorded in the ClickHouse audit table.
type Delivery struct {
	ID        string         `db:"id"` // ULID
	Source    string         `db:"source"`
	RowID     int64          `db:"row_id"` // 0 for form-sourced tickets
	Result    DeliveryResult `db:"result"`
	CreatedAt time.Time      `db:"created_at"`
}
