package model

// ChangeEvent is an immutable snapshot of one newly observed ticket row in
// the legacy database. IDs are assigned by the source and strictly increase;
// rows are never edited or deleted after the fact, which is what makes a
// single linear watermark sufficient.
type ChangeEvent struct {
	ID         int64  `db:"id" json:"id"`
	EmployeeID int64  `db:"employee_id" json:"employee_id"`
	Submitter  string `db:"submitter" json:"submitter"` // display name from the employees join; empty on miss
	Phone      string `db:"phone" json:"phone"`
	Reason     string `db:"reason" json:"reason"`
	Equipment  string `db:"equipment" json:"equipment"`
	Defects    string `db:"defects" json:"defects"`
	ClientName string `db:"client_name" json:"client_name"`
	InputTime  string `db:"input_time" json:"input_time"`
}
