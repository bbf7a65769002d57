package util

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewDeliveryID generates a ULID used to correlate one publish attempt
// across logs, the audit table, and the mirror topic.
func NewDeliveryID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)

	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
