// Package token implements the stateless payload protocol: a ticket's full
// content is serialized into an opaque string embedded after a marker inside
// a published message, so a later action can recover the ticket from nothing
// but the message text.
package token

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vitalya-dev/tickethub/internal/model"
)

// Marker literals. Each token family owns one; decode for a family matches
// only its own marker, so both families can share a single message channel.
const (
	TicketMarker  = "#ticket_data"
	ReceiptMarker = "#receipt_data"
)

var (
	// ErrNotFound means the message carries no marker line for the family.
	ErrNotFound = errors.New("token: data not found")
	// ErrMalformed means the marker is present but the payload does not
	// decode (truncated base64, invalid JSON, wrong field set).
	ErrMalformed = errors.New("token: payload malformed")
)

// EncodeTicket serializes a ticket into a single-line opaque token:
// compact JSON with short fixed keys, then standard base64.
func EncodeTicket(t model.Ticket) (string, error) {
	return encode(t)
}

// DecodeTicket recovers a ticket from the full text of a previously
// composed message. Returns ErrNotFound or ErrMalformed otherwise.
func DecodeTicket(message string) (model.Ticket, error) {
	var w struct {
		Phone       *string `json:"p"`
		Description *string `json:"d"`
		SubmittedBy *string `json:"s"`
		Timestamp   *string `json:"t"`
	}
	if err := decode(message, TicketMarker, &w); err != nil {
		return model.Ticket{}, err
	}
	if w.Phone == nil || w.Description == nil || w.SubmittedBy == nil || w.Timestamp == nil {
		return model.Ticket{}, fmt.Errorf("%w: missing ticket field", ErrMalformed)
	}

	return model.Ticket{
		Phone:       *w.Phone,
		Description: *w.Description,
		SubmittedBy: *w.SubmittedBy,
		Timestamp:   *w.Timestamp,
	}, nil
}

// EncodeReceipt serializes a receipt payload the same way tickets are.
func EncodeReceipt(r model.Receipt) (string, error) {
	return encode(r)
}

// DecodeReceipt recovers a receipt payload from a composed message.
func DecodeReceipt(message string) (model.Receipt, error) {
	var w struct {
		Operator  *string `json:"o"`
		Total     *string `json:"v"`
		Timestamp *string `json:"t"`
	}
	if err := decode(message, ReceiptMarker, &w); err != nil {
		return model.Receipt{}, err
	}
	if w.Operator == nil || w.Total == nil || w.Timestamp == nil {
		return model.Receipt{}, fmt.Errorf("%w: missing receipt field", ErrMalformed)
	}

	return model.Receipt{
		Operator:  *w.Operator,
		Total:     *w.Total,
		Timestamp: *w.Timestamp,
	}, nil
}

// encode produces a deterministic token: json.Marshal emits struct fields in
// declaration order with no inter-token whitespace, and base64 output never
// contains a newline.
func encode(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	return base64.StdEncoding.EncodeToString(b), nil
}

// decode locates the family's marker line in the message, reverses the
// base64 and JSON layers, and unmarshals into out. The marker must start a
// line and be followed by a single space and the token.
func decode(message, marker string, out any) error {
	payload, ok := extract(message, marker)
	if !ok {
		return ErrNotFound
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return nil
}

// extract returns the token from the first line of the exact shape
// "<marker><space><token>".
func extract(message, marker string) (string, bool) {
	prefix := marker + " "
	for _, line := range strings.Split(message, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(line[len(prefix):]), true
		}
	}

	return "", false
}
