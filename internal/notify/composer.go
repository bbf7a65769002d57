// Package notify renders channel notifications and delivers them to the
// staff Telegram channel.
package notify

import (
	"fmt"
	"strings"

	"github.com/vitalya-dev/tickethub/internal/model"
	"github.com/vitalya-dev/tickethub/internal/token"
)

// Composer renders the human-readable message for one payload plus the
// marker line carrying its token. The message is the only store the token
// ever lives in.
type Composer struct{}

// ComposeTicket builds the new-ticket notification. The returned text ends
// with the ticket marker line; decoding that text yields the ticket back.
func (Composer) ComposeTicket(t model.Ticket) (string, error) {
	tok, err := token.EncodeTicket(t)
	if err != nil {
		return "", fmt.Errorf("encode ticket: %w", err)
	}

	var b strings.Builder
	b.WriteString("✅ New ticket!\n\n")
	fmt.Fprintf(&b, "\U0001F464 Submitted by: %s\n", t.SubmittedBy)
	fmt.Fprintf(&b, "\U0001F552 Time: %s\n", t.Timestamp)
	fmt.Fprintf(&b, "\U0001F4DE Phone: %s\n", t.Phone)
	fmt.Fprintf(&b, "\U0001F4DD Description: %s\n", t.Description)
	b.WriteString("\n")
	b.WriteString(token.TicketMarker + " " + tok)

	return b.String(), nil
}

// ComposeReceipt builds the receipt message for the print/calculator flow.
func (Composer) ComposeReceipt(r model.Receipt) (string, error) {
	tok, err := token.EncodeReceipt(r)
	if err != nil {
		return "", fmt.Errorf("encode receipt: %w", err)
	}

	var b strings.Builder
	b.WriteString("\U0001F9FE Receipt\n\n")
	fmt.Fprintf(&b, "\U0001F464 Operator: %s\n", r.Operator)
	fmt.Fprintf(&b, "\U0001F552 Time: %s\n", r.Timestamp)
	fmt.Fprintf(&b, "\U0001F4B0 Total: %s\n", r.Total)
	b.WriteString("\n")
	b.WriteString(token.ReceiptMarker + " " + tok)

	return b.String(), nil
}
