package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/vitalya-dev/tickethub/internal/util"
)

// TimeLayout is the display format stamped into notifications.
const TimeLayout = "2006-01-02 15:04:05 MST"

// inputTimeLayout is how the legacy desktop application stores timestamps
// (naive local time, no zone).
const inputTimeLayout = "2006-01-02 15:04:05"

// FallbackDescription is substituted when every descriptive field is blank.
const FallbackDescription = "No description provided."

// Ticket is the canonical payload round-tripped through a message token.
// Produced either from a database ChangeEvent or from a web form submission,
// and recovered later by the label-print action. All fields are display
// strings; formatting happens at the boundary that builds the Ticket, never
// downstream.
type Ticket struct {
	Phone       string `json:"p"`
	Description string `json:"d"`
	SubmittedBy string `json:"s"`
	Timestamp   string `json:"t"`
}

// Receipt is the second token family multiplexed over the same message
// surface (the print/calculator flow). Structurally distinct from Ticket.
type Receipt struct {
	Operator  string `json:"o"`
	Total     string `json:"v"`
	Timestamp string `json:"t"`
}

// NewTicketFromChange converts one fetched row into the canonical payload.
// The submitter name falls back to a reference built from the raw foreign
// key when the employees join missed.
func NewTicketFromChange(ev ChangeEvent, loc *time.Location) Ticket {
	submitter := Flatten(ev.Submitter)
	if submitter == "" {
		submitter = fmt.Sprintf("employee #%d", ev.EmployeeID)
	}

	return Ticket{
		Phone:       util.FormatPhone(ev.Phone),
		Description: BuildDescription(ev.Reason, ev.Equipment, ev.Defects, ev.ClientName),
		SubmittedBy: submitter,
		Timestamp:   FormatInputTime(ev.InputTime, loc),
	}
}

// BuildDescription joins the non-blank descriptive fields into one line.
func BuildDescription(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = Flatten(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return FallbackDescription
	}

	return strings.Join(out, "; ")
}

// FormatInputTime renders a legacy timestamp in the display layout. Values
// that do not parse are passed through untouched.
func FormatInputTime(raw string, loc *time.Location) string {
	raw = Flatten(raw)
	if raw == "" {
		return raw
	}
	if ts, err := time.ParseInLocation(inputTimeLayout, raw, loc); err == nil {
		return ts.Format(TimeLayout)
	}

	return raw
}

// Flatten trims a field and collapses line breaks to spaces so that no field
// can fake or break a marker line inside a composed message.
func Flatten(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")

	return strings.TrimSpace(s)
}
