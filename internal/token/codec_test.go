package token

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/vitalya-dev/tickethub/internal/model"
)

func TestTicketRoundTrip(t *testing.T) {
	tickets := []model.Ticket{
		{
			Phone:       "+79998887766",
			Description: "no dial tone",
			SubmittedBy: "Ivan Petrov",
			Timestamp:   "2026-08-12 14:03:00 MSK",
		},
		{
			Phone:       "N/A",
			Description: "No description provided.",
			SubmittedBy: "employee #7",
			Timestamp:   "",
		},
		{
			Phone:       "+79990001122",
			Description: "принтер не печатает; HP LaserJet",
			SubmittedBy: "@vasya",
			Timestamp:   "2026-01-01 00:00:00 MSK",
		},
	}

	for _, in := range tickets {
		tok, err := EncodeTicket(in)
		if err != nil {
			t.Fatalf("EncodeTicket(%+v): %v", in, err)
		}
		if strings.ContainsAny(tok, "\n\r") {
			t.Fatalf("token contains line break: %q", tok)
		}

		out, err := DecodeTicket("some text\n" + TicketMarker + " " + tok + "\nmore text")
		if err != nil {
			t.Fatalf("DecodeTicket: %v", err)
		}
		if out != in {
			t.Fatalf("round trip mismatch:\n in=%+v\nout=%+v", in, out)
		}
	}
}

func TestEncodeTicketDeterministic(t *testing.T) {
	in := model.Ticket{Phone: "+79998887766", Description: "x", SubmittedBy: "y", Timestamp: "z"}

	a, err := EncodeTicket(in)
	if err != nil {
		t.Fatal(err)
	}
	b, err := EncodeTicket(in)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatalf("encoding not deterministic: %q vs %q", a, b)
	}
}

func TestDecodeTicketNotFound(t *testing.T) {
	messages := []string{
		"",
		"just some text",
		"mentions #ticket_data mid-line but not line-anchored prefixing a token",
		TicketMarker, // marker with no payload at all
	}
	for _, msg := range messages {
		if _, err := DecodeTicket(msg); !errors.Is(err, ErrNotFound) {
			t.Errorf("DecodeTicket(%q) err = %v, want ErrNotFound", msg, err)
		}
	}
}

func TestDecodeTicketMalformed(t *testing.T) {
	valid, err := EncodeTicket(model.Ticket{Phone: "p", Description: "d", SubmittedBy: "s", Timestamp: "t"})
	if err != nil {
		t.Fatal(err)
	}

	extra := base64.StdEncoding.EncodeToString([]byte(`{"p":"1","d":"2","s":"3","t":"4","x":"5"}`))
	missing := base64.StdEncoding.EncodeToString([]byte(`{"p":"1","d":"2"}`))
	notObject := base64.StdEncoding.EncodeToString([]byte(`"hello"`))

	cases := map[string]string{
		"bad base64":     TicketMarker + " %%%not-base64%%%",
		"truncated":      TicketMarker + " " + valid[:len(valid)/2],
		"empty payload":  TicketMarker + " ",
		"unknown field":  TicketMarker + " " + extra,
		"missing fields": TicketMarker + " " + missing,
		"not an object":  TicketMarker + " " + notObject,
	}
	for name, msg := range cases {
		if _, err := DecodeTicket(msg); !errors.Is(err, ErrMalformed) {
			t.Errorf("%s: err = %v, want ErrMalformed", name, err)
		}
	}
}

func TestMarkerDisambiguation(t *testing.T) {
	tok, err := EncodeTicket(model.Ticket{Phone: "p", Description: "d", SubmittedBy: "s", Timestamp: "t"})
	if err != nil {
		t.Fatal(err)
	}
	ticketMsg := "header\n" + TicketMarker + " " + tok

	if _, err := DecodeTicket(ticketMsg); err != nil {
		t.Fatalf("ticket codec on ticket message: %v", err)
	}
	if _, err := DecodeReceipt(ticketMsg); !errors.Is(err, ErrNotFound) {
		t.Fatalf("receipt codec on ticket message: err = %v, want ErrNotFound", err)
	}

	rtok, err := EncodeReceipt(model.Receipt{Operator: "op", Total: "120.00", Timestamp: "now"})
	if err != nil {
		t.Fatal(err)
	}
	receiptMsg := "header\n" + ReceiptMarker + " " + rtok

	if _, err := DecodeReceipt(receiptMsg); err != nil {
		t.Fatalf("receipt codec on receipt message: %v", err)
	}
	if _, err := DecodeTicket(receiptMsg); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ticket codec on receipt message: err = %v, want ErrNotFound", err)
	}
}

func TestReceiptRoundTrip(t *testing.T) {
	in := model.Receipt{Operator: "kassa-1", Total: "1499.50", Timestamp: "2026-08-12 10:00:00 MSK"}

	tok, err := EncodeReceipt(in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := DecodeReceipt(ReceiptMarker + " " + tok)
	if err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Fatalf("round trip mismatch:\n in=%+v\nout=%+v", in, out)
	}
}
