package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vitalya-dev/tickethub/internal/config"
)

func telegramConfig(apiURL string) config.TelegramConfig {
	return config.TelegramConfig{
		APIURL:      apiURL,
		Token:       "123:abc",
		ChatID:      "-100200300",
		TimeoutMs:   2000,
		MaxAttempts: 2,
	}
}

func TestTelegramSend(t *testing.T) {
	var gotPath string
	var gotReq sendMessageReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	p := NewTelegramPublisher(telegramConfig(srv.URL))
	if err := p.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if gotPath != "/bot123:abc/sendMessage" {
		t.Errorf("path = %q", gotPath)
	}
	if gotReq.ChatID != "-100200300" || gotReq.Text != "hello" {
		t.Errorf("request = %+v", gotReq)
	}
}

func TestTelegramSendRetriesThenSucceeds(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	p := NewTelegramPublisher(telegramConfig(srv.URL))
	if err := p.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if calls != 2 {
		t.Fatalf("server saw %d calls, want 2", calls)
	}
}

func TestTelegramSendReportsFailure(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewTelegramPublisher(telegramConfig(srv.URL))
	err := p.Send(context.Background(), "hello")
	if err == nil {
		t.Fatal("Send returned nil for a failing channel")
	}
	if !strings.Contains(err.Error(), "status=429") {
		t.Errorf("err = %v", err)
	}
	if calls != 2 {
		t.Fatalf("server saw %d calls, want 2", calls)
	}
}

func TestTelegramSendOpenBreakerSkipsAttempts(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := telegramConfig(srv.URL)
	cfg.Breaker.FailThreshold = 2
	cfg.Breaker.OpenForMs = 60_000
	p := NewTelegramPublisher(cfg)

	// first Send burns through the threshold and trips the breaker
	if err := p.Send(context.Background(), "a"); err == nil {
		t.Fatal("expected failure")
	}
	if calls != 2 {
		t.Fatalf("server saw %d calls, want 2", calls)
	}

	err := p.Send(context.Background(), "b")
	if err != ErrChannelUnavailable {
		t.Fatalf("err = %v, want ErrChannelUnavailable", err)
	}
	if calls != 2 {
		t.Fatalf("open breaker still let requests through: %d calls", calls)
	}
}
