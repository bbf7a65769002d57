package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vitalya-dev/tickethub/internal/config"
)

// Publisher delivers one composed message to the external channel and
// reports success or failure for that message.
type Publisher interface {
	Send(ctx context.Context, text string) error
}

// ErrChannelUnavailable is returned when the breaker is open and no attempt
// was made.
var ErrChannelUnavailable = errors.New("notify: channel unavailable")

// TelegramPublisher sends messages to a fixed chat through the Bot API.
type TelegramPublisher struct {
	apiURL   string
	token    string
	chatID   string
	attempts int
	client   *http.Client
	br       *Breaker
}

func NewTelegramPublisher(cfg config.TelegramConfig) *TelegramPublisher {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = "https://api.telegram.org"
	}
	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 2
	}

	return &TelegramPublisher{
		apiURL:   apiURL,
		token:    cfg.Token,
		chatID:   cfg.ChatID,
		attempts: attempts,
		client:   &http.Client{Timeout: timeout},
		br: NewBreaker(
			cfg.Breaker.FailThreshold,
			time.Duration(cfg.Breaker.OpenForMs)*time.Millisecond,
		),
	}
}

// Send posts the message, retrying up to the configured attempt count.
// Returns the last error when every attempt fails.
func (p *TelegramPublisher) Send(ctx context.Context, text string) error {
	var last error
	for i := 0; i < p.attempts; i++ {
		if !p.br.TryAcquire() {
			last = ErrChannelUnavailable
			continue
		}
		if err := p.post(ctx, text); err != nil {
			p.br.OnFailure()
			last = err
			continue
		}
		p.br.OnSuccess()
		return nil
	}

	return last
}

type sendMessageReq struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

func (p *TelegramPublisher) post(ctx context.Context, text string) error {
	body, err := json.Marshal(sendMessageReq{ChatID: p.chatID, Text: text})
	if err != nil {
		return fmt.Errorf("marshal sendMessage: %w", err)
	}

	url := p.apiURL + "/bot" + p.token + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4<<10))

	if res.StatusCode/100 != 2 {
		return fmt.Errorf("telegram sendMessage status=%d", res.StatusCode)
	}

	return nil
}
