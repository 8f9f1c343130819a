package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"TrendSentinel/internal/model"
)

const (
	telegramBaseURL = "https://api.telegram.org"
	// Telegram rejects messages over 4096 characters.
	maxMessageLen = 4000
)

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	BaseURL    string
	BotToken   string
	ChatID     string
	Currency   string
	MaxRetries int
	RetryBase  time.Duration
	Now        func() time.Time
	Client     *http.Client
	Log        *zap.Logger

	// PollBackoff is the pause after a failed getUpdates round trip.
	PollBackoff time.Duration
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL, currency string, log *zap.Logger) *TelegramNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TelegramNotifier{
		BaseURL:    telegramBaseURL,
		BotToken:   botToken,
		ChatID:     chatID,
		Currency:   currency,
		MaxRetries: 3,
		RetryBase:  time.Second,
		Now:        time.Now,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		Log:         log,
		PollBackoff: 5 * time.Second,
	}
}

func (t *TelegramNotifier) endpoint(method string) string {
	return t.BaseURL + "/bot" + t.BotToken + "/" + method
}

// Send sends an HTML message to the configured chat.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{
		"chat_id":    t.ChatID,
		"text":       text,
		"parse_mode": "HTML",
	})
	if err != nil {
		return errors.Wrap(err, "marshal payload")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint("sendMessage"), bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return errors.Wrap(err, "send message")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return errors.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		err := t.Send(ctx, text)
		if err == nil {
			return nil
		}
		lastErr = err
		if i == maxRetries {
			break
		}
		backoff := t.RetryBase * time.Duration(1<<uint(i))
		t.Log.Warn("telegram send failed, retrying",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries+1),
			zap.Duration("backoff", backoff),
			zap.Error(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return errors.Wrapf(lastErr, "all %d attempts exhausted", maxRetries+1)
}

// Notify sends the batch report, split across messages when it is too long.
func (t *TelegramNotifier) Notify(ctx context.Context, results []model.TickerResult) error {
	for _, msg := range splitMessages(reportBlocks(results, t.Currency, t.Now()), maxMessageLen) {
		if err := t.SendWithRetry(ctx, msg, t.MaxRetries); err != nil {
			return err
		}
	}
	t.Log.Info("telegram report sent", zap.Int("tickers", len(results)))
	return nil
}
