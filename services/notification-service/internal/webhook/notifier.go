// Package webhook pushes interview updates to an external HTTP endpoint,
// typically a team chat integration, alongside the email notifications.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
)

type Notifier interface {
	Notify(ctx context.Context, n Notice) error
	ProviderID() string
}

// Notice is the message posted for every processed booking event.
type Notice struct {
	BookingID string `json:"booking_id"`
	Event     string `json:"event"`
	Subject   string `json:"subject"`
	Date      string `json:"date"`
	From      string `json:"from"`
	To        string `json:"to"`
}

type HTTPNotifier struct {
	url   string
	token string
	http  *http.Client
}

func NewHTTPNotifier(url string, token string) *HTTPNotifier {
	return &HTTPNotifier{
		url:   strings.TrimSpace(url),
		token: strings.TrimSpace(token),
		http: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (s *HTTPNotifier) ProviderID() string {
	return "webhook"
}

func (s *HTTPNotifier) Notify(ctx context.Context, n Notice) error {
	if s.url == "" {
		return errors.New("webhook url not configured")
	}
	raw, err := json.Marshal(n)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.New("webhook returned non-2xx")
	}
	return nil
}

type NoopNotifier struct{}

func NewNoopNotifier() *NoopNotifier {
	return &NoopNotifier{}
}

func (s *NoopNotifier) ProviderID() string {
	return "noop"
}

func (s *NoopNotifier) Notify(_ context.Context, _ Notice) error {
	return nil
}
