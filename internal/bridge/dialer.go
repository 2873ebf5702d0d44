// Package bridge holds the hooks toward the PSTN provider: the
// dial-out client and the callback webhook. The provider itself is an
// external collaborator; only the signaling events it produces matter
// here.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/huddleio/huddle/internal/config"
	"github.com/huddleio/huddle/internal/metrics"
)

var (
	ErrNotConfigured = errors.New("pstn provider not configured")
	ErrDialRejected  = errors.New("pstn provider rejected dial")
)

type Dialer struct {
	url         string
	token       string
	from        string
	callbackURL string
	client      *http.Client
}

func NewDialer(cfg config.ProviderConfig) *Dialer {
	return &Dialer{
		url:         cfg.URL,
		token:       cfg.Token,
		from:        cfg.From,
		callbackURL: cfg.CallbackURL,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (d *Dialer) Configured() bool { return d.url != "" }

type dialRequest struct {
	To          string `json:"to"`
	From        string `json:"from,omitempty"`
	Room        string `json:"room,omitempty"`
	CallbackURL string `json:"callback_url,omitempty"`
}

type dialResponse struct {
	Status  string `json:"status"`
	CallID  string `json:"call_id"`
	Message string `json:"message"`
}

// Dial asks the provider to place an outgoing call and returns the
// accepted call id. Connection progress arrives later through the
// callback webhook, not through this response.
func (d *Dialer) Dial(ctx context.Context, to, room string) (string, error) {
	if !d.Configured() {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(dialRequest{
		To:          to,
		From:        d.from,
		Room:        room,
		CallbackURL: d.callbackURL,
	})
	if err != nil {
		return "", fmt.Errorf("marshal dial request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url+"/dial", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build dial request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if d.token != "" {
		req.Header.Set("Authorization", "Bearer "+d.token)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		metrics.DialRequests.WithLabelValues("failed").Inc()
		return "", fmt.Errorf("dial provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.DialRequests.WithLabelValues("failed").Inc()
		log.Warn().
			Str("module", "bridge").
			Int("status", resp.StatusCode).
			Str("to", to).
			Msg("dial rejected")
		return "", fmt.Errorf("%w: status %d", ErrDialRejected, resp.StatusCode)
	}

	var out dialResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		metrics.DialRequests.WithLabelValues("failed").Inc()
		return "", fmt.Errorf("decode dial response: %w", err)
	}
	metrics.DialRequests.WithLabelValues("accepted").Inc()
	log.Info().
		Str("module", "bridge").
		Str("call_id", out.CallID).
		Str("to", to).
		Str("room", room).
		Msg("dial accepted")
	return out.CallID, nil
}
