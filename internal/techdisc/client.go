// internal/techdisc/client.go
package techdisc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// DefaultEndpoint is the production TechDisc API endpoint.
const DefaultEndpoint = "https://play.api.techdisc.com/loadLatestThrow"

// DefaultTimeout bounds a single fetch, matching the server's long-poll window.
const DefaultTimeout = 60 * time.Second

// Config is the minimal transport config the client needs.
type Config struct {
	Endpoint string
	Token    string // opaque bearer credential, immutable for the client's lifetime
	Timeout  time.Duration
}

// Client issues single authenticated requests against the TechDisc API.
// No retries here: retry policy belongs to the coordinator.
type Client struct {
	endpoint string
	token    string
	timeout  time.Duration
	http     *http.Client
}

// NewClient creates a client with immutable config.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("techdisc: endpoint required")
	}
	if cfg.Token == "" {
		return nil, errors.New("techdisc: token required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint: cfg.Endpoint,
		token:    cfg.Token,
		timeout:  timeout,
		http:     &http.Client{},
	}, nil
}

// FetchLatest performs exactly one fetch. A cursor < 0 means no cursor: the
// server returns the latest throw unconditionally. With a cursor set, the
// request carries the minimum acceptable throw time in milliseconds.
func (c *Client) FetchLatest(ctx context.Context, cursor int64) (*Throw, error) {
	body := []byte("{}")
	if cursor >= 0 {
		body, _ = json.Marshal(map[string]int64{"lastThrowTimeMillis": cursor})
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &FetchError{Kind: ErrNetwork, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: classifyTransport(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{Kind: ErrBadStatus, Status: resp.StatusCode}
	}

	var t Throw
	if err := json.NewDecoder(resp.Body).Decode(&t); err != nil {
		return nil, &FetchError{Kind: ErrDecode, Err: err}
	}
	return &t, nil
}

// classifyTransport separates the bounded-wait case from everything else on
// the wire (refused, DNS, reset).
func classifyTransport(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ErrTimeout
	}
	return ErrNetwork
}

// ErrInvalidCredential means the API rejected the supplied token.
var ErrInvalidCredential = errors.New("techdisc: credential rejected")

// ValidateCredential performs the one-time setup check: a cursor-less fetch
// that must come back 200 with an id field. Transport failures pass through
// so the caller can tell "cannot connect" from "bad token".
func (c *Client) ValidateCredential(ctx context.Context) error {
	t, err := c.FetchLatest(ctx, -1)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) && fe.Kind == ErrBadStatus {
			return fmt.Errorf("%w (status %d)", ErrInvalidCredential, fe.Status)
		}
		return err
	}
	if t.ID == "" {
		return fmt.Errorf("%w (no id in response)", ErrInvalidCredential)
	}
	return nil
}
