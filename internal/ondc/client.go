package ondc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"
)

// ErrNACK marks an explicit rejection carried in a 2xx ack body. Like
// StatusError it is definite: the network answered and said no.
var ErrNACK = errors.New("request rejected (NACK)")

// StatusError is a definite rejection: the endpoint was reached and
// answered with a non-2xx status. Transport-level failures stay plain
// errors so callers can tell the two apart (the issue flow needs to).
type StatusError struct {
	Action string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ondc %s: unexpected status %d", e.Action, e.Code)
}

// Client posts action envelopes to the seller/network endpoints. One
// shared http.Client with an explicit timeout; the underlying transport
// is never trusted to time out on its own.
type Client struct {
	base    string
	httpc   *http.Client
	retries int
	backoff time.Duration

	sleep func(time.Duration) // test seam
}

func NewClient(base string, updateRetries int, updateBackoff time.Duration) *Client {
	return &Client{
		base:    base,
		httpc:   &http.Client{Timeout: 10 * time.Second},
		retries: updateRetries,
		backoff: updateBackoff,
		sleep:   time.Sleep,
	}
}

func (c *Client) post(ctx context.Context, action string, payload any) (*Ack, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/"+action, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ondc %s: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Action: action, Code: resp.StatusCode}
	}

	var ack Ack
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		// some mock endpoints answer 200 with an empty body; an
		// unparseable ack on a 2xx is not a failure
		log.Printf("ondc %s: unparseable ack body: %v", action, err)
		return &Ack{}, nil
	}
	if ack.NACK() {
		if ack.Error != nil && ack.Error.Message != "" {
			return nil, fmt.Errorf("ondc %s: %w: %s", action, ErrNACK, ack.Error.Message)
		}
		return nil, fmt.Errorf("ondc %s: %w", action, ErrNACK)
	}
	return &ack, nil
}

func (c *Client) Search(ctx context.Context, req SearchRequest) (*Ack, error) {
	return c.post(ctx, ActionSearch, req)
}

func (c *Client) Select(ctx context.Context, req SelectRequest) (*Ack, error) {
	return c.post(ctx, ActionSelect, req)
}

func (c *Client) Init(ctx context.Context, req InitRequest) (*Ack, error) {
	return c.post(ctx, ActionInit, req)
}

func (c *Client) Confirm(ctx context.Context, req ConfirmRequest) (*Ack, error) {
	return c.post(ctx, ActionConfirm, req)
}

func (c *Client) Status(ctx context.Context, req StatusRequest) (*Ack, error) {
	return c.post(ctx, ActionStatus, req)
}

func (c *Client) Track(ctx context.Context, req TrackRequest) (*Ack, error) {
	return c.post(ctx, ActionTrack, req)
}

func (c *Client) Cancel(ctx context.Context, req CancelRequest) (*Ack, error) {
	return c.post(ctx, ActionCancel, req)
}

// Update is the only retried action: the network mock behind it is
// flaky and the return flow treats its failure as non-fatal, so a few
// bounded attempts are worth it.
func (c *Client) Update(ctx context.Context, req UpdateRequest) (*Ack, error) {
	attempts := c.retries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			c.sleep(c.backoff)
		}
		ack, err := c.post(ctx, ActionUpdate, req)
		if err == nil {
			return ack, nil
		}
		lastErr = err
		log.Printf("ondc update attempt %d/%d failed: %v", i+1, attempts, err)
	}
	return nil, lastErr
}

func (c *Client) Issue(ctx context.Context, req IssueRequest) (*Ack, error) {
	return c.post(ctx, ActionIssue, req)
}
