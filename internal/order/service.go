package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/Anshvats70/rozana-ondc-sub000/internal/ondc"
	"github.com/Anshvats70/rozana-ondc-sub000/internal/session"
)

var (
	ErrNotFound     = errors.New("order not found")
	ErrNotConfirmed = errors.New("cancellation not confirmed")
)

// Service is the order query client plus the post-order ONDC actions
// (status, track, cancel) that hang off the tracking screen.
type Service struct {
	store   session.Store
	builder *ondc.Builder
	client  *ondc.Client

	httpc  *http.Client
	apiURL string

	transports []Transport
}

func NewService(store session.Store, builder *ondc.Builder, client *ondc.Client, apiURL, proxyURL, altURL string) *Service {
	s := &Service{
		store:   store,
		builder: builder,
		client:  client,
		httpc:   &http.Client{Timeout: 10 * time.Second},
		apiURL:  apiURL,
	}
	s.transports = buildTransports(s.httpc, apiURL, proxyURL, altURL)
	return s
}

// FetchOrder loads the order document by transaction id. A successful
// fetch is persisted verbatim as the session cache; a failed fetch
// falls back to that cache (marked from_cache). With neither, the
// caller gets an error and renders an explicit empty state — order
// data is never fabricated.
func (s *Service) FetchOrder(ctx context.Context, sid, txn string) (Confirmation, error) {
	conf, err := s.fetchOrderDoc(ctx, txn)
	if err == nil {
		if perr := session.SetJSON(ctx, s.store, sid, session.KeyOrderConfirmation, conf); perr != nil {
			log.Printf("order: caching confirmation failed: %v", perr)
		}
		return conf, nil
	}

	log.Printf("order: fetch for %s failed (%v), trying session cache", txn, err)
	var cached Confirmation
	ok, cerr := session.GetJSON(ctx, s.store, sid, session.KeyOrderConfirmation, &cached)
	if cerr == nil && ok && cached.TransactionID == txn {
		cached.FromCache = true
		return cached, nil
	}
	return Confirmation{}, err
}

// FetchCartConfirmation loads the same document earlier in the flow
// (after select), caching it under its own key for init/confirm to
// build items from.
func (s *Service) FetchCartConfirmation(ctx context.Context, sid, txn string) (Confirmation, error) {
	conf, err := s.fetchOrderDoc(ctx, txn)
	if err == nil {
		if perr := session.SetJSON(ctx, s.store, sid, session.KeyCartConfirmation, conf); perr != nil {
			log.Printf("order: caching cart confirmation failed: %v", perr)
		}
		return conf, nil
	}

	var cached Confirmation
	ok, cerr := session.GetJSON(ctx, s.store, sid, session.KeyCartConfirmation, &cached)
	if cerr == nil && ok && cached.TransactionID == txn {
		cached.FromCache = true
		return cached, nil
	}
	return Confirmation{}, err
}

func (s *Service) fetchOrderDoc(ctx context.Context, txn string) (Confirmation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/order/%s", s.apiURL, txn), nil)
	if err != nil {
		return Confirmation{}, err
	}
	resp, err := s.httpc.Do(req)
	if err != nil {
		return Confirmation{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Confirmation{}, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return Confirmation{}, fmt.Errorf("order api returned %d", resp.StatusCode)
	}

	var conf Confirmation
	if err := json.NewDecoder(resp.Body).Decode(&conf); err != nil {
		return Confirmation{}, err
	}
	return conf, nil
}

// FetchOrdersList walks the transport ladder and returns the first
// parseable success plus the name of the layer that produced it. The
// ladder exists because the upstream API's CORS support was unreliable
// from some origins; see Transport.
func (s *Service) FetchOrdersList(ctx context.Context) ([]Confirmation, string, error) {
	var lastErr error
	for _, tr := range s.transports {
		list, err := tr.Fetch(ctx)
		if err != nil {
			log.Printf("order: list transport %q failed: %v", tr.Name, err)
			lastErr = err
			continue
		}
		return list, tr.Name, nil
	}
	if lastErr == nil {
		lastErr = errors.New("no orders list transport configured")
	}
	return nil, "", lastErr
}

// StatusResult reports the soft outcome of a status/track action: the
// ONDC call may fail without blocking the follow-up document refresh.
type StatusResult struct {
	OndcStatus string        `json:"ondc_status"` // "ok" or "failed"
	Order      *Confirmation `json:"order,omitempty"`
	Message    string        `json:"message,omitempty"`
}

// Status fires an ONDC status action and then refreshes the order
// document regardless of how the action went.
func (s *Service) Status(ctx context.Context, sid string) (StatusResult, error) {
	return s.softAction(ctx, sid, ondc.ActionStatus)
}

// Track behaves like Status with the track action.
func (s *Service) Track(ctx context.Context, sid string) (StatusResult, error) {
	return s.softAction(ctx, sid, ondc.ActionTrack)
}

func (s *Service) softAction(ctx context.Context, sid, action string) (StatusResult, error) {
	txn, err := s.builder.TransactionID(ctx, sid)
	if err != nil {
		return StatusResult{}, err
	}

	res := StatusResult{OndcStatus: "ok"}

	envCtx, err := s.builder.Build(ctx, sid, action)
	if err != nil {
		return StatusResult{}, err
	}
	orderID := s.cachedOrderID(ctx, sid)

	switch action {
	case ondc.ActionStatus:
		var req ondc.StatusRequest
		req.Context = envCtx
		req.Message.OrderID = orderID
		_, err = s.client.Status(ctx, req)
	case ondc.ActionTrack:
		var req ondc.TrackRequest
		req.Context = envCtx
		req.Message.OrderID = orderID
		_, err = s.client.Track(ctx, req)
	}
	if err != nil {
		// soft failure: report it, keep going
		res.OndcStatus = "failed"
		res.Message = err.Error()
		log.Printf("order: %s action failed: %v", action, err)
	}

	if conf, ferr := s.FetchOrder(ctx, sid, txn); ferr == nil {
		res.Order = &conf
	}
	return res, nil
}

// Cancel is a one-shot, user-confirmed action. On success the cached
// order status flips to "Cancelled" immediately instead of waiting for
// the network to report it; the next FetchOrder replaces the cache with
// server truth, which reconciles any divergence.
func (s *Service) Cancel(ctx context.Context, sid, reasonID string, confirmed bool) (Confirmation, error) {
	if !confirmed {
		return Confirmation{}, ErrNotConfirmed
	}

	envCtx, err := s.builder.Build(ctx, sid, ondc.ActionCancel)
	if err != nil {
		return Confirmation{}, err
	}

	var req ondc.CancelRequest
	req.Context = envCtx
	req.Message.OrderID = s.cachedOrderID(ctx, sid)
	req.Message.CancellationReasonID = reasonID
	if req.Message.CancellationReasonID == "" {
		req.Message.CancellationReasonID = "001"
	}

	if _, err := s.client.Cancel(ctx, req); err != nil {
		return Confirmation{}, err
	}

	var cached Confirmation
	ok, _ := session.GetJSON(ctx, s.store, sid, session.KeyOrderConfirmation, &cached)
	if !ok {
		cached = Confirmation{TransactionID: envCtx.TransactionID}
	}
	cached.OrderStatus = "Cancelled"
	if err := session.SetJSON(ctx, s.store, sid, session.KeyOrderConfirmation, cached); err != nil {
		log.Printf("order: persisting optimistic cancel failed: %v", err)
	}
	return cached, nil
}

// MarkIssueRaised PATCHes the issue_raised flag on the order API. The
// issue flow tolerates this call failing; local state is still updated
// so the UI stays consistent.
func (s *Service) MarkIssueRaised(ctx context.Context, sid string) error {
	var cached Confirmation
	ok, _ := session.GetJSON(ctx, s.store, sid, session.KeyOrderConfirmation, &cached)
	if ok {
		cached.IssueRaised = true
		_ = session.SetJSON(ctx, s.store, sid, session.KeyOrderConfirmation, cached)
	}

	orderID := cached.OndcOrderID
	if orderID == "" {
		return errors.New("no order to flag")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, fmt.Sprintf("%s/orders/%s/issue-raised", s.apiURL, orderID), nil)
	if err != nil {
		return err
	}
	resp, err := s.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("issue-raised flag returned %d", resp.StatusCode)
	}
	return nil
}

func (s *Service) cachedOrderID(ctx context.Context, sid string) string {
	var cached Confirmation
	if ok, _ := session.GetJSON(ctx, s.store, sid, session.KeyOrderConfirmation, &cached); ok {
		return cached.OndcOrderID
	}
	return ""
}
