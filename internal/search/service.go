package search

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/Anshvats70/rozana-ondc-sub000/internal/ondc"
	"github.com/Anshvats70/rozana-ondc-sub000/internal/session"
)

// Service drives the search leg of a transaction: one POST of the
// search intent, a short settle delay for the network to fan out, then
// bounded polling of the results endpoint.
type Service struct {
	store   session.Store
	builder *ondc.Builder
	client  *ondc.Client

	httpc      *http.Client
	resultsURL string // base; results live at {base}/search-results/{txn}

	settle  time.Duration
	retries int
	delay   time.Duration
	sleep   func(time.Duration) // test seam
}

func NewService(store session.Store, builder *ondc.Builder, client *ondc.Client, resultsURL string, settle time.Duration, retries int, delay time.Duration) *Service {
	return &Service{
		store:      store,
		builder:    builder,
		client:     client,
		httpc:      &http.Client{Timeout: 10 * time.Second},
		resultsURL: resultsURL,
		settle:     settle,
		retries:    retries,
		delay:      delay,
		sleep:      time.Sleep,
	}
}

// Search issues the ONDC search intent and polls for results. This is
// the only place a transaction id is ever minted; a session without one
// gets a fresh id here, and the select-dedup set and lifecycle step are
// reset alongside since they belong to the previous transaction.
func (s *Service) Search(ctx context.Context, sid, query string) (ResultSet, error) {
	txn, err := s.builder.TransactionID(ctx, sid)
	if err == ondc.ErrNoTransaction {
		txn, err = s.builder.MintTransaction(ctx, sid)
		if err == nil {
			_ = s.store.Delete(ctx, sid, session.KeySelectedItems)
			_ = s.store.Delete(ctx, sid, session.KeyLifecycleStep)
		}
	}
	if err != nil {
		return emptyResults(), err
	}

	envCtx, err := s.builder.Build(ctx, sid, ondc.ActionSearch)
	if err != nil {
		return emptyResults(), err
	}

	var req ondc.SearchRequest
	req.Context = envCtx
	req.Message.Intent.Item.Descriptor.Name = query
	req.Message.Intent.Fulfillment.Type = "Delivery"
	req.Message.Intent.Payment.FinderFeeType = "percent"
	req.Message.Intent.Payment.FinderFeeAmount = "3"

	// a failed search POST is user-facing; it aborts the whole flow
	if _, err := s.client.Search(ctx, req); err != nil {
		return emptyResults(), err
	}

	// give the network a moment before the first poll
	s.sleep(s.settle)

	return s.FetchResultsWithRetry(ctx, txn, s.retries, s.delay)
}

// FetchResultsWithRetry polls the results endpoint up to maxRetries
// times. Empty results mean "not ready yet"; so do transport errors.
// Exhausting the retries yields an explicit empty set, never an error —
// the caller renders an empty-results state instead of a failure.
func (s *Service) FetchResultsWithRetry(ctx context.Context, txn string, maxRetries int, delay time.Duration) (ResultSet, error) {
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			s.sleep(delay)
		}

		rs, err := s.fetchOnce(ctx, txn)
		if err != nil {
			log.Printf("search: results poll %d/%d for %s failed: %v", attempt+1, maxRetries, txn, err)
			continue
		}
		if len(rs.Items) > 0 {
			return rs, nil
		}
	}
	return emptyResults(), nil
}

func (s *Service) fetchOnce(ctx context.Context, txn string) (ResultSet, error) {
	url := fmt.Sprintf("%s/search-results/%s", s.resultsURL, txn)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return emptyResults(), err
	}

	resp, err := s.httpc.Do(req)
	if err != nil {
		return emptyResults(), err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return emptyResults(), fmt.Errorf("results endpoint returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return emptyResults(), err
	}
	return ParseResults(body), nil
}
