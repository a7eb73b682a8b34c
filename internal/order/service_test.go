package order

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/Anshvats70/rozana-ondc-sub000/internal/config"
	"github.com/Anshvats70/rozana-ondc-sub000/internal/ondc"
	"github.com/Anshvats70/rozana-ondc-sub000/internal/session"
)

func newTestService(store session.Store, sellerURL, apiURL, proxyURL, altURL string) *Service {
	cfg := config.Config{
		BAPID: "bap.test", BAPURI: "https://bap.test", Domain: "nic2004:52110",
		CoreVersion: "1.2.0", City: "std:011", Country: "IND",
	}
	builder := ondc.NewBuilder(cfg, store)
	client := ondc.NewClient(sellerURL, 1, 0)
	return NewService(store, builder, client, apiURL, proxyURL, altURL)
}

func TestFetchOrderCachesAndFallsBack(t *testing.T) {
	var fail atomic.Bool
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"transaction_id":"txn-1","ondc_order_id":"ord-9","order_status":"Confirmed"}`))
	}))
	defer api.Close()

	store := session.NewMemoryStore()
	svc := newTestService(store, "http://unused.invalid", api.URL, "", "")
	ctx := context.Background()

	conf, err := svc.FetchOrder(ctx, "s1", "txn-1")
	if err != nil {
		t.Fatal(err)
	}
	if conf.FromCache {
		t.Fatal("live fetch must not be marked from_cache")
	}

	// network gone: the cached copy serves, flagged
	fail.Store(true)
	conf, err = svc.FetchOrder(ctx, "s1", "txn-1")
	if err != nil {
		t.Fatalf("cache fallback should not error: %v", err)
	}
	if !conf.FromCache || conf.OndcOrderID != "ord-9" {
		t.Fatalf("expected cached document, got %+v", conf)
	}
}

func TestFetchOrderNoCacheIsExplicitError(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer api.Close()

	svc := newTestService(session.NewMemoryStore(), "http://unused.invalid", api.URL, "", "")

	if _, err := svc.FetchOrder(context.Background(), "s1", "txn-1"); err == nil {
		t.Fatal("no network and no cache must yield an error, never fabricated data")
	}
}

func TestOrdersListLadder(t *testing.T) {
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer proxy.Close()
	direct := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"orders":[{"transaction_id":"t1"}]}`))
	}))
	defer direct.Close()

	svc := newTestService(session.NewMemoryStore(), "http://unused.invalid", direct.URL, proxy.URL, "")

	list, layer, err := svc.FetchOrdersList(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if layer != "direct" {
		t.Fatalf("expected the direct layer to win after proxy failure, got %q", layer)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 order, got %d", len(list))
	}
}

func TestOrdersListStaticLastResort(t *testing.T) {
	svc := newTestService(session.NewMemoryStore(), "http://unused.invalid", "http://also-unused.invalid", "", "")

	list, layer, err := svc.FetchOrdersList(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if layer != "static" {
		t.Fatalf("expected static fallback, got %q", layer)
	}
	if len(list) == 0 {
		t.Fatal("static fallback must render something")
	}
}

func TestCancelOptimisticOverwrite(t *testing.T) {
	seller := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":{"ack":{"status":"ACK"}}}`))
	}))
	defer seller.Close()

	store := session.NewMemoryStore()
	svc := newTestService(store, seller.URL, "http://unused.invalid", "", "")
	ctx := context.Background()

	if _, err := svc.builder.MintTransaction(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	seed := Confirmation{TransactionID: "txn-1", OndcOrderID: "ord-9", OrderStatus: "Order-confirmed"}
	if err := session.SetJSON(ctx, store, "s1", session.KeyOrderConfirmation, seed); err != nil {
		t.Fatal(err)
	}

	conf, err := svc.Cancel(ctx, "s1", "001", true)
	if err != nil {
		t.Fatal(err)
	}
	if conf.OrderStatus != "Cancelled" {
		t.Fatalf("expected immediate Cancelled status, got %q", conf.OrderStatus)
	}

	// the overwrite is persisted without waiting for a status call
	var cached Confirmation
	if ok, _ := session.GetJSON(ctx, store, "s1", session.KeyOrderConfirmation, &cached); !ok {
		t.Fatal("expected cached confirmation")
	}
	if cached.OrderStatus != "Cancelled" {
		t.Fatalf("persisted status %q, want Cancelled", cached.OrderStatus)
	}
}

func TestCancelRequiresConfirmation(t *testing.T) {
	svc := newTestService(session.NewMemoryStore(), "http://unused.invalid", "http://unused.invalid", "", "")
	if _, err := svc.Cancel(context.Background(), "s1", "001", false); err != ErrNotConfirmed {
		t.Fatalf("expected ErrNotConfirmed, got %v", err)
	}
}

func TestStatusSoftFailureStillRefreshes(t *testing.T) {
	seller := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer seller.Close()
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"transaction_id":"TXN","order_status":"Processing"}`))
	}))
	defer api.Close()

	store := session.NewMemoryStore()
	svc := newTestService(store, seller.URL, api.URL, "", "")
	ctx := context.Background()

	txn, err := svc.builder.MintTransaction(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	_ = txn

	res, err := svc.Status(ctx, "s1")
	if err != nil {
		t.Fatalf("soft action must not error: %v", err)
	}
	if res.OndcStatus != "failed" {
		t.Fatalf("expected ondc_status failed, got %q", res.OndcStatus)
	}
	if res.Order == nil || res.Order.OrderStatus != "Processing" {
		t.Fatalf("document refresh should still happen, got %+v", res.Order)
	}
}
