package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Anshvats70/rozana-ondc-sub000/internal/cart"
	"github.com/Anshvats70/rozana-ondc-sub000/internal/config"
	"github.com/Anshvats70/rozana-ondc-sub000/internal/ondc"
	"github.com/Anshvats70/rozana-ondc-sub000/internal/session"
)

// capturingSeller records every envelope the service posts.
type capturingSeller struct {
	mu     sync.Mutex
	bodies map[string][]map[string]any
	srv    *httptest.Server
}

func newCapturingSeller() *capturingSeller {
	cs := &capturingSeller{bodies: map[string][]map[string]any{}}
	cs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		action := strings.TrimPrefix(r.URL.Path, "/")
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)
		cs.mu.Lock()
		cs.bodies[action] = append(cs.bodies[action], body)
		cs.mu.Unlock()
		w.Write([]byte(`{"message":{"ack":{"status":"ACK"}}}`))
	}))
	return cs
}

func (cs *capturingSeller) calls(action string) []map[string]any {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.bodies[action]
}

func contextField(body map[string]any, field string) string {
	c, _ := body["context"].(map[string]any)
	v, _ := c[field].(string)
	return v
}

func newTestService(store session.Store, sellerURL string) *Service {
	cfg := config.Config{
		BAPID: "bap.test", BAPURI: "https://bap.test", Domain: "nic2004:52110",
		CoreVersion: "1.2.0", City: "std:011", Country: "IND",
	}
	builder := ondc.NewBuilder(cfg, store)
	client := ondc.NewClient(sellerURL, 1, 0)
	return NewService(store, builder, client, cart.NewService(store))
}

func validDelivery() DeliveryInfo {
	return DeliveryInfo{
		Name: "Asha", Phone: "9999999999", Email: "asha@example.in",
		Street: "MG Road", City: "New Delhi", State: "Delhi", AreaCode: "110011",
	}
}

func TestSelectIdempotentPerPair(t *testing.T) {
	seller := newCapturingSeller()
	defer seller.srv.Close()

	store := session.NewMemoryStore()
	svc := newTestService(store, seller.srv.URL)
	ctx := context.Background()
	if _, err := svc.builder.MintTransaction(ctx, "s1"); err != nil {
		t.Fatal(err)
	}

	res, err := svc.Select(ctx, "s1", "p1", "prov1", 1)
	if err != nil || res.AlreadySelected {
		t.Fatalf("first select: res=%+v err=%v", res, err)
	}

	res, err = svc.Select(ctx, "s1", "p1", "prov1", 1)
	if err != nil {
		t.Fatal(err)
	}
	if !res.AlreadySelected {
		t.Fatal("second select of the same pair should be a local no-op")
	}
	if got := len(seller.calls("select")); got != 1 {
		t.Fatalf("expected exactly 1 network select, got %d", got)
	}

	// a different pair still goes out
	if _, err := svc.Select(ctx, "s1", "p2", "prov1", 1); err != nil {
		t.Fatal(err)
	}
	if got := len(seller.calls("select")); got != 2 {
		t.Fatalf("expected 2 network selects, got %d", got)
	}
}

func TestInitBeforeSelectRejected(t *testing.T) {
	seller := newCapturingSeller()
	defer seller.srv.Close()

	store := session.NewMemoryStore()
	svc := newTestService(store, seller.srv.URL)
	ctx := context.Background()
	if _, err := svc.builder.MintTransaction(ctx, "s1"); err != nil {
		t.Fatal(err)
	}

	if err := svc.Init(ctx, "s1", validDelivery()); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("expected ErrOutOfOrder, got %v", err)
	}
	if len(seller.calls("init")) != 0 {
		t.Fatal("out-of-order init must not reach the network")
	}
}

func TestConfirmBeforeInitRejected(t *testing.T) {
	seller := newCapturingSeller()
	defer seller.srv.Close()

	store := session.NewMemoryStore()
	svc := newTestService(store, seller.srv.URL)
	ctx := context.Background()
	if _, err := svc.builder.MintTransaction(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Select(ctx, "s1", "p1", "prov1", 1); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Confirm(ctx, "s1", PaymentDetails{Mode: "cod"}); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("expected ErrOutOfOrder, got %v", err)
	}
}

func TestFullFlowSharesTransactionAndTimestamp(t *testing.T) {
	seller := newCapturingSeller()
	defer seller.srv.Close()

	store := session.NewMemoryStore()
	svc := newTestService(store, seller.srv.URL)
	ctx := context.Background()
	txn, err := svc.builder.MintTransaction(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := svc.cart.AddLine(ctx, "s1", cart.Line{ID: "p1", Name: "Atta", Quantity: 1, AvailableOnCOD: true, ProviderID: "prov1"}); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Select(ctx, "s1", "p1", "prov1", 1); err != nil {
		t.Fatal(err)
	}
	if err := svc.Init(ctx, "s1", validDelivery()); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Confirm(ctx, "s1", PaymentDetails{Mode: "cod"}); err != nil {
		t.Fatal(err)
	}

	sel := seller.calls("select")[0]
	ini := seller.calls("init")[0]
	con := seller.calls("confirm")[0]

	for _, body := range []map[string]any{sel, ini, con} {
		if got := contextField(body, "transaction_id"); got != txn {
			t.Fatalf("transaction id drifted: %s != %s", got, txn)
		}
	}

	// confirm reuses init's timestamp verbatim
	if contextField(con, "timestamp") != contextField(ini, "timestamp") {
		t.Fatalf("confirm timestamp %q != init timestamp %q",
			contextField(con, "timestamp"), contextField(ini, "timestamp"))
	}

	// message ids are fresh per call
	ids := map[string]bool{}
	for _, body := range []map[string]any{sel, ini, con} {
		id := contextField(body, "message_id")
		if ids[id] {
			t.Fatalf("message id %s reused", id)
		}
		ids[id] = true
	}
}

func TestConfirmClearsCart(t *testing.T) {
	seller := newCapturingSeller()
	defer seller.srv.Close()

	store := session.NewMemoryStore()
	svc := newTestService(store, seller.srv.URL)
	ctx := context.Background()
	if _, err := svc.builder.MintTransaction(ctx, "s1"); err != nil {
		t.Fatal(err)
	}

	_, _, _ = svc.cart.AddLine(ctx, "s1", cart.Line{ID: "p1", Name: "Atta", AvailableOnCOD: true, ProviderID: "prov1"})
	_, _ = svc.Select(ctx, "s1", "p1", "prov1", 1)
	if err := svc.Init(ctx, "s1", validDelivery()); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Confirm(ctx, "s1", PaymentDetails{Mode: "cod"}); err != nil {
		t.Fatal(err)
	}

	lines, _ := svc.cart.Lines(ctx, "s1")
	if len(lines) != 0 {
		t.Fatalf("cart should be empty after confirm, got %+v", lines)
	}

	// transaction id survives for the confirmation screen
	if _, err := svc.builder.TransactionID(ctx, "s1"); err != nil {
		t.Fatalf("transaction id must survive confirm: %v", err)
	}
}

func TestConfirmNeverSendsEmptyItems(t *testing.T) {
	seller := newCapturingSeller()
	defer seller.srv.Close()

	store := session.NewMemoryStore()
	svc := newTestService(store, seller.srv.URL)
	ctx := context.Background()
	if _, err := svc.builder.MintTransaction(ctx, "s1"); err != nil {
		t.Fatal(err)
	}

	// walk the steps with a cart that ends up empty
	_, _ = svc.Select(ctx, "s1", "p1", "prov1", 1)
	if err := svc.Init(ctx, "s1", validDelivery()); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Confirm(ctx, "s1", PaymentDetails{Mode: "cod"}); err != nil {
		t.Fatal(err)
	}

	con := seller.calls("confirm")[0]
	msg, _ := con["message"].(map[string]any)
	ord, _ := msg["order"].(map[string]any)
	items, _ := ord["items"].([]any)
	if len(items) == 0 {
		t.Fatal("confirm sent an empty items array; the default fallback line is required")
	}
}

func TestInitValidation(t *testing.T) {
	seller := newCapturingSeller()
	defer seller.srv.Close()

	store := session.NewMemoryStore()
	svc := newTestService(store, seller.srv.URL)
	ctx := context.Background()
	if _, err := svc.builder.MintTransaction(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	_, _ = svc.Select(ctx, "s1", "p1", "prov1", 1)

	bad := validDelivery()
	bad.AreaCode = "11001" // 5 digits
	if err := svc.Init(ctx, "s1", bad); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected validation error for short pincode, got %v", err)
	}
	if len(seller.calls("init")) != 0 {
		t.Fatal("validation failures must not reach the network")
	}
}
