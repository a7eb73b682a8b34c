package session

import (
	"context"
	"testing"
)

type line struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Price          string `json:"price"`
	Quantity       int    `json:"quantity"`
	AvailableOnCOD bool   `json:"available_on_cod"`
}

func TestJSONRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	in := []line{
		{ID: "p1", Name: "Atta 5kg", Price: "₹250", Quantity: 2, AvailableOnCOD: true},
		{ID: "p2", Name: "Rice 1kg", Price: "₹80", Quantity: 1, AvailableOnCOD: true},
	}
	if err := SetJSON(ctx, store, "s1", KeyCart, in); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out []line
	ok, err := GetJSON(ctx, store, "s1", KeyCart, &out)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d lines, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("line %d mismatch: %+v != %+v", i, out[i], in[i])
		}
	}
}

func TestGetJSONMissingKey(t *testing.T) {
	store := NewMemoryStore()

	var out []line
	ok, err := GetJSON(context.Background(), store, "s1", KeyCart, &out)
	if err != nil {
		t.Fatalf("missing key must not error, got %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for missing key")
	}
	if out != nil {
		t.Fatalf("dst should stay zero-valued, got %v", out)
	}
}

func TestGetJSONCorruptValue(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	// a half-written value must degrade to absence, never error
	if err := store.Set(ctx, "s1", KeyOrderConfirmation, `{"order_status": "Confir`); err != nil {
		t.Fatal(err)
	}

	var out map[string]any
	ok, err := GetJSON(ctx, store, "s1", KeyOrderConfirmation, &out)
	if err != nil {
		t.Fatalf("corrupt value must not error, got %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for corrupt value")
	}
}

func TestLastWriteWins(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.Set(ctx, "s1", KeyTransactionID, `"txn-old"`)
	_ = store.Set(ctx, "s1", KeyTransactionID, `"txn-new"`)

	var txn string
	if _, err := GetJSON(ctx, store, "s1", KeyTransactionID, &txn); err != nil {
		t.Fatal(err)
	}
	if txn != "txn-new" {
		t.Fatalf("expected last write to win, got %q", txn)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.Set(ctx, "s1", KeyToken, "a")
	_ = store.Set(ctx, "s2", KeyToken, "b")
	if err := store.Delete(ctx, "s1", KeyToken); err != nil {
		t.Fatal(err)
	}

	if _, ok, _ := store.Get(ctx, "s1", KeyToken); ok {
		t.Fatal("s1 token should be gone")
	}
	v, ok, _ := store.Get(ctx, "s2", KeyToken)
	if !ok || v != "b" {
		t.Fatalf("s2 token should survive, got %q ok=%v", v, ok)
	}
}
