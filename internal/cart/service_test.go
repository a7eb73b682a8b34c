package cart

import (
	"context"
	"testing"

	"github.com/Anshvats70/rozana-ondc-sub000/internal/session"
)

func codLine(id string, cod bool) Line {
	return Line{ID: id, Name: "item " + id, Price: "₹100", Quantity: 1, AvailableOnCOD: cod}
}

func TestAddLineCODConflict(t *testing.T) {
	svc := NewService(session.NewMemoryStore())
	ctx := context.Background()

	if _, conflict, err := svc.AddLine(ctx, "s1", codLine("p1", true)); err != nil || conflict != nil {
		t.Fatalf("first add: conflict=%v err=%v", conflict, err)
	}

	lines, conflict, err := svc.AddLine(ctx, "s1", codLine("p2", false))
	if err != nil {
		t.Fatal(err)
	}
	if conflict == nil {
		t.Fatal("expected COD conflict on mixed add")
	}
	if conflict.Reason == "" {
		t.Fatal("conflict must carry a human-readable reason")
	}

	// cart unchanged: still only p1
	if len(lines) != 1 || lines[0].ID != "p1" {
		t.Fatalf("cart mutated on conflict: %+v", lines)
	}
	persisted, _ := svc.Lines(ctx, "s1")
	if len(persisted) != 1 || persisted[0].ID != "p1" {
		t.Fatalf("persisted cart mutated on conflict: %+v", persisted)
	}
}

func TestCartNeverMixesCOD(t *testing.T) {
	svc := NewService(session.NewMemoryStore())
	ctx := context.Background()

	adds := []Line{
		codLine("a", true), codLine("b", false), codLine("a", true),
		codLine("c", true), codLine("d", false), codLine("b", false),
	}
	for _, l := range adds {
		_, _, err := svc.AddLine(ctx, "s1", l)
		if err != nil {
			t.Fatal(err)
		}
	}

	lines, _ := svc.Lines(ctx, "s1")
	if len(lines) == 0 {
		t.Fatal("expected some lines")
	}
	want := lines[0].AvailableOnCOD
	for _, l := range lines {
		if l.AvailableOnCOD != want {
			t.Fatalf("mixed COD values in cart: %+v", lines)
		}
	}
}

func TestIncrementOnRepeatAdd(t *testing.T) {
	svc := NewService(session.NewMemoryStore())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, conflict, err := svc.AddLine(ctx, "s1", codLine("p1", true)); err != nil || conflict != nil {
			t.Fatalf("add %d: conflict=%v err=%v", i, conflict, err)
		}
	}

	lines, _ := svc.Lines(ctx, "s1")
	if len(lines) != 1 {
		t.Fatalf("expected single merged line, got %d", len(lines))
	}
	if lines[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", lines[0].Quantity)
	}
}

func TestClearAndAddResolvesConflict(t *testing.T) {
	svc := NewService(session.NewMemoryStore())
	ctx := context.Background()

	_, _, _ = svc.AddLine(ctx, "s1", codLine("p1", true))
	lines, err := svc.ClearAndAdd(ctx, "s1", codLine("p2", false))
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0].ID != "p2" || lines[0].Quantity != 1 {
		t.Fatalf("clear-and-add result wrong: %+v", lines)
	}
}

func TestRemoveAndClear(t *testing.T) {
	svc := NewService(session.NewMemoryStore())
	ctx := context.Background()

	_, _, _ = svc.AddLine(ctx, "s1", codLine("p1", true))
	_, _, _ = svc.AddLine(ctx, "s1", codLine("p2", true))

	lines, err := svc.RemoveLine(ctx, "s1", "p1")
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0].ID != "p2" {
		t.Fatalf("remove left wrong cart: %+v", lines)
	}

	if _, err := svc.RemoveLine(ctx, "s1", "ghost"); err != ErrLineNotFound {
		t.Fatalf("expected ErrLineNotFound, got %v", err)
	}

	if err := svc.Clear(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	lines, _ = svc.Lines(ctx, "s1")
	if len(lines) != 0 {
		t.Fatalf("expected empty cart after clear, got %+v", lines)
	}
}
