package cart

import (
	"context"

	"github.com/Anshvats70/rozana-ondc-sub000/internal/session"
)

// Service owns cart mutations. Every mutation loads the full line list
// from the session store first and writes the whole list back after, so
// concurrent pages always see the latest persisted cart rather than a
// stale in-memory snapshot.
type Service struct {
	store session.Store
}

func NewService(store session.Store) *Service {
	return &Service{store: store}
}

func (s *Service) Lines(ctx context.Context, sid string) ([]Line, error) {
	var lines []Line
	if _, err := session.GetJSON(ctx, s.store, sid, session.KeyCart, &lines); err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []Line{}
	}
	return lines, nil
}

func (s *Service) persist(ctx context.Context, sid string, lines []Line) error {
	return session.SetJSON(ctx, s.store, sid, session.KeyCart, lines)
}

// AddLine appends a new line or, when a line with the same id already
// exists, increments its quantity by one. The COD-consistency check
// runs before either path; on conflict the cart is left untouched and
// the conflict descriptor is returned for the caller to surface.
func (s *Service) AddLine(ctx context.Context, sid string, candidate Line) ([]Line, *CODConflict, error) {
	lines, err := s.Lines(ctx, sid)
	if err != nil {
		return nil, nil, err
	}

	for _, l := range lines {
		if c := codConflict(l, candidate); c != nil {
			return lines, c, nil
		}
	}

	if candidate.Quantity < 1 {
		candidate.Quantity = 1
	}

	merged := false
	for i, l := range lines {
		if l.ID == candidate.ID {
			lines[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		candidate.Quantity = 1
		lines = append(lines, candidate)
	}

	if err := s.persist(ctx, sid, lines); err != nil {
		return nil, nil, err
	}
	return lines, nil, nil
}

// ClearAndAdd is the single resolution path for a COD conflict: drop
// everything, then add the candidate alone.
func (s *Service) ClearAndAdd(ctx context.Context, sid string, candidate Line) ([]Line, error) {
	if candidate.Quantity < 1 {
		candidate.Quantity = 1
	}
	lines := []Line{candidate}
	if err := s.persist(ctx, sid, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *Service) RemoveLine(ctx context.Context, sid, id string) ([]Line, error) {
	lines, err := s.Lines(ctx, sid)
	if err != nil {
		return nil, err
	}
	for i, l := range lines {
		if l.ID == id {
			lines = append(lines[:i], lines[i+1:]...)
			if err := s.persist(ctx, sid, lines); err != nil {
				return nil, err
			}
			return lines, nil
		}
	}
	return lines, ErrLineNotFound
}

// Clear empties the cart. Checkout also calls this after a successful
// confirm.
func (s *Service) Clear(ctx context.Context, sid string) error {
	return s.persist(ctx, sid, []Line{})
}
