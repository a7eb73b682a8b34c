package cart

import "errors"

var ErrLineNotFound = errors.New("cart line not found")

// Line is one selected catalog item. Price stays a display string
// (currency symbol included) because the client never does arithmetic
// on it; the quote from the network is the money source of truth.
type Line struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Price          string `json:"price"`
	Seller         string `json:"seller,omitempty"`
	ProviderID     string `json:"provider_id,omitempty"`
	Quantity       int    `json:"quantity"`
	AvailableOnCOD bool   `json:"available_on_cod"`
	IsReturnable   bool   `json:"is_returnable,omitempty"`
	IsCancellable  bool   `json:"is_cancellable,omitempty"`
	ReturnWindow   string `json:"return_window,omitempty"`
	TimeToShip     string `json:"time_to_ship,omitempty"`
}

// CODConflict describes a rejected add: the candidate's payment
// eligibility differs from what the cart already holds. The only
// resolution paths are clear-and-add or giving up; the cart itself is
// never mutated on conflict.
type CODConflict struct {
	Reason string `json:"reason"`
}

func codConflict(existing, candidate Line) *CODConflict {
	if existing.AvailableOnCOD == candidate.AvailableOnCOD {
		return nil
	}
	if candidate.AvailableOnCOD {
		return &CODConflict{Reason: "cart contains prepaid-only items; " + candidate.Name + " is cash-on-delivery. Clear the cart to add it."}
	}
	return &CODConflict{Reason: "cart contains cash-on-delivery items; " + candidate.Name + " is prepaid-only. Clear the cart to add it."}
}
