package returns

import "errors"

var ErrNoOrder = errors.New("no confirmed order to return against")

// Line is one returned item with the quantity going back.
type Line struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason,omitempty"`
}

// Request is the buyer-entered return form.
type Request struct {
	OrderID string `json:"order_id"`
	Items   []Line `json:"items"`
	Reason  string `json:"reason"`
}

// Result reports the two-phase outcome. The registration phase is
// all-or-nothing; the ONDC settlement update is best-effort, so the
// request as a whole can succeed while ondc_status reads "failed".
type Result struct {
	Status     string `json:"status"`      // always "success" once registration lands
	OndcStatus string `json:"ondc_status"` // "ok" or "failed"
	ReturnID   string `json:"return_id,omitempty"`
	Message    string `json:"message,omitempty"`
}
