package order

import "strings"

// Confirmation is the consolidated order document served by the
// buyer-side order database API. It is read-only to this client except
// for the optimistic status overwrite after a successful cancel.
type Confirmation struct {
	TransactionID      string            `json:"transaction_id"`
	OndcOrderID        string            `json:"ondc_order_id"`
	OrderStatus        string            `json:"order_status"`
	PaymentStatus      string            `json:"payment_status"`
	PaymentMode        string            `json:"payment_mode"`
	TotalValue         string            `json:"total_value"`
	Currency           string            `json:"currency"`
	Items              []Item            `json:"items"`
	QuoteBreakup       []BreakupLine     `json:"quote_breakup"`
	Fulfillments       []FulfillmentInfo `json:"fulfillments"`
	ProviderID         string            `json:"provider_id"`
	ProviderLocationID string            `json:"provider_location_id"`
	TTL                string            `json:"ttl"`
	IssueRaised        bool              `json:"issue_raised,omitempty"`

	// FromCache marks a document served from the session cache after a
	// failed network fetch; it is never set by the server.
	FromCache bool `json:"from_cache,omitempty"`
}

type Item struct {
	ItemID             string `json:"item_id"`
	Quantity           int    `json:"quantity"`
	Amount             string `json:"amount"`
	Status             string `json:"status"`
	CancelledQuantity  int    `json:"cancelled_quantity,omitempty"`
	CancellationReason string `json:"cancellation_reason,omitempty"`
}

type BreakupLine struct {
	Title  string `json:"title"`
	Amount string `json:"amount"`
}

type FulfillmentInfo struct {
	Type         string `json:"type"`
	ProviderName string `json:"provider_name"`
	Category     string `json:"category"`
	TAT          string `json:"tat"`
	StateCode    string `json:"state_code"`
}

// Stage is a position on the fixed progress timeline. The server owns
// the real status vocabulary; this client only maps whatever free-text
// value arrives onto the scale for rendering.
type Stage string

const (
	StagePlaced     Stage = "order-placed"
	StageConfirmed  Stage = "order-confirmed"
	StageAccept     Stage = "accept"
	StageProcessing Stage = "processing"
	StageCompleted  Stage = "completed"
	StageCancelled  Stage = "cancelled"
	StageUnknown    Stage = "unknown"
)

// Timeline is the ordered progress scale shown on the tracking screen.
var Timeline = []Stage{StagePlaced, StageConfirmed, StageAccept, StageProcessing, StageCompleted}

// Normalize maps a server-reported status string onto the timeline
// vocabulary. Unrecognized values come back StageUnknown so the
// timeline renders unmarked rather than guessing.
func Normalize(status string) Stage {
	s := strings.ToLower(strings.TrimSpace(status))
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.ReplaceAll(s, " ", "-")
	switch s {
	case "order-placed", "placed", "created":
		return StagePlaced
	case "order-confirmed", "confirmed":
		return StageConfirmed
	case "accept", "accepted":
		return StageAccept
	case "processing", "in-progress", "packed", "order-picked-up", "out-for-delivery":
		return StageProcessing
	case "completed", "complete", "delivered":
		return StageCompleted
	case "cancelled", "canceled":
		return StageCancelled
	default:
		return StageUnknown
	}
}

// DisplayStage is Normalize with the tracker's default: an order that
// exists but reports something unrecognized shows as processing.
func DisplayStage(status string) Stage {
	if st := Normalize(status); st != StageUnknown {
		return st
	}
	return StageProcessing
}

// TimelineIndex returns the stage's position on the progress scale, or
// -1 for anything off it (cancelled, unknown).
func TimelineIndex(st Stage) int {
	for i, s := range Timeline {
		if s == st {
			return i
		}
	}
	return -1
}
