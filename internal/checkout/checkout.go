package checkout

import "errors"

var (
	ErrOutOfOrder    = errors.New("lifecycle step out of order")
	ErrMissingFields = errors.New("missing required delivery fields")
)

// Lifecycle steps, persisted per session so a page reload (or a user
// poking at the API directly) can't replay init before select or
// confirm before init.
const (
	stepSelect  = "select"
	stepInit    = "init"
	stepConfirm = "confirm"
)

var stepRank = map[string]int{
	"":          0,
	stepSelect:  1,
	stepInit:    2,
	stepConfirm: 3,
}

// DeliveryInfo is the buyer-entered shipping/billing identity captured
// at cart review. Init persists it; confirm reuses it unchanged.
type DeliveryInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Building string `json:"building"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	AreaCode string `json:"area_code"`
	GPS      string `json:"gps,omitempty"`
}

// PaymentDetails reports how the payment leg ended. The gateway widget
// itself is external; by the time confirm runs, a prepaid payment has
// already settled.
type PaymentDetails struct {
	Mode           string `json:"mode"` // "cod" or "prepaid"
	TransactionRef string `json:"transaction_ref,omitempty"`
}

type SelectResult struct {
	AlreadySelected bool   `json:"already_selected"`
	Message         string `json:"message,omitempty"`
}

type ConfirmResult struct {
	TransactionID string `json:"transaction_id"`
	Message       string `json:"message"`
}
