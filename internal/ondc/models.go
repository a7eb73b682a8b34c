package ondc

// Envelope payload types for the buyer-side actions. Field names and
// the `@ondc/org/...` extension keys follow the retail 1.2.0 contract.

type Descriptor struct {
	Name      string `json:"name,omitempty"`
	Code      string `json:"code,omitempty"`
	ShortDesc string `json:"short_desc,omitempty"`
	LongDesc  string `json:"long_desc,omitempty"`
}

type Price struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

type Quantity struct {
	Count int `json:"count"`
}

type Address struct {
	Name     string `json:"name,omitempty"`
	Building string `json:"building,omitempty"`
	Locality string `json:"locality,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Country  string `json:"country,omitempty"`
	AreaCode string `json:"area_code,omitempty"`
}

type Location struct {
	GPS     string  `json:"gps,omitempty"`
	Address Address `json:"address"`
}

type Contact struct {
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type FulfillmentEnd struct {
	Location Location `json:"location"`
	Contact  Contact  `json:"contact"`
}

type Fulfillment struct {
	ID           string          `json:"id,omitempty"`
	Type         string          `json:"type,omitempty"`
	ProviderName string          `json:"@ondc/org/provider_name,omitempty"`
	Category     string          `json:"@ondc/org/category,omitempty"`
	TAT          string          `json:"@ondc/org/TAT,omitempty"`
	Tracking     bool            `json:"tracking,omitempty"`
	End          *FulfillmentEnd `json:"end,omitempty"`
}

type Provider struct {
	ID        string `json:"id"`
	Locations []struct {
		ID string `json:"id"`
	} `json:"locations,omitempty"`
}

type OrderItem struct {
	ID            string   `json:"id"`
	FulfillmentID string   `json:"fulfillment_id,omitempty"`
	Quantity      Quantity `json:"quantity"`
	Price         *Price   `json:"price,omitempty"`
}

type Billing struct {
	Name    string  `json:"name"`
	Address Address `json:"address"`
	Phone   string  `json:"phone,omitempty"`
	Email   string  `json:"email,omitempty"`
}

type Payment struct {
	Type                 string `json:"type,omitempty"`
	Status               string `json:"status,omitempty"`
	CollectedBy          string `json:"collected_by,omitempty"`
	TransactionReference string `json:"transaction_id,omitempty"`
}

type BreakupLine struct {
	Title string `json:"title"`
	Price Price  `json:"price"`
}

type Quote struct {
	Price   Price         `json:"price"`
	Breakup []BreakupLine `json:"breakup,omitempty"`
	TTL     string        `json:"ttl,omitempty"`
}

// search

type SearchIntent struct {
	Item struct {
		Descriptor Descriptor `json:"descriptor"`
	} `json:"item"`
	Fulfillment struct {
		Type string `json:"type,omitempty"`
	} `json:"fulfillment"`
	Payment struct {
		FinderFeeType   string `json:"@ondc/org/buyer_app_finder_fee_type,omitempty"`
		FinderFeeAmount string `json:"@ondc/org/buyer_app_finder_fee_amount,omitempty"`
	} `json:"payment"`
}

type SearchRequest struct {
	Context Context `json:"context"`
	Message struct {
		Intent SearchIntent `json:"intent"`
	} `json:"message"`
}

// select / init / confirm

type DraftOrder struct {
	Provider     Provider      `json:"provider"`
	Items        []OrderItem   `json:"items"`
	Billing      *Billing      `json:"billing,omitempty"`
	Fulfillments []Fulfillment `json:"fulfillments,omitempty"`
	Payment      *Payment      `json:"payment,omitempty"`
	Quote        *Quote        `json:"quote,omitempty"`
}

type SelectRequest struct {
	Context Context `json:"context"`
	Message struct {
		Order DraftOrder `json:"order"`
	} `json:"message"`
}

type InitRequest struct {
	Context Context `json:"context"`
	Message struct {
		Order DraftOrder `json:"order"`
	} `json:"message"`
}

type ConfirmOrder struct {
	ID string `json:"id,omitempty"`
	DraftOrder
	State     string `json:"state,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

type ConfirmRequest struct {
	Context Context `json:"context"`
	Message struct {
		Order ConfirmOrder `json:"order"`
	} `json:"message"`
}

// status / track / cancel

type StatusRequest struct {
	Context Context `json:"context"`
	Message struct {
		OrderID string `json:"order_id"`
	} `json:"message"`
}

type TrackRequest struct {
	Context Context `json:"context"`
	Message struct {
		OrderID string `json:"order_id"`
	} `json:"message"`
}

type CancelRequest struct {
	Context Context `json:"context"`
	Message struct {
		OrderID              string `json:"order_id"`
		CancellationReasonID string `json:"cancellation_reason_id"`
	} `json:"message"`
}

// update (return flow), update_target is "payment" for refunds

type UpdateRequest struct {
	Context Context `json:"context"`
	Message struct {
		UpdateTarget string       `json:"update_target"`
		Order        ConfirmOrder `json:"order"`
	} `json:"message"`
}

// issue (IGM)

type IssueRef struct {
	RefID   string `json:"ref_id"`
	RefType string `json:"ref_type"`
}

type IssueActor struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Info struct {
		Name    string  `json:"name,omitempty"`
		Contact Contact `json:"contact"`
	} `json:"info"`
}

type IssueAction struct {
	ID           string     `json:"id"`
	Descriptor   Descriptor `json:"descriptor"`
	UpdatedAt    string     `json:"updated_at"`
	ActionBy     string     `json:"action_by"`
	ActionStatus string     `json:"action_status,omitempty"`
}

type Issue struct {
	ID                   string        `json:"id"`
	Category             string        `json:"category"`
	SubCategory          string        `json:"sub_category"`
	Level                string        `json:"level"`
	Status               string        `json:"status"`
	Priority             string        `json:"priority,omitempty"`
	CreatedAt            string        `json:"created_at"`
	UpdatedAt            string        `json:"updated_at"`
	Refs                 []IssueRef    `json:"refs"`
	Actors               []IssueActor  `json:"actors"`
	Descriptor           Descriptor    `json:"descriptor"`
	Actions              []IssueAction `json:"actions,omitempty"`
	ExpectedResponseTime struct {
		Duration string `json:"duration"`
	} `json:"expected_response_time"`
	ExpectedResolutionTime struct {
		Duration string `json:"duration"`
	} `json:"expected_resolution_time"`
}

type IssueRequest struct {
	Context Context `json:"context"`
	Message struct {
		Issue Issue `json:"issue"`
	} `json:"message"`
}

// Ack is the synchronous response to every action POST.
type Ack struct {
	Message struct {
		Ack struct {
			Status string `json:"status"`
		} `json:"ack"`
	} `json:"message"`
	Error *struct {
		Type    string `json:"type,omitempty"`
		Code    string `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error,omitempty"`
}

// NACK reports whether the network explicitly rejected the message.
func (a *Ack) NACK() bool {
	return a != nil && a.Message.Ack.Status == "NACK"
}
