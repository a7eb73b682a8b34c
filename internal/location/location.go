package location

import "errors"

var (
	ErrBadPincode = errors.New("pincode must be 6 digits")
	ErrNoMatch    = errors.New("no location matched")
)

// Coordinates is the buyer's picked point, persisted per session so
// search and checkout can reuse it.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is a resolved location in the shape the address form consumes.
type Place struct {
	Street           string  `json:"street,omitempty"`
	Building         string  `json:"building,omitempty"`
	City             string  `json:"city,omitempty"`
	State            string  `json:"state,omitempty"`
	Pincode          string  `json:"pincode,omitempty"`
	FormattedAddress string  `json:"formatted_address,omitempty"`
	Lat              float64 `json:"lat,omitempty"`
	Lng              float64 `json:"lng,omitempty"`
}
