package address

// Address is a saved delivery address in the shape the checkout form
// consumes. Lat/Lng come from the location resolver when the user
// picked the point on a map; zero values mean "not geocoded".
type Address struct {
	AddressID int     `json:"addressId"`
	UserID    int     `json:"userId"`
	Name      string  `json:"name"`
	Phone     string  `json:"phone"`
	Building  string  `json:"building,omitempty"`
	Street    string  `json:"street"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	Pincode   string  `json:"pincode"`
	Lat       float64 `json:"lat,omitempty"`
	Lng       float64 `json:"lng,omitempty"`
	IsDefault bool    `json:"isDefault"`
	CreatedAt string  `json:"createdAt,omitempty"`
	UpdatedAt string  `json:"updatedAt,omitempty"`
}
