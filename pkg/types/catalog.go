package types

// ProductColor is a purchasable color option. Simple products carry colors
// directly; variable products nest them under a model.
type ProductColor struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Hex    string   `json:"hex,omitempty"`
	Images []string `json:"images,omitempty"`
}

// ProductModel groups colors for a variable product (e.g. a bottle size).
type ProductModel struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Colors []ProductColor `json:"colors"`
}

// Address is the shipping address snapshot frozen onto an order.
type Address struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}
