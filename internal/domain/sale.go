package domain

type SoldItem struct {
	ID        int64   `json:"id,omitempty"`
	ProductID int64   `json:"product_id,omitempty"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Date      string  `json:"date"`
}

// Total is the sale value of the line.
func (s SoldItem) Total() float64 {
	return s.Price * float64(s.Quantity)
}
