package domain

const DateLayout = "2006-01-02"

var ProductCategories = []string{"Electronics", "Clothing", "Food", "Books", "Other"}

// Product is the read shape of a backend product. Prices are kept as
// float64 because the backend serialises them as JSON numbers with a
// fractional part.
type Product struct {
	ID            int64   `json:"id" csv:"id"`
	Name          string  `json:"name" csv:"name"`
	PurchasePrice float64 `json:"purchase_price" csv:"purchase_price"`
	MaxSellPrice  float64 `json:"max_sell_price" csv:"max_sell_price"`
	MinSellPrice  float64 `json:"min_sell_price,omitempty" csv:"min_sell_price"`
	NetProfit     float64 `json:"net_profit,omitempty" csv:"net_profit"`
	Quantity      int     `json:"quantity" csv:"quantity"`
	Category      string  `json:"category" csv:"category"`
	Date          string  `json:"date" csv:"date"`
	StoreID       int64   `json:"store_id" csv:"store_id"`
}
