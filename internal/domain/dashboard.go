package domain

type DashboardMetrics struct {
	TotalProducts      int            `json:"total_products"`
	TotalStockUnits    int            `json:"total_stock_units"`
	TotalUnitsSold     int            `json:"total_units_sold"`
	TotalSalesValue    float64        `json:"total_sales_value"`
	AverageSalePrice   float64        `json:"average_sale_price"`
	ProductsByCategory map[string]int `json:"products_by_category"`
}
