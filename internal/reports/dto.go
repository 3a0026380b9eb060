package reports

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatusStat is one row of the per-status order aggregation.
type OrderStatusStat struct {
	Status       string          `json:"status"`
	OrderCount   int64           `json:"order_count"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// TopProduct is one row of the rating leaderboard.
type TopProduct struct {
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Price         decimal.Decimal `json:"price"`
	AverageRating float64         `json:"average_rating"`
	ReviewCount   int64           `json:"review_count"`
}

// CategoryStat is one row of the per-category product count.
type CategoryStat struct {
	CategoryName string `json:"category_name"`
	ProductCount int64  `json:"product_count"`
}
