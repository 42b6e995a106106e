package model

import (
	"time"
)

// Order is a confirmed customer order.
type Order struct {
	ID        string    `bson:"_id,omitempty" json:"id,omitempty"`
	OrderID   string    `bson:"order_id" json:"order_id"`
	Customer  string    `bson:"customer" json:"customer"`
	Total     float64   `bson:"total" json:"total"`
	DateTime  time.Time `bson:"date_time" json:"date_time"`
	Note      string    `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// OrderDetail is one line item inside an order.
type OrderDetail struct {
	ID            string    `bson:"_id,omitempty" json:"id,omitempty"`
	OrderDetailID string    `bson:"order_detail_id" json:"order_detail_id"`
	OrderID       string    `bson:"order_id" json:"order_id"`
	ProductName   string    `bson:"product_name" json:"product_name"`
	Quantity      int       `bson:"quantity" json:"quantity"`
	UnitPrice     *float64  `bson:"unit_price,omitempty" json:"unit_price,omitempty"`
	Subtotal      *float64  `bson:"subtotal,omitempty" json:"subtotal,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}

// OrderSummary aggregates product quantities for one date.
type OrderSummary struct {
	SummaryDate   time.Time `bson:"summary_date" json:"summary_date"`
	ProductType   string    `bson:"product_type" json:"product_type"`
	TotalQuantity int       `bson:"total_quantity" json:"total_quantity"`
	TotalRevenue  *float64  `bson:"total_revenue,omitempty" json:"total_revenue,omitempty"`
}

// CreateOrderRequest creates an order together with its line items.
type CreateOrderRequest struct {
	Order   Order         `json:"order"`
	Details []OrderDetail `json:"details,omitempty"`
}
