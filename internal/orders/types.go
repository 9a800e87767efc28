package orders

import (
	"context"
	"time"
)

// Order statuses walked by the admin console.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusDispatched = "dispatched"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDispatched, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID            int64      `json:"id"`
	RefCode       string     `json:"ref_code"`
	CustomerName  string     `json:"customer_name"`
	CustomerEmail string     `json:"customer_email"`
	Phone         *string    `json:"phone,omitempty"`
	Address       string     `json:"address"`
	Status        string     `json:"status"`
	Total         float64    `json:"total"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type OrderItem struct {
	ID          int64   `json:"id"`
	OrderID     int64   `json:"order_id"`
	ProductID   *string `json:"product_id,omitempty"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}

// OrderDetail is the admin view: order plus its line items.
type OrderDetail struct {
	Order Order       `json:"order"`
	Items []OrderItem `json:"items"`
}

type Store interface {
	GetByID(ctx context.Context, id int64) (*OrderDetail, error)
	List(ctx context.Context, status string, limit, offset int) ([]Order, int, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}
