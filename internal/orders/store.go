package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrOrderNotFound = errors.New("order not found")

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const orderColumns = `id, ref_code, customer_name, customer_email, phone, address, status, total, paid_at, created_at`

func (r *Repository) GetByID(ctx context.Context, id int64) (*OrderDetail, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1;`

	var o Order
	err := r.db.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.RefCode, &o.CustomerName, &o.CustomerEmail, &o.Phone,
		&o.Address, &o.Status, &o.Total, &o.PaidAt, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, unit_price, total_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id;`, id)
	if err != nil {
		return nil, fmt.Errorf("order items: %w", err)
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName,
			&it.Quantity, &it.UnitPrice, &it.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return &OrderDetail{Order: o, Items: items}, nil
}

// List returns a page of orders, optionally narrowed by status, and the true
// total via COUNT(*) OVER().
func (r *Repository) List(ctx context.Context, status string, limit, offset int) ([]Order, int, error) {
	if limit < 1 || limit > 100 {
		limit = 30
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + orderColumns + `, COUNT(*) OVER() AS total_count
		FROM orders
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3;`

	rows, err := r.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var list []Order
	var totalCount int
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.RefCode, &o.CustomerName, &o.CustomerEmail,
			&o.Phone, &o.Address, &o.Status, &o.Total, &o.PaidAt, &o.CreatedAt,
			&totalCount); err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}
	return list, totalCount, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id int64, status string) error {
	if !ValidStatus(status) {
		return fmt.Errorf("invalid order status %q", status)
	}

	result, err := r.db.Exec(ctx,
		`UPDATE orders SET status = $1 WHERE id = $2;`, status, id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}
