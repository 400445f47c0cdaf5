package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"workshop/internal/models"
)

const orderColumns = `id::text, order_number, client_name, status, created_at`

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	if err := row.Scan(&o.ID, &o.OrderNumber, &o.ClientName, &o.Status, &o.CreatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateOrder inserts an in-progress order; a duplicate number is ErrConflict
func (db *PostgresDB) CreateOrder(ctx context.Context, orderNumber, clientName string) (models.Order, error) {
	o, err := scanOrder(db.pool.QueryRow(ctx, `
		INSERT INTO orders (order_number, client_name, status)
		VALUES ($1, $2, $3)
		RETURNING `+orderColumns,
		orderNumber, clientName, models.OrderInProgress))
	if err != nil {
		return models.Order{}, mapError(err)
	}
	return *o, nil
}

// GetOrderByNumber returns an order by its human-assigned number
func (db *PostgresDB) GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	o, err := scanOrder(db.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_number = $1`, orderNumber))
	if err != nil {
		return nil, mapError(err)
	}
	return o, nil
}

// ListOrdersByStatus returns orders with the status, newest first
func (db *PostgresDB) ListOrdersByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE status = $1 ORDER BY created_at DESC`, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// UpdateOrderStatus moves an order from one status to another
func (db *PostgresDB) UpdateOrderStatus(ctx context.Context, orderNumber string, from, to models.OrderStatus) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE orders SET status = $3 WHERE order_number = $1 AND status = $2`,
		orderNumber, from, to)
	if err != nil {
		return false, fmt.Errorf("failed to update order: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
