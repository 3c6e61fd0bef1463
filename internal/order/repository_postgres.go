package order

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	insertOrderQuery = `
        INSERT INTO orders (customer_id, city, address, postal_code, comment, status, buying_type, paid, transaction_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING order_id
    `
	insertOrderItemQuery = `
        INSERT INTO order_items (order_id, product_id, price, quantity)
        VALUES ($1, $2, $3, $4)
    `
	getOrderQuery = `
        SELECT order_id, customer_id, city, address, postal_code, comment, status, buying_type, paid, transaction_id, created_at
        FROM orders
        WHERE order_id = $1
    `
	listOrdersQuery = `
        SELECT order_id, customer_id, city, address, postal_code, comment, status, buying_type, paid, transaction_id, created_at
        FROM orders
        WHERE customer_id = $1
        ORDER BY created_at DESC
    `
	listItemsQuery = `
        SELECT product_id, price, quantity
        FROM order_items
        WHERE order_id = $1
        ORDER BY order_item_id
    `
	updateStatusQuery = `UPDATE orders SET status = $2 WHERE order_id = $1`
	markPaidQuery     = `UPDATE orders SET paid = true, transaction_id = $2 WHERE order_id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the order and its items inside one transaction so a
// failed item insert rolls the order row back too.
func (r *PostgresRepository) Create(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}

	err = tx.QueryRowContext(ctx, insertOrderQuery,
		o.CustomerID, o.City, o.Address, o.PostalCode, o.Comment,
		string(o.Status), string(o.BuyingType), o.Paid, o.TransactionID, o.CreatedAt,
	).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, it := range o.Items {
		if _, err := tx.ExecContext(ctx, insertOrderItemQuery, o.ID, it.ProductID, it.Price, it.Quantity); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (*Order, error) {
	row := r.db.QueryRowContext(ctx, getOrderQuery, id)
	o, err := scanOrder(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *PostgresRepository) ListByCustomer(ctx context.Context, customerID int) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, listOrdersQuery, customerID)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int, status Status) error {
	return r.execOne(ctx, updateStatusQuery, id, string(status))
}

func (r *PostgresRepository) MarkPaid(ctx context.Context, id int, transactionID string) error {
	return r.execOne(ctx, markPaidQuery, id, transactionID)
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) loadItems(ctx context.Context, o *Order) error {
	rows, err := r.db.QueryContext(ctx, listItemsQuery, o.ID)
	if err != nil {
		return fmt.Errorf("select order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ProductID, &it.Price, &it.Quantity); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var (
		o          Order
		status     string
		buyingType string
	)
	err := row.Scan(&o.ID, &o.CustomerID, &o.City, &o.Address, &o.PostalCode,
		&o.Comment, &status, &buyingType, &o.Paid, &o.TransactionID, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = Status(status)
	o.BuyingType = BuyingType(buyingType)
	return &o, nil
}
