package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"orderdesk/pkg/order"
)

// Schema creates the orders table. seq keeps insertion order.
const Schema = `CREATE TABLE IF NOT EXISTS orders (
	seq BIGSERIAL PRIMARY KEY,
	id TEXT UNIQUE NOT NULL,
	customer TEXT NOT NULL,
	food TEXT NOT NULL
)`

// Repository persists orders in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the orders table if it does not exist.
func (r *Repository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, Schema)
	return err
}

// Add inserts a new order.
func (r *Repository) Add(ctx context.Context, o order.Order) error {
	_, err := r.db.ExecContext(ctx, "INSERT INTO orders (id,customer,food) VALUES ($1,$2,$3)", uuid.NewString(), o.Customer, o.Food)
	return err
}

// List fetches all orders, oldest first.
func (r *Repository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT customer,food FROM orders ORDER BY seq")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orders := []order.Order{}
	for rows.Next() {
		var o order.Order
		if err := rows.Scan(&o.Customer, &o.Food); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// RemoveCustomer deletes every order placed by customer.
func (r *Repository) RemoveCustomer(ctx context.Context, customer string) (int, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM orders WHERE customer=$1", customer)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
