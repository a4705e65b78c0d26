// Package memory implements an in-memory order repository.
package memory

import (
	"context"
	"sync"

	"orderdesk/pkg/order"
)

// Repository provides an in-memory implementation of order.Repository.
type Repository struct {
	mu     sync.RWMutex
	orders []order.Order
}

// New creates a new in-memory repository.
func New() *Repository {
	return &Repository{}
}

// Add appends the order.
func (r *Repository) Add(ctx context.Context, o order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, o)
	return nil
}

// List returns a snapshot of all orders.
func (r *Repository) List(ctx context.Context) ([]order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]order.Order, len(r.orders))
	copy(out, r.orders)
	return out, nil
}

// RemoveCustomer drops every order placed by customer.
func (r *Repository) RemoveCustomer(ctx context.Context, customer string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := order.Count(r.orders, customer)
	if n > 0 {
		r.orders = order.Remove(r.orders, customer)
	}
	return n, nil
}
