// Package order models restaurant orders and the operations on an order list.
package order

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"orderdesk/pkg/menu"
)

// Order pairs a customer with the food they asked for.
type Order struct {
	Customer string `json:"customer"`
	Food     string `json:"food"`
}

// Repository defines behavior for persisting orders. List returns orders in
// the order they were added.
type Repository interface {
	Add(ctx context.Context, o Order) error
	List(ctx context.Context) ([]Order, error)
	RemoveCustomer(ctx context.Context, customer string) (int, error)
}

// ErrNotOnMenu indicates the requested food is not on the menu.
var ErrNotOnMenu = errors.New("item not on the menu")

// Add returns a new list with the order appended when food is on the menu.
// Otherwise it returns orders unchanged along with ErrNotOnMenu.
func Add(orders []Order, m menu.Menu, customer, food string) ([]Order, error) {
	if !m.Contains(food) {
		return orders, fmt.Errorf("%s: %w", food, ErrNotOnMenu)
	}
	out := make([]Order, len(orders), len(orders)+1)
	copy(out, orders)
	return append(out, Order{Customer: customer, Food: food}), nil
}

// Get returns orders as is.
func Get(orders []Order) []Order {
	return orders
}

// Remove returns a new list without the orders placed by customer.
func Remove(orders []Order, customer string) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if o.Customer != customer {
			out = append(out, o)
		}
	}
	return out
}

// Count reports how many orders belong to customer.
func Count(orders []Order, customer string) int {
	n := 0
	for _, o := range orders {
		if o.Customer == customer {
			n++
		}
	}
	return n
}

// Equal reports whether two lists hold the same orders in the same order.
func Equal(a, b []Order) bool {
	return slices.Equal(a, b)
}
