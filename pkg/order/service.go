package order

import (
	"context"
	"fmt"

	"orderdesk/pkg/logger"
	"orderdesk/pkg/menu"
)

// Service places and cancels orders against a fixed menu.
type Service struct {
	menu menu.Menu
	repo Repository
	log  *logger.Logger
}

// NewService returns a Service. A nil log discards diagnostics.
func NewService(m menu.Menu, repo Repository, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{menu: m, repo: repo, log: log}
}

// Menu returns the menu orders are checked against.
func (s *Service) Menu() menu.Menu {
	return s.menu
}

// Place records a new order. Food missing from the menu is rejected with
// ErrNotOnMenu and nothing is stored.
func (s *Service) Place(ctx context.Context, customer, food string) (Order, error) {
	if !s.menu.Contains(food) {
		s.log.Warn(ctx, "item not on the menu", "customer", customer, "food", food)
		return Order{}, fmt.Errorf("%s: %w", food, ErrNotOnMenu)
	}
	o := Order{Customer: customer, Food: food}
	if err := s.repo.Add(ctx, o); err != nil {
		return Order{}, fmt.Errorf("store order: %w", err)
	}
	s.log.Info(ctx, "order placed", "customer", customer, "food", food)
	return o, nil
}

// List returns every order in insertion order.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return Get(orders), nil
}

// Cancel removes every order placed by customer and reports how many went.
// Cancelling for an unknown customer removes nothing and is not an error.
func (s *Service) Cancel(ctx context.Context, customer string) (int, error) {
	n, err := s.repo.RemoveCustomer(ctx, customer)
	if err != nil {
		return 0, fmt.Errorf("remove orders for %s: %w", customer, err)
	}
	s.log.Info(ctx, "orders removed", "customer", customer, "count", n)
	return n, nil
}
