// Package redis stores orders as a Redis list of JSON documents.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"orderdesk/pkg/order"
)

// DefaultKey is the list key used when none is configured.
const DefaultKey = "orders"

const maxRetries = 5

// ErrContention is returned when a removal keeps losing the optimistic lock.
var ErrContention = errors.New("orders list modified concurrently")

// Repository persists orders in a Redis list.
type Repository struct {
	client *redis.Client
	key    string
}

// New creates a Redis repository storing orders under key.
func New(client *redis.Client, key string) *Repository {
	if key == "" {
		key = DefaultKey
	}
	return &Repository{client: client, key: key}
}

// Add appends the order to the list.
func (r *Repository) Add(ctx context.Context, o order.Order) error {
	data, err := json.Marshal(o)
	if err != nil {
		return err
	}
	return r.client.RPush(ctx, r.key, data).Err()
}

// List returns all orders in the list.
func (r *Repository) List(ctx context.Context) ([]order.Order, error) {
	vals, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	return decode(vals)
}

// RemoveCustomer rewrites the list without the customer's orders inside a
// WATCH/MULTI transaction.
func (r *Repository) RemoveCustomer(ctx context.Context, customer string) (int, error) {
	for i := 0; i < maxRetries; i++ {
		var removed int
		err := r.client.Watch(ctx, func(tx *redis.Tx) error {
			vals, err := tx.LRange(ctx, r.key, 0, -1).Result()
			if err != nil {
				return err
			}
			orders, err := decode(vals)
			if err != nil {
				return err
			}
			removed = order.Count(orders, customer)
			if removed == 0 {
				return nil
			}
			keep, err := encode(order.Remove(orders, customer))
			if err != nil {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, r.key)
				if len(keep) > 0 {
					pipe.RPush(ctx, r.key, keep...)
				}
				return nil
			})
			return err
		}, r.key)
		if err == nil {
			return removed, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return 0, err
	}
	return 0, ErrContention
}

func decode(vals []string) ([]order.Order, error) {
	orders := make([]order.Order, 0, len(vals))
	for _, v := range vals {
		var o order.Order
		if err := json.Unmarshal([]byte(v), &o); err != nil {
			return nil, fmt.Errorf("decode order %q: %w", v, err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func encode(orders []order.Order) ([]any, error) {
	out := make([]any, 0, len(orders))
	for _, o := range orders {
		data, err := json.Marshal(o)
		if err != nil {
			return nil, err
		}
		out = append(out, data)
	}
	return out, nil
}
