package memory

import (
	"context"
	"sync"
	"testing"

	"orderdesk/pkg/order"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := New()
	for _, o := range []order.Order{
		{Customer: "Alice", Food: "Pizza"},
		{Customer: "Bob", Food: "Burger"},
		{Customer: "Alice", Food: "Salad"},
	} {
		if err := repo.Add(ctx, o); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	list, err := repo.List(ctx)
	if err != nil || len(list) != 3 {
		t.Fatalf("list: %v len=%d", err, len(list))
	}
	if list[0].Customer != "Alice" || list[1].Customer != "Bob" {
		t.Fatalf("insertion order lost: %v", list)
	}

	n, err := repo.RemoveCustomer(ctx, "Alice")
	if err != nil || n != 2 {
		t.Fatalf("remove: n=%d err=%v", n, err)
	}
	n, _ = repo.RemoveCustomer(ctx, "Nobody")
	if n != 0 {
		t.Fatalf("expected nothing removed, got %d", n)
	}
	list, _ = repo.List(ctx)
	if !order.Equal(list, []order.Order{{Customer: "Bob", Food: "Burger"}}) {
		t.Fatalf("unexpected orders: %v", list)
	}
}

func TestListReturnsSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := New()
	repo.Add(ctx, order.Order{Customer: "Alice", Food: "Pizza"})
	list, _ := repo.List(ctx)
	list[0].Food = "Sushi"
	again, _ := repo.List(ctx)
	if again[0].Food != "Pizza" {
		t.Fatal("repository state changed through List result")
	}
}

func TestConcurrentAdd(t *testing.T) {
	ctx := context.Background()
	repo := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			repo.Add(ctx, order.Order{Customer: "Alice", Food: "Pizza"})
		}()
	}
	wg.Wait()
	list, _ := repo.List(ctx)
	if len(list) != 50 {
		t.Fatalf("expected 50 orders, got %d", len(list))
	}
}
