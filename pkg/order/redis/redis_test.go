package redis

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"orderdesk/pkg/order"
)

// serverAddr returns the Redis named by ORDERDESK_TEST_REDIS_ADDR, or starts
// an in-process miniredis when it is unset.
func serverAddr(t *testing.T) string {
	t.Helper()
	if addr := os.Getenv("ORDERDESK_TEST_REDIS_ADDR"); addr != "" {
		return addr
	}
	return miniredis.RunT(t).Addr()
}

func dial(t *testing.T, addr string) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	return client
}

func newRepo(t *testing.T) (*Repository, string) {
	t.Helper()
	addr := serverAddr(t)
	client := dial(t, addr)
	key := "test:orders:" + uuid.NewString()
	t.Cleanup(func() { client.Del(context.Background(), key) })
	return New(client, key), addr
}

// interferer pushes an order from a second client each time the watched
// LRANGE runs, so the following EXEC is aborted.
type interferer struct {
	other *redis.Client
	key   string
	times int
}

func (h *interferer) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *interferer) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if cmd.Name() == "lrange" && h.times > 0 {
			h.times--
			h.other.RPush(ctx, h.key, `{"customer":"Bob","food":"Pasta"}`)
		}
		return err
	}
}

func (h *interferer) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	for _, o := range []order.Order{
		{Customer: "Alice", Food: "Pizza"},
		{Customer: "Bob", Food: "Burger"},
		{Customer: "Alice", Food: "Salad"},
		{Customer: "Carol", Food: "Pasta"},
	} {
		if err := repo.Add(ctx, o); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	n, err := repo.RemoveCustomer(ctx, "Alice")
	if err != nil || n != 2 {
		t.Fatalf("remove: n=%d err=%v", n, err)
	}
	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []order.Order{{Customer: "Bob", Food: "Burger"}, {Customer: "Carol", Food: "Pasta"}}
	if !order.Equal(list, want) {
		t.Fatalf("got %v, want %v", list, want)
	}

	n, err = repo.RemoveCustomer(ctx, "Nobody")
	if err != nil || n != 0 {
		t.Fatalf("remove unknown: n=%d err=%v", n, err)
	}
}

func TestRemoveLastCustomerEmptiesList(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)
	repo.Add(ctx, order.Order{Customer: "Bob", Food: "Burger"})
	repo.Add(ctx, order.Order{Customer: "Bob", Food: "Salad"})

	n, err := repo.RemoveCustomer(ctx, "Bob")
	if err != nil || n != 2 {
		t.Fatalf("remove: n=%d err=%v", n, err)
	}
	list, err := repo.List(ctx)
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty list, got %v (%v)", list, err)
	}
	if exists, _ := repo.client.Exists(ctx, repo.key).Result(); exists != 0 {
		t.Fatal("expected key to be deleted")
	}
}

func TestRemoveRetriesAfterConflict(t *testing.T) {
	ctx := context.Background()
	repo, addr := newRepo(t)
	repo.Add(ctx, order.Order{Customer: "Alice", Food: "Pizza"})
	repo.client.AddHook(&interferer{other: dial(t, addr), key: repo.key, times: 1})

	n, err := repo.RemoveCustomer(ctx, "Alice")
	if err != nil || n != 1 {
		t.Fatalf("remove: n=%d err=%v", n, err)
	}
	list, _ := repo.List(ctx)
	if !order.Equal(list, []order.Order{{Customer: "Bob", Food: "Pasta"}}) {
		t.Fatalf("concurrent order lost: %v", list)
	}
}

func TestRemoveGivesUpUnderContention(t *testing.T) {
	ctx := context.Background()
	repo, addr := newRepo(t)
	repo.Add(ctx, order.Order{Customer: "Alice", Food: "Pizza"})
	repo.client.AddHook(&interferer{other: dial(t, addr), key: repo.key, times: maxRetries})

	if _, err := repo.RemoveCustomer(ctx, "Alice"); !errors.Is(err, ErrContention) {
		t.Fatalf("expected ErrContention, got %v", err)
	}
	list, _ := repo.List(ctx)
	if order.Count(list, "Alice") != 1 || order.Count(list, "Bob") != maxRetries {
		t.Fatalf("unexpected orders: %v", list)
	}
}

func TestRemoveWhileAdding(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)
	repo.Add(ctx, order.Order{Customer: "Alice", Food: "Pizza"})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			repo.Add(ctx, order.Order{Customer: "Bob", Food: "Pasta"})
		}()
	}
	if _, err := repo.RemoveCustomer(ctx, "Alice"); err != nil && !errors.Is(err, ErrContention) {
		t.Fatalf("remove: %v", err)
	}
	wg.Wait()

	list, _ := repo.List(ctx)
	if order.Count(list, "Bob") != 10 {
		t.Fatalf("lost concurrent adds: %v", list)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := decode([]string{`{"customer":"Alice","food":"Pizza"}`, "not json"}); err == nil {
		t.Fatal("expected decode error")
	}
}
