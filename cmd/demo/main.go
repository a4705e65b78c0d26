// Command demo walks through a short restaurant order session on the console.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"orderdesk/pkg/logger"
	"orderdesk/pkg/menu"
	"orderdesk/pkg/order"
	"orderdesk/pkg/otel"
)

func main() {
	log := logger.New(os.Stderr, logger.LevelWarn, "orderdesk-demo", otel.GetTraceID)
	defer log.Sync()
	run(context.Background(), os.Stdout, log, menu.Default())
}

type request struct {
	customer, food string
}

func run(ctx context.Context, w io.Writer, log *logger.Logger, m menu.Menu) []order.Order {
	var orders []order.Order
	for _, r := range []request{
		{"Alice", "Pizza"},
		{"Bob", "Burger"},
		{"Charlie", "Sushi"},
	} {
		next, err := order.Add(orders, m, r.customer, r.food)
		if err != nil {
			log.Warn(ctx, "order rejected", "customer", r.customer, "food", r.food)
			fmt.Fprintf(w, "Error: %s is not on the menu.\n", r.food)
		}
		orders = next
	}

	fmt.Fprintln(w, "All Orders:")
	render(w, order.Get(orders))

	orders = order.Remove(orders, "Alice")
	fmt.Fprintln(w, "Orders after removal:")
	render(w, order.Get(orders))
	return orders
}

func render(w io.Writer, orders []order.Order) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Customer", "Food"})
	for i, o := range orders {
		t.AppendRow(table.Row{i + 1, o.Customer, o.Food})
	}
	t.Render()
}
