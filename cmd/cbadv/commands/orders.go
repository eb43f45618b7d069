package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/tidemark-labs/cbadv"
)

func ordersCommand() *cli.Command {
	return &cli.Command{
		Name:  "orders",
		Usage: "Inspect historical orders",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List historical orders",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "product-id",
						Usage: "filter by trading pair, e.g. BTC-USD",
					},
					&cli.StringSliceFlag{
						Name:  "status",
						Usage: "filter by order status (repeatable)",
					},
					&cli.Int32Flag{
						Name:  "limit",
						Usage: "orders per page",
					},
				},
				Action: ordersListAction,
			},
		},
	}
}

func ordersListAction(ctx context.Context, cmd *cli.Command) error {
	client, err := newAPIClient(ctx, cmd)
	if err != nil {
		return err
	}

	opts := &cbadv.ListOrdersOptions{
		ProductID: cmd.String("product-id"),
	}
	for _, status := range cmd.StringSlice("status") {
		opts.OrderStatus = append(opts.OrderStatus, cbadv.OrderStatus(status))
	}
	if cmd.IsSet("limit") {
		limit := cmd.Int32("limit")
		opts.Limit = &limit
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER ID\tPRODUCT\tSIDE\tTYPE\tSTATUS\tFILLED\tCREATED")

	for orders, err := range client.ListOrders(ctx, opts) {
		if err != nil {
			return fmt.Errorf("listing orders: %w", err)
		}
		for _, order := range orders {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s%%\t%s\n",
				order.OrderID,
				order.ProductID,
				order.Side,
				order.OrderType,
				order.Status,
				order.CompletionPercentage,
				order.CreatedTime.Format("2006-01-02 15:04:05"),
			)
		}
	}

	return w.Flush()
}
