package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/tidemark-labs/cbadv"
)

func productsCommand() *cli.Command {
	return &cli.Command{
		Name:  "products",
		Usage: "Inspect tradable products",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List available products",
				Flags: []cli.Flag{
					&cli.Int32Flag{
						Name:  "limit",
						Usage: "maximum number of products",
					},
					&cli.StringFlag{
						Name:  "type",
						Usage: "filter by product type (SPOT|FUTURE)",
					},
				},
				Action: productsListAction,
			},
			{
				Name:      "get",
				Usage:     "Show one or more products as JSON",
				ArgsUsage: "PRODUCT_ID [PRODUCT_ID...]",
				Action:    productsGetAction,
			},
		},
	}
}

func productsListAction(ctx context.Context, cmd *cli.Command) error {
	client, err := newAPIClient(ctx, cmd)
	if err != nil {
		return err
	}

	opts := &cbadv.ListProductsOptions{
		ProductType: cbadv.ProductType(cmd.String("type")),
	}
	if cmd.IsSet("limit") {
		limit := cmd.Int32("limit")
		opts.Limit = &limit
	}

	products, err := client.ListProducts(ctx, opts)
	if err != nil {
		return fmt.Errorf("listing products: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tPRICE\t24H VOLUME\tSTATUS\tTYPE")
	for _, product := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			product.ProductID,
			product.Price,
			product.Volume24h,
			product.Status,
			product.ProductType,
		)
	}
	return w.Flush()
}

func productsGetAction(ctx context.Context, cmd *cli.Command) error {
	productIDs := cmd.Args().Slice()
	if len(productIDs) == 0 {
		return fmt.Errorf("at least one product ID is required")
	}

	client, err := newAPIClient(ctx, cmd)
	if err != nil {
		return err
	}

	// Fetch concurrently; output keeps the argument order.
	products := make([]cbadv.Product, len(productIDs))
	g, gCtx := errgroup.WithContext(ctx)
	for i, productID := range productIDs {
		g.Go(func() error {
			product, err := client.GetProduct(gCtx, productID)
			if err != nil {
				return fmt.Errorf("fetching %s: %w", productID, err)
			}
			products[i] = product
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	for _, product := range products {
		if err := encoder.Encode(product); err != nil {
			return err
		}
	}
	return nil
}
