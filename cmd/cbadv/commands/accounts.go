package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/tidemark-labs/cbadv"
)

func accountsCommand() *cli.Command {
	return &cli.Command{
		Name:  "accounts",
		Usage: "Inspect trading accounts",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all accounts",
				Flags: []cli.Flag{
					&cli.Int32Flag{
						Name:  "limit",
						Usage: "accounts per page",
						Value: 49,
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "include inactive accounts",
					},
				},
				Action: accountsListAction,
			},
		},
	}
}

func accountsListAction(ctx context.Context, cmd *cli.Command) error {
	client, err := newAPIClient(ctx, cmd)
	if err != nil {
		return err
	}

	limit := cmd.Int32("limit")
	includeInactive := cmd.Bool("all")

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "UUID\tNAME\tCURRENCY\tAVAILABLE\tHOLD\tTYPE")

	for accounts, err := range client.ListAccounts(ctx, &cbadv.ListAccountsOptions{Limit: &limit}) {
		if err != nil {
			return fmt.Errorf("listing accounts: %w", err)
		}
		for _, account := range accounts {
			if !account.Active && !includeInactive {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				account.UUID,
				account.Name,
				account.Currency,
				account.AvailableBalance.Value,
				account.Hold.Value,
				account.Type,
			)
		}
	}

	return w.Flush()
}
