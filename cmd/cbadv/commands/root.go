package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/tidemark-labs/cbadv"
	"github.com/tidemark-labs/cbadv/internal/cliconfig"
	"github.com/tidemark-labs/cbadv/internal/observability"
	"github.com/tidemark-labs/cbadv/internal/tokenstore"
)

// Execute runs the root command with the given context and arguments.
func Execute(ctx context.Context, args []string, version, commit string) error {
	cmd := &cli.Command{
		Name:    "cbadv",
		Usage:   "Coinbase Advanced Trade from the command line",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a TOML config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug|info|warn|error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "log format (text|json)",
			},
		},
		Commands: []*cli.Command{
			authCommand(),
			accountsCommand(),
			productsCommand(),
			ordersCommand(),
		},
	}

	return cmd.Run(ctx, args)
}

// setup loads the layered configuration and installs logging. Command-line
// flags win over both the config file and the environment.
func setup(cmd *cli.Command) (*cliconfig.Config, error) {
	cfg, err := cliconfig.Load(cmd.String("config"), os.Environ)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if cmd.IsSet("log-level") {
		cfg.Log.Level = cmd.String("log-level")
	}
	if cmd.IsSet("log-format") {
		cfg.Log.Format = cmd.String("log-format")
	}

	if err := observability.Instrument(cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, fmt.Errorf("setting up logging: %w", err)
	}

	return cfg, nil
}

// tokenProvider adapts a stored token string to the client's interface.
type tokenProvider string

func (t tokenProvider) AccessToken() string { return string(t) }

// newAPIClient builds an authenticated API client from the stored token.
func newAPIClient(ctx context.Context, cmd *cli.Command) (*cbadv.Client, error) {
	cfg, err := setup(cmd)
	if err != nil {
		return nil, err
	}

	store, err := cfg.Auth.NewTokenStore()
	if err != nil {
		return nil, err
	}

	token, err := store.Read(ctx)
	if errors.Is(err, tokenstore.ErrNotFound) {
		return nil, errors.New("not logged in, run 'cbadv auth login' first")
	}
	if err != nil {
		return nil, fmt.Errorf("reading stored token: %w", err)
	}

	return cbadv.NewClient(tokenProvider(token))
}
