package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/tidemark-labs/cbadv/internal/cliconfig"
	"github.com/tidemark-labs/cbadv/internal/tokenstore"
	"github.com/tidemark-labs/cbadv/oauth"
)

// authCommand returns the 'auth' subcommand for managing API authentication.
func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage API authentication",
		Commands: []*cli.Command{
			authLoginCommand(),
			authLogoutCommand(),
		},
	}
}

func authLoginCommand() *cli.Command {
	return &cli.Command{
		Name:   "login",
		Usage:  "Authorize the application and save the access token",
		Action: authLoginAction,
	}
}

func authLogoutCommand() *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Revoke the access token and clear it from storage",
		Action: authLogoutAction,
	}
}

func authLoginAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	if cfg.Auth.Storage == cliconfig.TokenStorageEnv {
		return errors.New("cannot login with env storage (read-only), configure file or keyring storage")
	}

	store, err := cfg.Auth.NewTokenStore()
	if err != nil {
		return fmt.Errorf("creating token store: %w", err)
	}

	flow, err := newFlow(ctx, cfg)
	if err != nil {
		return err
	}

	tokens, err := flow.Authorize(ctx)
	if err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	if err := store.Write(ctx, tokens.AccessToken()); err != nil {
		return fmt.Errorf("writing token: %w", err)
	}

	fmt.Println()
	fmt.Println("=== Login Successful ===")
	fmt.Printf("Granted scopes: %v\n", tokens.Scopes())
	fmt.Println("Token saved to configured storage")

	return nil
}

func authLogoutAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	if cfg.Auth.Storage == cliconfig.TokenStorageEnv {
		return errors.New("cannot logout with env storage (read-only), configure file or keyring storage")
	}

	store, err := cfg.Auth.NewTokenStore()
	if err != nil {
		return fmt.Errorf("creating token store: %w", err)
	}

	token, err := store.Read(ctx)
	switch {
	case errors.Is(err, tokenstore.ErrNotFound):
		fmt.Println("No stored token, nothing to do")
		return nil
	case err != nil:
		return fmt.Errorf("reading stored token: %w", err)
	}

	// Revocation failure is not fatal: the local copy is cleared either
	// way, and a token the server already invalidated revokes with an
	// error.
	flow, err := newFlow(ctx, cfg)
	if err != nil {
		return err
	}
	if err := flow.RevokeToken(ctx, token); err != nil {
		slog.WarnContext(ctx, "token revocation failed, clearing local copy anyway", "error", err)
	}

	if err := store.Write(ctx, ""); err != nil {
		return fmt.Errorf("clearing token: %w", err)
	}

	fmt.Println()
	fmt.Println("=== Logout Successful ===")
	fmt.Println("Credentials cleared from configured storage")

	return nil
}

// newFlow builds the authorization flow from the configured credentials,
// prompting for whatever is missing rather than failing.
func newFlow(ctx context.Context, cfg *cliconfig.Config) (*oauth.Flow, error) {
	clientID := cfg.Auth.ClientID
	if clientID == "" {
		var err error
		clientID, err = readSecureInput(ctx, "Enter OAuth client ID: ")
		if err != nil {
			return nil, err
		}
	}

	clientSecret := cfg.Auth.ClientSecret
	if clientSecret == "" {
		var err error
		clientSecret, err = readSecureInput(ctx, "Enter OAuth client secret: ")
		if err != nil {
			return nil, err
		}
	}

	flow, err := oauth.New(oauth.Credentials{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  cfg.Auth.RedirectURL,
	})
	if err != nil {
		return nil, err
	}

	if err := flow.AddScopes(cfg.Auth.Scopes...); err != nil {
		return nil, err
	}
	return flow, nil
}

// readSecureInput reads user input with hidden display and context
// cancellation support. Goroutine+select pattern because term.ReadPassword
// has no native context support.
func readSecureInput(ctx context.Context, prompt string) (string, error) {
	fmt.Print(prompt)
	defer fmt.Println()

	type result struct {
		value string
		err   error
	}
	resultCh := make(chan result, 1)

	go func() {
		inputBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		resultCh <- result{value: string(inputBytes), err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-resultCh:
		if res.err != nil {
			return "", fmt.Errorf("reading input: %w", res.err)
		}
		return res.value, nil
	}
}
