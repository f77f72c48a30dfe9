package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/internal/client/oauth"
)

func (c *Cli) runGitHub(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: agentctl github connect|info|update|disconnect")
	}

	switch args[0] {
	case "connect":
		return c.runGitHubConnect(ctx, args[1:])
	case "info":
		return c.runGitHubInfo(ctx)
	case "update":
		return c.runGitHubUpdate(ctx)
	case "disconnect":
		return c.runGitHubDisconnect(ctx)
	default:
		return fmt.Errorf("unknown github subcommand: %s", args[0])
	}
}

func (c *Cli) runGitHubConnect(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("github connect", flag.ContinueOnError)
	force := fs.Bool("force", false, "Force GitHub to prompt for account selection")
	replace := fs.Bool("replace", false, "Replace an already linked account")
	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Println("=== Link GitHub account ===")
	fmt.Println()

	opts := oauth.Options{
		ForceAccountSelection: *force,
		Replace:               *replace,
	}
	if err := c.flow.InitiateLink(ctx, opts); err != nil {
		return err
	}

	fmt.Println("Your browser has been opened to authorize with GitHub.")
	fmt.Println("Waiting for the authorization to complete...")

	waitCtx, cancel := context.WithTimeout(ctx, oauth.StateTTL)
	defer cancel()

	result, err := c.listener.WaitForCallback(waitCtx)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("✓ GitHub account linked!")
	if result.User != nil && result.User.OAuthGithubID != "" {
		fmt.Printf("GitHub id: %s\n", result.User.OAuthGithubID)
	}

	return nil
}

func (c *Cli) runGitHubInfo(ctx context.Context) error {
	res := c.flow.Info(ctx)
	if !res.OK() || res.Data == nil {
		return fmt.Errorf("failed to fetch linked account info: %s", res.Detail())
	}

	fmt.Println("=== Linked GitHub account ===")
	fmt.Println()
	fmt.Printf("Login:     %s\n", res.Data.GithubLogin)
	fmt.Printf("GitHub id: %s\n", res.Data.GithubID)
	if res.Data.ConnectedAt != "" {
		fmt.Printf("Connected: %s\n", res.Data.ConnectedAt)
	}

	return nil
}

func (c *Cli) runGitHubUpdate(ctx context.Context) error {
	fmt.Println("=== Replace linked GitHub account ===")
	fmt.Println()

	if err := c.flow.InitiateUpdate(ctx); err != nil {
		return err
	}

	fmt.Println("Your browser has been opened to re-authorize with GitHub.")
	fmt.Println("Waiting for the authorization to complete...")

	waitCtx, cancel := context.WithTimeout(ctx, oauth.StateTTL)
	defer cancel()

	if _, err := c.listener.WaitForCallback(waitCtx); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("✓ Linked account updated.")

	return nil
}

func (c *Cli) runGitHubDisconnect(ctx context.Context) error {
	confirm, err := readInput("Unlink the GitHub account from this profile? [y/N]: ")
	if err != nil {
		return err
	}
	if confirm != "y" && confirm != "Y" {
		fmt.Println("Cancelled.")
		return nil
	}

	res := c.flow.Disconnect(ctx)
	if !res.OK() {
		return fmt.Errorf("failed to disconnect: %s", res.Detail())
	}

	fmt.Println("✓ GitHub account unlinked.")
	return nil
}
