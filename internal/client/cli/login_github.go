package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/internal/client/oauth"
)

func (c *Cli) runLoginGitHub(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login github", flag.ContinueOnError)
	force := fs.Bool("force", false, "Force GitHub to prompt for account selection")
	redirectTo := fs.String("redirect-to", "", "Post-login destination path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Println("=== Sign in with GitHub ===")
	fmt.Println()

	opts := oauth.Options{
		ForceAccountSelection: *force,
		RedirectTo:            *redirectTo,
	}
	if err := c.flow.Initiate(ctx, opts); err != nil {
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
	fmt.Println("✓ Signed in with GitHub!")
	if result.User != nil {
		fmt.Printf("Account: %s (%s)\n", result.User.FullName, result.User.Email)
	}
	if result.Destination != "" {
		fmt.Printf("Dashboard: %s\n", result.Destination)
	}

	return nil
}
