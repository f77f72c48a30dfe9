package cli

import (
	"context"
	"fmt"
	"time"
)

func (c *Cli) runStatus(ctx context.Context) error {
	fmt.Println("=== Session status ===")
	fmt.Println()

	snap, err := c.state.Bootstrap(ctx)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}

	if !snap.IsAuthenticated {
		fmt.Println("Status: Not signed in")
		fmt.Println()
		fmt.Println("Run 'agentctl login' or 'agentctl login github'.")
		return nil
	}

	// Resolve the profile; a dead session degrades to signed-out here
	snap = c.state.Resolve(ctx)
	if !snap.IsAuthenticated {
		fmt.Println("Status: Session expired")
		fmt.Println()
		fmt.Println("Run 'agentctl login' to sign in again.")
		return nil
	}

	fmt.Println("Status: Signed in")
	if snap.User != nil {
		fmt.Printf("Account: %s (%s)\n", snap.User.FullName, snap.User.Email)
		if snap.User.OAuthProvider != "" {
			fmt.Printf("Provider: %s\n", snap.User.OAuthProvider)
		}
	}

	if expiresAt := c.sessions.Tokens().ExpiresAt(); !expiresAt.IsZero() {
		fmt.Printf("Token expires: %s\n", expiresAt.Format(time.RFC3339))
		if remaining := time.Until(expiresAt); remaining > 0 {
			fmt.Printf("Time remaining: %s\n", remaining.Round(time.Second))
		}
	}

	if info := c.flow.Info(ctx); info.OK() && info.Data != nil && info.Data.GithubLogin != "" {
		fmt.Println()
		fmt.Printf("Linked GitHub account: %s\n", info.Data.GithubLogin)
	}

	return nil
}
