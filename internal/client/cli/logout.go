package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runLogout(ctx context.Context) error {
	fmt.Println("=== Sign out ===")

	if err := c.sessions.Logout(ctx); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	fmt.Println("✓ Signed out.")
	fmt.Println("Your local session has been cleared.")

	return nil
}
