package cli

import (
	"context"
	"fmt"

	pkgapi "github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/pkg/api"
)

func (c *Cli) runProfile(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "update" {
		return c.runProfileUpdate(ctx)
	}

	res := c.sessions.Profile(ctx)
	if !res.OK() || res.Data == nil {
		return fmt.Errorf("failed to fetch profile: %s", res.Detail())
	}

	fmt.Println("=== Profile ===")
	fmt.Println()
	fmt.Printf("ID:        %s\n", res.Data.ID)
	fmt.Printf("Email:     %s\n", res.Data.Email)
	fmt.Printf("Full name: %s\n", res.Data.FullName)
	if res.Data.AvatarURL != "" {
		fmt.Printf("Avatar:    %s\n", res.Data.AvatarURL)
	}
	if res.Data.OAuthProvider != "" {
		fmt.Printf("Provider:  %s\n", res.Data.OAuthProvider)
	}

	return nil
}

func (c *Cli) runProfileUpdate(ctx context.Context) error {
	fmt.Println("=== Update profile ===")
	fmt.Println("Leave a field empty to keep its current value.")
	fmt.Println()

	fullName, err := readInput("Full name: ")
	if err != nil {
		return fmt.Errorf("failed to read full name: %w", err)
	}

	avatarURL, err := readInput("Avatar URL: ")
	if err != nil {
		return fmt.Errorf("failed to read avatar URL: %w", err)
	}

	if fullName == "" && avatarURL == "" {
		fmt.Println("Nothing to update.")
		return nil
	}

	res := c.sessions.UpdateProfile(ctx, pkgapi.UpdateProfileRequest{
		FullName:  fullName,
		AvatarURL: avatarURL,
	})
	if !res.OK() || res.Data == nil {
		return fmt.Errorf("failed to update profile: %s", res.Detail())
	}

	fmt.Println()
	fmt.Println("✓ Profile updated.")

	return nil
}
