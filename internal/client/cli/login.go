package cli

import (
	"context"
	"fmt"

	pkgapi "github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/pkg/api"
)

func (c *Cli) runLogin(ctx context.Context) error {
	fmt.Println("=== Sign in ===")
	fmt.Println()

	email, err := readInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Println()
	fmt.Println("Signing in...")

	res := c.sessions.Login(ctx, pkgapi.LoginRequest{Email: email, Password: password})
	if !res.OK() || res.Data == nil {
		return fmt.Errorf("login failed: %s", res.Detail())
	}

	fmt.Println()
	fmt.Println("✓ Signed in!")
	fmt.Printf("Account: %s (%s)\n", res.Data.User.FullName, res.Data.User.Email)

	return nil
}

func (c *Cli) runSignup(ctx context.Context) error {
	fmt.Println("=== Create account ===")
	fmt.Println()

	email, err := readInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	fullName, err := readInput("Full name: ")
	if err != nil {
		return fmt.Errorf("failed to read full name: %w", err)
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read password confirmation: %w", err)
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	fmt.Println()
	fmt.Println("Creating account...")

	res := c.sessions.Signup(ctx, pkgapi.SignupRequest{
		Email:    email,
		Password: password,
		FullName: fullName,
	})
	if !res.OK() || res.Data == nil {
		return fmt.Errorf("signup failed: %s", res.Detail())
	}

	fmt.Println()
	fmt.Println("✓ Account created and signed in!")
	fmt.Printf("Account: %s (%s)\n", res.Data.User.FullName, res.Data.User.Email)

	return nil
}
