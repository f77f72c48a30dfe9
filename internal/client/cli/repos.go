package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runRepos(ctx context.Context) error {
	res := c.github.Repositories(ctx)
	if !res.OK() || res.Data == nil {
		return fmt.Errorf("failed to list repositories: %s", res.Detail())
	}

	repos := *res.Data
	if len(repos) == 0 {
		fmt.Println("No repositories found.")
		return nil
	}

	fmt.Printf("=== Repositories (%d) ===\n", len(repos))
	fmt.Println()
	for _, repo := range repos {
		visibility := "public"
		if repo.Private {
			visibility = "private"
		}
		fmt.Printf("%-45s %-8s %s\n", repo.FullName, visibility, repo.Description)
	}

	return nil
}

func (c *Cli) runOrgs(ctx context.Context) error {
	res := c.github.Organizations(ctx)
	if !res.OK() || res.Data == nil {
		return fmt.Errorf("failed to list organizations: %s", res.Detail())
	}

	orgs := *res.Data
	if len(orgs) == 0 {
		fmt.Println("No organizations found.")
		return nil
	}

	fmt.Printf("=== Organizations (%d) ===\n", len(orgs))
	fmt.Println()
	for _, org := range orgs {
		fmt.Printf("%-30s %s\n", org.Login, org.Description)
	}

	return nil
}
