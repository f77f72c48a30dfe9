package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

func (c *Cli) runPullRequests(ctx context.Context, args []string) error {
	repo := ""
	if len(args) > 0 {
		repo = args[0]
	}

	res := c.github.PullRequests(ctx, repo)
	if !res.OK() || res.Data == nil {
		return fmt.Errorf("failed to list pull requests: %s", res.Detail())
	}

	prs := *res.Data
	if len(prs) == 0 {
		fmt.Println("No open pull requests.")
		return nil
	}

	fmt.Printf("=== Pull requests (%d) ===\n", len(prs))
	fmt.Println()
	for _, pr := range prs {
		mergeable := ""
		if pr.Mergeable {
			mergeable = "mergeable"
		}
		fmt.Printf("#%-5d %-50s %-15s %s\n", pr.Number, pr.Title, pr.Author, mergeable)
	}

	return nil
}

func (c *Cli) runMerge(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: agentctl merge owner/repo NUMBER")
	}

	owner, repo, ok := strings.Cut(args[0], "/")
	if !ok || owner == "" || repo == "" {
		return fmt.Errorf("invalid repository %q, expected owner/repo", args[0])
	}

	number, err := strconv.Atoi(args[1])
	if err != nil || number <= 0 {
		return fmt.Errorf("invalid pull request number %q", args[1])
	}

	fmt.Printf("Requesting merge of %s/%s#%d...\n", owner, repo, number)

	res := c.github.Merge(ctx, owner, repo, number)
	if !res.OK() || res.Data == nil {
		return fmt.Errorf("merge failed: %s", res.Detail())
	}

	if res.Data.Merged {
		fmt.Printf("✓ Merged: %s\n", res.Data.SHA)
	} else {
		fmt.Printf("Merge not performed: %s\n", res.Data.Message)
	}

	return nil
}
