package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/internal/client/github"
	"github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/internal/client/oauth"
	"github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/internal/client/session"
)

// Cli wires the session, OAuth and GitHub services behind the agentctl
// command surface
type Cli struct {
	sessions *session.Service
	state    *session.State
	flow     *oauth.Flow
	listener *oauth.Listener
	github   *github.Service
	logger   *slog.Logger
}

// New creates the command dispatcher
func New(sessions *session.Service, flow *oauth.Flow, listener *oauth.Listener, gh *github.Service, logger *slog.Logger) *Cli {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cli{
		sessions: sessions,
		state:    session.NewState(sessions),
		flow:     flow,
		listener: listener,
		github:   gh,
		logger:   logger,
	}
}

// Run dispatches a command. Panics from any command are caught here and
// rendered as a recovery message instead of a bare crash.
func (c *Cli) Run(ctx context.Context, command string, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("panic recovered",
				"command", command,
				"error", r,
				"stack", string(debug.Stack()),
			)
			fmt.Println()
			fmt.Println("Something went wrong. Your session data is intact.")
			fmt.Println("Please retry the command; if it keeps failing, run 'agentctl status'.")
			err = fmt.Errorf("unexpected error in %q", command)
		}
	}()

	switch command {
	case "signup":
		return c.runSignup(ctx)
	case "login":
		if len(args) > 0 && args[0] == "github" {
			return c.runLoginGitHub(ctx, args[1:])
		}
		return c.runLogin(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "profile":
		return c.runProfile(ctx, args)
	case "github":
		return c.runGitHub(ctx, args)
	case "repos":
		return c.runRepos(ctx)
	case "orgs":
		return c.runOrgs(ctx)
	case "prs":
		return c.runPullRequests(ctx, args)
	case "merge":
		return c.runMerge(ctx, args)
	default:
		PrintUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

// PrintUsage prints the command overview
func PrintUsage() {
	fmt.Println("DevOps AI Agent Client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  agentctl [OPTIONS] COMMAND")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --server URL   Backend URL (default: http://localhost:8080, or AGENT_SERVER_URL)")
	fmt.Println("  --db PATH      Path to the local session database (default: ~/.agentctl.db)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  signup                     Create an account")
	fmt.Println("  login                      Sign in with email and password")
	fmt.Println("  login github [--force] [--redirect-to PATH]")
	fmt.Println("                             Sign in with GitHub")
	fmt.Println("  logout                     Sign out and clear the local session")
	fmt.Println("  status                     Show session status")
	fmt.Println("  profile [update]           Show or update your profile")
	fmt.Println("  github connect [--force] [--replace]")
	fmt.Println("                             Link a GitHub account")
	fmt.Println("  github info                Show the linked GitHub account")
	fmt.Println("  github update              Re-authorize to replace the linked account")
	fmt.Println("  github disconnect          Unlink the GitHub account")
	fmt.Println("  repos                      List your repositories")
	fmt.Println("  orgs                       List your organizations")
	fmt.Println("  prs [owner/repo]           List open pull requests")
	fmt.Println("  merge owner/repo NUMBER    Trigger an automated merge")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  agentctl login github")
	fmt.Println("  agentctl prs octocat/hello-world")
	fmt.Println("  agentctl merge octocat/hello-world 42")
}

// readInput reads one trimmed line from stdin
func readInput(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// readPassword reads a password without echoing it
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(passwordBytes), nil
}
