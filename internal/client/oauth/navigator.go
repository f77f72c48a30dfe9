package oauth

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Navigator sends the user's browser to a URL. The flow only ever
// navigates to authorization URLs returned by the backend.
type Navigator interface {
	Navigate(url string) error
}

// BrowserNavigator opens the system browser
type BrowserNavigator struct{}

// Navigate opens url in the default browser
func (BrowserNavigator) Navigate(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	return nil
}
