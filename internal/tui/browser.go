package tui

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"
)

// openURL opens url in the user's web browser.
func openURL(url string) error {
	parts := detectOpenCommand()
	if len(parts) == 0 {
		return fmt.Errorf("no browser launcher available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	args := append(parts[1:], url)
	return exec.CommandContext(ctx, parts[0], args...).Run()
}

// detectOpenCommand returns the command that opens a URL on this platform.
func detectOpenCommand() []string {
	if runtime.GOOS == "darwin" {
		return []string{"open"}
	}

	if _, err := exec.LookPath("xdg-open"); err == nil {
		return []string{"xdg-open"}
	}

	if _, err := exec.LookPath("gio"); err == nil {
		return []string{"gio", "open"}
	}

	return nil
}
