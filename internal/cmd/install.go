package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Install registers padlink as a service that starts the run command on
// boot. Args are appended to the run command line.
type Install struct {
	Args []string `arg:"" optional:"" passthrough:"" help:"Extra run flags, e.g. --link.name-filter=HC-06"`
}

func (i *Install) Run(logger *slog.Logger) error {
	return install(logger, i.Args)
}

// Uninstall removes the service registered by Install.
type Uninstall struct{}

func (u *Uninstall) Run(logger *slog.Logger) error {
	return uninstall(logger)
}

func currentExecutable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return exe, nil
	}
	return resolved, nil
}
