//go:build !linux

package cmd

import (
	"errors"
	"log/slog"
)

var errInstallUnsupported = errors.New("service install is only supported on linux")

func install(*slog.Logger, []string) error { return errInstallUnsupported }

func uninstall(*slog.Logger) error { return errInstallUnsupported }
