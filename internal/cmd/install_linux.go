//go:build linux

package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	unitName = "padlink.service"
	unitPath = "/etc/systemd/system/" + unitName
)

func install(logger *slog.Logger, args []string) error {
	exe, err := currentExecutable()
	if err != nil {
		return err
	}
	if err := os.WriteFile(unitPath, []byte(systemdUnitContent(exe, args)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", unitPath, err)
	}
	for _, step := range [][]string{{"daemon-reload"}, {"enable", unitName}, {"restart", unitName}} {
		if err := systemctl(step...); err != nil {
			return err
		}
	}
	logger.Info("padlink service installed", "unit", unitPath, "exe", exe, "args", args)
	return nil
}

// uninstall keeps going past failures so a half-installed unit is still
// removed.
func uninstall(logger *slog.Logger) error {
	var errs []error
	for _, step := range [][]string{{"stop", unitName}, {"disable", unitName}} {
		errs = append(errs, systemctl(step...))
	}
	if err := os.Remove(unitPath); err != nil && !os.IsNotExist(err) {
		errs = append(errs, err)
	}
	errs = append(errs, systemctl("daemon-reload"))
	if err := errors.Join(errs...); err != nil {
		return err
	}
	logger.Info("padlink service removed", "unit", unitPath)
	return nil
}

// systemdUnitContent renders a unit that starts `padlink run` once BlueZ is
// up. The input group grants access to /dev/input/event* nodes.
func systemdUnitContent(exe string, args []string) string {
	cmdline := []string{strconv.Quote(exe), "run"}
	for _, a := range args {
		cmdline = append(cmdline, strconv.Quote(a))
	}

	var b strings.Builder
	b.WriteString("[Unit]\n")
	b.WriteString("Description=padlink gamepad to HC-05 bridge\n")
	b.WriteString("After=bluetooth.service\n")
	b.WriteString("Wants=bluetooth.service\n\n")
	b.WriteString("[Service]\n")
	b.WriteString("Type=simple\n")
	fmt.Fprintf(&b, "ExecStart=%s\n", strings.Join(cmdline, " "))
	fmt.Fprintf(&b, "WorkingDirectory=%s\n", filepath.Dir(exe))
	b.WriteString("SupplementaryGroups=input\n")
	b.WriteString("Restart=on-failure\n")
	b.WriteString("RestartSec=2s\n\n")
	b.WriteString("[Install]\n")
	b.WriteString("WantedBy=multi-user.target\n")
	return b.String()
}

func systemctl(args ...string) error {
	out, err := exec.Command("systemctl", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("systemctl %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}
