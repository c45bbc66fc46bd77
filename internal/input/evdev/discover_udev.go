//go:build linux && cgo

package evdev

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jochenvg/go-udev"
)

// ErrNoGamepad is returned when no joystick event node exists.
var ErrNoGamepad = errors.New("no gamepad found")

// Discover returns the first joystick event node known to udev, ordered by
// node path.
func Discover() (string, error) {
	u := udev.Udev{}
	e := u.NewEnumerate()
	if err := e.AddMatchSubsystem("input"); err != nil {
		return "", fmt.Errorf("udev match subsystem: %w", err)
	}
	if err := e.AddMatchProperty("ID_INPUT_JOYSTICK", "1"); err != nil {
		return "", fmt.Errorf("udev match property: %w", err)
	}
	if err := e.AddMatchIsInitialized(); err != nil {
		return "", fmt.Errorf("udev match initialized: %w", err)
	}
	devices, err := e.Devices()
	if err != nil {
		return "", fmt.Errorf("udev enumerate: %w", err)
	}
	var nodes []string
	for _, d := range devices {
		if n := d.Devnode(); isEventNode(n) {
			nodes = append(nodes, n)
		}
	}
	if len(nodes) == 0 {
		return "", ErrNoGamepad
	}
	sort.Strings(nodes)
	return nodes[0], nil
}

func isEventNode(path string) bool {
	return strings.HasPrefix(path, "/dev/input/event")
}
