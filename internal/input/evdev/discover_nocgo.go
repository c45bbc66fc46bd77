//go:build linux && !cgo

package evdev

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
)

var ErrNoGamepad = errors.New("no gamepad found")

// Discover falls back to the persistent by-id links udev creates for
// joystick event nodes.
func Discover() (string, error) {
	links, err := filepath.Glob("/dev/input/by-id/*-event-joystick")
	if err != nil {
		return "", err
	}
	sort.Strings(links)
	for _, l := range links {
		if p, err := filepath.EvalSymlinks(l); err == nil {
			if _, err := os.Stat(p); err == nil {
				return p, nil
			}
		}
	}
	return "", ErrNoGamepad
}
