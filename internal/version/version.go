// Package version carries the build version.
package version

import (
	"fmt"
	"strings"
)

// Version is set via ldflags at build time: -ldflags "-X github.com/Alia5/padlink/internal/version.Version=x.y.z"
var Version = ""

// Get returns the build version, or "0.0.1-dev" for untagged builds.
func Get() (string, error) {
	if Version == "" {
		return "0.0.1-dev", nil
	}
	v := strings.TrimPrefix(Version, "v")
	base := strings.SplitN(v, "-", 2)[0]
	if !strings.Contains(base, ".") {
		return "", fmt.Errorf("invalid version format: %s (expected x.y.z)", Version)
	}
	return v, nil
}
