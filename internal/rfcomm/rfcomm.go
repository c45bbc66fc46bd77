// Package rfcomm opens Bluetooth RFCOMM stream sockets, the transport under
// the Serial Port Profile.
package rfcomm

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultChannel is where HC-05 modules expose SPP.
const DefaultChannel = 1

// ParseAddress converts "98:D3:31:F5:12:AB" into the little endian byte
// order used by bdaddr_t.
func ParseAddress(addr string) ([6]byte, error) {
	var b [6]byte
	parts := strings.Split(addr, ":")
	if len(parts) != 6 {
		return b, fmt.Errorf("invalid bluetooth address %q", addr)
	}
	for i, p := range parts {
		u, err := strconv.ParseUint(p, 16, 8)
		if err != nil || len(p) != 2 {
			return b, fmt.Errorf("invalid bluetooth address %q", addr)
		}
		b[len(b)-1-i] = byte(u)
	}
	return b, nil
}
