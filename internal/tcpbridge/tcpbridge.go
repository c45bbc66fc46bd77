// Package tcpbridge reaches the board through a serial-to-TCP bridge. Peers
// are configured statically and play the role of bonded devices.
package tcpbridge

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/Alia5/padlink/connector"
)

// ParsePeers parses "name=host:port" entries, keeping their order.
func ParsePeers(entries []string) ([]connector.Device, error) {
	out := make([]connector.Device, 0, len(entries))
	for _, e := range entries {
		name, addr, ok := strings.Cut(e, "=")
		name = strings.TrimSpace(name)
		addr = strings.TrimSpace(addr)
		if !ok || name == "" || addr == "" {
			return nil, fmt.Errorf("invalid peer %q, want name=host:port", e)
		}
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return nil, fmt.Errorf("invalid peer %q: %w", e, err)
		}
		out = append(out, connector.Device{Name: name, Address: addr})
	}
	return out, nil
}

// Peers is a fixed Enumerator.
type Peers []connector.Device

func (p Peers) BondedDevices(context.Context) ([]connector.Device, error) {
	return []connector.Device(p), nil
}

// Dialer opens a TCP connection to the peer address.
type Dialer struct {
	Timeout time.Duration
}

func (d Dialer) Dial(ctx context.Context, dev connector.Device, _ string) (io.WriteCloser, error) {
	nd := &net.Dialer{Timeout: d.Timeout}
	conn, err := nd.DialContext(ctx, "tcp", dev.Address)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
	}
	return conn, nil
}
