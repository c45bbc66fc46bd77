package testing

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"

	"github.com/Alia5/padlink/internal/server/api"
)

// StartAPIServer starts an API server on a free loopback port and lets the
// caller register routes. The server is closed on test cleanup.
func StartAPIServer(t *testing.T, cfg api.ServerConfig, register func(r *api.Router)) (addr string) {
	t.Helper()
	cfg.Addr = "127.0.0.1:0"
	srv, err := api.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("api new failed: %v", err)
	}
	if register != nil {
		register(srv.Router())
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("api start failed: %v", err)
	}
	t.Cleanup(srv.Close)
	return srv.Addr().String()
}

// ExecCmd dials the API server, sends cmd and reads the response line
// without its trailing newline.
func ExecCmd(t *testing.T, addr string, cmd string) string {
	t.Helper()
	c, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer c.Close()

	_, _ = fmt.Fprintf(c, "%s\x00", cmd)

	line, err := bufio.NewReader(c).ReadString('\n')
	if err != nil && err != io.EOF {
		t.Fatalf("read failed: %v", err)
	}
	return strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
}
