package api_test

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/padlink/internal/server/api"
	th "github.com/Alia5/padlink/internal/testing"
)

func TestServerDispatch(t *testing.T) {
	register := func(r *api.Router) {
		r.Register("echo", func(req *api.Request, res *api.Response, _ *slog.Logger) error {
			res.JSON = fmt.Sprintf(`{"payload":%q}`, req.Payload)
			return nil
		})
		r.Register("link/{name}/state", func(req *api.Request, res *api.Response, _ *slog.Logger) error {
			res.JSON = fmt.Sprintf(`{"name":%q}`, req.Params["name"])
			return nil
		})
		r.Register("empty", func(*api.Request, *api.Response, *slog.Logger) error { return nil })
		r.Register("conflict", func(*api.Request, *api.Response, *slog.Logger) error {
			return api.ErrConflict("busy")
		})
		r.Register("boom", func(*api.Request, *api.Response, *slog.Logger) error {
			return errors.New("boom")
		})
	}

	tests := []struct {
		name string
		cmd  string
		want string
	}{
		{name: "payload after first whitespace", cmd: "echo a b\tc", want: `{"payload":"a b\tc"}`},
		{name: "path is case insensitive", cmd: "ECHO x", want: `{"payload":"x"}`},
		{name: "path params", cmd: "link/hc05/state", want: `{"name":"hc05"}`},
		{name: "empty success", cmd: "empty", want: ""},
		{name: "api error", cmd: "conflict", want: `{"status":409,"title":"Conflict","detail":"busy"}`},
		{name: "plain error", cmd: "boom", want: `{"status":500,"title":"Internal Server Error","detail":"boom"}`},
		{name: "unknown path", cmd: "nope", want: `{"status":404,"title":"Not Found","detail":"unknown path: nope"}`},
		{name: "empty request", cmd: "", want: `{"status":400,"title":"Bad Request","detail":"empty request"}`},
		{name: "empty path", cmd: " x", want: `{"status":400,"title":"Bad Request","detail":"empty path"}`},
	}
	addr := th.StartAPIServer(t, api.ServerConfig{}, register)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, th.ExecCmd(t, addr, tt.cmd))
		})
	}
}

func TestServerStreamHandlerErrorClosesConn(t *testing.T) {
	addr := th.StartAPIServer(t, api.ServerConfig{}, func(r *api.Router) {
		r.RegisterStream("input", func(*api.Request, net.Conn, *slog.Logger) error {
			return errors.New("boom")
		})
	})
	c, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer c.Close()
	_, err = c.Write([]byte("input\x00"))
	require.NoError(t, err)

	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err = c.Read(make([]byte, 1))
	assert.Error(t, err)
}

func TestServerStreamSeesBufferedBytes(t *testing.T) {
	got := make(chan string, 1)
	addr := th.StartAPIServer(t, api.ServerConfig{}, func(r *api.Router) {
		r.RegisterStream("input", func(_ *api.Request, conn net.Conn, _ *slog.Logger) error {
			buf := make([]byte, 3)
			_, err := conn.Read(buf)
			got <- string(buf)
			return err
		})
	})
	c, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer c.Close()
	_, err = c.Write([]byte("input\x00abc"))
	require.NoError(t, err)

	select {
	case s := <-got:
		assert.Equal(t, "abc", s)
	case <-time.After(2 * time.Second):
		t.Fatal("stream handler did not run")
	}
}

func TestServerRequestTimeout(t *testing.T) {
	addr := th.StartAPIServer(t, api.ServerConfig{RequestTimeout: 50 * time.Millisecond}, nil)
	c, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer c.Close()
	_, err = c.Write([]byte("ping"))
	require.NoError(t, err)

	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err = c.Read(make([]byte, 1))
	assert.Error(t, err, "server must drop a client that never terminates its request")
}

func TestServerAddrBeforeStart(t *testing.T) {
	srv, err := api.New(api.ServerConfig{}, nil)
	require.NoError(t, err)
	assert.Nil(t, srv.Addr())
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, api.WrapError(nil))
	wrapped := fmt.Errorf("ctx: %w", api.ErrNotFound("x"))
	assert.Equal(t, 404, api.WrapError(wrapped).Status)
	assert.Equal(t, 500, api.WrapError(errors.New("y")).Status)
}
