package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Alia5/padlink/apitypes"
)

// Client provides a high-level interface to the padlink control API.
type Client struct{ transport *Transport }

// New constructs a client for the API at addr (host:port).
func New(addr string) *Client { return &Client{transport: NewTransport(addr)} }

// NewWithPassword constructs a client that authenticates with the given password.
func NewWithPassword(addr, password string) *Client {
	return &Client{transport: NewTransportWithPassword(addr, password)}
}

// NewWithConfig constructs a client with custom transport timeouts.
func NewWithConfig(addr string, cfg *Config) *Client {
	return &Client{transport: NewTransportWithConfig(addr, cfg)}
}

// WithTransport constructs a Client using a custom Transport, mostly for tests.
func WithTransport(t *Transport) *Client { return &Client{transport: t} }

// Ping returns the version and identity of the server.
func (c *Client) Ping() (*apitypes.PingResponse, error) {
	return c.PingCtx(context.Background())
}

func (c *Client) PingCtx(ctx context.Context) (*apitypes.PingResponse, error) {
	return call[apitypes.PingResponse](ctx, c, "ping")
}

// LinkState returns the state of the Bluetooth link.
func (c *Client) LinkState() (*apitypes.LinkStateResponse, error) {
	return c.LinkStateCtx(context.Background())
}

func (c *Client) LinkStateCtx(ctx context.Context) (*apitypes.LinkStateResponse, error) {
	return call[apitypes.LinkStateResponse](ctx, c, "link/state")
}

// LinkConnect starts a new connect attempt. It fails with 409 while a
// connect is running or the link is up.
func (c *Client) LinkConnect() (*apitypes.LinkStateResponse, error) {
	return c.LinkConnectCtx(context.Background())
}

func (c *Client) LinkConnectCtx(ctx context.Context) (*apitypes.LinkStateResponse, error) {
	return call[apitypes.LinkStateResponse](ctx, c, "link/connect")
}

// LinkStats returns the counters of the current session.
func (c *Client) LinkStats() (*apitypes.LinkStatsResponse, error) {
	return c.LinkStatsCtx(context.Background())
}

func (c *Client) LinkStatsCtx(ctx context.Context) (*apitypes.LinkStatsResponse, error) {
	return call[apitypes.LinkStatsResponse](ctx, c, "link/stats")
}

func call[T any](ctx context.Context, c *Client, path string) (*T, error) {
	raw, err := c.transport.DoCtx(ctx, path, nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[T](raw)
}

func parse[T any](data string) (*T, error) {
	if data == "" {
		return nil, errors.New("empty response")
	}
	var problem apitypes.ApiError
	if err := json.Unmarshal([]byte(data), &problem); err == nil && (problem.Status != 0 || problem.Title != "") {
		return nil, &problem
	}
	var out T
	if err := json.NewDecoder(bytes.NewReader([]byte(data))).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &out, nil
}
