package testing

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/Alia5/padlink/connector"
	"github.com/Alia5/padlink/protocol"
)

// Enumerator returns a fixed device list or error.
type Enumerator struct {
	Devices []connector.Device
	Err     error
	Calls   int
}

func (e *Enumerator) BondedDevices(context.Context) ([]connector.Device, error) {
	e.Calls++
	return e.Devices, e.Err
}

// Permission returns Err from every check.
type Permission struct{ Err error }

func (p Permission) CheckPermission(context.Context) error { return p.Err }

// Dialer hands out Conns, or fails with Err. When Gate is set, Dial waits
// for it to be closed first.
type Dialer struct {
	Err  error
	Gate chan struct{}

	mu    sync.Mutex
	Conns []*Conn
	Seen  []connector.Device
	UUIDs []string
}

func (d *Dialer) Dial(ctx context.Context, dev connector.Device, uuid string) (io.WriteCloser, error) {
	if d.Gate != nil {
		select {
		case <-d.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Seen = append(d.Seen, dev)
	d.UUIDs = append(d.UUIDs, uuid)
	if d.Err != nil {
		return nil, d.Err
	}
	c := &Conn{}
	d.Conns = append(d.Conns, c)
	return c, nil
}

// Last returns the most recently dialed Conn.
func (d *Dialer) Last() *Conn {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.Conns) == 0 {
		return nil
	}
	return d.Conns[len(d.Conns)-1]
}

// Conn is an in-memory link end.
type Conn struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	closed bool
}

func (c *Conn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, errors.New("write on closed conn")
	}
	return c.buf.Write(p)
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *Conn) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Notifier records notifications in call order.
type Notifier struct {
	mu     sync.Mutex
	Events []string
	Errs   []error
}

func (n *Notifier) NotifyConnected() { n.add("connected", nil) }
func (n *Notifier) NotifyFailed(reason error) {
	n.add("failed", reason)
}
func (n *Notifier) NotifyNoDeviceFound() { n.add("no-device", nil) }

func (n *Notifier) add(ev string, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Events = append(n.Events, ev)
	if err != nil {
		n.Errs = append(n.Errs, err)
	}
}

func (n *Notifier) Snapshot() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.Events...)
}

// Tokens collects tokens from a translator.
type Tokens struct {
	mu  sync.Mutex
	All []protocol.Token
}

func (t *Tokens) AppendToken(tok protocol.Token) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.All = append(t.All, tok)
}

func (t *Tokens) Send(tok protocol.Token) { t.AppendToken(tok) }

func (t *Tokens) Snapshot() []protocol.Token {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]protocol.Token(nil), t.All...)
}

// Link is a scripted link controller for API handlers.
type Link struct {
	mu         sync.Mutex
	St         connector.Status
	ConnectErr error
	Connects   int
	// After replaces St on a successful Connect.
	After connector.Status
}

func (l *Link) Status() connector.Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.St
}

func (l *Link) Connect(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Connects++
	if l.ConnectErr != nil {
		return l.ConnectErr
	}
	l.St = l.After
	return nil
}
