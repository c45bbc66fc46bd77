// Package connector finds the paired controller board and opens the link to it.
package connector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/Alia5/padlink/internal/log"
	"github.com/Alia5/padlink/link"
)

// SerialPortUUID is the Bluetooth Serial Port Profile service class.
const SerialPortUUID = "00001101-0000-1000-8000-00805F9B34FB"

// DefaultNameFilter matches the stock name of HC-05 modules.
const DefaultNameFilter = "HC-05"

// Device is a bonded peer as reported by the platform.
type Device struct {
	Name    string
	Address string
	UUIDs   []string
}

// HasService reports whether the device advertises the given service UUID.
func (d Device) HasService(uuid string) bool {
	for _, u := range d.UUIDs {
		if strings.EqualFold(u, uuid) {
			return true
		}
	}
	return false
}

// Enumerator lists already bonded devices, in a stable order.
type Enumerator interface {
	BondedDevices(ctx context.Context) ([]Device, error)
}

// Dialer opens the byte channel to a device for the given service.
type Dialer interface {
	Dial(ctx context.Context, dev Device, serviceUUID string) (io.WriteCloser, error)
}

// PermissionChecker verifies the process may use the transport at all.
type PermissionChecker interface {
	CheckPermission(ctx context.Context) error
}

// Notifier is told about connect outcomes. All calls happen on the
// goroutine that calls Connect and Complete.
type Notifier interface {
	NotifyConnected()
	NotifyFailed(reason error)
	NotifyNoDeviceFound()
}

// Result is the outcome of the background connect.
type Result struct {
	Session *link.Session
	Err     error
}

// Config selects the target device.
type Config struct {
	NameFilter  string
	ServiceUUID string
}

// Deps are the platform collaborators. Permission may be nil.
type Deps struct {
	Enumerator Enumerator
	Dialer     Dialer
	Permission PermissionChecker
	Notifier   Notifier
}

// Connector drives Disconnected -> Connecting -> Connected | Failed.
type Connector struct {
	cfg     Config
	deps    Deps
	slot    *link.Slot
	session link.SessionConfig
	logger  *slog.Logger
	raw     log.RawLogger

	mu     sync.Mutex
	status Status
}

// New returns a Connector in the Disconnected state. A successful connect
// installs its session into slot.
func New(cfg Config, deps Deps, slot *link.Slot, sessionCfg link.SessionConfig, logger *slog.Logger, raw log.RawLogger) *Connector {
	if cfg.NameFilter == "" {
		cfg.NameFilter = DefaultNameFilter
	}
	if cfg.ServiceUUID == "" {
		cfg.ServiceUUID = SerialPortUUID
	}
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Connector{
		cfg:     cfg,
		deps:    deps,
		slot:    slot,
		session: sessionCfg,
		logger:  logger,
		raw:     raw,
	}
}

// State returns a snapshot of the connection state.
func (c *Connector) State() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Connector) set(st Status) {
	c.mu.Lock()
	c.status = st
	c.mu.Unlock()
	c.logger.Debug("connector state", "state", st.State, "device", st.Device.Name, "reason", st.Reason)
}

// Select returns the first device whose name contains filter.
func Select(devices []Device, filter string) (Device, bool) {
	for _, d := range devices {
		if strings.Contains(d.Name, filter) {
			return d, true
		}
	}
	return Device{}, false
}

// Connect checks permissions, picks the target and starts the connect in the
// background. Selection failures are reported synchronously through both the
// returned error and the Notifier. On success the returned channel yields
// exactly one Result, which the caller must pass to Complete.
func (c *Connector) Connect(ctx context.Context) (<-chan Result, error) {
	c.mu.Lock()
	switch c.status.State {
	case StateConnecting, StateConnected:
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.status = Status{State: StateConnecting}
	c.mu.Unlock()

	if c.deps.Permission != nil {
		if err := c.deps.Permission.CheckPermission(ctx); err != nil {
			return nil, c.denied(err)
		}
	}

	devices, err := c.deps.Enumerator.BondedDevices(ctx)
	if err != nil {
		if errors.Is(err, ErrPermissionDenied) {
			return nil, c.denied(err)
		}
		err = fmt.Errorf("list bonded devices: %w", err)
		c.set(Status{State: StateFailed, Reason: err})
		c.deps.Notifier.NotifyFailed(err)
		return nil, err
	}

	dev, ok := Select(devices, c.cfg.NameFilter)
	if !ok {
		c.logger.Warn("no bonded device matches", "filter", c.cfg.NameFilter, "bonded", len(devices))
		c.set(Status{State: StateFailed, Reason: ErrNoMatchingDevice})
		c.deps.Notifier.NotifyNoDeviceFound()
		return nil, ErrNoMatchingDevice
	}
	if len(dev.UUIDs) > 0 && !dev.HasService(c.cfg.ServiceUUID) {
		c.logger.Warn("device does not advertise service, trying anyway", "device", dev.Name, "uuid", c.cfg.ServiceUUID)
	}

	c.set(Status{State: StateConnecting, Device: dev})
	c.logger.Info("connecting", "device", dev.Name, "address", dev.Address)

	out := make(chan Result, 1)
	go func() {
		conn, err := c.deps.Dialer.Dial(ctx, dev, c.cfg.ServiceUUID)
		if err != nil {
			out <- Result{Err: &ConnectError{Device: dev, Err: err}}
			return
		}
		out <- Result{Session: link.NewSession(conn, dev.Name, c.session, c.logger, c.raw)}
	}()
	return out, nil
}

// Complete applies a Result produced by Connect. It must run on the same
// goroutine that handles input so the notifier sees a consistent order.
func (c *Connector) Complete(res Result) {
	st := c.State()
	if res.Err != nil {
		c.logger.Error("connect failed", "device", st.Device.Name, "error", res.Err)
		c.set(Status{State: StateFailed, Device: st.Device, Reason: res.Err})
		c.deps.Notifier.NotifyFailed(res.Err)
		return
	}
	if prev := c.slot.Install(res.Session); prev != nil {
		prev.Close()
	}
	c.set(Status{State: StateConnected, Device: st.Device})
	c.logger.Info("connected", "device", st.Device.Name, "address", st.Device.Address)
	c.deps.Notifier.NotifyConnected()
}

// ConnectAndWait runs Connect and Complete back to back. It is meant for
// callers without an event loop, such as one-shot commands.
func (c *Connector) ConnectAndWait(ctx context.Context) error {
	ch, err := c.Connect(ctx)
	if err != nil {
		return err
	}
	select {
	case res := <-ch:
		c.Complete(res)
		return res.Err
	case <-ctx.Done():
		go func() {
			if res := <-ch; res.Session != nil {
				res.Session.Close()
			}
		}()
		c.Complete(Result{Err: &ConnectError{Device: c.State().Device, Err: ctx.Err()}})
		return ctx.Err()
	}
}

// Close closes the installed session and returns to Disconnected. A later
// Connect starts over.
func (c *Connector) Close() {
	c.slot.Close()
	st := c.State()
	c.set(Status{State: StateDisconnected, Device: st.Device})
}

func (c *Connector) denied(err error) error {
	if !errors.Is(err, ErrPermissionDenied) {
		err = fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}
	c.logger.Warn("permission denied", "error", err)
	c.set(Status{State: StateDisconnected, Reason: err})
	c.deps.Notifier.NotifyFailed(err)
	return err
}

type nopNotifier struct{}

func (nopNotifier) NotifyConnected()     {}
func (nopNotifier) NotifyFailed(error)   {}
func (nopNotifier) NotifyNoDeviceFound() {}
