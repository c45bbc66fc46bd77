// Package bluez lists bonded Bluetooth devices through the BlueZ D-Bus API.
package bluez

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"syscall"

	"github.com/godbus/dbus/v5"

	"github.com/Alia5/padlink/connector"
)

const (
	busName           = "org.bluez"
	device1           = "org.bluez.Device1"
	dbusObjectManager = "org.freedesktop.DBus.ObjectManager"
	errAccessDenied   = "org.freedesktop.DBus.Error.AccessDenied"
	errServiceUnknown = "org.freedesktop.DBus.Error.ServiceUnknown"
)

// ManagedObjects is the reply of ObjectManager.GetManagedObjects.
type ManagedObjects map[dbus.ObjectPath]map[string]map[string]dbus.Variant

// Adapter enumerates devices below one controller, e.g. hci0.
type Adapter struct {
	adapter string
	logger  *slog.Logger
	// connect is replaced in tests.
	connect func() (*dbus.Conn, error)

	mu   sync.Mutex
	conn *dbus.Conn
}

// New returns an Adapter. The system bus is connected on the first
// enumeration, so a missing or forbidden bus surfaces as a connect failure.
func New(adapter string, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{adapter: adapter, logger: logger, connect: dbus.ConnectSystemBus}
}

// Close releases the bus connection, if one was made.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.conn == nil {
		return nil
	}
	err := a.conn.Close()
	a.conn = nil
	return err
}

func (a *Adapter) bus() (*dbus.Conn, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.conn != nil {
		return a.conn, nil
	}
	conn, err := a.connect()
	if err != nil {
		return nil, mapError(fmt.Errorf("connect system bus: %w", err))
	}
	a.conn = conn
	return conn, nil
}

// BondedDevices returns paired devices sorted by object path, so that
// repeated calls pick the same first match.
func (a *Adapter) BondedDevices(ctx context.Context) ([]connector.Device, error) {
	conn, err := a.bus()
	if err != nil {
		return nil, err
	}
	var objects ManagedObjects
	obj := conn.Object(busName, "/")
	call := obj.CallWithContext(ctx, dbusObjectManager+".GetManagedObjects", 0)
	if call.Err != nil {
		return nil, mapError(fmt.Errorf("GetManagedObjects: %w", call.Err))
	}
	if err := call.Store(&objects); err != nil {
		return nil, fmt.Errorf("decode managed objects: %w", err)
	}
	devices := DevicesFromObjects(objects, a.adapter)
	a.logger.Debug("bonded devices", "adapter", a.adapter, "count", len(devices))
	return devices, nil
}

// DevicesFromObjects extracts paired Device1 objects. An empty adapter
// matches every controller.
func DevicesFromObjects(objects ManagedObjects, adapter string) []connector.Device {
	paths := make([]string, 0, len(objects))
	for p := range objects {
		paths = append(paths, string(p))
	}
	sort.Strings(paths)

	prefix := ""
	if adapter != "" {
		prefix = "/org/bluez/" + adapter + "/"
	}

	var out []connector.Device
	for _, p := range paths {
		if prefix != "" && !strings.HasPrefix(p, prefix) {
			continue
		}
		props, ok := objects[dbus.ObjectPath(p)][device1]
		if !ok {
			continue
		}
		if !boolProp(props, "Paired") && !boolProp(props, "Bonded") {
			continue
		}
		name := stringProp(props, "Name")
		if name == "" {
			name = stringProp(props, "Alias")
		}
		d := connector.Device{
			Name:    name,
			Address: stringProp(props, "Address"),
		}
		if v, ok := props["UUIDs"]; ok {
			d.UUIDs, _ = v.Value().([]string)
		}
		out = append(out, d)
	}
	return out
}

func boolProp(props map[string]dbus.Variant, key string) bool {
	v, ok := props[key]
	if !ok {
		return false
	}
	b, _ := v.Value().(bool)
	return b
}

func stringProp(props map[string]dbus.Variant, key string) string {
	v, ok := props[key]
	if !ok {
		return ""
	}
	s, _ := v.Value().(string)
	return s
}

// mapError turns D-Bus policy rejections and a forbidden bus socket into
// connector.ErrPermissionDenied.
func mapError(err error) error {
	if errors.Is(err, syscall.EACCES) || errors.Is(err, syscall.EPERM) {
		return fmt.Errorf("%w: %w", connector.ErrPermissionDenied, err)
	}
	var name string
	var de dbus.Error
	var pde *dbus.Error
	switch {
	case errors.As(err, &de):
		name = de.Name
	case errors.As(err, &pde):
		name = pde.Name
	default:
		return err
	}
	switch name {
	case errAccessDenied:
		return fmt.Errorf("%w: %w", connector.ErrPermissionDenied, err)
	case errServiceUnknown:
		return fmt.Errorf("bluetooth service not running: %w", err)
	}
	return err
}
