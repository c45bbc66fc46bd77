// Package serialport reaches the board through a serial TTY, typically a
// /dev/rfcommN node bound with `rfcomm bind` or a USB serial adapter.
package serialport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/tarm/serial"

	"github.com/Alia5/padlink/connector"
)

// DefaultBaud is the HC-05 data mode default.
const DefaultBaud = 9600

// Config selects the TTY.
type Config struct {
	Port string `name:"serial-port" help:"Serial device for --link.transport=serial" default:"/dev/rfcomm0" env:"PADLINK_LINK_SERIAL_PORT"`
	Baud int    `help:"Serial baud rate" default:"9600" env:"PADLINK_LINK_BAUD"`
}

// Dialer opens the configured port regardless of which bonded device was
// selected; the port is expected to be bound to that device already.
type Dialer struct {
	Config Config
	Logger *slog.Logger

	// open is replaced in tests.
	open func(*serial.Config) (io.WriteCloser, error)
}

func openPort(c *serial.Config) (io.WriteCloser, error) { return serial.OpenPort(c) }

func (d *Dialer) portConfig() *serial.Config {
	baud := d.Config.Baud
	if baud <= 0 {
		baud = DefaultBaud
	}
	return &serial.Config{
		Name:        d.Config.Port,
		Baud:        baud,
		ReadTimeout: 100 * time.Millisecond,
	}
}

func (d *Dialer) Dial(ctx context.Context, dev connector.Device, serviceUUID string) (io.WriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := d.portConfig()
	if cfg.Name == "" {
		return nil, fmt.Errorf("no serial port configured")
	}
	open := d.open
	if open == nil {
		open = openPort
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("opening serial port", "port", cfg.Name, "baud", cfg.Baud, "device", dev.Name)
	p, err := open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Name, err)
	}
	return p, nil
}
