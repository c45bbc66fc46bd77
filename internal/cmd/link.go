package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Alia5/padlink/connector"
	"github.com/Alia5/padlink/internal/bluez"
	"github.com/Alia5/padlink/internal/rfcomm"
	"github.com/Alia5/padlink/internal/serialport"
	"github.com/Alia5/padlink/internal/tcpbridge"
	"github.com/Alia5/padlink/link"
)

// LinkConfig selects how the board is found and reached.
type LinkConfig struct {
	Transport   string        `help:"How to reach the board" enum:"rfcomm,serial,tcp" default:"rfcomm" env:"PADLINK_LINK_TRANSPORT"`
	NameFilter  string        `help:"Connect to the first bonded device whose name contains this" default:"HC-05" env:"PADLINK_LINK_NAME_FILTER"`
	ServiceUUID string        `name:"service-uuid" help:"Service the device must offer" default:"00001101-0000-1000-8000-00805F9B34FB" env:"PADLINK_LINK_SERVICE_UUID"`
	Adapter     string        `help:"Bluetooth controller to enumerate" default:"hci0" env:"PADLINK_LINK_ADAPTER"`
	Channel     uint8         `help:"RFCOMM channel of the serial port service" default:"1" env:"PADLINK_LINK_CHANNEL"`
	Peer        []string      `help:"TCP peers for --link.transport=tcp, as name=host:port" env:"PADLINK_LINK_PEER"`
	DialTimeout time.Duration `help:"TCP connect timeout" default:"10s" env:"PADLINK_LINK_DIAL_TIMEOUT"`

	Serial  serialport.Config  `embed:""`
	Session link.SessionConfig `embed:""`
}

func (l LinkConfig) connectorConfig() connector.Config {
	return connector.Config{NameFilter: l.NameFilter, ServiceUUID: l.ServiceUUID}
}

// deps builds the platform collaborators for the configured transport. The
// returned func releases them.
func (l LinkConfig) deps(logger *slog.Logger) (connector.Deps, func(), error) {
	switch l.Transport {
	case "tcp":
		peers, err := tcpbridge.ParsePeers(l.Peer)
		if err != nil {
			return connector.Deps{}, nil, err
		}
		return connector.Deps{
			Enumerator: tcpbridge.Peers(peers),
			Dialer:     tcpbridge.Dialer{Timeout: l.DialTimeout},
		}, func() {}, nil

	case "rfcomm", "serial", "":
		adapter := bluez.New(l.Adapter, logger)
		deps := connector.Deps{Enumerator: adapter}
		if l.Transport == "serial" {
			deps.Dialer = &serialport.Dialer{Config: l.Serial, Logger: logger}
		} else {
			deps.Dialer = &rfcomm.Dialer{Channel: l.Channel, Logger: logger}
			deps.Permission = rfcomm.Permission{}
		}
		return deps, func() { _ = adapter.Close() }, nil
	}
	return connector.Deps{}, nil, fmt.Errorf("unknown transport %q", l.Transport)
}
