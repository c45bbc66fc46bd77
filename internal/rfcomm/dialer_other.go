//go:build !linux

package rfcomm

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/Alia5/padlink/connector"
)

var errUnsupported = errors.New("rfcomm sockets are only supported on linux; use --link.transport=serial")

type Dialer struct {
	Channel uint8
	Logger  *slog.Logger
}

func (d *Dialer) Dial(context.Context, connector.Device, string) (io.WriteCloser, error) {
	return nil, errUnsupported
}

type Permission struct{}

func (Permission) CheckPermission(context.Context) error { return nil }
