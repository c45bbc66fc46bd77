//go:build linux

package rfcomm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/Alia5/padlink/connector"
)

// Dialer connects to a device's RFCOMM channel.
type Dialer struct {
	Channel uint8
	Logger  *slog.Logger
}

// Dial ignores serviceUUID beyond logging it: without SDP lookup the
// channel is taken from configuration.
func (d *Dialer) Dial(ctx context.Context, dev connector.Device, serviceUUID string) (io.WriteCloser, error) {
	addr, err := ParseAddress(dev.Address)
	if err != nil {
		return nil, err
	}
	ch := d.Channel
	if ch == 0 {
		ch = DefaultChannel
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fd, err := unix.Socket(syscall.AF_BLUETOOTH, syscall.SOCK_STREAM|syscall.SOCK_CLOEXEC, unix.BTPROTO_RFCOMM)
	if err != nil {
		return nil, socketError(err)
	}
	logger.Debug("rfcomm connect", "address", dev.Address, "channel", ch, "uuid", serviceUUID)

	done := make(chan error, 1)
	go func() {
		done <- unix.Connect(fd, &unix.SockaddrRFCOMM{Addr: addr, Channel: ch})
	}()

	select {
	case err := <-done:
		if err != nil {
			_ = unix.Close(fd)
			return nil, fmt.Errorf("rfcomm connect: %w", err)
		}
	case <-ctx.Done():
		// Shutting down the socket aborts the pending connect.
		_ = unix.Shutdown(fd, unix.SHUT_RDWR)
		<-done
		_ = unix.Close(fd)
		return nil, ctx.Err()
	}

	f, err := wrapSocket(fd, "rfcomm:"+dev.Address)
	if err != nil {
		_ = unix.Close(fd)
		return nil, err
	}
	return f, nil
}

// wrapSocket hands a connected socket to the runtime poller. Only a
// non-blocking fd gives the file working deadlines and lets Close
// interrupt a stalled Write.
func wrapSocket(fd int, name string) (*os.File, error) {
	if err := unix.SetNonblock(fd, true); err != nil {
		return nil, fmt.Errorf("rfcomm set nonblock: %w", err)
	}
	return os.NewFile(uintptr(fd), name), nil
}

// Permission checks that an RFCOMM socket can be created at all.
type Permission struct{}

func (Permission) CheckPermission(context.Context) error {
	fd, err := unix.Socket(syscall.AF_BLUETOOTH, syscall.SOCK_STREAM|syscall.SOCK_CLOEXEC, unix.BTPROTO_RFCOMM)
	if err != nil {
		return socketError(err)
	}
	return unix.Close(fd)
}

func socketError(err error) error {
	if errors.Is(err, unix.EPERM) || errors.Is(err, unix.EACCES) {
		return fmt.Errorf("%w: rfcomm socket: %w", connector.ErrPermissionDenied, err)
	}
	if errors.Is(err, unix.EAFNOSUPPORT) {
		return fmt.Errorf("bluetooth not supported by kernel: %w", err)
	}
	return fmt.Errorf("rfcomm socket: %w", err)
}
