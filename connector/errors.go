package connector

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMatchingDevice means no bonded device name contains the filter.
	ErrNoMatchingDevice = errors.New("no bonded device matches name filter")
	// ErrPermissionDenied means the process may not use the Bluetooth stack.
	ErrPermissionDenied = errors.New("bluetooth permission denied")
	// ErrBusy is returned by Connect while connecting or connected.
	ErrBusy = errors.New("connector busy")
)

// ConnectError wraps the I/O failure of a connect attempt.
type ConnectError struct {
	Device Device
	Err    error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect %s (%s): %v", e.Device.Name, e.Device.Address, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }
