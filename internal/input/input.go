// Package input turns gamepad device events into protocol frames.
package input

import (
	"context"

	"github.com/Alia5/padlink/protocol"
)

// Source produces frames until ctx is done or the device goes away.
type Source interface {
	Run(ctx context.Context, out chan<- protocol.Frame) error
}

// Range is the raw value range an axis reports.
type Range struct {
	Min int32
	Max int32
}

// Unit maps v onto 0..1.
func (r Range) Unit(v int32) float32 {
	if r.Max <= r.Min {
		return 0
	}
	f := float32(int64(v)-int64(r.Min)) / float32(int64(r.Max)-int64(r.Min))
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// Signed maps v onto -1..1.
func (r Range) Signed(v int32) float32 {
	return r.Unit(v)*2 - 1
}

// Direction reduces a hat value to -1, 0 or 1.
func Direction(v int32) int8 {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

// Emit sends f unless ctx is done first.
func Emit(ctx context.Context, out chan<- protocol.Frame, f protocol.Frame) error {
	select {
	case out <- f:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
