//go:build linux

package evdev

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	evdev "github.com/gvalkov/golang-evdev"

	"github.com/Alia5/padlink/internal/input"
	"github.com/Alia5/padlink/protocol"
)

// Source reads one evdev node.
type Source struct {
	cfg    Config
	logger *slog.Logger
}

func NewSource(cfg Config, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{cfg: cfg, logger: logger}
}

// Run opens the device and forwards frames until ctx is done. A device that
// disappears ends Run with an error.
func (s *Source) Run(ctx context.Context, out chan<- protocol.Frame) error {
	path := s.cfg.Device
	if path == "" {
		var err error
		path, err = Discover()
		if err != nil {
			return err
		}
	}
	dev, err := evdev.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	s.logger.Info("reading gamepad", "device", path, "name", dev.Name)

	if s.cfg.Grab {
		if err := dev.Grab(); err != nil {
			s.logger.Warn("failed to grab device", "device", path, "error", err)
		} else {
			defer func() { _ = dev.Release() }()
		}
	}

	stop := context.AfterFunc(ctx, func() { _ = dev.File.Close() })
	defer func() {
		if stop() {
			_ = dev.File.Close()
		}
	}()

	m := NewMapper(s.cfg)
	for {
		events, err := dev.Read()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, os.ErrClosed) {
				return nil
			}
			return fmt.Errorf("read %s: %w", path, err)
		}
		for _, ev := range events {
			for _, f := range m.Handle(ev) {
				if err := input.Emit(ctx, out, f); err != nil {
					return nil
				}
			}
		}
	}
}
