//go:build !linux

package evdev

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Alia5/padlink/protocol"
)

var ErrNoGamepad = errors.New("no gamepad found")

type Source struct{}

func NewSource(Config, *slog.Logger) *Source { return &Source{} }

func (*Source) Run(context.Context, chan<- protocol.Frame) error {
	return errors.New("evdev input is only available on linux; use --input.driver=stream")
}

func Discover() (string, error) { return "", ErrNoGamepad }
