// Package app runs the event loop that ties input, translation and the
// outbound link together.
package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/Alia5/padlink/connector"
	"github.com/Alia5/padlink/internal/input"
	"github.com/Alia5/padlink/protocol"
	"github.com/Alia5/padlink/translator"
)

// FrameBuffer is the capacity of the shared input channel.
const FrameBuffer = 64

// App owns the translator and the connector. Everything that touches
// translator state or completes a connect runs on the Run goroutine.
type App struct {
	conn   *connector.Connector
	tr     *translator.Translator
	logger *slog.Logger

	frames    chan protocol.Frame
	reconnect chan chan error
}

func New(conn *connector.Connector, tr *translator.Translator, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		conn:      conn,
		tr:        tr,
		logger:    logger,
		frames:    make(chan protocol.Frame, FrameBuffer),
		reconnect: make(chan chan error),
	}
}

// Frames is where input sources deliver their frames.
func (a *App) Frames() chan<- protocol.Frame { return a.frames }

// Status reports the connector state.
func (a *App) Status() connector.Status { return a.conn.State() }

// Connect asks the loop to start a new connect attempt and returns the
// synchronous outcome. The dial itself finishes later.
func (a *App) Connect(ctx context.Context) error {
	reply := make(chan error, 1)
	select {
	case a.reconnect <- reply:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run connects once at startup, then serves input until ctx is done or a
// source fails. The link is closed on return.
func (a *App) Run(ctx context.Context, sources ...input.Source) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srcErr := make(chan error, len(sources))
	var wg sync.WaitGroup
	for _, src := range sources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := src.Run(ctx, a.frames); err != nil {
				srcErr <- err
			}
		}()
	}

	var pending <-chan connector.Result
	start := func() error {
		ch, err := a.conn.Connect(ctx)
		if err != nil {
			return err
		}
		pending = ch
		return nil
	}
	if err := start(); err != nil && !errors.Is(err, connector.ErrBusy) {
		a.logger.Warn("initial connect did not start", "error", err)
	}

	var runErr error
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case err := <-srcErr:
			a.logger.Error("input source stopped", "error", err)
			runErr = err
			break loop
		case f := <-a.frames:
			a.dispatch(f)
		case res := <-pending:
			pending = nil
			a.conn.Complete(res)
		case reply := <-a.reconnect:
			reply <- start()
		}
	}

	cancel()
	if pending != nil {
		// Ctx is cancelled, so the dial returns promptly.
		if res := <-pending; res.Session != nil {
			res.Session.Close()
		}
	}
	wg.Wait()
	a.conn.Close()
	return runErr
}

func (a *App) dispatch(f protocol.Frame) {
	switch f.Kind {
	case protocol.FrameButton:
		a.tr.OnButton(f.Button)
	case protocol.FrameAxis:
		a.tr.OnAxisSample(f.Axis)
	default:
		a.logger.Debug("dropping frame of unknown kind", "kind", f.Kind)
	}
}
