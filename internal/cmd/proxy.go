package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Alia5/padlink/internal/log"
	"github.com/Alia5/padlink/internal/server/proxy"
)

// Proxy relays a TCP serial bridge and logs the token stream.
type Proxy struct {
	proxy.Config `embed:"" prefix:"proxy."`
}

// Run is called by Kong when the proxy command is executed.
func (p *Proxy) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := proxy.New(p.Config, logger, rawLogger)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down proxy")
		_ = srv.Close()
		return <-errCh
	}
}
