package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alia5/padlink/connector"
	"github.com/Alia5/padlink/internal/log"
	"github.com/Alia5/padlink/link"
	"github.com/Alia5/padlink/protocol"
)

// Send connects once, writes the given tokens and disconnects.
type Send struct {
	Link    LinkConfig    `embed:"" prefix:"link."`
	Tokens  []string      `arg:"" help:"Tokens to send, e.g. A LTFF Z"`
	Gap     time.Duration `help:"Pause between tokens" default:"0s"`
	Timeout time.Duration `help:"Connect timeout" default:"15s"`
}

func (s *Send) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.send(ctx, logger, rawLogger)
}

func (s *Send) send(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) error {
	tokens, err := parseTokens(s.Tokens)
	if err != nil {
		return err
	}

	deps, release, err := s.Link.deps(logger)
	if err != nil {
		return fmt.Errorf("link setup: %w", err)
	}
	defer release()

	slot := &link.Slot{}
	defer slot.Close()
	conn := connector.New(s.Link.connectorConfig(), deps, slot, s.Link.Session, logger, rawLogger)

	cctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	if err := conn.ConnectAndWait(cctx); err != nil {
		return err
	}

	for i, tok := range tokens {
		if i > 0 && s.Gap > 0 {
			select {
			case <-time.After(s.Gap):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		slot.Send(tok)
	}
	return nil
}

func parseTokens(args []string) ([]protocol.Token, error) {
	out := make([]protocol.Token, 0, len(args))
	for _, a := range args {
		d, err := protocol.ParseToken(a)
		if err != nil {
			return nil, err
		}
		out = append(out, d.Token)
	}
	return out, nil
}
