package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"

	"github.com/Alia5/padlink/internal/server/api"
	"github.com/Alia5/padlink/protocol"
)

// InputStream returns a stream handler that reads binary frames from the
// client and posts them to frames until the client disconnects or ctx ends.
// Invalid frames terminate the stream.
func InputStream(ctx context.Context, frames chan<- protocol.Frame) api.StreamHandlerFunc {
	return func(req *api.Request, conn net.Conn, logger *slog.Logger) error {
		stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
		defer stop()

		var n int
		defer func() { logger.Debug("input stream frames", "count", n) }()
		for {
			f, err := protocol.ReadFrame(conn)
			if err != nil {
				if errors.Is(err, io.EOF) || ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
					return nil
				}
				return fmt.Errorf("read frame: %w", err)
			}
			if f.Kind == protocol.FrameButton && (!f.Button.Button.Valid() || !f.Button.Phase.Valid()) {
				return fmt.Errorf("invalid button frame %v/%v", f.Button.Button, f.Button.Phase)
			}
			select {
			case frames <- f:
				n++
			case <-ctx.Done():
				return nil
			}
		}
	}
}
