// Package link owns the byte channel to the controller board.
package link

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Alia5/padlink/internal/log"
	"github.com/Alia5/padlink/protocol"
)

// SessionConfig tunes the write path of a Session.
type SessionConfig struct {
	QueueSize    int           `help:"Tokens buffered for the link writer before new ones are dropped" default:"256" env:"PADLINK_LINK_QUEUE_SIZE"`
	WriteTimeout time.Duration `help:"Per-write deadline on links that support deadlines (0 disables)" default:"500ms" env:"PADLINK_LINK_WRITE_TIMEOUT"`
	CloseTimeout time.Duration `help:"How long Close waits for queued tokens to drain" default:"1s" env:"PADLINK_LINK_CLOSE_TIMEOUT"`
}

func (c SessionConfig) withDefaults() SessionConfig {
	if c.QueueSize <= 0 {
		c.QueueSize = 256
	}
	if c.CloseTimeout <= 0 {
		c.CloseTimeout = time.Second
	}
	return c
}

// SendError is logged when a write to the link fails. The token is lost.
type SendError struct {
	Token protocol.Token
	Err   error
}

func (e *SendError) Error() string { return fmt.Sprintf("send %q: %v", e.Token, e.Err) }
func (e *SendError) Unwrap() error { return e.Err }

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

// Session is a live connection to the board. Send never blocks: tokens are
// queued for a dedicated writer goroutine and dropped when the queue is full
// or the session is closed.
type Session struct {
	conn   io.WriteCloser
	name   string
	cfg    SessionConfig
	logger *slog.Logger
	raw    log.RawLogger

	queue        chan protocol.Token
	quit         chan struct{}
	done         chan struct{}
	connected    atomic.Bool
	closeOnce    sync.Once
	deadlineOnce sync.Once

	sent    atomic.Uint64
	dropped atomic.Uint64
	failed  atomic.Uint64
}

// NewSession takes ownership of conn and starts the writer.
func NewSession(conn io.WriteCloser, name string, cfg SessionConfig, logger *slog.Logger, raw log.RawLogger) *Session {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	if raw == nil {
		raw = log.NewRaw(nil)
	}
	s := &Session{
		conn:   conn,
		name:   name,
		cfg:    cfg,
		logger: logger.With("link", name),
		raw:    raw,
		queue:  make(chan protocol.Token, cfg.QueueSize),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	s.connected.Store(true)
	go s.writer()
	return s
}

// Name identifies the remote end, usually the device name.
func (s *Session) Name() string { return s.name }

// Connected reports whether Send still accepts tokens.
func (s *Session) Connected() bool { return s.connected.Load() }

// Stats is a snapshot of the session counters.
type Stats struct {
	Sent    uint64
	Dropped uint64
	Failed  uint64
}

func (s *Session) Stats() Stats {
	return Stats{Sent: s.sent.Load(), Dropped: s.dropped.Load(), Failed: s.failed.Load()}
}

// Send queues tok for the board. It is a no-op on a closed session.
func (s *Session) Send(tok protocol.Token) {
	if !s.connected.Load() {
		return
	}
	select {
	case <-s.quit:
		return
	default:
	}
	select {
	case s.queue <- tok:
	default:
		s.dropped.Add(1)
		s.logger.Warn("link queue full, dropping token", "token", string(tok))
	}
}

func (s *Session) writer() {
	defer close(s.done)
	for {
		select {
		case tok := <-s.queue:
			s.write(tok)
		case <-s.quit:
			for {
				select {
				case tok := <-s.queue:
					s.write(tok)
				default:
					return
				}
			}
		}
	}
}

func (s *Session) write(tok protocol.Token) {
	line := tok.Line()
	if d, ok := s.conn.(writeDeadliner); ok && s.cfg.WriteTimeout > 0 {
		if err := d.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
			s.deadlineOnce.Do(func() {
				s.logger.Debug("link does not support write deadlines", "error", err)
			})
		}
	}
	if _, err := s.conn.Write(line); err != nil {
		s.failed.Add(1)
		s.logger.Error("link write failed", "error", &SendError{Token: tok, Err: err})
		return
	}
	s.sent.Add(1)
	s.raw.Log(log.TX, line)
}

// Close stops accepting tokens, gives queued ones a bounded chance to drain
// and releases the connection. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.connected.Store(false)
		close(s.quit)
		select {
		case <-s.done:
		case <-time.After(s.cfg.CloseTimeout):
			s.logger.Warn("link writer did not drain in time")
		}
		if err := s.conn.Close(); err != nil {
			s.logger.Debug("link close", "error", err)
		}
		st := s.Stats()
		s.logger.Info("link closed", "sent", st.Sent, "dropped", st.Dropped, "failed", st.Failed)
	})
}
