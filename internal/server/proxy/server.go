// Package proxy relays a TCP serial bridge and logs the token stream in
// both directions. It sits between padlink and a board reached with
// --link.transport=tcp, or between any other client and the board.
package proxy

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/Alia5/padlink/internal/log"
)

// Config configures the relay.
type Config struct {
	Listen            string        `help:"Address the relay listens on" default:":4242" env:"PADLINK_PROXY_LISTEN"`
	Upstream          string        `help:"host:port of the board's serial bridge" required:"" env:"PADLINK_PROXY_UPSTREAM"`
	ConnectionTimeout time.Duration `help:"Upstream dial timeout" default:"10s" env:"PADLINK_PROXY_CONNECTION_TIMEOUT"`
}

type Server struct {
	listenAddr        string
	upstreamAddr      string
	connectionTimeout time.Duration
	logger            *slog.Logger
	rawLogger         log.RawLogger
	ln                net.Listener
	ready             chan struct{}
}

func New(cfg Config, logger *slog.Logger, rawLogger log.RawLogger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if rawLogger == nil {
		rawLogger = log.NewRaw(nil)
	}
	return &Server{
		listenAddr:        cfg.Listen,
		upstreamAddr:      cfg.Upstream,
		connectionTimeout: cfg.ConnectionTimeout,
		logger:            logger,
		rawLogger:         rawLogger,
		ready:             make(chan struct{}),
	}
}

// Addr returns the listen address once the server is listening.
func (s *Server) Addr() net.Addr {
	<-s.ready
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		close(s.ready)
		return fmt.Errorf("failed to listen on %s: %w", s.listenAddr, err)
	}
	s.ln = ln
	close(s.ready)
	s.logger.Info("proxy listening", "addr", ln.Addr().String(), "upstream", s.upstreamAddr)

	for {
		clientConn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || strings.Contains(strings.ToLower(err.Error()), "use of closed network connection") {
				s.logger.Info("proxy stopped")
				return nil
			}
			s.logger.Error("Accept error", "error", err)
			continue
		}
		s.logger.Info("proxy client connected", "remote", clientConn.RemoteAddr())
		go s.handleProxy(clientConn)
	}
}

func (s *Server) Close() error {
	<-s.ready
	if s.ln != nil {
		return s.ln.Close()
	}
	return nil
}

func (s *Server) handleProxy(clientConn net.Conn) {
	defer clientConn.Close()

	upstreamConn, err := net.DialTimeout("tcp", s.upstreamAddr, s.connectionTimeout)
	if err != nil {
		s.logger.Error("proxy upstream dial failed", "upstream", s.upstreamAddr, "error", err)
		return
	}
	defer upstreamConn.Close()

	s.logger.Info("proxying connection", "client", clientConn.RemoteAddr(), "upstream", upstreamConn.RemoteAddr())

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		bytes, err := s.copyWithLogging(upstreamConn, clientConn, log.TX)
		if err != nil && !isExpectedDisconnect(err) {
			s.logger.Debug("proxy tx copy error", "error", err)
		}
		s.logger.Debug("proxy tx stream ended", "bytes", bytes)
		halfClose(upstreamConn, true)
		halfClose(clientConn, false)
	}()

	go func() {
		defer wg.Done()
		bytes, err := s.copyWithLogging(clientConn, upstreamConn, log.RX)
		if err != nil && !isExpectedDisconnect(err) {
			s.logger.Debug("proxy rx copy error", "error", err)
		}
		s.logger.Debug("proxy rx stream ended", "bytes", bytes)
		halfClose(clientConn, true)
		halfClose(upstreamConn, false)
	}()

	wg.Wait()
	s.logger.Info("proxy connection closed", "client", clientConn.RemoteAddr())
}

func (s *Server) copyWithLogging(dst net.Conn, src net.Conn, dir log.Direction) (int64, error) {
	buf := make([]byte, 32*1024)
	var total int64
	parser := NewParser(s.logger, dir)
	defer func() {
		s.logger.Debug("proxy direction closed", "dir", dir, "tokens", parser.Tokens, "invalid", parser.Invalid)
	}()

	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			s.rawLogger.Log(dir, buf[:n])
			parser.Parse(buf[:n])

			wn, werr := dst.Write(buf[:n])
			total += int64(wn)
			if werr != nil {
				return total, werr
			}
			if wn != n {
				return total, fmt.Errorf("short write: wrote %d of %d", wn, n)
			}
		}

		if rerr != nil {
			if rerr == io.EOF {
				return total, nil
			}
			return total, rerr
		}
	}
}

func halfClose(conn net.Conn, write bool) {
	if tc, ok := conn.(*net.TCPConn); ok {
		if write {
			_ = tc.CloseWrite()
		} else {
			_ = tc.CloseRead()
		}
	}
}

func isExpectedDisconnect(err error) bool {
	if err == nil || err == io.EOF {
		return true
	}
	e := strings.ToLower(err.Error())
	return strings.Contains(e, "connection reset") ||
		strings.Contains(e, "broken pipe") ||
		strings.Contains(e, "forcibly closed")
}
