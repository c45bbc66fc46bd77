package apiclient

import (
	"context"
	"encoding"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/Alia5/padlink/protocol"
)

// InputStream pushes input frames to a running padlink.
type InputStream struct {
	conn net.Conn

	mu     sync.Mutex
	closed bool
}

// OpenInput opens the input stream.
func (c *Client) OpenInput(ctx context.Context) (*InputStream, error) {
	if c.transport.mock != nil {
		return nil, errors.New("stream connections not supported with mock transport")
	}
	conn, err := c.transport.dial(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Write([]byte("input\x00")); err != nil {
		conn.Close()
		return nil, fmt.Errorf("write stream path: %w", err)
	}
	// The dial deadline only covers the request line.
	_ = conn.SetWriteDeadline(time.Time{})
	return &InputStream{conn: conn}, nil
}

// SendButton sends one button edge.
func (s *InputStream) SendButton(b protocol.Button, p protocol.Phase) error {
	return s.send(protocol.ButtonEvent{Button: b, Phase: p})
}

// SendAxis sends one axis snapshot.
func (s *InputStream) SendAxis(sample protocol.AxisSample) error {
	return s.send(sample)
}

func (s *InputStream) send(m encoding.BinaryMarshaler) error {
	b, err := m.MarshalBinary()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("stream closed")
	}
	_, err = s.conn.Write(b)
	return err
}

// Close ends the stream.
func (s *InputStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}
