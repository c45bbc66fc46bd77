package auth

import (
	"bytes"
	"crypto/cipher"
	"encoding/binary"
	"io"
	"net"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
)

// Frames are: len u32 BE | nonce[12] | ciphertext. The nonce carries a
// per-direction counter.
const maxFrameSize = 1 << 20

// Conn encrypts every Write as one frame and decrypts frames on Read.
type Conn struct {
	net.Conn
	aead cipher.AEAD

	wmu     sync.Mutex
	sendCtr uint64

	rmu     sync.Mutex
	recvBuf bytes.Buffer
}

// WrapConn returns conn secured with the session key.
func WrapConn(conn net.Conn, sessionKey []byte) (net.Conn, error) {
	aead, err := chacha20poly1305.New(sessionKey)
	if err != nil {
		return nil, err
	}
	return &Conn{Conn: conn, aead: aead}, nil
}

func (s *Conn) Write(p []byte) (int, error) {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	nonce := make([]byte, s.aead.NonceSize())
	binary.BigEndian.PutUint64(nonce[len(nonce)-8:], s.sendCtr)
	s.sendCtr++

	frame := make([]byte, 4, 4+len(nonce)+len(p)+s.aead.Overhead())
	frame = append(frame, nonce...)
	frame = s.aead.Seal(frame, nonce, p, nil)
	binary.BigEndian.PutUint32(frame[:4], uint32(len(frame)-4))

	if _, err := s.Conn.Write(frame); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (s *Conn) Read(p []byte) (int, error) {
	s.rmu.Lock()
	defer s.rmu.Unlock()

	if s.recvBuf.Len() == 0 {
		if err := s.readFrame(); err != nil {
			return 0, err
		}
	}
	return s.recvBuf.Read(p)
}

func (s *Conn) readFrame() error {
	var hdr [4]byte
	if _, err := io.ReadFull(s.Conn, hdr[:]); err != nil {
		return err
	}
	length := binary.BigEndian.Uint32(hdr[:])
	ns := s.aead.NonceSize()
	if length > maxFrameSize || int(length) < ns+s.aead.Overhead() {
		return io.ErrUnexpectedEOF
	}
	pkt := make([]byte, length)
	if _, err := io.ReadFull(s.Conn, pkt); err != nil {
		return err
	}
	pt, err := s.aead.Open(nil, pkt[:ns], pkt[ns:], nil)
	if err != nil {
		return err
	}
	s.recvBuf.Write(pt)
	return nil
}
