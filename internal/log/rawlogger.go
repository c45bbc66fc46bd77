package log

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"
)

// Direction of a raw chunk relative to this host.
type Direction uint8

const (
	// TX is host to board.
	TX Direction = iota
	// RX is board to host.
	RX
)

func (d Direction) String() string {
	if d == RX {
		return "RX"
	}
	return "TX"
}

// RawLogger records raw link traffic.
type RawLogger interface {
	Log(dir Direction, data []byte)
}

type rawLogger struct {
	w  io.Writer
	mu sync.Mutex
	// now is replaced in tests.
	now func() time.Time
}

// NewRaw creates a new RawLogger. If w is nil, the logger discards everything.
func NewRaw(w io.Writer) RawLogger {
	return &rawLogger{w: w, now: time.Now}
}

// Log writes one line per chunk with a timestamp, a hex dump and the quoted
// text, since the board protocol is plain ASCII.
func (r *rawLogger) Log(dir Direction, data []byte) {
	if len(data) == 0 || r.w == nil {
		return
	}

	var hexbuf bytes.Buffer
	const hexdigits = "0123456789abcdef"
	for i, b := range data {
		if i > 0 {
			hexbuf.WriteByte(' ')
		}
		hexbuf.WriteByte(hexdigits[b>>4])
		hexbuf.WriteByte(hexdigits[b&0x0f])
	}

	line := fmt.Sprintf("%s %s chunk: %d bytes, hex: %s, text: %s\n",
		r.now().Format("2006/01/02 15:04:05.000"),
		dir,
		len(data),
		hexbuf.String(),
		strconv.Quote(string(data)))

	r.mu.Lock()
	_, _ = r.w.Write([]byte(line))
	r.mu.Unlock()
}
