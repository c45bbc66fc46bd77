// Package display shows the token stream and connection notices to the user.
package display

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/Alia5/padlink/protocol"
)

// DefaultMaxLines bounds the retained token history.
const DefaultMaxLines = 200

// Config controls the console display.
type Config struct {
	MaxLines   int  `help:"Token lines kept in the display history" default:"200" env:"PADLINK_DISPLAY_MAX_LINES"`
	Quiet      bool `help:"Do not print tokens, only connection notices" env:"PADLINK_DISPLAY_QUIET"`
	Timestamps bool `help:"Prefix each token with the local time" default:"true" env:"PADLINK_DISPLAY_TIMESTAMPS"`
}

const (
	ansiDim   = "\x1b[2m"
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

// Console prints tokens and notices to a writer and keeps the last
// MaxLines tokens. Notices are never trimmed from the output, only tokens
// are kept in the history.
type Console struct {
	cfg   Config
	w     io.Writer
	color bool
	now   func() time.Time

	mu    sync.Mutex
	lines []string
	next  int
	full  bool
}

// NewConsole writes to w. Color is used when w is a terminal.
func NewConsole(w io.Writer, cfg Config) *Console {
	if cfg.MaxLines <= 0 {
		cfg.MaxLines = DefaultMaxLines
	}
	return &Console{
		cfg:   cfg,
		w:     w,
		color: isTerminal(w),
		now:   time.Now,
		lines: make([]string, cfg.MaxLines),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// AppendToken records tok and prints it.
func (c *Console) AppendToken(tok protocol.Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines[c.next] = string(tok)
	c.next = (c.next + 1) % len(c.lines)
	if c.next == 0 {
		c.full = true
	}
	if c.cfg.Quiet || c.w == nil {
		return
	}
	if c.cfg.Timestamps {
		ts := c.now().Format("15:04:05.000")
		if c.color {
			ts = ansiDim + ts + ansiReset
		}
		fmt.Fprintf(c.w, "%s %s\n", ts, tok)
		return
	}
	fmt.Fprintf(c.w, "%s\n", tok)
}

// Lines returns the retained tokens, oldest first.
func (c *Console) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.full {
		return append([]string(nil), c.lines[:c.next]...)
	}
	out := make([]string, 0, len(c.lines))
	out = append(out, c.lines[c.next:]...)
	return append(out, c.lines[:c.next]...)
}

func (c *Console) notice(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.w == nil {
		return
	}
	if c.color {
		msg = ansiBold + msg + ansiReset
	}
	fmt.Fprintf(c.w, "** %s\n", msg)
}

func (c *Console) NotifyConnected() { c.notice("bluetooth connected") }

func (c *Console) NotifyFailed(reason error) {
	c.notice(fmt.Sprintf("bluetooth connection failed: %v", reason))
}

func (c *Console) NotifyNoDeviceFound() { c.notice("no matching device found") }
