package link

import (
	"sync/atomic"

	"github.com/Alia5/padlink/protocol"
)

// Slot holds the current Session, if any. It is written by the connector on
// the event loop and read by the translator.
type Slot struct {
	p atomic.Pointer[Session]
}

// Install stores s and returns the session it replaced.
func (sl *Slot) Install(s *Session) *Session { return sl.p.Swap(s) }

// Session returns the installed session or nil.
func (sl *Slot) Session() *Session { return sl.p.Load() }

// Send forwards tok to the installed session. Without a connected session
// the token is dropped silently.
func (sl *Slot) Send(tok protocol.Token) {
	if s := sl.p.Load(); s != nil {
		s.Send(tok)
	}
}

// Close removes and closes the installed session.
func (sl *Slot) Close() {
	if s := sl.p.Swap(nil); s != nil {
		s.Close()
	}
}
