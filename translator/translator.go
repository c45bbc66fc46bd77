// Package translator turns controller input into protocol tokens and fans
// them out to the link and the display.
package translator

import (
	"context"
	"log/slog"

	"github.com/Alia5/padlink/internal/log"
	"github.com/Alia5/padlink/protocol"
)

// Link accepts tokens destined for the board. Implementations must not block.
type Link interface {
	Send(tok protocol.Token)
}

// Display receives every token that is handed to the link.
type Display interface {
	AppendToken(tok protocol.Token)
}

// State holds the last quantized axis values that were actually emitted.
type State struct {
	LastLeftTrigger  uint8
	LastRightTrigger uint8
	LastLeftStickX   uint8

	// emitted marks axes that have produced at least one token.
	emitted [3]bool
}

const (
	slotLeftTrigger = iota
	slotRightTrigger
	slotLeftStickX
)

// Translator is driven from a single goroutine; it is not safe for
// concurrent use.
type Translator struct {
	state   State
	link    Link
	display Display
	logger  *slog.Logger
}

// New returns a Translator writing to link and display. Either may be nil.
func New(link Link, display Display, logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Translator{link: link, display: display, logger: logger}
}

// State returns a copy of the current axis state.
func (t *Translator) State() State { return t.state }

// OnButton forwards the token for a button edge, if there is one.
func (t *Translator) OnButton(ev protocol.ButtonEvent) {
	tok, ok := protocol.EncodeButton(ev.Button, ev.Phase)
	if !ok {
		return
	}
	t.emit(tok)
}

// OnAxisSample emits changed axis values in LT, RT, LX order, then the
// dpad. Dpad directions are emitted on every sample that holds them.
func (t *Translator) OnAxisSample(s protocol.AxisSample) {
	t.emitAxis(slotLeftTrigger, protocol.AxisLeftTrigger, protocol.QuantizeTrigger(s.LeftTrigger), &t.state.LastLeftTrigger)
	t.emitAxis(slotRightTrigger, protocol.AxisRightTrigger, protocol.QuantizeTrigger(s.RightTrigger), &t.state.LastRightTrigger)
	t.emitAxis(slotLeftStickX, protocol.AxisLeftStickX, protocol.QuantizeStick(s.LeftStickX), &t.state.LastLeftStickX)

	for _, tok := range protocol.EncodeDpad(s.DpadX, s.DpadY) {
		t.emit(tok)
	}
}

func (t *Translator) emitAxis(slot int, name protocol.Axis, v uint8, last *uint8) {
	if t.state.emitted[slot] && *last == v {
		return
	}
	*last = v
	t.state.emitted[slot] = true
	t.emit(protocol.EncodeAxisHex(name, v))
}

func (t *Translator) emit(tok protocol.Token) {
	t.logger.Log(context.Background(), log.LevelTrace, "token", "token", string(tok))
	if t.link != nil {
		t.link.Send(tok)
	}
	if t.display != nil {
		t.display.AppendToken(tok)
	}
}
