//go:build linux

package evdev

import (
	evdev "github.com/gvalkov/golang-evdev"

	"github.com/Alia5/padlink/internal/input"
	"github.com/Alia5/padlink/protocol"
)

// Key codes of the forwarded buttons, named after the gamepad layout.
var keyButtons = map[uint16]protocol.Button{
	evdev.BTN_A:  protocol.ButtonA,
	evdev.BTN_B:  protocol.ButtonB,
	evdev.BTN_X:  protocol.ButtonX,
	evdev.BTN_Y:  protocol.ButtonY,
	evdev.BTN_TL: protocol.ButtonL,
	evdev.BTN_TR: protocol.ButtonR,
}

// Mapper accumulates one device report and turns it into frames. Buttons
// are emitted as they arrive; the axis snapshot is emitted at the end of a
// report that changed at least one axis.
type Mapper struct {
	leftTrigger, rightTrigger uint16
	trigger, stick            input.Range

	sample protocol.AxisSample
	dirty  bool
}

func NewMapper(cfg Config) *Mapper {
	m := &Mapper{
		leftTrigger:  evdev.ABS_Z,
		rightTrigger: evdev.ABS_RZ,
		trigger:      input.Range{Min: cfg.TriggerMin, Max: cfg.TriggerMax},
		stick:        input.Range{Min: cfg.StickMin, Max: cfg.StickMax},
	}
	if cfg.TriggerAxes == "gas" {
		m.leftTrigger, m.rightTrigger = evdev.ABS_BRAKE, evdev.ABS_GAS
	}
	if m.trigger.Max <= m.trigger.Min {
		m.trigger = input.Range{Min: 0, Max: 255}
	}
	if m.stick.Max <= m.stick.Min {
		m.stick = input.Range{Min: -32768, Max: 32767}
	}
	// The stick rests at center, not at the range minimum.
	m.sample.LeftStickX = m.stick.Signed((m.stick.Min + m.stick.Max) / 2)
	return m
}

// Handle consumes one event and returns the frames it completes.
func (m *Mapper) Handle(ev evdev.InputEvent) []protocol.Frame {
	switch ev.Type {
	case evdev.EV_KEY:
		b, ok := keyButtons[ev.Code]
		if !ok {
			return nil
		}
		var p protocol.Phase
		switch ev.Value {
		case 1:
			p = protocol.PhaseDown
		case 0:
			p = protocol.PhaseUp
		default:
			// autorepeat
			return nil
		}
		return []protocol.Frame{{Kind: protocol.FrameButton, Button: protocol.ButtonEvent{Button: b, Phase: p}}}

	case evdev.EV_ABS:
		switch ev.Code {
		case m.leftTrigger:
			m.sample.LeftTrigger = m.trigger.Unit(ev.Value)
		case m.rightTrigger:
			m.sample.RightTrigger = m.trigger.Unit(ev.Value)
		case evdev.ABS_X:
			m.sample.LeftStickX = m.stick.Signed(ev.Value)
		case evdev.ABS_HAT0X:
			m.sample.DpadX = input.Direction(ev.Value)
		case evdev.ABS_HAT0Y:
			m.sample.DpadY = input.Direction(ev.Value)
		default:
			return nil
		}
		m.dirty = true

	case evdev.EV_SYN:
		if ev.Code == evdev.SYN_REPORT && m.dirty {
			m.dirty = false
			return []protocol.Frame{{Kind: protocol.FrameAxis, Axis: m.sample}}
		}
	}
	return nil
}
