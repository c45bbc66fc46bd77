package protocol

import "fmt"

// Button is the closed set of digital buttons forwarded to the board.
type Button uint8

const (
	ButtonA Button = iota
	ButtonB
	ButtonX
	ButtonY
	ButtonL
	ButtonR

	buttonCount
)

// Phase is the edge of a button event.
type Phase uint8

const (
	PhaseDown Phase = iota
	PhaseUp
)

// ButtonEvent is a single press or release of one button.
type ButtonEvent struct {
	Button Button
	Phase  Phase
}

type buttonEntry struct {
	name    string
	down    Token
	up      Token
	hasUpTk bool
}

// buttonTable must hold one entry per Button value.
var buttonTable = [buttonCount]buttonEntry{
	ButtonA: {name: "A", down: TokenA},
	ButtonB: {name: "B", down: TokenB},
	ButtonX: {name: "X", down: TokenX, up: TokenXRelease, hasUpTk: true},
	ButtonY: {name: "Y", down: TokenY},
	ButtonL: {name: "L", down: TokenL},
	ButtonR: {name: "R", down: TokenR},
}

// Valid reports whether b is one of the known buttons.
func (b Button) Valid() bool { return b < buttonCount }

func (b Button) String() string {
	if !b.Valid() {
		return fmt.Sprintf("Button(%d)", uint8(b))
	}
	return buttonTable[b].name
}

// ParseButton maps a button name (A, B, X, Y, L, R) to its Button.
func ParseButton(s string) (Button, error) {
	for i, e := range buttonTable {
		if e.name == s {
			return Button(i), nil
		}
	}
	return 0, fmt.Errorf("unknown button %q", s)
}

// Buttons returns all known buttons in table order.
func Buttons() []Button {
	out := make([]Button, 0, buttonCount)
	for b := Button(0); b < buttonCount; b++ {
		out = append(out, b)
	}
	return out
}

func (p Phase) Valid() bool { return p == PhaseDown || p == PhaseUp }

func (p Phase) String() string {
	switch p {
	case PhaseDown:
		return "down"
	case PhaseUp:
		return "up"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}
