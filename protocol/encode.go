package protocol

import (
	"fmt"
	"math"
)

// AxisSample is one snapshot of the analog controls, produced once per
// input device update.
type AxisSample struct {
	// LeftTrigger and RightTrigger range over 0..1.
	LeftTrigger  float32
	RightTrigger float32
	// LeftStickX ranges over -1..1.
	LeftStickX float32
	// DpadX and DpadY are -1, 0 or 1.
	DpadX int8
	DpadY int8
}

// EncodeButton returns the token for a button edge. Presses always map to
// the button's letter; of all releases only X produces a token.
func EncodeButton(b Button, p Phase) (Token, bool) {
	if !b.Valid() {
		return "", false
	}
	e := buttonTable[b]
	switch p {
	case PhaseDown:
		return e.down, true
	case PhaseUp:
		if e.hasUpTk {
			return e.up, true
		}
	}
	return "", false
}

// EncodeAxisHex formats an axis value as name plus two uppercase hex digits.
func EncodeAxisHex(name Axis, value uint8) Token {
	return Token(fmt.Sprintf("%s%02X", name, value))
}

// EncodeDpad returns the tokens for one dpad reading, horizontal first.
// Both axes are evaluated independently so a diagonal yields two tokens.
func EncodeDpad(dx, dy int8) []Token {
	var out []Token
	switch {
	case dx < 0:
		out = append(out, TokenDpadLeft)
	case dx > 0:
		out = append(out, TokenDpadRight)
	}
	switch {
	case dy < 0:
		out = append(out, TokenDpadUp)
	case dy > 0:
		out = append(out, TokenDpadDown)
	}
	return out
}

// QuantizeTrigger maps 0..1 to 0..255. Out of range input is clamped.
func QuantizeTrigger(raw float32) uint8 {
	return uint8(roundHalfUp(clampf(raw, 0, 1) * 255))
}

// QuantizeStick maps -1..1 to 0..255 with rest at 127.
func QuantizeStick(raw float32) uint8 {
	v := roundHalfUp(clampf(raw, -1, 1) * 255)
	return uint8((v + 255) / 2)
}

func roundHalfUp(v float32) int {
	return int(math.Floor(float64(v) + 0.5))
}

func clampf(v, lo, hi float32) float32 {
	switch {
	case v != v:
		return 0
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
