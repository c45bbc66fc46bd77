// Package protocol implements the line-oriented command vocabulary spoken to
// the remote controller board.
//
// Every command is a short ASCII token terminated by a single '\n' on the
// wire. Buttons are single letters, dpad directions lowercase letters and
// analog axes a two letter name followed by two uppercase hex digits.
package protocol

// Token is one line of the wire protocol without its terminator.
type Token string

// LineTerminator ends every token on the wire.
const LineTerminator = '\n'

const (
	TokenA Token = "A"
	TokenB Token = "B"
	TokenX Token = "X"
	TokenY Token = "Y"
	TokenL Token = "L"
	TokenR Token = "R"
	// TokenXRelease is the only release event the board understands.
	TokenXRelease Token = "Z"

	TokenDpadLeft  Token = "l"
	TokenDpadRight Token = "r"
	TokenDpadUp    Token = "u"
	TokenDpadDown  Token = "d"
)

// Axis names an analog channel carrying a quantized 0..255 value.
type Axis string

const (
	AxisLeftTrigger  Axis = "LT"
	AxisRightTrigger Axis = "RT"
	AxisLeftStickX   Axis = "LX"
)

// Line returns the token with its wire terminator appended.
func (t Token) Line() []byte {
	b := make([]byte, 0, len(t)+1)
	b = append(b, t...)
	return append(b, LineTerminator)
}
