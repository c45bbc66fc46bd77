package protocol

import (
	"errors"
	"fmt"
	"strconv"
)

// TokenKind classifies a decoded token.
type TokenKind uint8

const (
	KindButton TokenKind = iota + 1
	KindRelease
	KindDpad
	KindAxis
)

func (k TokenKind) String() string {
	switch k {
	case KindButton:
		return "button"
	case KindRelease:
		return "release"
	case KindDpad:
		return "dpad"
	case KindAxis:
		return "axis"
	}
	return "unknown"
}

// Decoded is a token split into its parts. Axis and Value are only set for
// KindAxis.
type Decoded struct {
	Token Token
	Kind  TokenKind
	Axis  Axis
	Value uint8
}

var ErrUnknownToken = errors.New("unknown token")

// ParseToken decodes one line without its terminator.
func ParseToken(line string) (Decoded, error) {
	t := Token(line)
	switch t {
	case TokenA, TokenB, TokenX, TokenY, TokenL, TokenR:
		return Decoded{Token: t, Kind: KindButton}, nil
	case TokenXRelease:
		return Decoded{Token: t, Kind: KindRelease}, nil
	case TokenDpadLeft, TokenDpadRight, TokenDpadUp, TokenDpadDown:
		return Decoded{Token: t, Kind: KindDpad}, nil
	}
	if len(line) != 4 {
		return Decoded{}, fmt.Errorf("%w: %q", ErrUnknownToken, line)
	}
	axis := Axis(line[:2])
	switch axis {
	case AxisLeftTrigger, AxisRightTrigger, AxisLeftStickX:
	default:
		return Decoded{}, fmt.Errorf("%w: %q", ErrUnknownToken, line)
	}
	// Lowercase hex is never emitted.
	for _, c := range line[2:] {
		if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'F') {
			return Decoded{}, fmt.Errorf("%w: bad hex in %q", ErrUnknownToken, line)
		}
	}
	v, err := strconv.ParseUint(line[2:], 16, 8)
	if err != nil {
		return Decoded{}, fmt.Errorf("%w: %q", ErrUnknownToken, line)
	}
	return Decoded{Token: t, Kind: KindAxis, Axis: axis, Value: uint8(v)}, nil
}
