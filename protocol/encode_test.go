package protocol_test

import (
	"math"
	"testing"

	"github.com/Alia5/padlink/protocol"
	"github.com/stretchr/testify/assert"
)

func TestEncodeButton(t *testing.T) {
	tests := []struct {
		name   string
		button protocol.Button
		phase  protocol.Phase
		want   protocol.Token
		wantOK bool
	}{
		{name: "A down", button: protocol.ButtonA, phase: protocol.PhaseDown, want: "A", wantOK: true},
		{name: "B down", button: protocol.ButtonB, phase: protocol.PhaseDown, want: "B", wantOK: true},
		{name: "X down", button: protocol.ButtonX, phase: protocol.PhaseDown, want: "X", wantOK: true},
		{name: "Y down", button: protocol.ButtonY, phase: protocol.PhaseDown, want: "Y", wantOK: true},
		{name: "L down", button: protocol.ButtonL, phase: protocol.PhaseDown, want: "L", wantOK: true},
		{name: "R down", button: protocol.ButtonR, phase: protocol.PhaseDown, want: "R", wantOK: true},
		{name: "X up releases", button: protocol.ButtonX, phase: protocol.PhaseUp, want: "Z", wantOK: true},
		{name: "A up is silent", button: protocol.ButtonA, phase: protocol.PhaseUp},
		{name: "R up is silent", button: protocol.ButtonR, phase: protocol.PhaseUp},
		{name: "unknown button", button: protocol.Button(42), phase: protocol.PhaseDown},
		{name: "unknown phase", button: protocol.ButtonX, phase: protocol.Phase(9)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := protocol.EncodeButton(tt.button, tt.phase)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeAxisHex(t *testing.T) {
	tests := []struct {
		name  string
		axis  protocol.Axis
		value uint8
		want  protocol.Token
	}{
		{name: "right trigger max", axis: protocol.AxisRightTrigger, value: 255, want: "RTFF"},
		{name: "left trigger zero", axis: protocol.AxisLeftTrigger, value: 0, want: "LT00"},
		{name: "zero padded", axis: protocol.AxisRightTrigger, value: 15, want: "RT0F"},
		{name: "stick rest", axis: protocol.AxisLeftStickX, value: 127, want: "LX7F"},
		{name: "uppercase digits", axis: protocol.AxisLeftStickX, value: 0xab, want: "LXAB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, protocol.EncodeAxisHex(tt.axis, tt.value))
		})
	}
}

func TestEncodeDpad(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy int8
		want   []protocol.Token
	}{
		{name: "centered", dx: 0, dy: 0, want: nil},
		{name: "left", dx: -1, want: []protocol.Token{"l"}},
		{name: "right", dx: 1, want: []protocol.Token{"r"}},
		{name: "up", dy: -1, want: []protocol.Token{"u"}},
		{name: "down", dy: 1, want: []protocol.Token{"d"}},
		{name: "diagonal up-left", dx: -1, dy: -1, want: []protocol.Token{"l", "u"}},
		{name: "diagonal down-right", dx: 1, dy: 1, want: []protocol.Token{"r", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, protocol.EncodeDpad(tt.dx, tt.dy))
		})
	}
}

func TestQuantizeTrigger(t *testing.T) {
	tests := []struct {
		name string
		raw  float32
		want uint8
	}{
		{name: "released", raw: 0, want: 0},
		{name: "full", raw: 1, want: 255},
		{name: "half rounds up", raw: 0.5, want: 128},
		{name: "quarter", raw: 0.25, want: 64},
		{name: "above range", raw: 1.5, want: 255},
		{name: "below range", raw: -0.2, want: 0},
		{name: "nan", raw: float32(math.NaN()), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, protocol.QuantizeTrigger(tt.raw))
		})
	}
}

func TestQuantizeStick(t *testing.T) {
	tests := []struct {
		name string
		raw  float32
		want uint8
	}{
		{name: "center", raw: 0, want: 127},
		{name: "full right", raw: 1, want: 255},
		{name: "full left", raw: -1, want: 0},
		{name: "half right", raw: 0.5, want: 191},
		{name: "half left", raw: -0.5, want: 64},
		{name: "clamped", raw: 3, want: 255},
		{name: "infinite", raw: float32(math.Inf(-1)), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, protocol.QuantizeStick(tt.raw))
		})
	}
}

func TestTokenLine(t *testing.T) {
	assert.Equal(t, []byte("LT80\n"), protocol.Token("LT80").Line())
	assert.Equal(t, []byte("Z\n"), protocol.TokenXRelease.Line())
}
