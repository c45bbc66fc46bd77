package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/padlink/protocol"
)

func TestParseToken(t *testing.T) {
	tests := []struct {
		line    string
		want    protocol.Decoded
		wantErr bool
	}{
		{line: "A", want: protocol.Decoded{Token: "A", Kind: protocol.KindButton}},
		{line: "Z", want: protocol.Decoded{Token: "Z", Kind: protocol.KindRelease}},
		{line: "u", want: protocol.Decoded{Token: "u", Kind: protocol.KindDpad}},
		{line: "LTFF", want: protocol.Decoded{Token: "LTFF", Kind: protocol.KindAxis, Axis: protocol.AxisLeftTrigger, Value: 255}},
		{line: "LX7F", want: protocol.Decoded{Token: "LX7F", Kind: protocol.KindAxis, Axis: protocol.AxisLeftStickX, Value: 127}},
		{line: "RT00", want: protocol.Decoded{Token: "RT00", Kind: protocol.KindAxis, Axis: protocol.AxisRightTrigger}},
		{line: "", wantErr: true},
		{line: "a", wantErr: true},
		{line: "LTff", wantErr: true},
		{line: "LY10", wantErr: true},
		{line: "LT1", wantErr: true},
		{line: "LT+1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := protocol.ParseToken(tt.line)
			if tt.wantErr {
				assert.ErrorIs(t, err, protocol.ErrUnknownToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTokenRoundTripsEncoder(t *testing.T) {
	for _, b := range protocol.Buttons() {
		tok, ok := protocol.EncodeButton(b, protocol.PhaseDown)
		require.True(t, ok)
		_, err := protocol.ParseToken(string(tok))
		assert.NoError(t, err, tok)
	}
	for v := 0; v < 256; v += 17 {
		tok := protocol.EncodeAxisHex(protocol.AxisRightTrigger, uint8(v))
		got, err := protocol.ParseToken(string(tok))
		require.NoError(t, err)
		assert.Equal(t, uint8(v), got.Value)
	}
}
