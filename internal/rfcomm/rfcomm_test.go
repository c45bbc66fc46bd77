package rfcomm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    [6]byte
		wantErr bool
	}{
		{name: "hc-05", in: "98:D3:31:F5:12:AB", want: [6]byte{0xab, 0x12, 0xf5, 0x31, 0xd3, 0x98}},
		{name: "lowercase", in: "00:1a:7d:da:71:13", want: [6]byte{0x13, 0x71, 0xda, 0x7d, 0x1a, 0x00}},
		{name: "too short", in: "98:D3:31", wantErr: true},
		{name: "bad hex", in: "98:D3:31:F5:12:ZZ", wantErr: true},
		{name: "single digit octet", in: "9:D3:31:F5:12:AB", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAddress(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
