package display

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Alia5/padlink/protocol"
)

func TestConsoleHistoryIsBounded(t *testing.T) {
	tests := []struct {
		name     string
		maxLines int
		n        int
		wantLen  int
		wantHead string
	}{
		{name: "below cap", maxLines: 5, n: 3, wantLen: 3, wantHead: "T0"},
		{name: "exactly cap", maxLines: 5, n: 5, wantLen: 5, wantHead: "T0"},
		{name: "wrapped", maxLines: 5, n: 12, wantLen: 5, wantHead: "T7"},
		{name: "default cap", maxLines: 0, n: 250, wantLen: DefaultMaxLines, wantHead: "T50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConsole(nil, Config{MaxLines: tt.maxLines})
			for i := range tt.n {
				c.AppendToken(protocol.Token(fmt.Sprintf("T%d", i)))
			}
			lines := c.Lines()
			assert.Len(t, lines, tt.wantLen)
			assert.Equal(t, tt.wantHead, lines[0])
			assert.Equal(t, fmt.Sprintf("T%d", tt.n-1), lines[len(lines)-1])
		})
	}
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, Config{Timestamps: true})
	c.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 15, 250e6, time.UTC) }

	c.AppendToken("LT80")
	c.NotifyConnected()
	c.NotifyFailed(errors.New("host is down"))
	c.NotifyNoDeviceFound()

	assert.Equal(t, "12:30:15.250 LT80\n"+
		"** bluetooth connected\n"+
		"** bluetooth connection failed: host is down\n"+
		"** no matching device found\n", buf.String())
}

func TestConsoleQuiet(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, Config{Quiet: true})
	c.AppendToken("A")
	assert.Empty(t, buf.String())
	assert.Equal(t, []string{"A"}, c.Lines())
}

func TestConsoleColorOnlyOnTerminal(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, Config{Timestamps: true})
	assert.False(t, c.color, "a buffer is not a terminal")

	c.color = true
	c.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 15, 0, time.UTC) }
	c.AppendToken("A")
	c.NotifyConnected()

	assert.Equal(t, ansiDim+"12:30:15.000"+ansiReset+" A\n"+
		"** "+ansiBold+"bluetooth connected"+ansiReset+"\n", buf.String())
}
