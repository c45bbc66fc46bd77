package input_test

import (
	"context"
	"testing"

	"github.com/Alia5/padlink/internal/input"
	"github.com/Alia5/padlink/protocol"
	"github.com/stretchr/testify/assert"
)

func TestRange(t *testing.T) {
	stick := input.Range{Min: -32768, Max: 32767}
	trigger := input.Range{Min: 0, Max: 255}

	tests := []struct {
		name string
		got  float32
		want float32
	}{
		{name: "trigger released", got: trigger.Unit(0), want: 0},
		{name: "trigger full", got: trigger.Unit(255), want: 1},
		{name: "trigger over", got: trigger.Unit(400), want: 1},
		{name: "stick left", got: stick.Signed(-32768), want: -1},
		{name: "stick right", got: stick.Signed(32767), want: 1},
		{name: "degenerate", got: input.Range{Min: 5, Max: 5}.Unit(5), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.got, 1e-6)
		})
	}

	assert.Equal(t, uint8(127), protocol.QuantizeStick(stick.Signed(0)), "stick rest quantizes to center")
}

func TestDirection(t *testing.T) {
	assert.Equal(t, int8(-1), input.Direction(-1))
	assert.Equal(t, int8(0), input.Direction(0))
	assert.Equal(t, int8(1), input.Direction(32767))
}

func TestEmitCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := input.Emit(ctx, make(chan protocol.Frame), protocol.Frame{})
	assert.ErrorIs(t, err, context.Canceled)
}
