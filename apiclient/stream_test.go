package apiclient_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/padlink/apiclient"
	"github.com/Alia5/padlink/internal/server/api"
	"github.com/Alia5/padlink/internal/server/api/handler"
	th "github.com/Alia5/padlink/internal/testing"
	"github.com/Alia5/padlink/protocol"
)

func TestOpenInputNotSupportedWithMockTransport(t *testing.T) {
	_, err := testClient(nil, nil).OpenInput(context.Background())
	assert.ErrorContains(t, err, "not supported with mock transport")
}

func TestInputStream(t *testing.T) {
	for _, password := range []string{"", "pw"} {
		t.Run("password="+password, func(t *testing.T) {
			frames := make(chan protocol.Frame, 4)
			addr := th.StartAPIServer(t, api.ServerConfig{Password: password}, func(r *api.Router) {
				r.RegisterStream("input", handler.InputStream(context.Background(), frames))
			})

			s, err := apiclient.NewWithPassword(addr, password).OpenInput(context.Background())
			require.NoError(t, err)
			defer s.Close()

			require.NoError(t, s.SendButton(protocol.ButtonY, protocol.PhaseDown))
			require.NoError(t, s.SendAxis(protocol.AxisSample{RightTrigger: 1, DpadX: 1}))

			want := []protocol.Frame{
				{Kind: protocol.FrameButton, Button: protocol.ButtonEvent{Button: protocol.ButtonY, Phase: protocol.PhaseDown}},
				{Kind: protocol.FrameAxis, Axis: protocol.AxisSample{RightTrigger: 1, DpadX: 1}},
			}
			for _, w := range want {
				select {
				case f := <-frames:
					assert.Equal(t, w, f)
				case <-time.After(2 * time.Second):
					t.Fatal("frame not delivered")
				}
			}

			require.NoError(t, s.Close())
			assert.Error(t, s.SendButton(protocol.ButtonA, protocol.PhaseUp))
		})
	}
}
