package app_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/padlink/connector"
	"github.com/Alia5/padlink/internal/app"
	"github.com/Alia5/padlink/internal/input"
	th "github.com/Alia5/padlink/internal/testing"
	"github.com/Alia5/padlink/link"
	"github.com/Alia5/padlink/protocol"
	"github.com/Alia5/padlink/translator"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

type rig struct {
	app     *app.App
	dialer  *th.Dialer
	notify  *th.Notifier
	display *th.Tokens
	slot    *link.Slot
}

func newRig(devices []connector.Device) *rig {
	r := &rig{
		dialer:  &th.Dialer{},
		notify:  &th.Notifier{},
		display: &th.Tokens{},
		slot:    &link.Slot{},
	}
	conn := connector.New(connector.Config{}, connector.Deps{
		Enumerator: &th.Enumerator{Devices: devices},
		Dialer:     r.dialer,
		Notifier:   r.notify,
	}, r.slot, link.SessionConfig{}, logger, nil)
	tr := translator.New(r.slot, r.display, logger)
	r.app = app.New(conn, tr, logger)
	return r
}

func start(t *testing.T, a *app.App, sources ...input.Source) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx, sources...) }()
	t.Cleanup(cancel)
	return cancel, done
}

func button(b protocol.Button, p protocol.Phase) protocol.Frame {
	return protocol.Frame{Kind: protocol.FrameButton, Button: protocol.ButtonEvent{Button: b, Phase: p}}
}

func TestAppForwardsTokensOnceConnected(t *testing.T) {
	r := newRig([]connector.Device{{Name: "HC-05", Address: "98:D3:31:F5:12:AB"}})
	cancel, done := start(t, r.app)

	require.Eventually(t, func() bool {
		return r.app.Status().State == connector.StateConnected
	}, 2*time.Second, 5*time.Millisecond)

	r.app.Frames() <- button(protocol.ButtonA, protocol.PhaseDown)
	r.app.Frames() <- protocol.Frame{Kind: protocol.FrameAxis, Axis: protocol.AxisSample{LeftTrigger: 1}}

	conn := r.dialer.Last()
	require.NotNil(t, conn)
	assert.Eventually(t, func() bool {
		return conn.String() == "A\nLTFF\nRT00\nLX7F\n"
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"connected"}, r.notify.Snapshot())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	assert.True(t, conn.Closed())
	assert.Nil(t, r.slot.Session())
	assert.Equal(t, connector.StateDisconnected, r.app.Status().State)
}

func TestAppDisplaysTokensWithoutLink(t *testing.T) {
	r := newRig(nil)
	_, _ = start(t, r.app)

	r.app.Frames() <- button(protocol.ButtonX, protocol.PhaseUp)
	assert.Eventually(t, func() bool {
		got := r.display.Snapshot()
		return len(got) == 1 && got[0] == protocol.TokenXRelease
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, connector.StateFailed, r.app.Status().State)
	assert.Equal(t, []string{"no-device"}, r.notify.Snapshot())
}

func TestAppConnect(t *testing.T) {
	r := newRig([]connector.Device{{Name: "HC-05"}})
	r.dialer.Gate = make(chan struct{})
	_, _ = start(t, r.app)

	require.Eventually(t, func() bool {
		return r.app.Status().State == connector.StateConnecting
	}, 2*time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.ErrorIs(t, r.app.Connect(ctx), connector.ErrBusy)

	close(r.dialer.Gate)
	require.Eventually(t, func() bool {
		return r.app.Status().State == connector.StateConnected
	}, 2*time.Second, 5*time.Millisecond)
}

func TestAppReconnectAfterFailure(t *testing.T) {
	r := newRig([]connector.Device{{Name: "HC-05"}})
	r.dialer.Err = errors.New("host is down")
	_, _ = start(t, r.app)

	require.Eventually(t, func() bool {
		return r.app.Status().State == connector.StateFailed
	}, 2*time.Second, 5*time.Millisecond)

	r.dialer.Err = nil
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, r.app.Connect(ctx))
	assert.Eventually(t, func() bool {
		got := r.notify.Snapshot()
		return len(got) == 2 && got[0] == "failed" && got[1] == "connected"
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, connector.StateConnected, r.app.Status().State)
}

type failingSource struct{ err error }

func (s failingSource) Run(context.Context, chan<- protocol.Frame) error { return s.err }

func TestAppStopsWhenSourceFails(t *testing.T) {
	r := newRig(nil)
	boom := errors.New("device unplugged")
	_, done := start(t, r.app, failingSource{err: boom})

	select {
	case err := <-done:
		assert.ErrorIs(t, err, boom)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}
