//go:build linux

package rfcomm

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/Alia5/padlink/link"
	"github.com/Alia5/padlink/protocol"
)

// socketPair returns a socket wrapped like a dialed RFCOMM link and the raw
// peer fd, which is never read.
func socketPair(t *testing.T) (io.WriteCloser, int) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	require.NoError(t, err)
	_ = unix.SetsockoptInt(fds[0], unix.SOL_SOCKET, unix.SO_SNDBUF, 4096)
	f, err := wrapSocket(fds[0], "rfcomm:test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = unix.Close(fds[1]) })
	return f, fds[1]
}

func TestWrapSocketSupportsDeadlines(t *testing.T) {
	f, _ := socketPair(t)
	defer f.Close()

	d, ok := f.(interface{ SetWriteDeadline(time.Time) error })
	require.True(t, ok)
	assert.NoError(t, d.SetWriteDeadline(time.Now().Add(time.Second)))
}

func TestStalledLinkCountsWriteTimeouts(t *testing.T) {
	f, _ := socketPair(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := link.NewSession(f, "HC-05", link.SessionConfig{
		QueueSize:    8,
		WriteTimeout: 20 * time.Millisecond,
		CloseTimeout: 200 * time.Millisecond,
	}, logger, nil)

	stop := make(chan struct{})
	fed := make(chan struct{})
	go func() {
		defer close(fed)
		for {
			select {
			case <-stop:
				return
			default:
				s.Send(protocol.TokenA)
			}
		}
	}()

	require.Eventually(t, func() bool { return s.Stats().Failed > 0 }, 5*time.Second, 10*time.Millisecond)
	close(stop)
	<-fed

	closed := make(chan struct{})
	go func() {
		s.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(3 * time.Second):
		t.Fatal("Close blocked on a stalled link")
	}
	assert.False(t, s.Connected())
}
