package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/padlink/connector"
)

func TestPrintDevices(t *testing.T) {
	devices := []connector.Device{
		{Name: "Pixel 7", Address: "11:22:33:44:55:66"},
		{Name: "HC-05", Address: "98:D3:31:F5:12:AB", UUIDs: []string{connector.SerialPortUUID}},
		{Name: "HC-05 spare", Address: "98:D3:31:F5:12:AC", UUIDs: []string{"0000110b-0000-1000-8000-00805f9b34fb"}},
	}

	tests := []struct {
		name     string
		devices  []connector.Device
		filter   string
		marked   string
		contains []string
	}{
		{name: "marks first match", devices: devices, filter: "HC-05", marked: "HC-05", contains: []string{"yes", "no", "?"}},
		{name: "no match", devices: devices, filter: "JDY", contains: []string{`no device matches "JDY"`}},
		{name: "empty", filter: "HC-05", contains: []string{"no bonded devices"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, printDevices(&buf, tt.devices, tt.filter, connector.SerialPortUUID))
			out := buf.String()
			for _, c := range tt.contains {
				assert.Contains(t, out, c)
			}
			for _, line := range strings.Split(out, "\n") {
				if strings.HasPrefix(line, "*") {
					assert.Equal(t, tt.marked, strings.Fields(line)[1])
				}
			}
			if tt.marked == "" {
				assert.NotContains(t, out, "*")
			}
		})
	}
}

func TestLinkDepsTCP(t *testing.T) {
	l := LinkConfig{Transport: "tcp", Peer: []string{"HC-05=127.0.0.1:9000"}}
	deps, release, err := l.deps(nil)
	require.NoError(t, err)
	defer release()
	require.NotNil(t, deps.Enumerator)
	require.NotNil(t, deps.Dialer)
	assert.Nil(t, deps.Permission)

	_, _, err = LinkConfig{Transport: "carrier-pigeon"}.deps(nil)
	assert.Error(t, err)
}

func TestLinkDepsBluetoothDoesNotTouchBus(t *testing.T) {
	for _, transport := range []string{"rfcomm", "serial"} {
		t.Run(transport, func(t *testing.T) {
			deps, release, err := LinkConfig{Transport: transport, Adapter: "hci0"}.deps(nil)
			require.NoError(t, err)
			assert.NotNil(t, deps.Enumerator)
			assert.NotNil(t, deps.Dialer)
			release()
		})
	}
}
