package configpaths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigDir(t *testing.T) {
	tests := []struct {
		name string
		xdg  string
		home string
		want string
	}{
		{name: "xdg wins", xdg: "/x", home: "/h", want: "/x/padlink"},
		{name: "home fallback", home: "/h", want: "/h/.config/padlink"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CONFIG_HOME", tt.xdg)
			t.Setenv("HOME", tt.home)
			got, err := DefaultConfigDir()
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}

	t.Run("nothing set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("HOME", "")
		_, err := DefaultConfigDir()
		assert.Error(t, err)
	})
}

func TestConfigCandidatePaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/x")

	tests := []struct {
		name     string
		user     string
		wantJSON string
		wantYAML string
		wantTOML string
	}{
		{name: "yaml user file", user: "/tmp/pad.yml", wantYAML: "/tmp/pad.yml"},
		{name: "toml user file", user: "/tmp/pad.toml", wantTOML: "/tmp/pad.toml"},
		{name: "unknown extension is json", user: "/tmp/pad.conf", wantJSON: "/tmp/pad.conf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j, y, to := ConfigCandidatePaths(tt.user)
			if tt.wantJSON != "" {
				assert.Equal(t, tt.wantJSON, j[0])
			}
			if tt.wantYAML != "" {
				assert.Equal(t, tt.wantYAML, y[0])
			}
			if tt.wantTOML != "" {
				assert.Equal(t, tt.wantTOML, to[0])
			}
			assert.Contains(t, j, filepath.Join("/x/padlink", "config.json"))
			assert.Contains(t, y, filepath.Join("/etc/padlink", "run.yaml"))
			assert.Contains(t, to, filepath.Join("/etc/padlink", "config.toml"))
		})
	}
}

func TestExt(t *testing.T) {
	assert.Equal(t, "yaml", Ext("yml"))
	assert.Equal(t, "toml", Ext("toml"))
	assert.Equal(t, "json", Ext("json"))
	assert.Equal(t, "json", Ext("ini"))
}
