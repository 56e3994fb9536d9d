package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()
	assert.Equal(t, "http://localhost:8080", c.ServerEndpointAddr)
}

func TestParseFlags_OverridesAddress(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"cmd", "-a", "http://api.example.com", "-x", "junk"}

	c := &Config{}
	c.LoadDefaults()
	require.NotPanics(t, func() { parseFlags(c) })
	assert.Equal(t, "http://api.example.com", c.ServerEndpointAddr)
}

func TestParseJson_OverlaysValues(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server_endpoint_addr": "http://json.example.com"}`), 0o600))
	os.Args = []string{"cmd", "-c", path}

	c := &Config{}
	c.LoadDefaults()
	parseJson(c)
	assert.Equal(t, "http://json.example.com", c.ServerEndpointAddr)
}
