package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kacperjurak/golcrmeter/pkg/config"
)

func TestConfigFileOverlaysSolverSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
solver:
  rref: 327.8
  numeric: true
  json_out: true
server:
  port: "9090"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	configPath = path
	t.Cleanup(func() {
		configPath = ""
		cfg = config.DefaultConfig()
		srvCfg = config.DefaultServerConfig()
	})

	require.NoError(t, rootCmd.PersistentPreRunE(rootCmd, nil))

	assert.Equal(t, 327.8, cfg.Rref)
	assert.True(t, cfg.Numeric)
	assert.True(t, cfg.JSONOut)
	assert.Equal(t, 4, cfg.Digits, "unset field keeps default")
	assert.Equal(t, "9090", srvCfg.Port)
}
