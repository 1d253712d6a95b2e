package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)
	assert.Equal(t, 200, cfg.RateLimit.MessagesPerSecond)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9100")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("MENU_ACCELERATORS", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Webview.SupportsMenuAccelerators)
}

func TestLoadHostDefinition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host.yaml")
	data := []byte(`
extension_location: /opt/extensions/notes
local_resource_roots:
  - /opt/extensions/notes/media
port_mappings:
  - source_port: 3000
  - source_port: 8080
    target: http://127.0.0.1:9000
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	def, err := LoadHostDefinition(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/extensions/notes", def.ExtensionLocation)
	assert.Equal(t, []string{"/opt/extensions/notes/media"}, def.LocalResourceRoots)
	require.Len(t, def.PortMappings, 2)
	assert.Equal(t, 3000, def.PortMappings[0].SourcePort)
	assert.Equal(t, "http://127.0.0.1:9000", def.PortMappings[1].Target)
}

func TestLoadHostDefinitionMissingFile(t *testing.T) {
	_, err := LoadHostDefinition("/does/not/exist.yaml")
	assert.Error(t, err)
}
