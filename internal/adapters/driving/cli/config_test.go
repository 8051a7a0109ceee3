package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koshinokanbai330/oof-cli/internal/adapters/driven/config/file"
)

func withTempConfig(t *testing.T) {
	t.Helper()
	old := configStore
	store, err := file.NewStore(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	configStore = store
	t.Cleanup(func() { configStore = old })
}

func TestConfigSetAndShow(t *testing.T) {
	withTempConfig(t)

	out, err := runCommand(t, "config", "set", "family_name", "Yamada")
	require.NoError(t, err)
	assert.Contains(t, out, "family_name = Yamada")

	out, err = runCommand(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "family_name = 'Yamada'")
	assert.Contains(t, out, "allowance_mode = 'local'")
}

func TestConfigSet_UnknownKey(t *testing.T) {
	withTempConfig(t)

	_, err := runCommand(t, "config", "set", "bogus", "x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown key")
}
