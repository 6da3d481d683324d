package vpn

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRuntimeFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := filepath.FromSlash("/opt/lanparty")

	files, err := WriteRuntimeFiles(fs, dir, "client\n", testConfig())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.ovpn"), files.ConfigPath)
	assert.Equal(t, filepath.Join(dir, "pass.txt"), files.PasswordPath)

	rendered, err := afero.ReadFile(fs, files.ConfigPath)
	require.NoError(t, err)
	assert.Equal(t, "client\n", string(rendered))

	credentials, err := afero.ReadFile(fs, files.PasswordPath)
	require.NoError(t, err)
	assert.Equal(t, "player1\nhunter2\n", string(credentials))
}

func TestWriteRuntimeFiles_Overwrites(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := filepath.FromSlash("/opt/lanparty")
	require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, "pass.txt"), []byte("stale credentials that are longer\n"), 0600))

	cfg := testConfig()
	cfg.Password = "new"
	files, err := WriteRuntimeFiles(fs, dir, "client\n", cfg)
	require.NoError(t, err)

	credentials, err := afero.ReadFile(fs, files.PasswordPath)
	require.NoError(t, err)
	assert.Equal(t, "player1\nnew\n", string(credentials))
}

func TestWriteRuntimeFiles_ReadOnly(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	_, err := WriteRuntimeFiles(fs, "/opt/lanparty", "client\n", testConfig())
	assert.Error(t, err)
}
