package vpn

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/yllada/lanparty-client/common"
	"github.com/yllada/lanparty-client/config"
)

// RuntimeFiles are the files OpenVPN reads at startup.
type RuntimeFiles struct {
	ConfigPath   string
	PasswordPath string
}

// WriteRuntimeFiles writes the rendered configuration and the two-line
// credentials file into dir. Both are overwritten on every run.
func WriteRuntimeFiles(fs afero.Fs, dir, rendered string, cfg *config.RunConfig) (RuntimeFiles, error) {
	files := RuntimeFiles{
		ConfigPath:   filepath.Join(dir, common.OpenVPNConfigFileName),
		PasswordPath: filepath.Join(dir, common.PasswordFileName),
	}

	if err := afero.WriteFile(fs, files.ConfigPath, []byte(rendered), 0600); err != nil {
		return RuntimeFiles{}, fmt.Errorf("failed to write %s: %w", common.OpenVPNConfigFileName, err)
	}

	credentials := fmt.Sprintf("%s\n%s\n", cfg.Username, cfg.Password)
	if err := afero.WriteFile(fs, files.PasswordPath, []byte(credentials), 0600); err != nil {
		return RuntimeFiles{}, fmt.Errorf("failed to write %s: %w", common.PasswordFileName, err)
	}

	return files, nil
}
