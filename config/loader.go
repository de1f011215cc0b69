package config

import (
	"fmt"
	"os"

	"github.com/raystack/salt/config"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	DefaultFilename      = "meridian"
	DefaultFileExtension = "yaml"
	DefaultEnvPrefix     = "MERIDIAN"
	EmptyPath            = ""
)

var FS = afero.NewReadOnlyFs(afero.NewOsFs())

// LoadServerConfig load the server specific config from these locations:
// 1. filepath. ./meridian serve -c "path/to/config.yaml"
// 2. env var. eg. MERIDIAN_SERVE_PORT, etc
// 3. current directory
func LoadServerConfig(filePath string) (*ServerConfig, error) {
	cfg := &ServerConfig{}

	v := viper.New()
	v.SetFs(FS)

	opts := []config.LoaderOption{
		config.WithViper(v),
		config.WithName(DefaultFilename),
		config.WithType(DefaultFileExtension),
	}

	if filePath != EmptyPath {
		if err := validateFilepath(FS, filePath); err != nil {
			return nil, err
		}
		opts = append(opts, config.WithFile(filePath))
	} else {
		opts = append(opts, config.WithEnvPrefix(DefaultEnvPrefix), config.WithEnvKeyReplacer(".", "_"))

		currPath, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("error getting current work directory path: %w", err)
		}
		opts = append(opts, config.WithPath(currPath))
	}

	l := config.NewLoader(opts...)
	if err := l.Load(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validateFilepath(fs afero.Fs, fpath string) error {
	f, err := fs.Stat(fpath)
	if err != nil {
		return err
	}
	if !f.Mode().IsRegular() {
		return fmt.Errorf("%s not a file", fpath)
	}
	return nil
}
