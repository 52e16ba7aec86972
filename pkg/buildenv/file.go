// pkg/buildenv/file.go
package buildenv

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig holds optional defaults read from an ffbuild.yaml file.
// Environment inputs always take precedence over file values.
type FileConfig struct {
	Target               string `yaml:"target"`
	OutDir               string `yaml:"out_dir"`
	Jobs                 int    `yaml:"jobs"`
	ConfigureFlags       string `yaml:"configure_flags"`
	LinkMode             string `yaml:"link_mode"`
	RockchipMPP          *bool  `yaml:"rockchip_mpp"`
	CrossToolchainPrefix string `yaml:"cross_toolchain_prefix"`
}

// LoadFileConfig loads defaults from path. A missing file is not an
// error; it simply yields no defaults.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &fc, nil
}
