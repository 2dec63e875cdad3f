package cmd

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/avr-sim/avr-sim/sim"
)

// BoardsFile is the on-disk layout of a board profile catalog.
type BoardsFile struct {
	Version string            `yaml:"version"`
	Boards  []sim.BoardConfig `yaml:"boards"`
}

// LoadBoardConfig resolves a named board profile. When path is empty the
// built-in default catalog (just the Uno profile) is consulted; otherwise the
// YAML catalog at path is read and searched by name.
func LoadBoardConfig(path, name string) (sim.BoardConfig, error) {
	if path == "" {
		def := sim.DefaultBoardConfig()
		if name == "" || name == def.Name {
			return def, nil
		}
		return sim.BoardConfig{}, errors.Errorf("unknown board %q (no board file given)", name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return sim.BoardConfig{}, errors.Wrapf(err, "read board file %s", path)
	}
	var catalog BoardsFile
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return sim.BoardConfig{}, errors.Wrapf(err, "parse board file %s", path)
	}
	for _, cfg := range catalog.Boards {
		if cfg.Name == name {
			if err := cfg.Validate(); err != nil {
				return sim.BoardConfig{}, err
			}
			return cfg, nil
		}
	}
	return sim.BoardConfig{}, errors.Errorf("board %q not found in %s", name, path)
}
