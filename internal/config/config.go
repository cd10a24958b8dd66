package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultHeader  = "Lammps Simulation"
	DefaultFormat  = "annotated"
	DefaultEngine  = "process"
	DefaultMode    = "nopipe"
	DefaultCommand = "lmp"
	DefaultDataDir = ".lmpkit"
)

type Config struct {
	Header  string       `yaml:"header"`
	DataDir string       `yaml:"data_dir"`
	Output  OutputConfig `yaml:"output"`
	Engine  EngineConfig `yaml:"engine"`
}

type OutputConfig struct {
	Format string `yaml:"format"`
	Path   string `yaml:"path"`
}

type EngineConfig struct {
	Name    string `yaml:"name"`
	Mode    string `yaml:"mode"`
	Command string `yaml:"command"`
	Archive bool   `yaml:"archive"`
}

func DefaultConfig() *Config {
	return &Config{
		Header:  DefaultHeader,
		DataDir: DefaultDataDir,
		Output: OutputConfig{
			Format: DefaultFormat,
		},
		Engine: EngineConfig{
			Name:    DefaultEngine,
			Mode:    DefaultMode,
			Command: DefaultCommand,
			Archive: true,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Init writes a default config to path, with the engine taken from the
// named preset when one is given. An existing file is kept unless force is
// set.
func Init(path, presetName string, force bool) (*Config, error) {
	cfg := DefaultConfig()
	if presetName != "" {
		p := GetPreset(presetName)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", presetName, ListPresets())
		}
		cfg.Engine = *p
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return nil, fmt.Errorf("%s already exists", path)
		}
	}
	if err := Save(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
