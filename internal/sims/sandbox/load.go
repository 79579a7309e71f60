package sandbox

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/sandbox.yaml
var defaultSandboxYAML []byte

// LoadConfig loads the sandbox configuration. Keys missing from the file keep
// their DefaultConfig values.
// Search order: customPath -> ~/.sandpit/sandbox.yaml -> ./configs/sandbox.yaml -> embedded default
func LoadConfig(customPath string) (Config, error) {
	cfg := DefaultConfig()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return finish(cfg)
	}

	if userCfgPath := userConfigPath("sandbox.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return finish(cfg)
			}
			cfg = DefaultConfig()
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", "sandbox.yaml")); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return finish(cfg)
		}
		cfg = DefaultConfig()
	}

	if err := yaml.Unmarshal(defaultSandboxYAML, &cfg); err != nil {
		return DefaultConfig(), nil
	}
	return finish(cfg)
}

func finish(cfg Config) (Config, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return cfg, fmt.Errorf("invalid field size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.StepSeconds < 0 {
		return cfg, fmt.Errorf("negative step_seconds %v", cfg.StepSeconds)
	}
	cfg.Params.normalize()
	return cfg, nil
}

func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".sandpit", filename)
}
