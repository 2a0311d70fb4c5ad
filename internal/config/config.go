// Package config loads the optional settings file. Everything has a working
// default; flags override whatever the file says.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

type Config struct {
	// BaseURL points the probes at the completion-service API root.
	BaseURL string `json:"base_url,omitempty"`
	// MaxRequests caps concurrently in-flight probe pipelines.
	MaxRequests int `json:"max_requests"`
	// ProbeTimeoutSeconds bounds each individual network call.
	ProbeTimeoutSeconds int `json:"probe_timeout_seconds"`
	// OutputDir receives the per-tier result files.
	OutputDir string `json:"output_dir"`
	// Baselines overrides the built-in per-tier default rate limits.
	Baselines map[string]int `json:"baselines,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		MaxRequests:         20,
		ProbeTimeoutSeconds: 30,
		OutputDir:           "scan_results",
	}
}

func ConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "keysift")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "keysift")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "settings.json")
}

func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the settings file at path. A missing file is not an error —
// the defaults simply apply. A file that exists but does not parse is an
// error, so a typo never silently reverts the run to defaults.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = DefaultConfig().MaxRequests
	}
	if cfg.ProbeTimeoutSeconds <= 0 {
		cfg.ProbeTimeoutSeconds = DefaultConfig().ProbeTimeoutSeconds
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultConfig().OutputDir
	}

	return cfg, nil
}

// Save writes the config back out, creating the directory if needed.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

func SaveTo(path string, cfg Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
