package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/HexSleeves/hive/internal/vault"
)

type Config struct {
	// Project settings
	ProjectDir string `json:"project_dir"`
	HiveDir    string `json:"hive_dir"`

	// Starting stock for new hives
	Vault VaultConfig `json:"vault"`

	// Headless run settings
	Run RunConfig `json:"run"`

	// Interactive settings
	TUI TUIConfig `json:"tui"`

	// Output settings
	Output OutputConfig `json:"output"`
}

// VaultConfig sets the stock a fresh hive starts with. The simulation rules
// themselves are compiled in.
type VaultConfig struct {
	InitialHoney  float64 `json:"initial_honey"`
	InitialNectar float64 `json:"initial_nectar"`
}

type RunConfig struct {
	Shifts          int  `json:"shifts"`
	Record          bool `json:"record"`
	EventHistory    int  `json:"event_history"`
	StopWhenStalled bool `json:"stop_when_stalled"`
}

type TUIConfig struct {
	AutoplayInterval time.Duration `json:"autoplay_interval"`
	EventLines       int           `json:"event_lines"`
}

type OutputConfig struct {
	Quiet bool `json:"quiet"`
	JSON  bool `json:"json"`
	Plain bool `json:"plain"`
}

func DefaultConfig() *Config {
	return &Config{
		ProjectDir: ".",
		HiveDir:    ".hive",
		Vault: VaultConfig{
			InitialHoney:  vault.DefaultHoney,
			InitialNectar: vault.DefaultNectar,
		},
		Run: RunConfig{
			Shifts:       10,
			Record:       true,
			EventHistory: 1000,
		},
		TUI: TUIConfig{
			AutoplayInterval: 500 * time.Millisecond,
			EventLines:       50,
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) HivePath(parts ...string) string {
	elems := append([]string{c.ProjectDir, c.HiveDir}, parts...)
	return filepath.Join(elems...)
}

func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// IsQuiet returns true if quiet mode is enabled.
func (c *Config) IsQuiet() bool {
	return c.Output.Quiet
}

// IsJSON returns true if JSON output mode is enabled.
func (c *Config) IsJSON() bool {
	return c.Output.JSON
}

// IsPlain returns true if plain output mode is enabled.
func (c *Config) IsPlain() bool {
	return c.Output.Plain
}
