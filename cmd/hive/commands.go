package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/HexSleeves/hive/internal/config"
	"github.com/HexSleeves/hive/internal/output"
)

// resolveConfigPath resolves --config. A relative path is taken inside --project
// when one is given, so init and later commands agree on the file.
func resolveConfigPath(cmd *cli.Command) string {
	path := cmd.String("config")
	projectDir := cmd.String("project")
	if path == "" || filepath.IsAbs(path) || projectDir == "" || projectDir == "." {
		return path
	}
	return filepath.Join(projectDir, path)
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configPath := resolveConfigPath(cmd); configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", configPath, err)
		}
		cfg = loaded
	}

	if projectDir := cmd.String("project"); projectDir != "" && projectDir != "." {
		cfg.ProjectDir = projectDir
	}
	if cmd.Bool("quiet") {
		cfg.Output.Quiet = true
	}
	if cmd.Bool("json") {
		cfg.Output.JSON = true
	}
	if cmd.Bool("plain") {
		cfg.Output.Plain = true
	}
	if cmd.Bool("no-record") {
		cfg.Run.Record = false
	}
	return cfg, nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// selectMode applies the output flags; the TUI is only picked on a terminal.
func selectMode(cmd *cli.Command) output.Mode {
	return output.SelectMode(cmd.Bool("quiet"), cmd.Bool("json"), cmd.Bool("plain"), isTerminal())
}

func configMode(cfg *config.Config) output.Mode {
	return output.SelectMode(cfg.IsQuiet(), cfg.IsJSON(), cfg.IsPlain(), isTerminal())
}

// newLogger returns the run logger. Quiet runs discard it; verbose runs add
// microseconds.
func newLogger(w io.Writer, mode output.Mode, verbose bool) *log.Logger {
	if mode == output.ModeQuiet && !verbose {
		w = io.Discard
	}
	logger := log.New(w, "", log.LstdFlags)
	if verbose {
		logger.SetFlags(log.LstdFlags | log.Lmicroseconds)
	}
	return logger
}

func cmdInit(ctx context.Context, cmd *cli.Command) error {
	configPath := resolveConfigPath(cmd)
	logger := log.New(os.Stderr, "", log.LstdFlags)

	cfg := config.DefaultConfig()
	if projectDir := cmd.String("project"); projectDir != "" {
		cfg.ProjectDir = projectDir
	}

	hiveDir := cfg.HivePath()
	if err := os.MkdirAll(hiveDir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", hiveDir, err)
	}
	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	logger.Printf("Initialized hive at %s", hiveDir)
	logger.Printf("Config saved to %s", configPath)
	return nil
}

func cmdConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := resolveConfigPath(cmd)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("Configuration (%s):\n", configPath)
	fmt.Printf("  Project Dir:     %s\n", cfg.ProjectDir)
	fmt.Printf("  Hive Dir:        %s\n", cfg.HiveDir)
	fmt.Printf("  Initial Honey:   %.2f\n", cfg.Vault.InitialHoney)
	fmt.Printf("  Initial Nectar:  %.2f\n", cfg.Vault.InitialNectar)
	fmt.Printf("  Shifts:          %d\n", cfg.Run.Shifts)
	fmt.Printf("  Record:          %v\n", cfg.Run.Record)
	fmt.Printf("  Stop if Stalled: %v\n", cfg.Run.StopWhenStalled)
	fmt.Printf("  Event History:   %d\n", cfg.Run.EventHistory)
	fmt.Printf("  Autoplay:        %v\n", cfg.TUI.AutoplayInterval)
	fmt.Printf("  Event Lines:     %d\n", cfg.TUI.EventLines)
	return nil
}
