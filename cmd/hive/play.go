package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/HexSleeves/hive/internal/output"
	"github.com/HexSleeves/hive/internal/tui"
)

func cmdPlay(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.IsJSON() || cfg.IsQuiet() || cfg.IsPlain() {
		return fmt.Errorf("play is interactive and cannot be combined with --json, --quiet or --plain")
	}
	if !isTerminal() {
		return fmt.Errorf("play needs an interactive terminal; use 'hive run' instead")
	}

	// The TUI owns the terminal, so log lines are buffered for the status area.
	logs := tui.NewLogBuffer()
	logger := log.New(logs, "", log.LstdFlags)

	s, err := openSession(ctx, cfg, logger, cmd.String("label"), cfg.Vault.InitialHoney, cfg.Vault.InitialNectar)
	if err != nil {
		return err
	}

	prog := tui.NewProgram(tui.New(s.queen, s.bus, tui.Options{
		SessionID:        s.id,
		Label:            s.label,
		AutoplayInterval: cfg.TUI.AutoplayInterval,
		EventLines:       cfg.TUI.EventLines,
		Log:              logs,
	}))

	var signalled atomic.Bool
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		if _, ok := <-sigs; ok {
			signalled.Store(true)
			prog.Quit()
		}
	}()

	final, err := prog.Run()
	if err != nil {
		if closeErr := s.close(ctx, statusInterrupted); closeErr != nil {
			logger.Printf("⚠ %v", closeErr)
		}
		return fmt.Errorf("TUI error: %w", err)
	}

	status := playStatus(final.Stalled(), signalled.Load())
	closeErr := s.close(ctx, status)

	p := output.NewPrinter(output.ModePlain, cmd.Bool("verbose"))
	p.Section(fmt.Sprintf("Session %s: %d shift(s), %s", s.id, s.queen.Shift(), status))
	p.Report(s.queen.StatusReport())
	if closeErr != nil {
		p.Error("%v", closeErr)
	}
	return closeErr
}

// playStatus is the journal status of a finished interactive session. A
// session ended by a signal is interrupted whatever state the hive was in.
func playStatus(stalled, signalled bool) string {
	switch {
	case signalled:
		return statusInterrupted
	case stalled:
		return statusStalled
	}
	return statusDone
}
