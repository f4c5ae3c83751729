package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	hiveerrors "github.com/HexSleeves/hive/internal/errors"
	"github.com/HexSleeves/hive/internal/output"
)

func cmdSessions(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")

	db, err := openJournal(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	sessions, err := db.ListSessions(ctx, int(limit))
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if cmd.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	}

	p := output.NewPrinter(output.ModePlain, false)

	if len(sessions) == 0 {
		p.Info("No sessions found. Run 'hive run' to start one.")
		return nil
	}

	p.Header("Sessions")

	var rows [][]string
	for _, s := range sessions {
		label := s.Label
		if len(label) > 30 {
			label = label[:27] + "..."
		}
		rows = append(rows, []string{
			s.ID,
			output.StatusIcon(s.Status) + " " + s.Status,
			fmt.Sprintf("%d", s.Shifts),
			fmt.Sprintf("%.2f", s.InitialHoney),
			fmt.Sprintf("%.2f", s.InitialNectar),
			label,
		})
	}
	p.Table(
		[]string{"Session", "Status", "Shifts", "Honey", "Nectar", "Label"},
		rows,
	)
	p.Printf("\n%d session(s)\n", len(sessions))
	return nil
}

func cmdShifts(ctx context.Context, cmd *cli.Command) error {
	db, err := openJournal(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	sessionID := cmd.Args().First()
	if sessionID == "" {
		latest, err := db.LatestSession(ctx)
		if err != nil {
			return fmt.Errorf("no sessions found: %w", err)
		}
		sessionID = latest.ID
	} else if _, err := db.GetSession(ctx, sessionID); err != nil {
		if errors.Is(err, hiveerrors.ErrNoSession) {
			return fmt.Errorf("session %s: %w", sessionID, err)
		}
		return fmt.Errorf("get session: %w", err)
	}

	shifts, err := db.GetShifts(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("get shifts: %w", err)
	}

	if cmd.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(shifts)
	}

	p := output.NewPrinter(output.ModePlain, false)
	if len(shifts) == 0 {
		p.Info("No shifts recorded for %s.", sessionID)
		return nil
	}

	p.Header("Shifts " + sessionID)
	var rows [][]string
	for _, r := range shifts {
		worked := "✔"
		if !r.Worked {
			worked = "⊘"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.Shift),
			worked,
			fmt.Sprintf("%.2f", r.Honey),
			fmt.Sprintf("%.2f", r.Nectar),
			fmt.Sprintf("%.2f", r.Eggs),
			fmt.Sprintf("%.2f", r.Unassigned),
			fmt.Sprintf("%d/%d", r.WorkersWorked, r.TotalWorkers),
		})
	}
	p.Table([]string{"Shift", "Worked", "Honey", "Nectar", "Eggs", "Unassigned", "Bees"}, rows)
	p.Printf("\n%d shift(s)\n", len(shifts))
	return nil
}
