package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/HexSleeves/hive/internal/bee"
	hiveerrors "github.com/HexSleeves/hive/internal/errors"
	"github.com/HexSleeves/hive/internal/output"
	"github.com/HexSleeves/hive/internal/state"
)

// openJournal opens the journal of an initialized hive.
func openJournal(cmd *cli.Command) (*state.DB, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	hiveDir := cfg.HivePath()
	if _, err := os.Stat(hiveDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w at %s. Run 'hive init' first", hiveerrors.ErrNoHive, hiveDir)
	}
	db, err := state.OpenDB(hiveDir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

type statusView struct {
	Session     *state.SessionInfo `json:"session"`
	LastShift   *state.ShiftRow    `json:"last_shift,omitempty"`
	Assignments map[string]int     `json:"assignments"`
	Events      int                `json:"events"`
}

func cmdStatus(ctx context.Context, cmd *cli.Command) error {
	db, err := openJournal(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	p := output.NewPrinter(output.ModePlain, false)

	session, err := db.LatestSession(ctx)
	if errors.Is(err, hiveerrors.ErrNoSession) {
		p.Info("Hive initialized but no sessions run yet.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("latest session: %w", err)
	}

	shifts, err := db.GetShifts(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("get shifts: %w", err)
	}
	counts, err := db.CountAssignments(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("count assignments: %w", err)
	}
	eventCount, err := db.EventCount(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("event count: %w", err)
	}

	view := statusView{Session: session, Assignments: counts, Events: eventCount}
	if len(shifts) > 0 {
		view.LastShift = &shifts[len(shifts)-1]
	}

	if cmd.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	p.Header("Hive Session Status")
	p.KeyValue([][]string{
		{"Session", session.ID},
		{"Label", session.Label},
		{"Status", output.StatusIcon(session.Status) + " " + session.Status},
		{"Started", session.CreatedAt},
		{"Updated", session.UpdatedAt},
		{"Shifts", fmt.Sprintf("%d", session.Shifts)},
		{"Events", fmt.Sprintf("%d", eventCount)},
	})
	p.Println("")

	p.Section("Assignments")
	var rows [][]string
	for _, job := range bee.AssignableJobs() {
		rows = append(rows, []string{string(job), fmt.Sprintf("%d", counts[string(job)])})
	}
	p.Table([]string{"Job", "Assigned"}, rows)

	if view.LastShift == nil {
		p.Info("No shifts recorded.")
		return nil
	}
	last := view.LastShift
	p.Section(fmt.Sprintf("Shift %d", last.Shift))
	if !last.Worked {
		p.Warning("Shift %d was skipped: %.2f honey could not pay the queen", last.Shift, last.Honey)
	}
	if last.Report != "" {
		p.Report(last.Report)
	}
	return nil
}
