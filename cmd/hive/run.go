package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/HexSleeves/hive/internal/bee"
	"github.com/HexSleeves/hive/internal/bus"
	"github.com/HexSleeves/hive/internal/config"
	"github.com/HexSleeves/hive/internal/output"
	"github.com/HexSleeves/hive/internal/scenario"
)

// runPlan is what a headless run will do, merged from config, scenario file
// and flags.
type runPlan struct {
	label  string
	honey  float64
	nectar float64
	shifts int
	// assignments[n] are made once n shifts have been worked
	assignments map[int][]bee.Job
}

func buildRunPlan(cmd *cli.Command, cfg *config.Config) (*runPlan, error) {
	plan := &runPlan{
		label:       cmd.String("label"),
		honey:       cfg.Vault.InitialHoney,
		nectar:      cfg.Vault.InitialNectar,
		shifts:      cfg.Run.Shifts,
		assignments: make(map[int][]bee.Job),
	}

	if path := cmd.String("scenario"); path != "" {
		sc, err := scenario.Load(path)
		if err != nil {
			return nil, err
		}
		plan.honey, plan.nectar = sc.Stock(plan.honey, plan.nectar)
		plan.shifts = sc.Shifts
		if plan.label == "" {
			plan.label = sc.Name
		}
		for n := 0; n <= sc.Shifts; n++ {
			if jobs := sc.AssignmentsAt(n); len(jobs) > 0 {
				plan.assignments[n] = jobs
			}
		}
	}

	for _, name := range cmd.StringSlice("assign") {
		job, err := bee.ParseJob(name)
		if err != nil {
			return nil, fmt.Errorf("--assign: %w", err)
		}
		plan.assignments[0] = append(plan.assignments[0], job)
	}

	if n := cmd.Int("shifts"); n > 0 {
		plan.shifts = int(n)
	}
	if plan.shifts <= 0 {
		return nil, fmt.Errorf("shifts must be positive, got %d", plan.shifts)
	}
	return plan, nil
}

func cmdRun(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	plan, err := buildRunPlan(cmd, cfg)
	if err != nil {
		return err
	}

	mode := configMode(cfg)
	if mode == output.ModeTUI {
		mode = output.ModePlain
	}
	out := output.NewManager(mode, cmd.Bool("verbose"))
	logger := newLogger(os.Stderr, mode, cmd.Bool("verbose"))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case <-sigs:
			logger.Println("Received shutdown signal, stopping after this shift...")
			cancel()
		case <-runCtx.Done():
		}
	}()

	_, err = runHive(runCtx, cfg, plan, out, logger)
	return err
}

// runHive works plan's shifts on a fresh hive and reports through out. It
// returns the final session status.
func runHive(ctx context.Context, cfg *config.Config, plan *runPlan, out *output.Manager, logger *log.Logger) (string, error) {
	p := out.Printer()

	var jw *output.JSONWriter
	var subscribers []bus.Handler
	if out.IsJSON() {
		jw = output.NewJSONWriter(out.Stdout(), "")
		subscribers = append(subscribers, jw.WriteMessage)
	}

	s, err := openSession(ctx, cfg, logger, plan.label, plan.honey, plan.nectar, subscribers...)
	if err != nil {
		if jw != nil {
			jw.WriteError(err.Error(), "permanent")
		}
		p.Error("Could not start the hive: %v", err)
		return "", err
	}
	if jw != nil {
		jw.SetSessionID(s.id)
	}

	p.Header("Hive")
	p.KeyValue([][]string{
		{"Session", s.id},
		{"Label", s.label},
		{"Honey", fmt.Sprintf("%.2f", plan.honey)},
		{"Nectar", fmt.Sprintf("%.2f", plan.nectar)},
		{"Shifts", fmt.Sprintf("%d", plan.shifts)},
	})
	p.Println("")

	status := statusDone
	var rejected []output.BulletItem
	assign := func(worked int) {
		for _, job := range plan.assignments[worked] {
			if s.queen.AssignBee(job) {
				p.Debug("Assigned %s after %d shift(s), %.2f unassigned left", job, worked, s.queen.UnassignedWorkers())
				continue
			}
			p.Warning("No unassigned worker for %s", job)
			rejected = append(rejected, output.BulletItem{
				Icon: "✖",
				Text: fmt.Sprintf("%s after %d shift(s)", job, worked),
			})
		}
	}

shifts:
	for n := 0; n < plan.shifts; n++ {
		select {
		case <-ctx.Done():
			status = statusInterrupted
			break shifts
		default:
		}

		assign(n)
		worked := s.queen.WorkTheNextShift()
		p.Shift(s.queen.Snapshot(), worked)
		if !worked && cfg.Run.StopWhenStalled {
			status = statusStalled
			break shifts
		}
	}
	if status == statusDone {
		assign(plan.shifts)
	}

	snap := s.queen.Snapshot()
	p.Divider()
	switch status {
	case statusDone:
		p.Success("Worked %d shift(s)", snap.Shift)
	case statusStalled:
		p.Warning("Stalled after %d shift(s): the queen cannot be paid", snap.Shift)
	case statusInterrupted:
		p.Warning("Interrupted after %d shift(s)", snap.Shift)
	}
	if len(rejected) > 0 {
		p.Section("Rejected assignments")
		p.BulletList(rejected)
	}
	p.Section("Final report")
	p.Roster(snap)
	p.Report(s.queen.StatusReport())
	if out.IsQuiet() {
		out.Final(s.queen.StatusReport())
	}

	closeErr := s.close(ctx, status)
	if closeErr != nil {
		p.Error("%v", closeErr)
	}
	if jw != nil {
		if err := jw.WriteSessionEnd(s.label, status); err != nil {
			return status, err
		}
		if err := jw.Err(); err != nil {
			return status, fmt.Errorf("write events: %w", err)
		}
	}
	return status, closeErr
}
