package output

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/HexSleeves/hive/internal/bee"
	"github.com/HexSleeves/hive/internal/queen"
	"github.com/HexSleeves/hive/internal/vault"
)

// Report prints a queen status report, highlighting low-stock warnings.
func (p *Printer) Report(report string) {
	if !p.active() {
		return
	}
	for _, line := range strings.Split(report, "\n") {
		if strings.HasPrefix(line, "LOW ") {
			pterm.Warning.WithWriter(p.writer).Println(line)
			continue
		}
		fmt.Fprintln(p.writer, line)
	}
}

// Shift prints the one-line summary of a shift.
func (p *Printer) Shift(s queen.Snapshot, worked bool) {
	if !p.active() {
		return
	}
	if !worked {
		fmt.Fprintf(p.writer, "%s shift %d skipped: %.2f honey cannot pay the queen\n",
			pterm.Yellow("⊘"), s.Shift, s.Honey)
		return
	}
	fmt.Fprintf(p.writer, "%s shift %d  honey %s  nectar %s  eggs %.2f  unassigned %.2f  %d/%d bees worked\n",
		pterm.Green("✔"), s.Shift, stock(s.Honey), stock(s.Nectar), s.Eggs, s.UnassignedWorkers,
		s.WorkersWorked, s.TotalWorkers)
}

// Roster prints the hive's workers as a tree under the queen.
func (p *Printer) Roster(s queen.Snapshot) {
	q := TreeNode{Text: fmt.Sprintf("%s (%d workers)", bee.JobQueen, s.TotalWorkers)}
	for _, job := range bee.AssignableJobs() {
		q.Children = append(q.Children, TreeNode{
			Text: fmt.Sprintf("%s × %d", job, s.Workers[string(job)]),
		})
	}
	q.Children = append(q.Children, TreeNode{
		Text: fmt.Sprintf("unassigned %.2f, eggs %.2f", s.UnassignedWorkers, s.Eggs),
	})
	p.Tree(TreeNode{Children: []TreeNode{q}})
}

func stock(amount float64) string {
	s := fmt.Sprintf("%.2f", amount)
	if amount < vault.LowLevelWarning {
		return pterm.Red(s)
	}
	return s
}
