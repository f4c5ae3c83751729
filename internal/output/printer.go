package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
)

// Printer renders hive output with pterm. It only writes in plain mode; the
// TUI, JSON and quiet modes own stdout themselves.
type Printer struct {
	mode    Mode
	verbose bool
	writer  io.Writer
}

// NewPrinter creates a Printer writing to stdout.
func NewPrinter(mode Mode, verbose bool) *Printer {
	return NewPrinterWithWriter(mode, verbose, os.Stdout)
}

// NewPrinterWithWriter creates a Printer writing to w.
func NewPrinterWithWriter(mode Mode, verbose bool, w io.Writer) *Printer {
	return &Printer{mode: mode, verbose: verbose, writer: w}
}

func (p *Printer) active() bool {
	return p.mode == ModePlain
}

var debugPrefix = pterm.PrefixPrinter{
	Prefix: pterm.Prefix{
		Text:  " DEBUG ",
		Style: pterm.NewStyle(pterm.BgGray, pterm.FgWhite),
	},
}

// prefixed writes one line through a pterm prefix printer.
func (p *Printer) prefixed(pp pterm.PrefixPrinter, format string, args []interface{}) {
	if !p.active() {
		return
	}
	pp.WithWriter(p.writer).Printfln(format, args...)
}

// Header prints the banner that opens a command's output.
func (p *Printer) Header(text string) {
	if !p.active() {
		return
	}
	pterm.DefaultHeader.
		WithWriter(p.writer).
		WithBackgroundStyle(pterm.NewStyle(pterm.BgYellow)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack, pterm.Bold)).
		Println(text)
}

func (p *Printer) Section(text string) {
	if !p.active() {
		return
	}
	pterm.DefaultSection.WithWriter(p.writer).Println(text)
}

func (p *Printer) Info(format string, args ...interface{}) {
	p.prefixed(pterm.Info, format, args)
}

func (p *Printer) Success(format string, args ...interface{}) {
	p.prefixed(pterm.Success, format, args)
}

func (p *Printer) Warning(format string, args ...interface{}) {
	p.prefixed(pterm.Warning, format, args)
}

func (p *Printer) Error(format string, args ...interface{}) {
	p.prefixed(pterm.Error, format, args)
}

// Debug prints only when verbose.
func (p *Printer) Debug(format string, args ...interface{}) {
	if !p.verbose {
		return
	}
	p.prefixed(debugPrefix, format, args)
}

// Table prints rows under a header row.
func (p *Printer) Table(headers []string, rows [][]string) {
	if !p.active() {
		return
	}
	data := append(pterm.TableData{headers}, rows...)
	pterm.DefaultTable.
		WithWriter(p.writer).
		WithHasHeader().
		WithData(data).
		Render() //nolint:errcheck
}

// BulletItem is one line of a bullet list.
type BulletItem struct {
	Level int
	Icon  string
	Text  string
}

func (p *Printer) BulletList(items []BulletItem) {
	if !p.active() || len(items) == 0 {
		return
	}
	list := make([]pterm.BulletListItem, 0, len(items))
	for _, item := range items {
		list = append(list, pterm.BulletListItem{
			Level:  item.Level,
			Text:   item.Text,
			Bullet: item.Icon,
		})
	}
	pterm.DefaultBulletList.
		WithWriter(p.writer).
		WithItems(list).
		Render() //nolint:errcheck
}

// TreeNode is a node of a rendered tree. The root's text is not shown.
type TreeNode struct {
	Text     string
	Children []TreeNode
}

func (n TreeNode) pterm() pterm.TreeNode {
	out := pterm.TreeNode{Text: n.Text}
	for _, c := range n.Children {
		out.Children = append(out.Children, c.pterm())
	}
	return out
}

func (p *Printer) Tree(root TreeNode) {
	if !p.active() {
		return
	}
	pterm.DefaultTree.
		WithWriter(p.writer).
		WithRoot(root.pterm()).
		Render() //nolint:errcheck
}

// KeyValue prints aligned "key: value" pairs. Pairs without exactly two
// entries are skipped.
func (p *Printer) KeyValue(pairs [][]string) {
	if !p.active() {
		return
	}
	width := 0
	for _, pair := range pairs {
		if len(pair) == 2 && len(pair[0]) > width {
			width = len(pair[0])
		}
	}
	for _, pair := range pairs {
		if len(pair) != 2 {
			continue
		}
		key := fmt.Sprintf("%-*s", width+1, pair[0]+":")
		fmt.Fprintf(p.writer, "  %s  %s\n", pterm.LightCyan(key), pair[1])
	}
}

func (p *Printer) Println(text string) {
	if !p.active() {
		return
	}
	fmt.Fprintln(p.writer, text)
}

func (p *Printer) Printf(format string, args ...interface{}) {
	if !p.active() {
		return
	}
	fmt.Fprintf(p.writer, format, args...)
}

// Divider prints a gray rule.
func (p *Printer) Divider() {
	if !p.active() {
		return
	}
	fmt.Fprintln(p.writer, pterm.Gray(strings.Repeat("─", 50)))
}

// StatusIcon returns a colored icon for a session status.
func StatusIcon(status string) string {
	switch status {
	case "done":
		return pterm.Green("✔")
	case "running":
		return pterm.Cyan("●")
	case "stalled":
		return pterm.Yellow("⊘")
	case "interrupted":
		return pterm.Yellow("↯")
	case "failed":
		return pterm.Red("✖")
	default:
		return pterm.Gray("?")
	}
}
