package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/marek-kar/aihealth/pkg/analysis"
	"github.com/marek-kar/aihealth/pkg/model"
)

const banner = "AI Excellence System Health Check"

// Console prints run progress as the engine reports it.
type Console struct {
	w       io.Writer
	title   lipgloss.Style
	section lipgloss.Style
	name    lipgloss.Style
	pass    lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
	muted   lipgloss.Style
}

var _ analysis.Observer = (*Console)(nil)

func NewConsole(w io.Writer, styled bool) *Console {
	c := &Console{
		w:       w,
		title:   lipgloss.NewStyle(),
		section: lipgloss.NewStyle(),
		name:    lipgloss.NewStyle(),
		pass:    lipgloss.NewStyle(),
		warn:    lipgloss.NewStyle(),
		fail:    lipgloss.NewStyle(),
		muted:   lipgloss.NewStyle(),
	}
	if styled {
		c.title = c.title.Bold(true).Foreground(lipgloss.Color("12"))
		c.section = c.section.Bold(true)
		c.name = c.name.Bold(true)
		c.pass = c.pass.Foreground(lipgloss.Color("10"))
		c.warn = c.warn.Foreground(lipgloss.Color("11"))
		c.fail = c.fail.Foreground(lipgloss.Color("9")).Bold(true)
		c.muted = c.muted.Foreground(lipgloss.Color("8")).Italic(true)
	}
	return c
}

func (c *Console) Begin(*model.Report) {
	fmt.Fprintln(c.w, c.title.Render(banner))
	fmt.Fprintln(c.w, strings.Repeat("=", 50))
}

func (c *Console) Section(title string) {
	fmt.Fprintln(c.w)
	fmt.Fprintln(c.w, c.section.Render(title))
}

func (c *Console) Dependency(name string, dep model.Dependency, detail string) {
	msg := "Installed"
	if dep.Status != model.StatusInstalled {
		msg = "Missing"
	}
	c.line(dep.Status.Level(), name, msg)
	if detail != "" {
		c.hint(detail)
	}
}

func (c *Console) Result(_ string, r model.ProbeResult) {
	c.line(r.Status.Level(), r.Name, describe(r))
}

func (c *Console) Summary(report *model.Report, tally analysis.Tally) {
	fmt.Fprintln(c.w)
	var style lipgloss.Style
	var level model.Level
	switch report.SystemStatus {
	case model.SystemExcellent:
		style, level = c.pass, model.LevelPass
	case model.SystemGood:
		style, level = c.warn, model.LevelWarn
	default:
		style, level = c.fail, model.LevelFail
	}
	status := strings.ToUpper(strings.ReplaceAll(string(report.SystemStatus), "_", " "))
	fmt.Fprintf(c.w, "%s System Status: %s\n", c.marker(level), style.Render(status))
	fmt.Fprintf(c.w, "Session ID: %s\n", report.SessionID)
	if tally.Errors > 0 || tally.Warnings > 0 {
		fmt.Fprintf(c.w, "%s\n", c.muted.Render(fmt.Sprintf("%d error signal(s), %d warning signal(s)", tally.Errors, tally.Warnings)))
	}

	if len(report.Recommendations) == 0 {
		fmt.Fprintf(c.w, "\n%s No issues found - AI system is operating optimally\n", c.marker(model.LevelPass))
		return
	}
	fmt.Fprintf(c.w, "\nRecommendations (%d):\n", len(report.Recommendations))
	for i, rec := range report.Recommendations {
		fmt.Fprintf(c.w, "  %d. %s\n", i+1, rec)
	}
}

func (c *Console) Saved(path string) {
	fmt.Fprintf(c.w, "\nReport saved: %s\n", path)
}

func (c *Console) line(level model.Level, name, msg string) {
	fmt.Fprintf(c.w, "  %s %s: %s\n", c.marker(level), c.name.Render(name), msg)
}

func (c *Console) hint(s string) {
	fmt.Fprintf(c.w, "      %s\n", c.muted.Render("↳ "+firstLine(s)))
}

func (c *Console) marker(level model.Level) string {
	switch level {
	case model.LevelPass:
		return c.pass.Render("✓")
	case model.LevelWarn:
		return c.warn.Render("!")
	default:
		return c.fail.Render("✗")
	}
}

func describe(r model.ProbeResult) string {
	switch r.Status {
	case model.StatusOperational:
		return "Operational"
	case model.StatusActive:
		n, noun := fmt.Sprint(r.Metadata["entries"]), "files"
		if n == "1" {
			noun = "file"
		}
		return fmt.Sprintf("Active (%s %s, latest: %v)", n, noun, r.Metadata["latest"])
	case model.StatusEmpty:
		return "Empty directory"
	case model.StatusMissing, model.StatusMissingDir:
		return "Missing"
	case model.StatusValid:
		return "Valid"
	case model.StatusEnabled:
		return "Enabled"
	case model.StatusDisabled:
		return "Disabled or not configured"
	case model.StatusInvalid:
		return "Invalid - " + firstLine(r.Detail)
	default:
		if r.Detail == "" {
			return "Failed"
		}
		return "Failed - " + firstLine(r.Detail)
	}
}
