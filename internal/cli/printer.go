package cli

// This file implements the terminal output helpers used by all commands.
// zap carries diagnostics; the printer carries the human-facing output
// (headers, tables, per-step status). A quiet Printer suppresses
// everything, which tests rely on.

import (
	"fmt"

	"github.com/pterm/pterm"
)

// Printer renders user-facing CLI output.
type Printer struct {
	// Quiet suppresses all output when set.
	Quiet bool
}

// DefaultPrinter is the printer used by the package-level helpers.
var DefaultPrinter = &Printer{}

// Header prints a prominent section header.
func (p *Printer) Header(text string) {
	if p.Quiet {
		return
	}
	pterm.DefaultHeader.Println(text)
}

// Section prints a section divider.
func (p *Printer) Section(text string) {
	if p.Quiet {
		return
	}
	pterm.DefaultSection.Println(text)
}

// Step prints a bullet for an in-progress step.
func (p *Printer) Step(text string) {
	if p.Quiet {
		return
	}
	pterm.Println(pterm.Cyan("• ") + text)
}

// Info prints an informational message.
func (p *Printer) Info(text string) {
	if p.Quiet {
		return
	}
	pterm.Info.Println(text)
}

// Success prints a success message.
func (p *Printer) Success(text string) {
	if p.Quiet {
		return
	}
	pterm.Success.Println(text)
}

// Warn prints a warning message.
func (p *Printer) Warn(text string) {
	if p.Quiet {
		return
	}
	pterm.Warning.Println(text)
}

// Error prints an error message.
func (p *Printer) Error(text string) {
	if p.Quiet {
		return
	}
	pterm.Error.Println(text)
}

// Printf prints formatted text.
func (p *Printer) Printf(format string, args ...any) {
	if p.Quiet {
		return
	}
	pterm.Printf(format, args...)
}

// Println prints a line.
func (p *Printer) Println(args ...any) {
	if p.Quiet {
		return
	}
	pterm.Println(args...)
}

// SpinnerStart starts a spinner and returns a stop function taking the
// outcome and a final message.
func (p *Printer) SpinnerStart(text string) func(success bool, msg string) {
	if p.Quiet {
		return func(bool, string) {}
	}
	spinner, err := pterm.DefaultSpinner.Start(text)
	if err != nil {
		return func(bool, string) {}
	}
	return func(success bool, msg string) {
		if success {
			spinner.Success(msg)
			return
		}
		spinner.Fail(msg)
	}
}

// Table prints a plain table with a header row.
func (p *Printer) Table(data [][]string) {
	if p.Quiet || len(data) == 0 {
		return
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// TableBoxed prints a boxed table with a header row.
func (p *Printer) TableBoxed(data [][]string) {
	if p.Quiet || len(data) == 0 {
		return
	}
	_ = pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Render()
}

// Package-level helpers forwarding to DefaultPrinter.

func Header(text string)        { DefaultPrinter.Header(text) }
func Section(text string)       { DefaultPrinter.Section(text) }
func Step(text string)          { DefaultPrinter.Step(text) }
func Info(text string)          { DefaultPrinter.Info(text) }
func Success(text string)       { DefaultPrinter.Success(text) }
func Warn(text string)          { DefaultPrinter.Warn(text) }
func Error(text string)         { DefaultPrinter.Error(text) }
func Table(data [][]string)     { DefaultPrinter.Table(data) }
func TableBoxed(d [][]string)   { DefaultPrinter.TableBoxed(d) }
func Printf(f string, a ...any) { DefaultPrinter.Printf(f, a...) }

// Color helpers for table cells and inline status text.

func Green(text string) string  { return pterm.Green(text) }
func Yellow(text string) string { return pterm.Yellow(text) }
func Red(text string) string    { return pterm.Red(text) }
func Cyan(text string) string   { return pterm.Cyan(text) }

// summaryTable renders the standard transfer summary.
func summaryTable(attempted, succeeded, failed int) [][]string {
	failedCell := Green(fmt.Sprintf("%d", failed))
	if failed > 0 {
		failedCell = Red(fmt.Sprintf("%d", failed))
	}
	return [][]string{
		{"Attempted", "Succeeded", "Failed"},
		{fmt.Sprintf("%d", attempted), fmt.Sprintf("%d", succeeded), failedCell},
	}
}
