package main

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// printer renders styled text for one writer. Colors are only emitted when
// the writer is a terminal.
type printer struct {
	w       io.Writer
	header  lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	subtle  lipgloss.Style
}

func newPrinter(w io.Writer) *printer {
	r := lipgloss.NewRenderer(w)
	return &printer{
		w:       w,
		header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7B61FF")),
		success: r.NewStyle().Foreground(lipgloss.Color("#73F59F")),
		warning: r.NewStyle().Foreground(lipgloss.Color("#FFB86C")),
		failure: r.NewStyle().Foreground(lipgloss.Color("#FF5F87")),
		subtle:  r.NewStyle().Foreground(lipgloss.Color("#959595")),
	}
}

func (p *printer) println(s string) {
	_, _ = io.WriteString(p.w, s+"\n")
}

func (p *printer) Header(s string)  { p.println(p.header.Render(s)) }
func (p *printer) Success(s string) { p.println(p.success.Render("✓ " + s)) }
func (p *printer) Warning(s string) { p.println(p.warning.Render("! " + s)) }
func (p *printer) Error(s string)   { p.println(p.failure.Render("✗ " + s)) }
func (p *printer) Info(s string)    { p.println(p.subtle.Render(s)) }
func (p *printer) Plain(s string)   { p.println(s) }

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
