package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/hupe1980/bytefind/progress"
)

// output renders results, styled when writing to a terminal.
type output struct {
	w   io.Writer
	err io.Writer

	interactive bool

	offset lipgloss.Style
	count  lipgloss.Style
	muted  lipgloss.Style
	warn   lipgloss.Style
}

func newOutput(w, errw io.Writer) *output {
	o := &output{
		w:      w,
		err:    errw,
		offset: lipgloss.NewStyle(),
		count:  lipgloss.NewStyle(),
		muted:  lipgloss.NewStyle(),
		warn:   lipgloss.NewStyle(),
	}

	if isTerminal(w) {
		o.offset = o.offset.Foreground(lipgloss.Color("12")).Bold(true)
		o.count = o.count.Foreground(lipgloss.Color("10")).Bold(true)
		o.muted = o.muted.Foreground(lipgloss.Color("8"))
		o.warn = o.warn.Foreground(lipgloss.Color("11"))
	}
	o.interactive = isTerminal(errw)
	return o
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (o *output) match(off uint64) {
	fmt.Fprintf(o.w, "%s %s\n",
		o.offset.Render(fmt.Sprintf("0x%08X", off)),
		o.muted.Render(fmt.Sprintf("(%s)", humanize.Comma(int64(off)))),
	)
}

func (o *output) notFound() {
	fmt.Fprintln(o.w, o.muted.Render("no match"))
}

func (o *output) canceled() {
	fmt.Fprintln(o.w, o.warn.Render("canceled, results are partial"))
}

func (o *output) summary(verb string, n int, limit uint32, scanned uint64) {
	line := fmt.Sprintf("%s %s in %s", o.count.Render(humanize.Comma(int64(n))), verb, humanize.IBytes(scanned))
	if limit > 0 && n >= int(limit) {
		line += " " + o.warn.Render("(limit reached)")
	}
	fmt.Fprintln(o.w, line)
}

// progress draws a single status line on the error stream.
func (o *output) progress(s progress.Snapshot) {
	fmt.Fprintf(o.err, "\r%5.1f%%  %s matches", s.Fraction*100, humanize.Comma(int64(s.Count)))
}

func (o *output) endProgress() {
	if o.interactive {
		fmt.Fprint(o.err, "\r\033[K")
	}
}
