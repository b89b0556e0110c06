package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// Row is one line of the confirmation summary.
type Row struct {
	Label string
	Value string
}

// Printer writes status lines. Errors go to errOut, everything else to out.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	styles Styles
	errSty Styles
}

// NewPrinter creates a printer for the given streams.
func NewPrinter(out, errOut io.Writer) *Printer {
	return &Printer{
		out:    out,
		errOut: errOut,
		styles: NewStyles(out),
		errSty: NewStyles(errOut),
	}
}

// Out returns the standard output writer (subprocess output is streamed here).
func (p *Printer) Out() io.Writer { return p.out }

func (p *Printer) line(w io.Writer, glyph string, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", glyph, fmt.Sprintf(format, args...))
}

func (p *Printer) Info(format string, args ...interface{}) {
	p.line(p.out, p.styles.Info.Render(GlyphInfo), format, args...)
}

func (p *Printer) Success(format string, args ...interface{}) {
	p.line(p.out, p.styles.Success.Render(GlyphSuccess), format, args...)
}

func (p *Printer) Warn(format string, args ...interface{}) {
	p.line(p.out, p.styles.Warning.Render(GlyphWarning), format, args...)
}

func (p *Printer) Error(format string, args ...interface{}) {
	p.line(p.errOut, p.errSty.Error.Render(GlyphError), format, args...)
}

// Step announces a workflow stage.
func (p *Printer) Step(format string, args ...interface{}) {
	fmt.Fprintln(p.out)
	p.line(p.out, p.styles.Step.Render(GlyphStep), "%s", p.styles.Step.Render(fmt.Sprintf(format, args...)))
}

// Detail prints captured command output, indented, on the error stream.
func (p *Printer) Detail(text string) {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return
	}
	for _, l := range strings.Split(text, "\n") {
		fmt.Fprintf(p.errOut, "    %s\n", p.errSty.Muted.Render(l))
	}
}

// Section prints a bold heading.
func (p *Printer) Section(title string) {
	fmt.Fprintf(p.out, "\n%s\n", p.styles.Title.Render(title))
}

// Summary prints rows as an aligned two-column list.
func (p *Printer) Summary(rows []Row) {
	width := 0
	for _, r := range rows {
		if len(r.Label) > width {
			width = len(r.Label)
		}
	}
	for _, r := range rows {
		label := p.styles.Label.Render(fmt.Sprintf("%-*s", width, r.Label))
		value := r.Value
		if value == "" {
			value = p.styles.Muted.Render("(empty)")
		} else {
			value = p.styles.Value.Render(value)
		}
		fmt.Fprintf(p.out, "  %s  %s\n", label, value)
	}
}

// Markdown renders md with glamour, falling back to the raw text.
func (p *Printer) Markdown(md string) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(80)}
	if isTerminal(p.out) {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle("notty"))
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err == nil {
		if out, err := renderer.Render(md); err == nil {
			fmt.Fprint(p.out, out)
			return
		}
	}
	fmt.Fprintln(p.out, strings.TrimSpace(md))
}

// MaskSecret replaces a non-empty secret with a fixed-width mask.
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
