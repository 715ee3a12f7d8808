package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"mojwgsl/internal/diag"
	"mojwgsl/internal/source"
)

type palette struct {
	err, warn, info, note, path, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		note:   mk(color.FgBlue),
		path:   mk(color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgGreen, color.Bold),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
// Диагностики без span печатаются только заголовком с путём.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	pal := newPalette(opts.Color)
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	for i := range items {
		d := &items[i]
		prettyOne(w, d, fs, opts, pal)
	}
	if dropped := bag.Dropped(); dropped > 0 {
		fmt.Fprintf(w, "... %d more diagnostics not shown\n", dropped)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	header := headerPath(d, fs, opts.PathMode)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		pal.path.Sprint(header),
		pal.severity(d.Severity).Sprint(d.Severity.String()),
		d.Code.ID(),
		d.Message,
	)
	if d.Path == "" {
		writeContext(w, d.Primary, fs, opts.Context, pal.severity(d.Severity), pal)
	}
	if !opts.ShowNotes {
		return
	}
	for _, note := range d.Notes {
		loc := spanLocation(note.Span, fs, opts.PathMode)
		if loc == "" {
			fmt.Fprintf(w, "  %s %s\n", pal.note.Sprint("note:"), note.Msg)
			continue
		}
		fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"), loc, note.Msg)
		writeContext(w, note.Span, fs, 0, pal.note, pal)
	}
}

func headerPath(d *diag.Diagnostic, fs *source.FileSet, mode PathMode) string {
	if d.Path != "" {
		return formatPath(d.Path, fs, mode)
	}
	if loc := spanLocation(d.Primary, fs, mode); loc != "" {
		return loc
	}
	return "<unknown>"
}

func spanLocation(span source.Span, fs *source.FileSet, mode PathMode) string {
	path := spanPath(span, fs, mode)
	if path == "" {
		return ""
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col)
}

// writeContext prints the span's first line with the given number of
// surrounding lines and underlines the span on it.
func writeContext(w io.Writer, span source.Span, fs *source.FileSet, context int8, mark *color.Color, pal palette) {
	if fs == nil {
		return
	}
	f := fs.Get(span.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(span)
	if start.Line == 0 {
		return
	}
	lastLine := uint32(len(f.LineIdx)) + 1 // #nosec G115 -- bounded by content length
	ctx := uint32(max(context, 0))         // #nosec G115 -- non-negative
	from := start.Line - min(ctx, start.Line-1)
	to := min(start.Line+ctx, lastLine)
	width := len(fmt.Sprint(to))

	for line := from; line <= to; line++ {
		text := strings.ReplaceAll(f.GetLine(line), "\t", "    ")
		fmt.Fprintf(w, " %s %s\n", pal.gutter.Sprintf("%*d |", width, line), text)
		if line != start.Line {
			continue
		}
		col := int(start.Col) - 1
		length := 1
		if end.Line == start.Line && end.Col > start.Col {
			length = int(end.Col - start.Col)
		} else if end.Line != start.Line {
			length = max(len(text)-col, 1)
		}
		underline := "^" + strings.Repeat("~", length-1)
		fmt.Fprintf(w, " %s %s%s\n", pal.gutter.Sprintf("%*s |", width, ""), strings.Repeat(" ", tabbedCol(f.GetLine(line), col)), mark.Sprint(underline))
	}
}

// tabbedCol converts a byte column to a display column after tab expansion.
func tabbedCol(line string, col int) int {
	out := 0
	for i := 0; i < col && i < len(line); i++ {
		if line[i] == '\t' {
			out += 4
		} else {
			out++
		}
	}
	return out
}
