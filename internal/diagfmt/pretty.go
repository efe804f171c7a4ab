// Package diagfmt renders a diag.Bag for a human terminal: colorized
// severities and a source-line excerpt with a `^~~~` underline under the
// diagnostic's span. Grounded on the teacher's internal/diagfmt/pretty.go
// — same gutter/underline/visual-width approach, narrowed to movelint's
// Diagnostic shape (a LintName string rather than a structured Code).
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"movelint/internal/diag"
	"movelint/internal/source"
)

const tabWidth = 8

// visualWidthUpTo computes the on-screen column width of s up to byteCol
// (1-based byte offset), expanding tabs and accounting for wide runes.
func visualWidthUpTo(s string, byteCol uint32, tabWidth int) int {
	if byteCol <= 1 {
		return 0
	}
	bytePos := 0
	visualPos := 0
	for _, r := range s {
		if bytePos >= int(byteCol-1) {
			break
		}
		if r == '\t' {
			visualPos = (visualPos + tabWidth) / tabWidth * tabWidth
		} else {
			visualPos += runewidth.RuneWidth(r)
		}
		bytePos += len(string(r))
	}
	return visualPos
}

// Pretty writes bag (expected pre-sorted via bag.Sort) to w as
// `path:line:col: SEVERITY lint_name: message`, followed by a source
// excerpt with an underline, and any attached Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	var (
		errorColor     = color.New(color.FgRed, color.Bold)
		warningColor   = color.New(color.FgYellow, color.Bold)
		infoColor      = color.New(color.FgCyan, color.Bold)
		pathColor      = color.New(color.FgWhite, color.Bold)
		nameColor      = color.New(color.FgMagenta)
		lineNumColor   = color.New(color.FgBlue)
		underlineColor = color.New(color.FgRed, color.Bold)
		noteColor      = color.New(color.FgCyan)
	)

	prev := color.NoColor
	defer func() { color.NoColor = prev }()
	color.NoColor = !opts.Color

	context, err := safecast.Conv[uint32](opts.Context)
	if err != nil {
		context = 2
	}
	if context == 0 {
		context = 2
	}

	formatPath := func(f *source.File) string {
		switch opts.PathMode {
		case PathModeAbsolute:
			return f.FormatPath("absolute", "")
		case PathModeRelative:
			return f.FormatPath("relative", fs.BaseDir())
		case PathModeBasename:
			return f.FormatPath("basename", "")
		default:
			return f.FormatPath("auto", "")
		}
	}

	for idx, d := range bag.Items() {
		if idx > 0 {
			fmt.Fprintln(w)
		}

		start, end := fs.Resolve(d.Primary)
		f := fs.Get(d.Primary.File)
		displayPath := formatPath(f)

		var sevColored string
		switch d.Severity {
		case diag.SevError:
			sevColored = errorColor.Sprint(d.Severity.String())
		case diag.SevWarning:
			sevColored = warningColor.Sprint(d.Severity.String())
		default:
			sevColored = infoColor.Sprint(d.Severity.String())
		}

		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			pathColor.Sprint(displayPath), start.Line, start.Col,
			sevColored, nameColor.Sprint(d.LintName), d.Message)

		printExcerpt(w, f, start, end, context, lineNumColor, underlineColor)

		for _, note := range d.Notes {
			noteStart, _ := fs.Resolve(note.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", noteColor.Sprint("note:"), displayPath, noteStart.Line, noteStart.Col, note.Msg)
		}
	}
}

func printExcerpt(w io.Writer, f *source.File, start, end source.LineCol, context uint32, lineNumColor, underlineColor *color.Color) {
	totalLines := uint32(len(f.LineIdx)) + 1
	if len(f.LineIdx) == 0 && len(f.Content) > 0 {
		totalLines = 1
	}

	startLine := uint32(1)
	if start.Line > context {
		startLine = start.Line - context
	}
	endLine := min(start.Line+context, totalLines)

	if startLine > 1 {
		fmt.Fprintln(w, "...")
	}

	lineNumWidth := max(len(fmt.Sprintf("%d", endLine)), 3)
	for lineNum := startLine; lineNum <= endLine; lineNum++ {
		lineText := f.GetLine(lineNum)
		gutter := fmt.Sprintf("%s | ", lineNumColor.Sprint(fmt.Sprintf("%*d", lineNumWidth, lineNum)))
		gutterLen := lineNumWidth + 3

		fmt.Fprint(w, gutter)
		fmt.Fprintln(w, lineText)

		if lineNum != start.Line {
			continue
		}

		endCol := end.Col
		if end.Line > start.Line {
			endCol = uint32(len(lineText)) + 1
		}
		visualStart := visualWidthUpTo(lineText, start.Col, tabWidth)
		visualEnd := visualWidthUpTo(lineText, endCol, tabWidth)

		var underline strings.Builder
		for range gutterLen {
			underline.WriteByte(' ')
		}
		for range visualStart {
			underline.WriteByte(' ')
		}
		spanLen := visualEnd - visualStart
		if spanLen <= 0 {
			underline.WriteByte('^')
		} else {
			for i := 0; i < spanLen; i++ {
				if i == spanLen-1 {
					underline.WriteByte('^')
				} else {
					underline.WriteByte('~')
				}
			}
		}
		fmt.Fprintln(w, underlineColor.Sprint(underline.String()))
	}
}
