package terminal

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

var (
	dirColor    = color.New(color.FgBlue, color.Bold)
	headerColor = color.New(color.FgHiWhite, color.Bold)
	errorColor  = color.New(color.FgRed, color.Bold)
	kindColor   = color.New(color.FgRed)

	summaryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Renderer prints command output
type Renderer struct {
	writer     io.Writer
	linePrefix string
}

// NewRenderer creates a renderer that writes to the provided writer.
func NewRenderer(writer io.Writer) *Renderer {
	return &Renderer{writer: writer}
}

// SetLinePrefix sets a prefix for each rendered line.
func (r *Renderer) SetLinePrefix(prefix string) {
	r.linePrefix = prefix
}

// Paths prints one path per line. Directories get a trailing separator and
// are colored.
func (r *Renderer) Paths(paths []string, isDir func(string) bool) {
	for _, p := range paths {
		if isDir != nil && isDir(p) {
			r.printLine(p+"/", dirColor)
			continue
		}
		r.printLine(p, nil)
	}
}

// Lines prints each line as-is.
func (r *Renderer) Lines(lines []string) {
	for _, line := range lines {
		r.printLine(line, nil)
	}
}

// Summary prints a styled one-line summary such as "12 files in 3ms".
func (r *Renderer) Summary(count int, noun string, elapsed time.Duration) {
	if count != 1 {
		if strings.HasSuffix(noun, "s") {
			noun += "es"
		} else {
			noun += "s"
		}
	}
	text := summaryStyle.Render(fmt.Sprintf("%d %s", count, noun))
	if elapsed > 0 {
		text += " " + mutedStyle.Render(fmt.Sprintf("in %s", elapsed.Round(time.Millisecond)))
	}
	r.printLine(text, nil)
}

// Error prints err with its kind.
func (r *Renderer) Error(kind string, err error) {
	if r.linePrefix != "" {
		fmt.Fprint(r.writer, r.linePrefix)
	}
	errorColor.Fprint(r.writer, "error")
	if kind != "" {
		kindColor.Fprintf(r.writer, " [%s]", kind)
	}
	fmt.Fprintf(r.writer, ": %v\n", err)
}

// Table prints rows under header as a bordered table.
func (r *Renderer) Table(header []string, rows [][]string) {
	all := make([][]string, 0, len(rows)+1)
	if len(header) > 0 {
		all = append(all, header)
	}
	all = append(all, rows...)
	if len(all) == 0 {
		return
	}

	colCount := 0
	for _, row := range all {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return
	}

	widths := make([]int, colCount)
	for _, row := range all {
		for i := 0; i < colCount; i++ {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			if n := utf8.RuneCountInString(val); n > widths[i] {
				widths[i] = n
			}
		}
	}

	border := func() string {
		var b strings.Builder
		b.WriteString("+")
		for _, w := range widths {
			b.WriteString(strings.Repeat("-", w+2))
			b.WriteString("+")
		}
		return b.String()
	}

	r.printLine(border(), nil)
	for idx, row := range all {
		isHeader := idx == 0 && len(header) > 0
		r.renderTableRow(row, widths, isHeader)
		if isHeader && len(all) > 1 {
			r.printLine(border(), nil)
		}
	}
	r.printLine(border(), nil)
}

func (r *Renderer) renderTableRow(row []string, widths []int, header bool) {
	var b strings.Builder
	b.WriteString("|")
	for i := 0; i < len(widths); i++ {
		val := ""
		if i < len(row) {
			val = row[i]
		}
		padding := widths[i] - utf8.RuneCountInString(val)
		b.WriteString(" ")
		b.WriteString(val)
		b.WriteString(strings.Repeat(" ", padding))
		b.WriteString(" |")
	}
	if header {
		r.printLine(b.String(), headerColor)
		return
	}
	r.printLine(b.String(), nil)
}

func (r *Renderer) printLine(text string, style *color.Color) {
	if r.linePrefix != "" {
		fmt.Fprint(r.writer, r.linePrefix)
	}
	if style != nil {
		style.Fprintln(r.writer, text)
		return
	}
	fmt.Fprintln(r.writer, text)
}
