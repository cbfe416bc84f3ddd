package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Reporter formats *Error values against a named source for terminal
// display, adapted from the teacher compiler's ErrorReporter: a bold
// level tag, a dim "-->" location arrow, and a caret under the
// offending column. Unlike the teacher's reporter this package has no
// notion of warnings or suggestions — every diagnostic here is fatal.
type Reporter struct {
	filename string
	lines    []string
}

// NewReporter builds a Reporter that renders positions against source.
func NewReporter(filename, source string) *Reporter {
	return &Reporter{filename: filename, lines: strings.Split(source, "\n")}
}

// FormatError renders err as a multi-line caret diagnostic. Errors with
// no position (closedness and invariant errors report on whole terms,
// not source spans) fall back to a single-line rendering.
func (r *Reporter) FormatError(err *Error) string {
	bold := color.New(color.FgRed, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	var b strings.Builder
	fmt.Fprintf(&b, "%s[%s]: %s\n", bold(string(err.Kind)), err.Code, err.Message)

	if err.Position.Line <= 0 {
		return b.String()
	}

	width := lineNumberWidth(err.Position.Line)
	indent := strings.Repeat(" ", width)

	fmt.Fprintf(&b, "%s %s %s:%d:%d\n", indent, dim("-->"), r.filename, err.Position.Line, err.Position.Column)
	fmt.Fprintf(&b, "%s %s\n", indent, dim("│"))

	if err.Position.Line <= len(r.lines) {
		line := r.lines[err.Position.Line-1]
		fmt.Fprintf(&b, "%s %s %s\n", pad(err.Position.Line, width), dim("│"), line)

		col := err.Position.Column - 1
		if col < 0 {
			col = 0
		}
		marker := strings.Repeat(" ", col) + bold("^")
		fmt.Fprintf(&b, "%s %s %s\n", indent, dim("│"), marker)
	}

	return b.String()
}

func lineNumberWidth(line int) int {
	w := len(fmt.Sprintf("%d", line))
	if w < 3 {
		return 3
	}
	return w
}

func pad(line, width int) string {
	return fmt.Sprintf("%*d", width, line)
}
