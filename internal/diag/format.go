package diag

import (
	"strconv"
	"strings"

	"github.com/fatih/color"
)

var (
	lineNumColor = color.New(color.FgCyan)
	caretColor   = color.New(color.FgRed, color.Bold)
	msgColor     = color.New(color.Bold)
)

// Format renders r against source with a source-line excerpt and a caret
// pointing at the offending column, in the style of the teacher's
// CompilerError.Format — but unconditionally plain, for log files and
// snapshot tests where ANSI codes would be noise.
func (r *Result) Format(source string) string {
	return r.format(source, false)
}

// FormatColor is Format with ANSI color codes, for interactive terminals
// (used by cmd/bslc). Coloring is done with github.com/fatih/color rather
// than hand-rolled escape sequences, per DESIGN.md.
func (r *Result) FormatColor(source string) string {
	return r.format(source, true)
}

func (r *Result) format(source string, useColor bool) string {
	if !r.written {
		return ""
	}

	var sb strings.Builder

	line := sourceLine(source, r.Line)
	if line != "" {
		lineNumStr := formatLineNum(r.Line)
		if useColor {
			sb.WriteString(lineNumColor.Sprint(lineNumStr))
		} else {
			sb.WriteString(lineNumStr)
		}
		sb.WriteString(line)
		sb.WriteByte('\n')

		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+r.Col-1))
		if useColor {
			sb.WriteString(caretColor.Sprint("^"))
		} else {
			sb.WriteString("^")
		}
		sb.WriteByte('\n')
	}

	if useColor {
		sb.WriteString(msgColor.Sprint(r.Msg))
	} else {
		sb.WriteString(r.Msg)
	}

	return sb.String()
}

func formatLineNum(line int) string {
	s := strconv.Itoa(line)
	return strings.Repeat(" ", max(0, 4-len(s))) + s + " | "
}

func sourceLine(source string, lineNum int) string {
	if source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}
