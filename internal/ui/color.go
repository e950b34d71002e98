package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	skipStyle = lipgloss.NewStyle().Faint(true)
)

// Tag renders a status as a fixed-width colored tag.
func Tag(status string) string {
	label := fmt.Sprintf("%-4s", shortStatus(status))
	switch status {
	case "passed":
		return passStyle.Render(label)
	case "failed":
		return failStyle.Render(label)
	case "error":
		return errStyle.Render(label)
	case "warn":
		return warnStyle.Render(label)
	default:
		return skipStyle.Render(label)
	}
}

func shortStatus(status string) string {
	switch status {
	case "passed":
		return "pass"
	case "failed":
		return "fail"
	case "error":
		return "err"
	case "skipped":
		return "skip"
	}
	return status
}

func ResultLine(w io.Writer, status, path string) {
	fmt.Fprintln(w, Tag(status)+"  "+path)
}

// DetailLine prints an indented reason under a result line.
func DetailLine(w io.Writer, msg string) {
	fmt.Fprintln(w, "      "+skipStyle.Render(msg))
}

func WarnLine(w io.Writer, msg string) {
	fmt.Fprintln(w, "      "+Tag("warn")+"  "+msg)
}

func OKLine(w io.Writer, path string) {
	fmt.Fprintln(w, passStyle.Render("ok  ")+"  "+path)
}

func SummaryLine(w io.Writer, passed, failed, errored int) {
	total := passed + failed + errored
	parts := []string{fmt.Sprintf("%d passed", passed)}
	if failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", failed))
	}
	if errored > 0 {
		parts = append(parts, fmt.Sprintf("%d errored", errored))
	}
	fmt.Fprintf(w, "ran %d scenarios: %s\n", total, strings.Join(parts, ", "))
}

// RunRow prints one line of `list`, padding columns to the given widths.
func RunRow(w io.Writer, id, path, status, finished string, idWidth, pathWidth int) {
	fmt.Fprintf(w, "%-*s  %-*s  %s  %s\n", idWidth, id, pathWidth, path, Tag(status), skipStyle.Render(finished))
}

func PageRow(w io.Writer, index int, name, action, status string) {
	fmt.Fprintf(w, "  %2d. %s  %s %s\n", index, Tag(status), name, skipStyle.Render("("+action+")"))
}
