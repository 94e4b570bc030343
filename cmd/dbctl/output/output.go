package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#7C3AED")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(colorInfo)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	primaryStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
)

// Writer is where every printer writes; tests swap it for a buffer.
var Writer io.Writer = os.Stdout

func Success(format string, args ...any) {
	line(successStyle.Render("✓ "), format, args...)
}

func Warning(format string, args ...any) {
	line(warningStyle.Render("⚠ "), format, args...)
}

func Error(format string, args ...any) {
	line(errorStyle.Render("✗ "), format, args...)
}

func Info(format string, args ...any) {
	line(infoStyle.Render("ℹ "), format, args...)
}

func Muted(format string, args ...any) {
	fmt.Fprintln(Writer, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

// Section prints a title underlined to its own width.
func Section(title string) {
	fmt.Fprintln(Writer)
	fmt.Fprintln(Writer, primaryStyle.Render(title))
	fmt.Fprintln(Writer, mutedStyle.Render(strings.Repeat("═", lipgloss.Width(title))))
}

// KeyValue prints an aligned "key: value" row.
func KeyValue(key string, value any) {
	fmt.Fprintf(Writer, "  %s %v\n", mutedStyle.Render(fmt.Sprintf("%-10s", key+":")), value)
}

func line(icon, format string, args ...any) {
	fmt.Fprint(Writer, icon)
	fmt.Fprintf(Writer, format+"\n", args...)
}
