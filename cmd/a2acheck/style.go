package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3b82f6"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#06b6d4"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

func printHeader(w io.Writer, text string) {
	fmt.Fprintln(w, headerStyle.Render(text))
	fmt.Fprintln(w, dimStyle.Render(strings.Repeat("-", len(text))))
}

func printField(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "%s %v\n", labelStyle.Render(label+":"), value)
}

func printSuccess(w io.Writer, text string) {
	fmt.Fprintln(w, successStyle.Render("✓ "+text))
}

func printError(w io.Writer, text string) {
	fmt.Fprintln(w, errorStyle.Render("✗ "+text))
}
