package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorBlue   = lipgloss.Color("75") // drop hints and suggested commands
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleAccent  = lipgloss.NewStyle().Foreground(colorCyan)
	styleMuted   = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleWarn    = lipgloss.NewStyle().Foreground(colorYellow)
	styleLabel   = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// A marker is the glyph that opens a status line.
type marker struct {
	glyph string
	style lipgloss.Style
}

var (
	markOK   = marker{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	markWarn = marker{"!", styleWarn}
	markInfo = marker{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

// =============================================================================
// Status lines
// =============================================================================

func status(m marker, msg string) {
	fmt.Println(m.style.Render(m.glyph) + " " + msg)
}

func printSuccess(format string, args ...any) {
	status(markOK, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	status(markWarn, styleWarn.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	status(markInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented, muted line under a status line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + styleMuted.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Println("  " + styleMuted.Render("→") + " " + styleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleLabel.Render(key) + " " + styleValue.Render(value))
}

// printStats prints the row counts of a node map on one line.
func printStats(rows, roots, visible int) {
	counts := []string{
		fmt.Sprintf("%d rows", rows),
		fmt.Sprintf("%d roots", roots),
		fmt.Sprintf("%d visible", visible),
	}
	fmt.Println("  " + styleMuted.Render(strings.Join(counts, " · ")))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(styleMuted.Render(description+":") + " " + styleCommand.Render(cmd))
}
