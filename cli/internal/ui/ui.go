package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

var (
	// Colors
	PrimaryColor   = lipgloss.Color("#00D9FF")
	SuccessColor   = lipgloss.Color("#00FF88")
	ErrorColor     = lipgloss.Color("#FF4444")
	SecondaryColor = lipgloss.Color("#6C757D")

	// Styles
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)
)

// PrintHeader prints a bordered header with a title and subtitle.
func PrintHeader(title string, subtitle string) {
	width := 80
	if w := pterm.GetTerminalWidth(); w > 0 {
		width = w
	}

	header := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(1, 2).
		Render(
			lipgloss.JoinVertical(
				lipgloss.Center,
				TitleStyle.Render(title),
				SecondaryStyle.Render(subtitle),
			),
		)

	fmt.Println(header)
	fmt.Println()
}

// PrintSuccess prints a success message.
func PrintSuccess(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Println(SuccessStyle.Render("✓ " + message))
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("✗ "+message))
}

// PrintSection prints an underlined section header.
func PrintSection(title string) {
	width := 80
	if w := pterm.GetTerminalWidth(); w > 0 {
		width = w
	}

	section := lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(SecondaryColor).
		Padding(0, 0, 1, 0).
		Render(title)

	fmt.Println(section)
}

// PrintTable prints a table using pterm.
func PrintTable(headers []string, rows [][]string) {
	tableData := pterm.TableData{headers}
	tableData = append(tableData, rows...)
	pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}

// PrintCodeBlock prints code in a styled block.
func PrintCodeBlock(code string, language string) {
	codeStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(SecondaryColor).
		Padding(1).
		Width(80)

	if language != "" {
		fmt.Println(SecondaryStyle.Render(fmt.Sprintf(" %s ", language)))
	}
	fmt.Println(codeStyle.Render(code))
}

// GetColorPrinters returns color printers for common use cases.
func GetColorPrinters() map[string]*color.Color {
	return map[string]*color.Color{
		"success": color.New(color.FgGreen, color.Bold),
		"error":   color.New(color.FgRed, color.Bold),
		"info":    color.New(color.FgCyan),
	}
}
