// ABOUTME: Shared lipgloss styles for consistent CLI output
// ABOUTME: Defines colors, text styles and the message table used by commands

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	// Colors - Core palette
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Danger    = lipgloss.Color("#EF4444") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray
	Info      = lipgloss.Color("#3B82F6") // Blue

	// Base styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted)

	// Status indicators
	StatusOK = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	StatusError = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	// Label style for key/value listings
	Label = lipgloss.NewStyle().
		Foreground(Muted).
		Width(14)

	// Value style for emphasized data
	Value = lipgloss.NewStyle().
		Bold(true)

	headerCell = lipgloss.NewStyle().
			Foreground(Info).
			Bold(true).
			Padding(0, 1)

	cell = lipgloss.NewStyle().
		Padding(0, 1)

	unreadCell = cell.
			Bold(true)
)

// Field renders one "label value" line.
func Field(label, value string) string {
	return Label.Render(label) + Value.Render(value)
}

// Table renders rows under headers with rounded borders.
// Rows listed in bold are rendered emphasized.
func Table(headers []string, rows [][]string, bold map[int]bool) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Muted)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerCell
			case bold[row]:
				return unreadCell
			default:
				return cell
			}
		}).
		String()
}
