package report

import "github.com/charmbracelet/lipgloss"

// ─── Color Palette (Catppuccin Mocha) ───────────────────────────────────────

var (
	colorText    = lipgloss.Color("#CDD6F4") // primary text
	colorSubtext = lipgloss.Color("#A6ADC8") // secondary text
	colorDim     = lipgloss.Color("#585B70") // muted
	colorBlue    = lipgloss.Color("#89B4FA") // section headers
	colorGreen   = lipgloss.Color("#A6E3A1") // working keys
	colorYellow  = lipgloss.Color("#F9E2AF") // trial / over-quota
	colorTeal    = lipgloss.Color("#94E2D5") // elevated limits
	colorPeach   = lipgloss.Color("#FAB387") // notable orgs
	colorMauve   = lipgloss.Color("#CBA6F7") // totals
)

// ─── Reusable Styles ────────────────────────────────────────────────────────

var (
	tierHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	keyStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	modelStyle = lipgloss.NewStyle().
			Foreground(colorText)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	trialStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorYellow)

	elevatedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorTeal)

	orgStyle = lipgloss.NewStyle().
			Foreground(colorPeach)

	subtextStyle = lipgloss.NewStyle().
			Foreground(colorSubtext)

	totalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorMauve)
)
