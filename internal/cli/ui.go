package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cartoviz/micromap/pkg/micromap"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Message Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Snapshot Summary
// =============================================================================

// renderSummary formats a snapshot as an indented group/row listing for
// terminal display.
func renderSummary(s *micromap.Snapshot) string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Layout"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  spacing=%s  groups=%d", s.Spacing, len(s.Groups))))
	b.WriteString("\n")

	vars := make([]string, 0, len(s.Variables))
	for _, v := range s.Variables {
		vars = append(vars, v.Name)
	}
	b.WriteString(StyleDim.Render("variables: " + strings.Join(vars, ", ")))
	b.WriteString("\n\n")

	domains := make([]string, 0, len(s.Domains))
	for name := range s.Domains {
		domains = append(domains, name)
	}
	sort.Strings(domains)
	for _, name := range domains {
		d := s.Domains[name]
		b.WriteString(fmt.Sprintf("  %s %s\n", StyleValue.Render(name),
			StyleDim.Render(fmt.Sprintf("[%.4g, %.4g]", d.Min, d.Max))))
	}
	b.WriteString("\n")

	for gi, g := range s.Groups {
		ext := s.Extents[gi]
		b.WriteString(fmt.Sprintf("  %s %s\n",
			StyleTitle.Render(fmt.Sprintf("group %d", g.Number)),
			StyleDim.Render(fmt.Sprintf("rows %d–%d scale %.0f", ext.RowStart, ext.RowEnd, ext.Scale))))
		for _, row := range g.Rows {
			swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(row.Color)).Render("●")
			b.WriteString(fmt.Sprintf("    %s %2d  %s\n", swatch, row.Row, row.Name))
		}
	}
	return b.String()
}
