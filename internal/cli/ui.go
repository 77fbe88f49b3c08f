package cli

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	clawerr "github.com/clawnch/clawctl/pkg/errors"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
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

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleDanger for irreversible actions and losses.
	StyleDanger = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleTableHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleTableCell   = lipgloss.NewStyle().Padding(0, 1)
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
// Printer
// =============================================================================

// printer writes styled human-readable output to w.
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w}
}

func (p *printer) println(s string) {
	fmt.Fprintln(p.w, s)
}

// title prints a heading surrounded by blank lines.
func (p *printer) title(format string, args ...any) {
	p.println("")
	p.println(StyleTitle.Render(fmt.Sprintf(format, args...)))
	p.println("")
}

// success prints a success message.
func (p *printer) success(format string, args ...any) {
	p.println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

// failure prints an error message.
func (p *printer) failure(format string, args ...any) {
	p.println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

// warning prints a warning message.
func (p *printer) warning(format string, args ...any) {
	p.println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// info prints an info/status message.
func (p *printer) info(format string, args ...any) {
	p.println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// detail prints a detail line (indented).
func (p *printer) detail(format string, args ...any) {
	p.println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// link prints an indented arrow followed by a URL.
func (p *printer) link(label, url string) {
	p.println("  " + StyleDim.Render(iconArrow) + " " + fmt.Sprintf("%-12s", label) + " " + StyleLink.Render(url))
}

// keyValue prints a labeled value.
func (p *printer) keyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(18)
	p.println("  " + keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// nextStep prints a suggested next command.
func (p *printer) nextStep(description, cmd string) {
	p.println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// table prints rows under headers with a rounded border.
func (p *printer) table(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader.Padding(0, 1)
			}
			return styleTableCell
		})
	p.println(t.Render())
}

// newline prints an empty line.
func (p *printer) newline() {
	p.println("")
}

// PrintError writes err to w the way every command reports failures: the
// message without its code, then any details and suggestion the API sent.
func PrintError(w io.Writer, err error) {
	p := newPrinter(w)
	p.failure("%s", clawerr.UserMessage(err))
	var apiErr *clawerr.APIError
	if errors.As(err, &apiErr) {
		for _, d := range apiErr.Details {
			p.detail("• %s", d)
		}
		if apiErr.Suggestion != "" {
			p.println("  " + StyleWarning.Render("hint: "+apiErr.Suggestion))
		}
	}
}

// =============================================================================
// Formatting
// =============================================================================

var numberPrinter = message.NewPrinter(language.English)

// formatNumber groups thousands and keeps up to two decimals, dropping them
// for whole values: 1250000 -> "1,250,000", 84000.5 -> "84,000.50".
func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return numberPrinter.Sprintf("%d", int64(f))
	}
	return numberPrinter.Sprintf("%.2f", f)
}

// formatUSD formats f as a dollar amount.
func formatUSD(f float64) string {
	return "$" + formatNumber(f)
}

// formatPercent formats a fractional change (0.12) as a signed percentage.
func formatPercent(f float64) string {
	return fmt.Sprintf("%+.1f%%", f*100)
}

// shortHex abbreviates a long hex string to 0x1234…abcd.
func shortHex(s string) string {
	if len(s) <= 14 {
		return s
	}
	return s[:6] + "…" + s[len(s)-4:]
}

// orDash returns s, or a dash when s is blank.
func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}
