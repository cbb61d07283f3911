package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles is the set of HUD styles derived from a theme.
type Styles struct {
	Canvas  lipgloss.Style
	Stats   lipgloss.Style
	Header  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	On      lipgloss.Style
	Off     lipgloss.Style
	Running lipgloss.Style
	Paused  lipgloss.Style
	Rec     lipgloss.Style
	Graph   lipgloss.Style
	Help    lipgloss.Style
	Key     lipgloss.Style
}

const statsWidth = 45

func NewStyles(t Theme) Styles {
	return Styles{
		Canvas: lipgloss.NewStyle().Padding(1, 2).Foreground(t.Primary),
		Stats: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(statsWidth),
		Header:  lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		Label:   lipgloss.NewStyle().Foreground(t.Muted).Width(20),
		Value:   lipgloss.NewStyle().Foreground(t.Text),
		On:      lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		Off:     lipgloss.NewStyle().Foreground(t.Muted),
		Running: lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		Paused:  lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		Rec:     lipgloss.NewStyle().Foreground(t.Error).Bold(true).Blink(true),
		Graph:   lipgloss.NewStyle().Foreground(t.Accent).Padding(1, 0),
		Help:    lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		Key:     lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
	}
}

// Toggle renders an ON/OFF flag.
func (s Styles) Toggle(on bool) string {
	if on {
		return s.On.Render("ON")
	}
	return s.Off.Render("OFF")
}

// ProgressBar renders a fraction in [0, 1] as a fixed-width bar.
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// SparklineChart renders a mini sparkline from values
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	span := hi - lo
	if span == 0 {
		span = 1
	}

	// keep the newest values when there are more than fit
	if len(values) > width {
		values = values[len(values)-width:]
	}

	var result strings.Builder
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))
		result.WriteRune(chars[idx])
	}
	return result.String()
}

// Separator is a muted rule with a diamond in the middle.
func Separator(width int, style lipgloss.Style) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return style.Render(left + " ◆ " + right)
}
