package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/rescp17/sysmonitor/internal/style"
)

// Level buckets a usage percentage for coloring.
type Level int

const (
	LevelLow Level = iota
	LevelMedium
	LevelHigh
)

// LevelFor maps a percentage to its Level: up to 50 is low, up to 75 medium,
// anything above high. The fractional part is ignored.
func LevelFor(percent float64) Level {
	switch u := int(clamp(percent)); {
	case u <= 50:
		return LevelLow
	case u <= 75:
		return LevelMedium
	default:
		return LevelHigh
	}
}

// Color returns the display color for the level.
func (l Level) Color() lipgloss.Color {
	switch l {
	case LevelLow:
		return style.ColorGreen
	case LevelMedium:
		return style.ColorYellow
	default:
		return style.ColorRed
	}
}

func clamp(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// UsageGauge shows a single percentage as a horizontal bar.
type UsageGauge struct {
	title   string
	percent float64
	bar     progress.Model
}

// NewUsageGauge creates a gauge at 0%.
func NewUsageGauge(title string) *UsageGauge {
	return &UsageGauge{
		title: title,
		bar:   progress.New(progress.WithSolidFill(string(style.ColorGreen)), progress.WithoutPercentage()),
	}
}

// SetUsage updates the value, clamped to [0, 100].
func (g *UsageGauge) SetUsage(percent float64) {
	g.percent = clamp(percent)
}

func (g *UsageGauge) Usage() float64 { return g.percent }

func (g *UsageGauge) Level() Level { return LevelFor(g.percent) }

// Render draws the gauge in a bordered panel width cells wide.
func (g *UsageGauge) Render(width int) string {
	inner := max(width-2, 10)
	label := fmt.Sprintf(" %5.1f%%", g.percent)

	bar := g.bar
	bar.Width = max(inner-lipgloss.Width(label), 1)
	bar.FullColor = string(g.Level().Color())

	body := style.SubtitleStyle.Render(g.title) + "\n" + bar.ViewAs(g.percent/100) + label
	return style.PanelStyle.Width(inner).Render(body)
}

// blocks are the partial-cell glyphs, index = eighths filled.
var blocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// UsageGraph keeps a fixed-length history of percentages and plots it as a bar chart.
type UsageGraph struct {
	title   string
	history []float64
	caption func(latest float64) string
}

// NewUsageGraph creates a graph holding size samples, all starting at zero.
func NewUsageGraph(title string, size int) *UsageGraph {
	if size <= 0 {
		size = 1
	}
	return &UsageGraph{
		title:   title,
		history: make([]float64, size),
		caption: func(latest float64) string { return fmt.Sprintf("%.1f%%", latest) },
	}
}

// WithCaption replaces the text shown next to the title.
func (g *UsageGraph) WithCaption(f func(latest float64) string) *UsageGraph {
	g.caption = f
	return g
}

// Push appends a sample and drops the oldest.
func (g *UsageGraph) Push(percent float64) {
	copy(g.history, g.history[1:])
	g.history[len(g.history)-1] = clamp(percent)
}

func (g *UsageGraph) Latest() float64 { return g.history[len(g.history)-1] }

// History returns a copy of the samples, oldest first.
func (g *UsageGraph) History() []float64 {
	return append([]float64(nil), g.history...)
}

// Render draws the graph in a bordered panel of the given outer size.
func (g *UsageGraph) Render(width, height int) string {
	cols := max(width-2, 1)
	rows := max(height-3, 1)

	latest := g.Latest()
	color := LevelFor(latest).Color()
	header := style.SubtitleStyle.Render(g.title) + " " + lipgloss.NewStyle().Foreground(color).Render(g.caption(latest))

	lines := Plot(g.history, cols, rows)
	chart := lipgloss.NewStyle().Foreground(color).Render(strings.Join(lines, "\n"))
	return style.PanelStyle.Width(cols).Render(header + "\n" + chart)
}

// Plot renders the newest cols values of a 0-100 series as rows lines of
// block glyphs, top line first. Missing history on the left is blank.
func Plot(values []float64, cols, rows int) []string {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	window := make([]float64, cols)
	offset := cols - len(values)
	for i := range window {
		src := i - offset
		if src < 0 {
			window[i] = -1
			continue
		}
		window[i] = values[src]
	}

	total := rows * 8
	lines := make([]string, rows)
	for r := 0; r < rows; r++ {
		floor := (rows - 1 - r) * 8
		var b strings.Builder
		for _, v := range window {
			if v < 0 {
				b.WriteRune(' ')
				continue
			}
			filled := int(clamp(v)/100*float64(total) + 0.5)
			cell := filled - floor
			if cell < 0 {
				cell = 0
			}
			if cell > 8 {
				cell = 8
			}
			b.WriteRune(blocks[cell])
		}
		lines[r] = b.String()
	}
	return lines
}
