package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/rescp17/sysmonitor/internal/style"
	"github.com/rescp17/sysmonitor/pkg/system"
	"github.com/rescp17/sysmonitor/pkg/ui/components"
)

const (
	gaugeColumns = 4
	graphColumns = 2
)

// CoresView shows per-core CPU usage, either as gauges or as history graphs.
type CoresView struct {
	sampler     system.Sampler
	historySize int
	showGraph   bool

	gauges []*components.UsageGauge
	graphs []*components.UsageGraph
}

func NewCoresView(sampler system.Sampler, historySize int) *CoresView {
	return &CoresView{sampler: sampler, historySize: historySize}
}

func (v *CoresView) Name() string { return "CPU Cores" }

func (v *CoresView) Bindings() []components.KeyBinding {
	return []components.KeyBinding{
		components.NewKeyBinding(components.KeyActionToggleMode, "graph/gauge", "g", "G"),
	}
}

func (v *CoresView) HandleAction(action components.KeyAction) bool {
	if action != components.KeyActionToggleMode {
		return false
	}
	v.showGraph = !v.showGraph
	return true
}

// ShowingGraph reports whether the view is in graph mode.
func (v *CoresView) ShowingGraph() bool { return v.showGraph }

func (v *CoresView) OnTick(ctx context.Context) error {
	s, err := v.sampler.Sample(ctx)
	if err != nil {
		return err
	}
	for len(v.gauges) < len(s.PerCore) {
		name := fmt.Sprintf("Core %d", len(v.gauges))
		v.gauges = append(v.gauges, components.NewUsageGauge(name))
		v.graphs = append(v.graphs, components.NewUsageGraph(name, v.historySize))
	}
	for i, p := range s.PerCore {
		v.gauges[i].SetUsage(p)
		v.graphs[i].Push(p)
	}
	return nil
}

// Usage returns the latest value for each core.
func (v *CoresView) Usage() []float64 {
	out := make([]float64, len(v.gauges))
	for i, g := range v.gauges {
		out[i] = g.Usage()
	}
	return out
}

func (v *CoresView) Render(width, height int) string {
	mode := "Gauge"
	if v.showGraph {
		mode = "Graph"
	}
	header := style.SubtitleStyle.Render(fmt.Sprintf("CPU Cores Monitor (%d cores)", len(v.gauges))) +
		style.MutedStyle.Render(" mode: "+mode)

	if len(v.gauges) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, placeholder(width, "Waiting for the first sample..."))
	}
	var body string
	if v.showGraph {
		body = v.renderGraphs(width, height-1)
	} else {
		body = v.renderGauges(width)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func (v *CoresView) renderGauges(width int) string {
	cols := min(gaugeColumns, len(v.gauges))
	cellW := max(width/cols, 12)

	var rows []string
	for start := 0; start < len(v.gauges); start += cols {
		end := min(start+cols, len(v.gauges))
		cells := make([]string, 0, cols)
		for _, g := range v.gauges[start:end] {
			cells = append(cells, g.Render(cellW))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *CoresView) renderGraphs(width, height int) string {
	cols := min(graphColumns, len(v.graphs))
	rowCount := (len(v.graphs) + cols - 1) / cols
	cellW := max(width/cols, 12)
	cellH := max(height/rowCount, 4)

	var rows []string
	for start := 0; start < len(v.graphs); start += cols {
		end := min(start+cols, len(v.graphs))
		cells := make([]string, 0, cols)
		for _, g := range v.graphs[start:end] {
			cells = append(cells, g.Render(cellW, cellH))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

var _ View = (*CoresView)(nil)
