package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/rescp17/sysmonitor/internal/util"
	"github.com/rescp17/sysmonitor/pkg/system"
	"github.com/rescp17/sysmonitor/pkg/ui/components"
)

// MonitorView graphs overall CPU, memory, swap and Go heap usage.
type MonitorView struct {
	sampler system.Sampler
	last    system.Sample

	cpu  *components.UsageGraph
	mem  *components.UsageGraph
	swap *components.UsageGraph
	heap *components.UsageGraph
}

func NewMonitorView(sampler system.Sampler, historySize int) *MonitorView {
	v := &MonitorView{
		sampler: sampler,
		cpu:     components.NewUsageGraph("CPU", historySize),
		mem:     components.NewUsageGraph("Memory", historySize),
		swap:    components.NewUsageGraph("Swap", historySize),
		heap:    components.NewUsageGraph("Go Heap", historySize),
	}
	v.mem.WithCaption(func(float64) string { return usedOfTotal(v.last.MemUsed, v.last.MemTotal) })
	v.swap.WithCaption(func(float64) string {
		if v.last.SwapTotal == 0 {
			return "no swap"
		}
		return usedOfTotal(v.last.SwapUsed, v.last.SwapTotal)
	})
	v.heap.WithCaption(func(float64) string {
		return fmt.Sprintf("%s / %s, %d goroutines",
			util.FormatBytes(v.last.HeapAlloc), util.FormatBytes(v.last.HeapSys), v.last.NumGoroutine)
	})
	return v
}

func usedOfTotal(used, total uint64) string {
	return util.FormatBytes(used) + " / " + util.FormatBytes(total)
}

func (v *MonitorView) Name() string { return "System Monitor" }

func (v *MonitorView) Bindings() []components.KeyBinding { return nil }

func (v *MonitorView) HandleAction(components.KeyAction) bool { return false }

func (v *MonitorView) OnTick(ctx context.Context) error {
	s, err := v.sampler.Sample(ctx)
	if err != nil {
		return err
	}
	v.last = s
	v.cpu.Push(s.CPUPercent)
	v.mem.Push(s.MemPercent())
	v.swap.Push(s.SwapPercent())
	v.heap.Push(s.HeapPercent())
	return nil
}

// Render lays the four graphs out in a 2x2 grid.
func (v *MonitorView) Render(width, height int) string {
	cellW := max(width/2, 12)
	cellH := max(height/2, 4)

	top := lipgloss.JoinHorizontal(lipgloss.Top, v.cpu.Render(cellW, cellH), v.mem.Render(cellW, cellH))
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, v.swap.Render(cellW, cellH), v.heap.Render(cellW, cellH))
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

// Latest returns the most recent sample.
func (v *MonitorView) Latest() system.Sample { return v.last }

var _ View = (*MonitorView)(nil)
