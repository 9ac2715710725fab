package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rescp17/sysmonitor/internal/style"
	"github.com/rescp17/sysmonitor/internal/util"
	"github.com/rescp17/sysmonitor/pkg/system"
	"github.com/rescp17/sysmonitor/pkg/ui/components"
)

const statusKeyWidth = 20

// StatusView shows static facts about the host. They are read on the first
// tick and kept; a failed read is retried on the next tick.
type StatusView struct {
	sampler system.Sampler
	info    system.HostInfo
	loaded  bool
}

func NewStatusView(sampler system.Sampler) *StatusView {
	return &StatusView{sampler: sampler}
}

func (v *StatusView) Name() string { return "Status" }

func (v *StatusView) Bindings() []components.KeyBinding { return nil }

func (v *StatusView) HandleAction(components.KeyAction) bool { return false }

func (v *StatusView) OnTick(ctx context.Context) error {
	if v.loaded {
		return nil
	}
	info, err := v.sampler.Host(ctx)
	if err != nil {
		return err
	}
	v.info = info
	v.loaded = true
	return nil
}

func (v *StatusView) Render(width, height int) string {
	if !v.loaded {
		return placeholder(width, "Reading host information...")
	}
	inner := max(width-2, 20)

	title := lipgloss.PlaceHorizontal(inner, lipgloss.Center,
		style.AccentStyle.Render("▣ ")+style.HostStyle.Render(v.info.HostName))

	osRows := []string{
		row("Operating System", lipgloss.NewStyle().Foreground(style.ColorGreen).Render(v.info.OS)),
		row("OS Version", style.ValueStyle.Render(v.info.OSVersion)),
		row("Kernel Version", style.ValueStyle.Render(v.info.KernelVersion)),
		row("Architecture", style.ValueStyle.Render(v.info.Arch)),
	}
	hwRows := []string{
		row("CPU", style.SubtitleStyle.UnsetBold().Render(v.info.CPUModel)),
		row("CPU Cores", style.ValueStyle.Render(fmt.Sprintf("%d cores", v.info.CPUCores))),
		row("Total Memory", style.AccentStyle.Render(util.FormatBytes(v.info.TotalMemory))),
		row("Go Runtime", style.ValueStyle.Render(v.info.GoVersion)),
	}

	osPanel := style.OSPanelStyle.Width(inner-2).Render(
		style.TitleStyle.Render("OS Information") + "\n" + strings.Join(osRows, "\n"))
	hwPanel := style.HardwarePanelStyle.Width(inner-2).Render(
		style.TitleStyle.Render("Hardware Information") + "\n" + strings.Join(hwRows, "\n"))

	body := lipgloss.JoinVertical(lipgloss.Left, title, "", osPanel, hwPanel)
	return style.PanelStyle.Width(inner).Render(body)
}

func row(key, value string) string {
	return style.MutedStyle.Render(util.PadRight(key, statusKeyWidth)) + value
}

var _ View = (*StatusView)(nil)
