package ui

import (
	"context"

	"github.com/rescp17/sysmonitor/internal/style"
	"github.com/rescp17/sysmonitor/pkg/ui/components"
)

// View is one page of the viewer.
type View interface {
	Name() string
	// Bindings are active only while the view is shown and take priority over
	// the global bindings.
	Bindings() []components.KeyBinding
	// HandleAction reports whether the view consumed the action.
	HandleAction(action components.KeyAction) bool
	// OnTick refreshes the view's data. Only the visible view is ticked.
	OnTick(ctx context.Context) error
	Render(width, height int) string
}

// placeholder keeps the layout stable before a view has data.
func placeholder(width int, text string) string {
	return style.PanelStyle.Width(max(width-2, 10)).Render(style.MutedStyle.Render(text))
}
