package components

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyAction represents a keyboard action
type KeyAction int

const (
	KeyActionNone KeyAction = iota
	KeyActionQuit
	KeyActionHelp
	KeyActionNextView
	KeyActionPrevView
	KeyActionRefresh
	KeyActionToggleMode
)

// KeyBinding ties a bubbles key binding to an action.
type KeyBinding struct {
	Binding key.Binding
	Action  KeyAction
}

// NewKeyBinding builds an enabled binding for keys with a help entry.
func NewKeyBinding(action KeyAction, help string, keys ...string) KeyBinding {
	display := keys[0]
	return KeyBinding{
		Binding: key.NewBinding(key.WithKeys(keys...), key.WithHelp(display, help)),
		Action:  action,
	}
}

// KeyboardManager resolves key presses to actions. Bindings registered for the
// current context are checked before global bindings, so a view can claim a
// key that would otherwise act globally.
type KeyboardManager struct {
	contextBindings map[string][]KeyBinding
	globalBindings  []KeyBinding
	currentContext  string
}

// NewKeyboardManager creates a manager with the default global bindings.
func NewKeyboardManager() *KeyboardManager {
	km := &KeyboardManager{
		contextBindings: make(map[string][]KeyBinding),
	}
	km.AddGlobalBinding(NewKeyBinding(KeyActionQuit, "quit", "q", "esc", "ctrl+c"))
	km.AddGlobalBinding(NewKeyBinding(KeyActionNextView, "next view", "tab", "right"))
	km.AddGlobalBinding(NewKeyBinding(KeyActionPrevView, "prev view", "shift+tab", "left"))
	km.AddGlobalBinding(NewKeyBinding(KeyActionRefresh, "refresh", "ctrl+r"))
	km.AddGlobalBinding(NewKeyBinding(KeyActionHelp, "help", "?"))
	return km
}

// AddGlobalBinding adds a binding that works in every context.
func (km *KeyboardManager) AddGlobalBinding(binding KeyBinding) {
	km.globalBindings = append(km.globalBindings, binding)
}

// AddContextBinding adds a binding that only applies while context is current.
func (km *KeyboardManager) AddContextBinding(context string, binding KeyBinding) {
	km.contextBindings[context] = append(km.contextBindings[context], binding)
}

func (km *KeyboardManager) SetContext(context string) {
	km.currentContext = context
}

func (km *KeyboardManager) Context() string {
	return km.currentContext
}

// ProcessKey returns the action bound to msg, or KeyActionNone.
func (km *KeyboardManager) ProcessKey(msg tea.KeyMsg) KeyAction {
	for _, b := range km.contextBindings[km.currentContext] {
		if key.Matches(msg, b.Binding) {
			return b.Action
		}
	}
	for _, b := range km.globalBindings {
		if key.Matches(msg, b.Binding) {
			return b.Action
		}
	}
	return KeyActionNone
}

// EnableBinding toggles every binding, global or contextual, that triggers action.
func (km *KeyboardManager) EnableBinding(action KeyAction, enabled bool) {
	for i := range km.globalBindings {
		if km.globalBindings[i].Action == action {
			km.globalBindings[i].Binding.SetEnabled(enabled)
		}
	}
	for ctx := range km.contextBindings {
		for i := range km.contextBindings[ctx] {
			if km.contextBindings[ctx][i].Action == action {
				km.contextBindings[ctx][i].Binding.SetEnabled(enabled)
			}
		}
	}
}

// ShortHelp implements help.KeyMap: the current context's bindings then the globals.
func (km *KeyboardManager) ShortHelp() []key.Binding {
	var out []key.Binding
	for _, b := range km.contextBindings[km.currentContext] {
		out = append(out, b.Binding)
	}
	for _, b := range km.globalBindings {
		out = append(out, b.Binding)
	}
	return out
}

// FullHelp implements help.KeyMap with one column for the context and one for globals.
func (km *KeyboardManager) FullHelp() [][]key.Binding {
	var contextual, global []key.Binding
	for _, b := range km.contextBindings[km.currentContext] {
		contextual = append(contextual, b.Binding)
	}
	for _, b := range km.globalBindings {
		global = append(global, b.Binding)
	}
	if len(contextual) == 0 {
		return [][]key.Binding{global}
	}
	return [][]key.Binding{contextual, global}
}
