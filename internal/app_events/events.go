package appevents

// ViewerCommand is a marker interface for signals sent from the control side to the viewer.
// It uses an unexported method so that only types from this package (by embedding Command)
// can satisfy it, which keeps the set closed and lets consumers switch over it exhaustively.
type ViewerCommand interface {
	isViewerCommand()
	Kind() string
}

// Command is embedded by every ViewerCommand variant.
type Command struct{}

func (Command) isViewerCommand() {}

// ViewerMessage is a marker interface for signals sent from the viewer back to the control side.
type ViewerMessage interface {
	isViewerMessage()
	Kind() string
}

// Message is embedded by every ViewerMessage variant.
type Message struct{}

func (Message) isViewerMessage() {}

// --- Viewer Commands (control -> viewer) ---

// QuitCommand asks the viewer to shut down.
type QuitCommand struct {
	Command
}

func (QuitCommand) Kind() string { return "command.quit" }

// NextViewCommand switches the viewer to the next view, wrapping around.
type NextViewCommand struct {
	Command
}

func (NextViewCommand) Kind() string { return "command.next_view" }

// PrevViewCommand switches the viewer to the previous view, wrapping around.
type PrevViewCommand struct {
	Command
}

func (PrevViewCommand) Kind() string { return "command.prev_view" }

// SelectViewCommand jumps to the view at Index. Out of range indexes are ignored by the viewer.
type SelectViewCommand struct {
	Command
	Index int
}

func (SelectViewCommand) Kind() string { return "command.select_view" }

// RefreshCommand makes the viewer sample metrics for the current view right away.
type RefreshCommand struct {
	Command
}

func (RefreshCommand) Kind() string { return "command.refresh" }

var (
	_ ViewerCommand = QuitCommand{}
	_ ViewerCommand = NextViewCommand{}
	_ ViewerCommand = PrevViewCommand{}
	_ ViewerCommand = SelectViewCommand{}
	_ ViewerCommand = RefreshCommand{}
)

// --- Viewer Messages (viewer -> control) ---

// QuitMessage reports that the viewer has terminated or is terminating.
type QuitMessage struct {
	Message
}

func (QuitMessage) Kind() string { return "message.quit" }

// ReadyMessage is sent once the viewer event loop is running.
type ReadyMessage struct {
	Message
	View string
}

func (ReadyMessage) Kind() string { return "message.ready" }

// ViewChangedMessage reports the view that is now visible.
type ViewChangedMessage struct {
	Message
	Index int
	Name  string
}

func (ViewChangedMessage) Kind() string { return "message.view_changed" }

// ErrorMessage carries a recoverable viewer-side failure. Reason is a plain string
// so the message never holds on to resources owned by the viewer.
type ErrorMessage struct {
	Message
	Reason string
}

func (ErrorMessage) Kind() string { return "message.error" }

var (
	_ ViewerMessage = QuitMessage{}
	_ ViewerMessage = ReadyMessage{}
	_ ViewerMessage = ViewChangedMessage{}
	_ ViewerMessage = ErrorMessage{}
)
