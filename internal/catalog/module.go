package catalog

// Module is a single activatable node of the boot sequence.
type Module struct {
	ID            string
	Title         string
	Role          string
	Description   string
	Path          string
	Snippet       string
	Recap         string
	Lesson        string
	Prerequisites []string
}

// Summary joins the role and description the way the detail panel shows them.
func (m Module) Summary() string {
	if m.Description == "" {
		return m.Role
	}
	return m.Role + " " + m.Description
}

// State represents a module's state relative to the learner.
type State int

const (
	StateLocked    State = iota // One or more prerequisites not yet completed
	StateAvailable              // All prerequisites completed; quiz may be attempted
	StateCompleted              // Quiz passed; module is online
)

// Icon returns the display icon for a module state.
func (s State) Icon() string {
	switch s {
	case StateLocked:
		return "🔒"
	case StateAvailable:
		return "🔓"
	case StateCompleted:
		return "✅"
	default:
		return "?"
	}
}

// Label returns the display label for a module state.
func (s State) Label() string {
	switch s {
	case StateLocked:
		return "Locked"
	case StateAvailable:
		return "Available"
	case StateCompleted:
		return "Online"
	default:
		return "Unknown"
	}
}
