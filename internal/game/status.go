package game

// Status is the outcome of a controller operation. Gameplay never returns
// errors; every rejected operation maps to one of these.
type Status int

const (
	StatusIdle             Status = iota // Fresh session, nothing happened yet
	StatusSelected                       // Selection changed
	StatusLocked                         // Attempt on a module with unmet prerequisites
	StatusAlreadyCompleted               // Attempt on a module that is already online
	StatusBudgetExhausted                // Budget ran out; only reset recovers
	StatusFailed                         // Submission rejected
	StatusCompleted                      // Submission accepted, module online
	StatusWon                            // Terminal module completed
	StatusForcedReset                    // Mistake limit reached, state reinitialized
	StatusReset                          // Explicit reset
	StatusTourStep                       // Tour moved the selection
	StatusTourDone                       // Tour finished
	StatusIgnored                        // Unknown module or tour already running
)

var statusNames = [...]string{
	StatusIdle:             "idle",
	StatusSelected:         "selected",
	StatusLocked:           "locked",
	StatusAlreadyCompleted: "already_completed",
	StatusBudgetExhausted:  "budget_exhausted",
	StatusFailed:           "failed",
	StatusCompleted:        "completed",
	StatusWon:              "won",
	StatusForcedReset:      "forced_reset",
	StatusReset:            "reset",
	StatusTourStep:         "tour_step",
	StatusTourDone:         "tour_done",
	StatusIgnored:          "ignored",
}

// String returns the snake_case name used in logs and the event store.
func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(name string) (Status, bool) {
	for i, n := range statusNames {
		if n == name {
			return Status(i), true
		}
	}
	return 0, false
}

// Tone colours the status line.
type Tone int

const (
	ToneNeutral Tone = iota
	ToneSuccess
	ToneDanger
)

// Fixed status lines.
const (
	MsgAwaiting      = "Boot status: awaiting activation."
	MsgBootFailed    = "Boot sequence failed. Reset to try again."
	MsgTimerExpired  = "Boot timer expired. Reset to try again."
	MsgTooMany       = "Too many mistakes. Resetting the boot sequence."
	MsgWon           = "RAG pipeline ONLINE. Boot sequence complete."
	MsgTourDone      = "Tour complete. Pick a node to start the boot sequence."
	MsgTourBusy      = "Tour already running."
	MsgLessonHeading = "✅ What you learned:"
)
