package pathifier

import "time"

// Operation names a kind of request recorded in the journal.
type Operation string

// Journal operations.
const (
	OpCapture Operation = "capture"
	OpCopy    Operation = "copy"
)

// Outcome classifies how a request ended.
type Outcome string

// Request outcomes.
const (
	OutcomeOK      Outcome = "ok"
	OutcomeNoImage Outcome = "no_image"
	OutcomeFailed  Outcome = "failed"
)

// JournalEntry is one recorded request outcome.
type JournalEntry struct {
	At        time.Time `json:"at"`
	Operation Operation `json:"op"`
	Outcome   Outcome   `json:"outcome"`
	Stage     string    `json:"stage,omitempty"`  // Failing stage, empty on success
	Source    string    `json:"source,omitempty"` // Host path of the image
	Path      string    `json:"path,omitempty"`   // Resolved path written to the clipboard
	Error     string    `json:"error,omitempty"`
}
