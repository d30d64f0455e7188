package history

import "time"

// Entry is one archived activity record. Entries outlive the rotating log
// file and its three backups.
type Entry struct {
	ID         string    `json:"id"`
	Workspace  string    `json:"workspace"`
	Type       string    `json:"type"`
	Detail     string    `json:"detail"`
	Context    string    `json:"context,omitempty"` // JSON string
	OccurredAt time.Time `json:"occurred_at"`
	ArchivedAt time.Time `json:"archived_at"`
}
