package workflow

import "time"

// Element is one command inside a sequence, tagged with the last path
// segment of the directory it ran in.
type Element struct {
	Command      string `json:"command"`
	DirectoryTag string `json:"directory_tag"`
}

// Sequence is a time-bounded, length-capped run of commands inferred to
// belong to one coherent task. Derived, never persisted.
type Sequence struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Elements []Element `json:"elements"`
}

// DirectoryUsage aggregates activity per directory, keyed relative to the
// workspace root.
type DirectoryUsage struct {
	Count    int      `json:"count"`
	Commands []string `json:"commands,omitempty"`
}

// Complexity holds coarse workflow-complexity signals.
type Complexity struct {
	MultipleDirectories bool `json:"multiple_directories"`
	LongSequences       bool `json:"long_sequences"`
	RepeatedCommands    bool `json:"repeated_commands"`
}

// Analysis is the full output of a workflow pass.
type Analysis struct {
	Sequences      []Sequence                `json:"sequences"`
	DirectoryUsage map[string]DirectoryUsage `json:"directory_usage"`
	Patterns       []string                  `json:"patterns"`
	Complexity     Complexity                `json:"complexity"`
}
