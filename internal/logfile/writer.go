package logfile

import "github.com/mpratt/devtrail/internal/domain/activity"

// Writer adapts a Store to the recorder's sink, serializing events into the
// enhanced line grammar.
type Writer struct {
	store *Store
}

// NewWriter creates a writer over store.
func NewWriter(store *Store) *Writer {
	return &Writer{store: store}
}

// Append serializes and appends one event.
func (w *Writer) Append(e activity.Event) error {
	line, err := FormatLine(e)
	if err != nil {
		return err
	}
	return w.store.Append(line)
}
