package logfile

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mpratt/devtrail/internal/domain/activity"
)

// TimestampLayout is the on-disk timestamp format: ISO-8601 UTC with
// millisecond precision and a trailing Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatLine serializes an event into the enhanced line grammar:
//
//	<timestamp> | <Type>: <detail> | Context: <json>
func FormatLine(e activity.Event) (string, error) {
	ctxJSON, err := json.Marshal(e.Context)
	if err != nil {
		return "", fmt.Errorf("encoding event context: %w", err)
	}
	return fmt.Sprintf("%s | %s: %s | Context: %s",
		e.Timestamp.UTC().Format(TimestampLayout), e.Type, e.Detail, ctxJSON), nil
}

// FormatTimestamp renders t in the log timestamp format.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
