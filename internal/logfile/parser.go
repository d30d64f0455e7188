package logfile

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/mpratt/devtrail/internal/domain/activity"
)

// Record is one parsed log line.
type Record struct {
	Timestamp time.Time
	Type      string
	Detail    string
	// Context is nil for legacy-format lines and for lines whose context
	// JSON could not be decoded.
	Context *activity.Context
	Raw     string
}

// Key returns the "Type: detail" identity of the record.
func (r Record) Key() string {
	return r.Type + ": " + r.Detail
}

var (
	enhancedLine = regexp.MustCompile(`^(\S+) \| (\w+): (.*?) \| Context: (.*)$`)
	legacyLine   = regexp.MustCompile(`^(\S+) \| (\w+): (.*)$`)
)

// ParseLine turns a raw line into a record. It tries the enhanced grammar
// (with trailing context JSON) first, then the legacy one. Context that
// fails to decode is dropped rather than failing the line. Lines that match
// neither grammar, and lines with an unreadable timestamp, return nil.
func ParseLine(raw string) *Record {
	if m := enhancedLine.FindStringSubmatch(raw); m != nil {
		ts, err := time.Parse(TimestampLayout, m[1])
		if err != nil {
			return nil
		}
		rec := &Record{Timestamp: ts, Type: m[2], Detail: m[3], Raw: raw}
		var ctx activity.Context
		if err := json.Unmarshal([]byte(m[4]), &ctx); err == nil {
			rec.Context = &ctx
		}
		return rec
	}

	if m := legacyLine.FindStringSubmatch(raw); m != nil {
		ts, err := time.Parse(TimestampLayout, m[1])
		if err != nil {
			return nil
		}
		return &Record{Timestamp: ts, Type: m[2], Detail: strings.TrimRight(m[3], " "), Raw: raw}
	}

	return nil
}

// ParseLines parses raw lines in order, skipping unrecognized ones.
func ParseLines(lines []string) []Record {
	records := make([]Record, 0, len(lines))
	for _, line := range lines {
		if rec := ParseLine(line); rec != nil {
			records = append(records, *rec)
		}
	}
	return records
}
