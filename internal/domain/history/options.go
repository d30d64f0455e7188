package history

import "time"

// QueryOptions filters an archive query.
type QueryOptions struct {
	Type  string
	Since time.Time
	Limit int
}
