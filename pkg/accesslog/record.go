// Package accesslog defines the parsed web-server access log record shared
// across the analytics pipeline.
package accesslog

// Record is one parsed access log entry. Records are immutable once
// produced by the parser.
type Record struct {
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"` // "YYYY-MM-DD HH:MM:SS", lexicographically sortable
	URL       string `json:"url"`
	UserAgent string `json:"user_agent"`
	Status    int    `json:"status"`
}

// minutePrefixLen is the length of "YYYY-MM-DD HH:MM" within the
// timestamp format above.
const minutePrefixLen = 16

// TruncateMinute drops the seconds component of an ISO-like timestamp,
// keeping "YYYY-MM-DD HH:MM". The truncated key still sorts
// lexicographically in chronological order, and truncating an already
// truncated value returns it unchanged.
func TruncateMinute(ts string) string {
	if len(ts) <= minutePrefixLen {
		return ts
	}
	return ts[:minutePrefixLen]
}

// Minute returns the record timestamp at minute resolution.
func (r Record) Minute() string {
	return TruncateMinute(r.Timestamp)
}
