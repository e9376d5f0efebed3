package dashboard

import (
	"strings"
	"time"
)

// DefaultRetentionDays is how long closed issues stay on the dashboard.
const DefaultRetentionDays = 30

// IncludeIssue reports whether an issue belongs on the dashboard. Open
// issues are always included. Closed issues are included while their
// effective closed time (closed_at, falling back to updated_at) is within
// the retention window of now; when neither timestamp parses the issue is
// kept rather than dropped.
func IncludeIssue(state, closedAt, updatedAt string, now time.Time, retention time.Duration) bool {
	if !strings.EqualFold(strings.TrimSpace(state), "closed") {
		return true
	}

	closed, ok := ParseTimestamp(closedAt)
	if !ok {
		closed, ok = ParseTimestamp(updatedAt)
	}
	if !ok {
		return true
	}

	return now.Sub(closed) <= retention
}
