package trust

import "time"

// RecencyWindowDays is the length of the "last six months" window.
const RecencyWindowDays = 182

// RecencyWindow is RecencyWindowDays as a duration. Calendar months are not
// used so the window has the same length regardless of where now falls.
const RecencyWindow = RecencyWindowDays * 24 * time.Hour

// IsRecent reports whether t falls strictly inside the recency window ending at now.
// A timestamp exactly RecencyWindow before now is not recent.
func IsRecent(t, now time.Time) bool {
	return t.After(now.Add(-RecencyWindow))
}
