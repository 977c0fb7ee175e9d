package enrollment

import "time"

// WindowOpen reports whether now falls strictly inside the enrollment
// window. The interval is open at both ends: a request at the exact boundary
// is closed. Pure; callers must re-evaluate whenever the course context
// changes rather than cache the result across courses.
func WindowOpen(now, start, end time.Time) bool {
	return now.After(start) && now.Before(end)
}
