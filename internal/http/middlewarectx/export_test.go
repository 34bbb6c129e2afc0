package middlewarectx

import "time"

// SetClock подменяет часы limiter в тестах.
func (l *IPLimiter) SetClock(now func() time.Time) {
	l.now = now
}
