package tz

import (
	"sync/atomic"
	"time"
)

var local atomic.Pointer[time.Location]

// Local returns the zone meeting deadlines are entered and displayed in (UTC until Set).
func Local() *time.Location {
	if loc := local.Load(); loc != nil {
		return loc
	}
	return time.UTC
}

// Set replaces the zone returned by Local; nil is ignored.
func Set(loc *time.Location) {
	if loc != nil {
		local.Store(loc)
	}
}
