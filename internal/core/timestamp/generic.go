package timestamp

import (
	"time"

	"github.com/araddon/dateparse"
)

// MatchGeneric hands s to dateparse, reading zone-less values in loc
func MatchGeneric(s string, loc *time.Location) (t time.Time, ok bool) {
	// dateparse can panic on some malformed inputs
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()
	if loc == nil {
		loc = time.Local
	}
	v, err := dateparse.ParseIn(s, loc)
	if err != nil || v.IsZero() {
		return time.Time{}, false
	}
	return v, true
}
