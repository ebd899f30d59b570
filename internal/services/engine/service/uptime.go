package service

import (
	"fmt"
	"time"
)

var units = []struct {
	name string
	d    time.Duration
}{
	{"day", 24 * time.Hour},
	{"hour", time.Hour},
	{"minute", time.Minute},
	{"second", time.Second},
}

// HumanDuration renders d using its two coarsest units, e.g. "2 days, 3 hours".
// The second unit is left out when it is zero; anything under a second is "0 seconds"
func HumanDuration(d time.Duration) string {
	for i, u := range units {
		n := d / u.d
		if n == 0 {
			continue
		}
		out := plural(int64(n), u.name)
		if i+1 < len(units) {
			next := units[i+1]
			if m := (d - n*u.d) / next.d; m > 0 {
				out += ", " + plural(int64(m), next.name)
			}
		}
		return out
	}
	return "0 seconds"
}

func plural(n int64, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
