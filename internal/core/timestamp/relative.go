package timestamp

import (
	"math"
	"regexp"
	"strconv"
	"time"
)

// Relative is an offset back from the moment it is resolved
type Relative struct {
	Offset time.Duration
}

// From resolves the offset against now
func (r Relative) From(now time.Time) time.Time { return now.Add(-r.Offset) }

type relRule struct {
	re   *regexp.Regexp
	unit time.Duration
}

// order matters: numeric forms first, then the "a/an" forms, then "just now"
var relRules = []relRule{
	{regexp.MustCompile(`(?i)(\d+)\s*seconds?\s*ago`), time.Second},
	{regexp.MustCompile(`(?i)(\d+)\s*minutes?\s*ago`), time.Minute},
	{regexp.MustCompile(`(?i)(\d+)\s*hours?\s*ago`), time.Hour},
	{regexp.MustCompile(`(?i)(\d+)\s*days?\s*ago`), 24 * time.Hour},
	{regexp.MustCompile(`(?i)\ban?\s*minute\s*ago`), time.Minute},
	{regexp.MustCompile(`(?i)\ban?\s*hour\s*ago`), time.Hour},
	{regexp.MustCompile(`(?i)just now`), 0},
}

// MatchRelative recognizes "N seconds/minutes/hours/days ago", "a/an minute/hour ago" and "just now"
func MatchRelative(s string) (Relative, bool) {
	for _, rule := range relRules {
		m := rule.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		n := 1
		if len(m) > 1 {
			v, err := strconv.Atoi(m[1])
			if err != nil {
				return Relative{}, false
			}
			n = v
		}
		// offsets past the Duration range are not real timestamps
		if rule.unit > 0 && int64(n) > math.MaxInt64/int64(rule.unit) {
			return Relative{}, false
		}
		return Relative{Offset: time.Duration(n) * rule.unit}, true
	}
	return Relative{}, false
}
