package timestamp

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Absolute is a wall clock reading with no zone attached
type Absolute struct {
	Year   int
	Month  time.Month
	Day    int
	Hour   int
	Minute int
}

// In places the reading in loc
func (a Absolute) In(loc *time.Location) time.Time {
	return time.Date(a.Year, a.Month, a.Day, a.Hour, a.Minute, 0, 0, loc)
}

var (
	// 3:04 PM • March 5, 2025
	reTimeFirst = regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})\s*(am|pm)\s*•\s*([a-z]+)\.?\s+(\d{1,2}),\s*(\d{4})`)
	// March 5, 2025 3:04 pm (an "at" between date and time is tolerated)
	reDateFirst = regexp.MustCompile(`(?i)([a-z]+)\.?\s+(\d{1,2}),\s*(\d{4})\s*(?:at\s+)?(\d{1,2}):(\d{2})\s*(am|pm)`)
)

var monthNames = [...]string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// MatchAbsolute recognizes "H:MM AM • Month D, YYYY" and "Month D, YYYY H:MM am"
func MatchAbsolute(s string) (Absolute, bool) {
	if m := reTimeFirst.FindStringSubmatch(s); m != nil {
		return buildAbsolute(m[4], m[5], m[6], m[1], m[2], m[3])
	}
	if m := reDateFirst.FindStringSubmatch(s); m != nil {
		return buildAbsolute(m[1], m[2], m[3], m[4], m[5], m[6])
	}
	return Absolute{}, false
}

func buildAbsolute(month, day, year, hour, minute, meridiem string) (Absolute, bool) {
	mon, ok := MonthOf(month)
	if !ok {
		return Absolute{}, false
	}
	d, _ := strconv.Atoi(day)
	y, _ := strconv.Atoi(year)
	h, _ := strconv.Atoi(hour)
	mi, _ := strconv.Atoi(minute)
	if h < 1 || h > 12 || mi > 59 || d < 1 {
		return Absolute{}, false
	}

	h = To24(h, strings.EqualFold(meridiem, "pm"))

	// reject dates time.Date would roll over, e.g. February 30
	if time.Date(y, mon, d, 0, 0, 0, 0, time.UTC).Day() != d {
		return Absolute{}, false
	}
	return Absolute{Year: y, Month: mon, Day: d, Hour: h, Minute: mi}, true
}

// To24 converts a 1..12 clock hour to 0..23; 12 AM is 0 and 12 PM stays 12
func To24(h int, pm bool) int {
	switch {
	case h == 12 && !pm:
		return 0
	case h == 12 && pm:
		return 12
	case pm:
		return h + 12
	default:
		return h
	}
}

// MonthOf matches a full month name or any prefix of at least three letters, case-insensitive
func MonthOf(s string) (time.Month, bool) {
	s = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(s), "."))
	if len(s) < 3 {
		return 0, false
	}
	for i, name := range monthNames {
		if strings.HasPrefix(name, s) {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}
