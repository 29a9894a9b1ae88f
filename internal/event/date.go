package event

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateRule turns one textual date shape into a start/end day
type dateRule struct {
	pattern *regexp.Regexp
	build   func(m []string) (time.Time, time.Time, bool)
}

var dateRules = []dateRule{
	// "28 Jan - 2 Feb 2025"
	{
		pattern: regexp.MustCompile(`(\d{1,2})\s+([A-Za-z]{3,9})\.?\s*-\s*(\d{1,2})\s+([A-Za-z]{3,9})\.?,?\s+(\d{4})`),
		build: func(m []string) (time.Time, time.Time, bool) {
			year := atoi(m[5])
			start, ok1 := day(year, m[2], m[1])
			end, ok2 := day(year, m[4], m[3])
			if ok1 && ok2 && end.Before(start) {
				start = start.AddDate(-1, 0, 0)
			}
			return start, end, ok1 && ok2
		},
	},
	// "7 - 12 January 2025"
	{
		pattern: regexp.MustCompile(`(\d{1,2})\s*-\s*(\d{1,2})\s+([A-Za-z]{3,9})\.?,?\s+(\d{4})`),
		build: func(m []string) (time.Time, time.Time, bool) {
			year := atoi(m[4])
			start, ok1 := day(year, m[3], m[1])
			end, ok2 := day(year, m[3], m[2])
			return start, end, ok1 && ok2
		},
	},
	// "Jan 7 - 12, 2025"
	{
		pattern: regexp.MustCompile(`([A-Za-z]{3,9})\.?\s+(\d{1,2})\s*-\s*(\d{1,2}),?\s+(\d{4})`),
		build: func(m []string) (time.Time, time.Time, bool) {
			year := atoi(m[4])
			start, ok1 := day(year, m[1], m[2])
			end, ok2 := day(year, m[1], m[3])
			return start, end, ok1 && ok2
		},
	},
	// "12 Jan 2025"
	{
		pattern: regexp.MustCompile(`(\d{1,2})\s+([A-Za-z]{3,9})\.?,?\s+(\d{4})`),
		build: func(m []string) (time.Time, time.Time, bool) {
			d, ok := day(atoi(m[3]), m[2], m[1])
			return d, d, ok
		},
	},
	// "Jan 12, 2025"
	{
		pattern: regexp.MustCompile(`([A-Za-z]{3,9})\.?\s+(\d{1,2}),?\s+(\d{4})`),
		build: func(m []string) (time.Time, time.Time, bool) {
			d, ok := day(atoi(m[3]), m[1], m[2])
			return d, d, ok
		},
	},
	// "2025-01-12"
	{
		pattern: regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`),
		build: func(m []string) (time.Time, time.Time, bool) {
			d, err := time.Parse("2006-01-02", m[0])
			return d, d, err == nil
		},
	},
}

// ParseDateRange attempts to parse free-form event dates into the first and last
// day of the tournament. Both values are zero if the text cannot be parsed.
// Supports: "28 Jan - 2 Feb 2025", "7 - 12 January 2025", "Jan 7 - 12, 2025",
// "12 Jan 2025", "Jan 12, 2025", "2025-01-12"
func ParseDateRange(dateText string) (time.Time, time.Time) {
	text := strings.NewReplacer("–", "-", "—", "-").Replace(dateText)
	for _, rule := range dateRules {
		m := rule.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if start, end, ok := rule.build(m); ok {
			return start, end
		}
	}
	return time.Time{}, time.Time{}
}

// ParseDate returns the first day of the event, or the zero time if unparseable
func ParseDate(dateText string) time.Time {
	start, _ := ParseDateRange(dateText)
	return start
}

// IsPast reports whether the event finished before the day containing now.
// Returns false if the date cannot be parsed (safer default).
func (e Event) IsPast(now time.Time) bool {
	_, end := ParseDateRange(e.Dates)
	if end.IsZero() {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return end.Before(today)
}

func day(year int, month, dayOfMonth string) (time.Time, bool) {
	m := parseMonth(month)
	d := atoi(dayOfMonth)
	if m == 0 || d < 1 || d > 31 || year == 0 {
		return time.Time{}, false
	}
	t := time.Date(year, m, d, 0, 0, 0, 0, time.UTC)
	if t.Month() != m {
		return time.Time{}, false
	}
	return t, true
}

// parseMonth converts an English month name or abbreviation to time.Month
func parseMonth(name string) time.Month {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) < 3 {
		return 0
	}

	months := map[string]time.Month{
		"jan": time.January, "feb": time.February, "mar": time.March,
		"apr": time.April, "may": time.May, "jun": time.June,
		"jul": time.July, "aug": time.August, "sep": time.September,
		"oct": time.October, "nov": time.November, "dec": time.December,
	}

	return months[name[:3]]
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
