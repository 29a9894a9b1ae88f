package event

import (
	"regexp"
	"strings"
)

var (
	yearPattern  = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	monthPattern = regexp.MustCompile(`\b(Jan(uary)?|Feb(ruary)?|Mar(ch)?|Apr(il)?|May|June?|July?|Aug(ust)?|Sept?(ember)?|Oct(ober)?|Nov(ember)?|Dec(ember)?)\b`)
)

// IsDateLike reports whether s looks like a date: a 4-digit year (19xx/20xx) or a month
// abbreviation, between 6 and 40 characters long
func IsDateLike(s string) bool {
	n := len([]rune(s))
	if n < 6 || n > 40 {
		return false
	}
	return yearPattern.MatchString(s) || monthPattern.MatchString(s)
}

// IsLocationLike reports whether s looks like a venue: a comma or a city/country
// keyword, between 4 and 60 characters long
func IsLocationLike(s string) bool {
	n := len([]rune(s))
	if n < 4 || n > 60 {
		return false
	}
	if strings.Contains(s, ",") {
		return true
	}
	lower := strings.ToLower(s)
	return strings.Contains(lower, "city") || strings.Contains(lower, "country")
}

// IsLevelLike reports whether s contains a known tier token
func IsLevelLike(s string) bool {
	return FindTier(s) != ""
}
