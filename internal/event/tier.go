package event

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Tiers lists the competition levels kept on the poster, most important first
var Tiers = []string{"1000", "750", "500"}

var tierPattern = regexp.MustCompile(`(?i)\bsuper\s*(1000|750|500)\b`)

// FindTier returns the canonical tier label ("Super 1000") contained in s, or "" if none.
// The first match in the text wins.
func FindTier(s string) string {
	m := tierPattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return cases.Title(language.English).String("super " + m[1])
}

// NormalizeLevel maps free-form level text onto a canonical label.
// Text containing a tier token becomes that tier; shouted labels are title-cased;
// anything else is returned cleaned but otherwise untouched.
func NormalizeLevel(s string) string {
	s = CleanText(s)
	if tier := FindTier(s); tier != "" {
		return tier
	}
	if s != "" && s == strings.ToUpper(s) {
		return cases.Title(language.English).String(strings.ToLower(s))
	}
	return s
}

// MatchesTier reports whether level textually contains one of the given tier tokens
func MatchesTier(level string, tiers []string) bool {
	if level == "" {
		return false
	}
	for _, t := range tiers {
		if strings.Contains(level, t) {
			return true
		}
	}
	return false
}
