package event

import (
	"html"
	"regexp"
	"strings"
)

// Event represents a single BWF World Tour tournament
type Event struct {
	Name     string `json:"name"`
	Dates    string `json:"dates,omitempty"`
	Level    string `json:"level,omitempty"`
	Location string `json:"location,omitempty"`
	Link     string `json:"link,omitempty"`
}

// Key identifies an event for de-duplication
type Key struct {
	Name  string
	Dates string
	Level string
}

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`[\s\p{Z}]+`)
)

// New creates an Event with every field cleaned
func New(name, dates, level, location, link string) Event {
	return Event{
		Name:     CleanText(name),
		Dates:    CleanText(dates),
		Level:    CleanText(level),
		Location: CleanText(location),
		Link:     strings.TrimSpace(link),
	}
}

// Key returns the de-duplication tuple for the event
func (e Event) Key() Key {
	return Key{Name: e.Name, Dates: e.Dates, Level: e.Level}
}

// Meta returns the non-empty subset of level, dates and location in that order
func (e Event) Meta() []string {
	parts := make([]string, 0, 3)
	for _, s := range []string{e.Level, e.Dates, e.Location} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}

// CleanText strips embedded HTML tags, unescapes entities, collapses runs of whitespace and trims the result
func CleanText(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Dedup collapses events sharing the same Key, keeping the first occurrence.
// The relative order of the kept events is unchanged.
func Dedup(events []Event) []Event {
	seen := make(map[Key]bool, len(events))
	unique := make([]Event, 0, len(events))
	for _, evt := range events {
		k := evt.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, evt)
	}
	return unique
}

// Truncate returns at most max events from the head of the slice.
// A non-positive max leaves the slice unchanged.
func Truncate(events []Event, max int) []Event {
	if max <= 0 || len(events) <= max {
		return events
	}
	return events[:max]
}
