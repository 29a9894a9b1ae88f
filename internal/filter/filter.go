// Package filter narrows an extracted event list down to the tournaments worth a poster.
//
// The default filter keeps only the top competition tiers (Super 1000, 750 and 500). Extra
// criteria can narrow further:
//   - Tiers (tier tokens the level must contain)
//   - Cities (substring matching on location, case-insensitive)
//   - Names (substring matching on name, case-insensitive)
//   - Upcoming only (drop events that finished before today)
//
// Filtering never reorders events: the output is always a subsequence of the input.
//
// Example usage:
//
//	f := filter.Default()
//	f.Cities = []string{"Tokyo"}
//	kept, relaxed := f.ApplyOrRelax(events, 8)
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/bwf-poster/internal/event"
)

// Filter represents event filtering criteria
type Filter struct {
	// Tier tokens ("1000", "750", ...); an event is kept if its level contains one
	Tiers []string `json:"tiers,omitempty" yaml:"tiers,omitempty"`

	// City filtering (case-insensitive substring match on Location)
	Cities []string `json:"cities,omitempty" yaml:"cities,omitempty"`

	// Name filtering (case-insensitive substring match on Name)
	Names []string `json:"names,omitempty" yaml:"names,omitempty"`

	// Drop events whose last day is before today
	UpcomingOnly bool `json:"upcoming_only,omitempty" yaml:"upcoming_only,omitempty"`

	// now is overridable in tests
	now func() time.Time
}

// NewFilter creates a new empty filter with no active criteria.
// The filter will match all events until criteria are added.
func NewFilter() *Filter {
	return &Filter{
		Tiers:  []string{},
		Cities: []string{},
		Names:  []string{},
	}
}

// Default returns the tier filter used for the poster: Super 1000, 750 and 500
func Default() *Filter {
	f := NewFilter()
	f.Tiers = append(f.Tiers, event.Tiers...)
	return f
}

// IsEmpty checks if the filter has any active criteria.
// Returns true if the filter would match all events.
func (f *Filter) IsEmpty() bool {
	return len(f.Tiers) == 0 &&
		len(f.Cities) == 0 &&
		len(f.Names) == 0 &&
		!f.UpcomingOnly
}

// Matches checks if an event matches all active filter criteria.
// An empty filter matches all events.
//
// Matching logic:
//   - Tiers: Event level must be present and contain at least one tier token
//   - Cities: Event location must contain at least one city (case-insensitive)
//   - Names: Event name must contain at least one name (case-insensitive)
//   - UpcomingOnly: Event must not have finished before today (unparseable dates pass)
func (f *Filter) Matches(evt event.Event) bool {
	if f.IsEmpty() {
		return true
	}

	if len(f.Tiers) > 0 && !event.MatchesTier(evt.Level, f.Tiers) {
		return false
	}

	if len(f.Cities) > 0 && !containsAny(evt.Location, f.Cities) {
		return false
	}

	if len(f.Names) > 0 && !containsAny(evt.Name, f.Names) {
		return false
	}

	if f.UpcomingOnly && evt.IsPast(f.clock()) {
		return false
	}

	return true
}

// Apply returns the events matching the filter, preserving their relative order.
// If the filter is empty, returns the original list unchanged.
func (f *Filter) Apply(events []event.Event) []event.Event {
	if f.IsEmpty() {
		return events
	}

	filtered := make([]event.Event, 0, len(events))
	for _, evt := range events {
		if f.Matches(evt) {
			filtered = append(filtered, evt)
		}
	}

	return filtered
}

// ApplyOrRelax applies the filter and truncates to max. When filtering would leave
// nothing, the filter is relaxed: the unfiltered list is truncated and returned
// instead, and relaxed is true.
func (f *Filter) ApplyOrRelax(events []event.Event, max int) (kept []event.Event, relaxed bool) {
	filtered := f.Apply(events)
	if len(filtered) == 0 && len(events) > 0 {
		return event.Truncate(events, max), true
	}
	return event.Truncate(filtered, max), false
}

// String returns a human-readable description of the active filter criteria.
// Returns "No active filters" if the filter is empty.
// Format: "Tiers: 1000, 750 | Cities: Tokyo | Upcoming only"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if len(f.Tiers) > 0 {
		parts = append(parts, fmt.Sprintf("Tiers: %s", strings.Join(f.Tiers, ", ")))
	}

	if len(f.Cities) > 0 {
		parts = append(parts, fmt.Sprintf("Cities: %s", strings.Join(f.Cities, ", ")))
	}

	if len(f.Names) > 0 {
		parts = append(parts, fmt.Sprintf("Names: %s", strings.Join(f.Names, ", ")))
	}

	if f.UpcomingOnly {
		parts = append(parts, "Upcoming only")
	}

	return strings.Join(parts, " | ")
}

// Clone creates a deep copy of the filter
func (f *Filter) Clone() *Filter {
	return &Filter{
		Tiers:        append([]string{}, f.Tiers...),
		Cities:       append([]string{}, f.Cities...),
		Names:        append([]string{}, f.Names...),
		UpcomingOnly: f.UpcomingOnly,
		now:          f.now,
	}
}

func (f *Filter) clock() time.Time {
	if f.now != nil {
		return f.now()
	}
	return time.Now()
}

func containsAny(s string, needles []string) bool {
	lower := strings.ToLower(s)
	for _, n := range needles {
		if strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
