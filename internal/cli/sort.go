package cli

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/bwf-poster/internal/event"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortBySource SortOrder = "source"
	SortByDate   SortOrder = "date"
	SortByName   SortOrder = "name"
	SortByTier   SortOrder = "tier"
)

// sortEvents sorts a slice of events based on the specified sort order. SortBySource keeps
// the calendar's own order.
func sortEvents(events []event.Event, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		sort.SliceStable(events, func(i, j int) bool {
			return compareByDate(events[i], events[j])
		})
	case SortByName:
		sort.SliceStable(events, func(i, j int) bool {
			if !strings.EqualFold(events[i].Name, events[j].Name) {
				return strings.ToLower(events[i].Name) < strings.ToLower(events[j].Name)
			}
			// If names are equal, sort by date
			return compareByDate(events[i], events[j])
		})
	case SortByTier:
		sort.SliceStable(events, func(i, j int) bool {
			ri, rj := tierRank(events[i].Level), tierRank(events[j].Level)
			if ri != rj {
				return ri < rj
			}
			// If tiers are equal, sort by date
			return compareByDate(events[i], events[j])
		})
	}
}

// compareByDate compares two events by their date
// Returns true if event i should come before event j
func compareByDate(i, j event.Event) bool {
	dateI := event.ParseDate(i.Dates)
	dateJ := event.ParseDate(j.Dates)

	// If both dates are valid, compare them
	if !dateI.IsZero() && !dateJ.IsZero() {
		return dateI.Before(dateJ)
	}

	// If only one date is valid, put the valid one first
	if !dateI.IsZero() {
		return true
	}
	if !dateJ.IsZero() {
		return false
	}

	// If neither has a valid date, keep the existing order
	return false
}

// tierRank orders Super 1000 first; levels outside the known tiers sort last
func tierRank(level string) int {
	for i, tier := range event.Tiers {
		if event.MatchesTier(level, []string{tier}) {
			return i
		}
	}
	return len(event.Tiers)
}

func parseSortOrder(s string) (SortOrder, bool) {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(s))); order {
	case "", SortBySource:
		return SortBySource, true
	case SortByDate, SortByName, SortByTier:
		return order, true
	default:
		return "", false
	}
}
