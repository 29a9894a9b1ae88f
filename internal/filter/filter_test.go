package filter

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/pfrederiksen/bwf-poster/internal/event"
)

func sampleEvents() []event.Event {
	return []event.Event{
		{Name: "PETRONAS Malaysia Open", Dates: "7 - 12 Jan 2025", Level: "Super 1000", Location: "Kuala Lumpur, Malaysia"},
		{Name: "Thailand Masters", Dates: "28 Jan - 2 Feb 2025", Level: "Super 300", Location: "Bangkok, Thailand"},
		{Name: "YONEX-SUNRISE India Open", Dates: "14 - 19 Jan 2025", Level: "Super 750", Location: "New Delhi, India"},
		{Name: "Indonesia Masters", Dates: "21 - 26 Jan 2025", Level: "Super 500", Location: "Jakarta, Indonesia"},
		{Name: "Unknown level event", Dates: "1 - 6 Apr 2025"},
	}
}

func names(events []event.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Name)
	}
	return out
}

func TestFilter_IsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		filter *Filter
		want   bool
	}{
		{"empty filter", NewFilter(), true},
		{"default filter", Default(), false},
		{"upcoming only", &Filter{UpcomingOnly: true}, false},
		{"city", &Filter{Cities: []string{"Tokyo"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.IsEmpty(); got != tt.want {
				t.Errorf("Filter.IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Apply(t *testing.T) {
	tests := []struct {
		name   string
		filter *Filter
		want   []string
	}{
		{
			name:   "empty filter keeps everything",
			filter: NewFilter(),
			want:   names(sampleEvents()),
		},
		{
			name:   "default tiers",
			filter: Default(),
			want:   []string{"PETRONAS Malaysia Open", "YONEX-SUNRISE India Open", "Indonesia Masters"},
		},
		{
			name:   "city narrows tiers",
			filter: &Filter{Tiers: []string{"1000", "750", "500"}, Cities: []string{"india"}},
			want:   []string{"YONEX-SUNRISE India Open"},
		},
		{
			name:   "name filter",
			filter: &Filter{Names: []string{"masters"}},
			want:   []string{"Thailand Masters", "Indonesia Masters"},
		},
		{
			name: "upcoming only",
			filter: &Filter{
				UpcomingOnly: true,
				now:          func() time.Time { return time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC) },
			},
			want: []string{"Thailand Masters", "Indonesia Masters", "Unknown level event"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(tt.filter.Apply(sampleEvents()))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilter_ApplyPreservesOrder(t *testing.T) {
	input := sampleEvents()
	out := Default().Apply(input)

	// out must be a subsequence of input
	i := 0
	for _, evt := range input {
		if i < len(out) && out[i] == evt {
			i++
		}
	}
	if i != len(out) {
		t.Errorf("Apply() output is not a subsequence of its input: %v", names(out))
	}
}

func TestFilter_ApplyOrRelax(t *testing.T) {
	t.Run("filter keeps some", func(t *testing.T) {
		kept, relaxed := Default().ApplyOrRelax(sampleEvents(), 2)
		if relaxed {
			t.Error("expected filter not to be relaxed")
		}
		want := []string{"PETRONAS Malaysia Open", "YONEX-SUNRISE India Open"}
		if diff := cmp.Diff(want, names(kept)); diff != "" {
			t.Errorf("ApplyOrRelax() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("filter keeps nothing", func(t *testing.T) {
		input := []event.Event{
			{Name: "A", Level: "Super 300"},
			{Name: "B"},
			{Name: "C", Level: "Super 100"},
		}
		kept, relaxed := Default().ApplyOrRelax(input, 2)
		if !relaxed {
			t.Error("expected filter to be relaxed")
		}
		if diff := cmp.Diff([]string{"A", "B"}, names(kept)); diff != "" {
			t.Errorf("ApplyOrRelax() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		kept, relaxed := Default().ApplyOrRelax(nil, 8)
		if relaxed || len(kept) != 0 {
			t.Errorf("ApplyOrRelax(nil) = %v, %v; want empty, false", kept, relaxed)
		}
	})
}

func TestFilter_String(t *testing.T) {
	if got := NewFilter().String(); got != "No active filters" {
		t.Errorf("String() = %q", got)
	}

	f := &Filter{Tiers: []string{"1000"}, Cities: []string{"Tokyo"}, UpcomingOnly: true}
	want := "Tiers: 1000 | Cities: Tokyo | Upcoming only"
	if got := f.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestFilter_Clone(t *testing.T) {
	original := Default()
	clone := original.Clone()
	clone.Tiers[0] = "changed"
	clone.Cities = append(clone.Cities, "Paris")

	if original.Tiers[0] != "1000" {
		t.Errorf("modifying clone changed original tiers: %v", original.Tiers)
	}
	if len(original.Cities) != 0 {
		t.Errorf("modifying clone changed original cities: %v", original.Cities)
	}
}
