package scraper

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pfrederiksen/bwf-poster/internal/event"
	"github.com/pfrederiksen/bwf-poster/internal/fetcher"
)

const pageURL = "https://bwfworldtour.bwfbadminton.com/calendar/"

func TestExtract_EventCard(t *testing.T) {
	raw := `<html><body>
<div class="event-card">
  <a href="/tournament/5227/petronas-malaysia-open-2025/">
    <h3 class="event-card__name">PETRONAS Malaysia Open 2025</h3>
  </a>
  <span class="event-card__level">SUPER 1000</span>
  <span class="event-card__date">12 Jan 2025</span>
  <span class="event-card__city">Kuala Lumpur, Malaysia</span>
</div>
</body></html>`

	events, pattern, err := Extract(raw, fetcher.KindHTML, pageURL)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if pattern != "event-card" {
		t.Errorf("pattern = %q, want event-card", pattern)
	}

	want := []event.Event{{
		Name:     "PETRONAS Malaysia Open 2025",
		Dates:    "12 Jan 2025",
		Level:    "Super 1000",
		Location: "Kuala Lumpur, Malaysia",
		Link:     "https://bwfworldtour.bwfbadminton.com/tournament/5227/petronas-malaysia-open-2025/",
	}}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_ClassifierFallback(t *testing.T) {
	// No field classes: date, level and location resolve by content shape
	raw := `<div class="event-card">
  <h3>YONEX All England Open</h3>
  <p>Level: HSBC BWF World Tour Super 1000</p>
  <p>Birmingham, England</p>
  <p>11 - 16 March 2025</p>
</div>`

	events, _, err := Extract(raw, fetcher.KindHTML, pageURL)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	got := events[0]
	if got.Level != "Super 1000" {
		t.Errorf("Level = %q, want Super 1000", got.Level)
	}
	if got.Dates != "11 - 16 March 2025" {
		t.Errorf("Dates = %q, want 11 - 16 March 2025", got.Dates)
	}
	if got.Location != "Birmingham, England" {
		t.Errorf("Location = %q, want Birmingham, England", got.Location)
	}
}

func TestExtract_FirstPatternWins(t *testing.T) {
	// Both the newest and the legacy layout are present; only the newest is used
	raw := `<div class="event-card"><h3>India Open</h3><span class="level">Super 750</span></div>
<div class="c-card--event"><h3 class="c-card__title">Legacy Open</h3><span class="c-card__tag">Super 500</span></div>`

	events, pattern, err := Extract(raw, fetcher.KindHTML, "")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if pattern != "event-card" {
		t.Errorf("pattern = %q, want event-card", pattern)
	}
	if len(events) != 1 || events[0].Name != "India Open" {
		t.Errorf("events = %+v, want only India Open", events)
	}
}

// tournamentCards names every field element after the card it belongs to
const tournamentCards = `<ul>
<li class="tournament-card"><div class="card-title">PETRONAS Malaysia Open 2025</div><div class="card-meta">SUPER 1000</div><div class="card-date">7 - 12 Jan 2025</div><div class="card-venue">Kuala Lumpur, Malaysia</div></li>
<li class="tournament-card"><div class="card-title">YONEX-SUNRISE India Open 2025</div><div class="card-meta">SUPER 750</div><div class="card-date">14 - 19 Jan 2025</div><div class="card-venue">New Delhi, India</div></li>
</ul>`

func TestExtract_GenericCardFields(t *testing.T) {
	events, pattern, err := Extract(tournamentCards, fetcher.KindHTML, pageURL)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if pattern != "generic-card" {
		t.Errorf("pattern = %q, want generic-card", pattern)
	}

	want := []event.Event{
		{Name: "PETRONAS Malaysia Open 2025", Dates: "7 - 12 Jan 2025", Level: "Super 1000", Location: "Kuala Lumpur, Malaysia"},
		{Name: "YONEX-SUNRISE India Open 2025", Dates: "14 - 19 Jan 2025", Level: "Super 750", Location: "New Delhi, India"},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}
}

func TestIsCardClass(t *testing.T) {
	tests := []struct {
		class string
		want  bool
	}{
		{"tournament-card", true},
		{"Event-Item", true},
		{"card-title", true},
		{"event-card__name", false},
		{"c-card__title highlight", false},
		{"results", false},
	}

	for _, tt := range tests {
		if got := isCardClass(tt.class); got != tt.want {
			t.Errorf("isCardClass(%q) = %v, want %v", tt.class, got, tt.want)
		}
	}
}

func TestExtract_PatternCascade(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantPattern string
		wantNames   []string
	}{
		{
			name:        "legacy card",
			raw:         `<div class="c-card--event"><h3 class="c-card__title">Indonesia Masters</h3><span class="c-card__tag">SUPER 500</span></div>`,
			wantPattern: "legacy-card",
			wantNames:   []string{"Indonesia Masters"},
		},
		{
			name:        "name only",
			raw:         `<ul><li><span class="tournament__name">Thailand Masters</span></li><li><span class="tournament__name">German Open</span></li></ul>`,
			wantPattern: "tournament-name",
			wantNames:   []string{"Thailand Masters", "German Open"},
		},
		{
			name: "generic card skips wrappers",
			raw: `<section><div class="cards-wrapper">
<article class="tour-card"><h2>China Open</h2><small>Super 1000</small></article>
<article class="tour-card"><h2>Japan Open</h2><small>Super 750</small></article>
</div></section>`,
			wantPattern: "generic-card",
			wantNames:   []string{"China Open", "Japan Open"},
		},
		{
			name:        "generic card with card-named fields",
			raw:         tournamentCards,
			wantPattern: "generic-card",
			wantNames:   []string{"PETRONAS Malaysia Open 2025", "YONEX-SUNRISE India Open 2025"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, pattern, err := Extract(tt.raw, fetcher.KindHTML, pageURL)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if pattern != tt.wantPattern {
				t.Errorf("pattern = %q, want %q", pattern, tt.wantPattern)
			}

			var got []string
			for _, e := range events {
				got = append(got, e.Name)
			}
			if diff := cmp.Diff(tt.wantNames, got); diff != "" {
				t.Errorf("names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtract_JSON(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantPattern string
		want        []event.Event
	}{
		{
			name: "wordpress array with rendered title",
			raw: `[{"title":{"rendered":"<b>Malaysia Open</b> &amp; Friends"},"tier":"HSBC Super 1000",
"start_date":"2025-01-07","end_date":"2025-01-12","city":"Kuala Lumpur","country":"Malaysia","link":"https://example.test/mo"}]`,
			wantPattern: "json-array",
			want: []event.Event{{
				Name:     "Malaysia Open & Friends",
				Dates:    "2025-01-07 - 2025-01-12",
				Level:    "Super 1000",
				Location: "Kuala Lumpur, Malaysia",
				Link:     "https://example.test/mo",
			}},
		},
		{
			name:        "wrapped under data",
			raw:         `{"data":[{"name":"India Open","dates":"14 - 19 Jan 2025","level":"super 750","venue":"New Delhi, India"},{"id":3}]}`,
			wantPattern: "json-data",
			want: []event.Event{{
				Name:     "India Open",
				Dates:    "14 - 19 Jan 2025",
				Level:    "Super 750",
				Location: "New Delhi, India",
			}},
		},
		{
			name:        "wrapped under tournaments",
			raw:         `{"tournaments":[{"tournament_name":"Indonesia Masters","category":"SUPER 500"}]}`,
			wantPattern: "json-tournaments",
			want:        []event.Event{{Name: "Indonesia Masters", Level: "Super 500"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, pattern, err := Extract(tt.raw, fetcher.KindJSON, "")
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if pattern != tt.wantPattern {
				t.Errorf("pattern = %q, want %q", pattern, tt.wantPattern)
			}
			if diff := cmp.Diff(tt.want, events); diff != "" {
				t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtract_Text(t *testing.T) {
	raw := `Title: Calendar | BWF World Tour

# Calendar

### [PETRONAS Malaysia Open 2025](https://bwfworldtour.bwfbadminton.com/tournament/5227/)
![logo](https://img.test/logo.png)
HSBC BWF World Tour Super 1000
07 - 12 January 2025
Kuala Lumpur, Malaysia

### India Open 2025
**Super 750**
14 - 19 January 2025

DAIHATSU Indonesia Masters 2025 Super 500
21 - 26 January 2025
`

	events, pattern, err := Extract(raw, fetcher.KindText, "")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if pattern != "text-mirror" {
		t.Errorf("pattern = %q, want text-mirror", pattern)
	}

	want := []event.Event{
		{
			Name:     "PETRONAS Malaysia Open 2025",
			Dates:    "07 - 12 January 2025",
			Level:    "Super 1000",
			Location: "Kuala Lumpur, Malaysia",
			Link:     "https://bwfworldtour.bwfbadminton.com/tournament/5227/",
		},
		{Name: "India Open 2025", Dates: "14 - 19 January 2025", Level: "Super 750"},
		{Name: "DAIHATSU Indonesia Masters 2025 Super 500", Dates: "21 - 26 January 2025", Level: "Super 500"},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_NeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"<",
		"<div class=\"event-card\">",
		"<div class='event-card'><h3></h3></div>",
		"{",
		"null",
		"[1, 2, \"x\"]",
		`{"data": {"not": "an array"}}`,
		"\x00\xff\xfe",
		strings.Repeat("<div class=\"event\">", 500),
		"# \n## \n",
	}

	for _, kind := range []fetcher.Kind{fetcher.KindHTML, fetcher.KindJSON, fetcher.KindText, "xml"} {
		for _, raw := range inputs {
			events, _, err := Extract(raw, kind, pageURL)
			if err == nil && len(events) == 0 {
				t.Errorf("Extract(%q, %s) returned no events and no error", raw, kind)
			}
			if err != nil {
				var pe *ParseError
				if !errors.As(err, &pe) {
					t.Errorf("Extract(%q, %s) error %T is not *ParseError", raw, kind, err)
				}
			}
		}
	}
}

func TestParseError(t *testing.T) {
	cause := errors.New("boom")
	err := &ParseError{Kind: "html", Reason: "reading document", Err: cause}

	if got := err.Error(); got != "parsing html: reading document: boom" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	bare := &ParseError{Kind: "json", Reason: "invalid document"}
	if got := bare.Error(); got != "parsing json: invalid document" {
		t.Errorf("Error() = %q", got)
	}
}
