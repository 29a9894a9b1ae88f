package fetcher

import "testing"

func TestSource_TargetURL(t *testing.T) {
	tests := []struct {
		name string
		src  Source
		want string
	}{
		{"no query", Source{URL: "https://example.com/calendar/"}, "https://example.com/calendar/"},
		{"sorted query", Source{URL: "https://example.com/calendar/", Query: map[string]string{"rstate": "all", "cyear": "2025"}}, "https://example.com/calendar/?cyear=2025&rstate=all"},
		{"merges existing", Source{URL: "https://example.com/api?per_page=10", Query: map[string]string{"year": "2025"}}, "https://example.com/api?per_page=10&year=2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.src.TargetURL(); got != tt.want {
				t.Errorf("TargetURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProxyURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"", "https://r.jina.ai/https://example.com/x"},
		{"https://mirror.local", "https://mirror.local/https://example.com/x"},
		{"https://mirror.local/", "https://mirror.local/https://example.com/x"},
	}

	for _, tt := range tests {
		if got := ProxyURL(tt.base, "https://example.com/x"); got != tt.want {
			t.Errorf("ProxyURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

func TestDefaultSources(t *testing.T) {
	sources := DefaultSources(2025)
	if len(sources) != 4 {
		t.Fatalf("DefaultSources() returned %d sources, want 4", len(sources))
	}
	if sources[0].Kind != KindHTML || sources[0].ViaProxy {
		t.Errorf("first source should be the direct HTML page, got %+v", sources[0])
	}
	last := sources[len(sources)-1]
	if !last.ViaProxy || last.Kind != KindText {
		t.Errorf("proxy source should be tried last, got %+v", last)
	}
	if sources[0].Query["cyear"] != "2025" {
		t.Errorf("cyear = %q, want 2025", sources[0].Query["cyear"])
	}
}
