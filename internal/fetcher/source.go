package fetcher

import (
	"net/url"
	"strconv"
	"strings"
)

// Kind declares how a source's body should be parsed
type Kind string

const (
	KindHTML Kind = "html"
	KindJSON Kind = "json"
	KindText Kind = "text"
)

const (
	CalendarURL      = "https://bwfworldtour.bwfbadminton.com/calendar/"
	AltCalendarURL   = "https://bwfbadminton.com/calendar/"
	CalendarAPIURL   = "https://bwfworldtour.bwfbadminton.com/wp-json/wp/v2/tournaments"
	DefaultProxyBase = "https://r.jina.ai/"
)

// Source is one candidate endpoint tried in order until one yields events
type Source struct {
	Name     string            `yaml:"name"`
	URL      string            `yaml:"url"`
	Kind     Kind              `yaml:"kind"`
	Query    map[string]string `yaml:"query,omitempty"`
	ViaProxy bool              `yaml:"via_proxy,omitempty"`
}

// DefaultSources returns the candidate list for a season: the calendar page, the
// alternate domain, the JSON listing and finally the text proxy of the calendar page
func DefaultSources(year int) []Source {
	q := map[string]string{"cyear": strconv.Itoa(year), "rstate": "all"}
	return []Source{
		{Name: "calendar", URL: CalendarURL, Kind: KindHTML, Query: q},
		{Name: "alt-domain", URL: AltCalendarURL, Kind: KindHTML, Query: q},
		{Name: "json-api", URL: CalendarAPIURL, Kind: KindJSON, Query: map[string]string{"per_page": "50", "year": strconv.Itoa(year)}},
		{Name: "text-proxy", URL: CalendarURL, Kind: KindText, Query: q, ViaProxy: true},
	}
}

// TargetURL returns the source URL with its query parameters encoded
func (s Source) TargetURL() string {
	if len(s.Query) == 0 {
		return s.URL
	}
	u, err := url.Parse(s.URL)
	if err != nil {
		return s.URL
	}
	values := u.Query()
	for k, v := range s.Query {
		values.Set(k, v)
	}
	u.RawQuery = values.Encode()
	return u.String()
}

// ProxyURL rewrites target into the proxy-prefixed form understood by text-mirroring
// services ("https://r.jina.ai/https://example.com/page?x=1")
func ProxyURL(proxyBase, target string) string {
	if proxyBase == "" {
		proxyBase = DefaultProxyBase
	}
	if !strings.HasSuffix(proxyBase, "/") {
		proxyBase += "/"
	}
	return proxyBase + target
}
