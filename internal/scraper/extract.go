package scraper

import (
	"fmt"
	"net/url"

	"github.com/pfrederiksen/bwf-poster/internal/event"
	"github.com/pfrederiksen/bwf-poster/internal/fetcher"
)

// Extract parses a fetched body of the given kind into events in document order, along with
// the name of the pattern set that matched. baseURL resolves relative links and may be empty.
// It never panics; anything unexpected comes back as a *ParseError.
func Extract(raw string, kind fetcher.Kind, baseURL string) (events []event.Event, pattern string, err error) {
	defer func() {
		if r := recover(); r != nil {
			events, pattern = nil, ""
			err = &ParseError{Kind: string(kind), Reason: "recovered", Err: fmt.Errorf("%v", r)}
		}
	}()

	if len(raw) == 0 {
		return nil, "", &ParseError{Kind: string(kind), Reason: "empty body"}
	}

	switch kind {
	case fetcher.KindHTML:
		base, _ := url.Parse(baseURL)
		if baseURL == "" {
			base = nil
		}
		return extractHTML(raw, base)
	case fetcher.KindJSON:
		return extractJSON(raw)
	case fetcher.KindText:
		return extractText(raw)
	default:
		return nil, "", &ParseError{Kind: string(kind), Reason: "unsupported content kind"}
	}
}
