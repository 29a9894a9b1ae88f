package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pfrederiksen/bwf-poster/internal/event"
)

// htmlPattern is one site layout: a pure function from document to records
type htmlPattern struct {
	name    string
	extract func(doc *goquery.Document, base *url.URL) []event.Event
}

// htmlPatterns are evaluated in order; the first non-empty result wins
var htmlPatterns = []htmlPattern{
	{name: "event-card", extract: cardPattern(".event-card")},
	{name: "legacy-card", extract: cardPattern(".c-card--event, .event")},
	{name: "tournament-name", extract: nameOnlyPattern(".tournament__name")},
	{name: "generic-card", extract: genericCardPattern},
}

// fieldRule resolves one field inside a block: selectors first, first non-empty text wins,
// then generic tags whose text passes the classifier
type fieldRule struct {
	selectors []string
	fallback  string
	accept    func(string) bool
}

var (
	nameRule = fieldRule{
		selectors: []string{
			".event-card__name", ".event-card__title", ".c-card__title", ".event__title", ".tournament__name",
			`[class*="__name"]`, `[class*="__title"]`, `[class*="-name"]`, `[class*="-title"]`,
			"h3", "h2", "h4", "a",
		},
	}
	dateRule = fieldRule{
		selectors: []string{".event-card__date", ".event__date", ".c-card__date", ".date", ".dates", "time", `[class*="date"]`},
		fallback:  "time, span, div, p",
		accept:    event.IsDateLike,
	}
	levelRule = fieldRule{
		selectors: []string{".event-card__level", ".event__level", ".c-card__tag", ".level", ".tag", ".category", `[class*="level"]`, `[class*="tier"]`},
		fallback:  "small, span, div",
		accept:    event.IsLevelLike,
	}
	locationRule = fieldRule{
		selectors: []string{".event-card__city", ".event__city", ".c-card__meta", ".location", ".venue", ".city", `[class*="venue"]`, `[class*="location"]`, `[class*="city"]`},
		fallback:  "span, div, p",
		accept: func(s string) bool {
			return event.IsLocationLike(s) && !event.IsDateLike(s)
		},
	}
)

// resolve returns the field text of block. Fallback matches equal to skip are ignored so a
// dated tournament name is not read back as its own date.
func (r fieldRule) resolve(block *goquery.Selection, skip string) string {
	for _, sel := range r.selectors {
		if text := event.CleanText(block.Find(sel).First().Text()); text != "" {
			return text
		}
	}

	if r.fallback == "" || r.accept == nil {
		return ""
	}

	found := ""
	block.Find(r.fallback).EachWithBreak(func(i int, s *goquery.Selection) bool {
		text := event.CleanText(s.Text())
		if text != "" && text != skip && r.accept(text) {
			found = text
			return false
		}
		return true
	})
	return found
}

// cardPattern extracts structured records from blocks matching selector
func cardPattern(selector string) func(*goquery.Document, *url.URL) []event.Event {
	return func(doc *goquery.Document, base *url.URL) []event.Event {
		var events []event.Event
		doc.Find(selector).Each(func(i int, block *goquery.Selection) {
			if evt, ok := parseBlock(block, nameRule.resolve(block, ""), base); ok {
				events = append(events, evt)
			}
		})
		return events
	}
}

// nameOnlyPattern yields name-only records, the degraded shape of older calendar pages
func nameOnlyPattern(selector string) func(*goquery.Document, *url.URL) []event.Event {
	return func(doc *goquery.Document, base *url.URL) []event.Event {
		var events []event.Event
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			name := event.CleanText(s.Text())
			if name == "" {
				return
			}
			events = append(events, event.New(name, "", "", "", blockLink(s, base)))
		})
		return events
	}
}

const cardTags = "article[class], div[class], li[class]"

// isCardClass reports whether a class attribute mentions "event" or "card". BEM element
// tokens ("event-card__date") name a part of a card, not a card.
func isCardClass(class string) bool {
	for _, tok := range strings.Fields(strings.ToLower(class)) {
		if strings.Contains(tok, "__") {
			continue
		}
		if strings.Contains(tok, "event") || strings.Contains(tok, "card") {
			return true
		}
	}
	return false
}

// genericCardPattern scans every article/div/li whose class mentions "event" or "card". A
// card is kept when it parses to a record and holds no nested card that does too, so wrappers
// give way to their cards while the field parts of a card ("card-title", "card-date") never
// become records of their own.
func genericCardPattern(doc *goquery.Document, base *url.URL) []event.Event {
	isCard := func(i int, s *goquery.Selection) bool {
		return isCardClass(s.AttrOr("class", ""))
	}

	cards := doc.Find(cardTags).FilterFunction(isCard)

	records := make(map[*html.Node]event.Event, cards.Length())
	cards.Each(func(i int, block *goquery.Selection) {
		if evt, ok := parseCard(block, base); ok {
			records[block.Get(0)] = evt
		}
	})

	var events []event.Event
	cards.Each(func(i int, block *goquery.Selection) {
		evt, ok := records[block.Get(0)]
		if !ok {
			return
		}

		wrapper := false
		block.Find(cardTags).FilterFunction(isCard).EachWithBreak(func(i int, inner *goquery.Selection) bool {
			_, wrapper = records[inner.Get(0)]
			return !wrapper
		})
		if !wrapper {
			events = append(events, evt)
		}
	})
	return events
}

// parseCard parses a generic card block. It succeeds only for a record: a name resolved from
// a name element plus at least one metadata field. Field parts such as "card-date" hold no
// name element and so never qualify.
func parseCard(block *goquery.Selection, base *url.URL) (event.Event, bool) {
	evt, ok := parseBlock(block, nameRule.resolve(block, ""), base)
	if !ok || (evt.Dates == "" && evt.Level == "" && evt.Location == "") {
		return event.Event{}, false
	}
	return evt, true
}

// parseBlock resolves the remaining fields of a block whose name is already known
func parseBlock(block *goquery.Selection, name string, base *url.URL) (event.Event, bool) {
	if name == "" {
		return event.Event{}, false
	}

	levelText := levelRule.resolve(block, name)
	level := event.FindTier(levelText)
	if level == "" {
		level = event.FindTier(block.Text())
	}
	if level == "" {
		level = event.NormalizeLevel(levelText)
	}

	return event.New(
		name,
		dateRule.resolve(block, name),
		level,
		locationRule.resolve(block, name),
		blockLink(block, base),
	), true
}

// blockLink returns the first href in or on the block, resolved against base
func blockLink(block *goquery.Selection, base *url.URL) string {
	href, ok := block.Attr("href")
	if !ok {
		href, ok = block.Find("a[href]").First().Attr("href")
	}
	if !ok {
		href, ok = block.Closest("a[href]").Attr("href")
	}
	href = strings.TrimSpace(href)
	if !ok || href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

func extractHTML(raw string, base *url.URL) ([]event.Event, string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, "", &ParseError{Kind: "html", Reason: "reading document", Err: err}
	}

	for _, p := range htmlPatterns {
		if events := p.extract(doc, base); len(events) > 0 {
			return events, p.name, nil
		}
	}

	return nil, "", &ParseError{Kind: "html", Reason: "no pattern set matched"}
}
