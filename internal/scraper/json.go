package scraper

import (
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/net/html"

	"github.com/pfrederiksen/bwf-poster/internal/event"
)

// wrapperKeys are the object fields a listing may hide its array under
var wrapperKeys = []string{"data", "events", "results", "items", "tournaments", "posts"}

var (
	titleKeys    = []string{"title.rendered", "title", "name", "tournament_name", "event_name"}
	datesKeys    = []string{"dates", "date_range", "date"}
	levelKeys    = []string{"level", "tier", "category", "grade"}
	locationKeys = []string{"location", "venue"}
	linkKeys     = []string{"link", "url", "permalink"}
)

func extractJSON(raw string) ([]event.Event, string, error) {
	if !gjson.Valid(raw) {
		return nil, "", &ParseError{Kind: "json", Reason: "invalid document"}
	}

	root := gjson.Parse(raw)
	items, pattern := listing(root)
	if !items.IsArray() {
		return nil, "", &ParseError{Kind: "json", Reason: "no event listing found"}
	}

	var events []event.Event
	items.ForEach(func(_, item gjson.Result) bool {
		if evt, ok := jsonItem(item); ok {
			events = append(events, evt)
		}
		return true
	})

	if len(events) == 0 {
		return nil, "", &ParseError{Kind: "json", Reason: "listing has no titled items"}
	}
	return events, pattern, nil
}

// listing finds the array of items: the root itself or a known wrapper field
func listing(root gjson.Result) (gjson.Result, string) {
	if root.IsArray() {
		return root, "json-array"
	}
	if !root.IsObject() {
		return gjson.Result{}, ""
	}
	for _, key := range wrapperKeys {
		if v := root.Get(key); v.IsArray() {
			return v, "json-" + key
		}
	}
	return gjson.Result{}, ""
}

func jsonItem(item gjson.Result) (event.Event, bool) {
	if !item.IsObject() {
		return event.Event{}, false
	}

	name := firstString(item, titleKeys)
	if name == "" {
		return event.Event{}, false
	}

	dates := firstString(item, datesKeys)
	if dates == "" {
		dates = joinNonEmpty(" - ", scalar(item.Get("start_date")), scalar(item.Get("end_date")))
	}

	location := firstString(item, locationKeys)
	if location == "" {
		location = joinNonEmpty(", ", scalar(item.Get("city")), scalar(item.Get("country")))
	}

	level := firstString(item, levelKeys)
	if tier := event.FindTier(level); tier != "" {
		level = tier
	} else {
		level = event.NormalizeLevel(level)
	}

	return event.New(name, dates, level, location, firstString(item, linkKeys)), true
}

// firstString returns the first key whose value is a non-empty scalar, markup stripped
func firstString(item gjson.Result, keys []string) string {
	for _, key := range keys {
		if s := scalar(item.Get(key)); s != "" {
			return s
		}
	}
	return ""
}

func scalar(v gjson.Result) string {
	switch v.Type {
	case gjson.String, gjson.Number:
		return event.CleanText(stripMarkup(v.String()))
	default:
		return ""
	}
}

// stripMarkup keeps only the text nodes of an HTML fragment
func stripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			b.WriteByte(' ')
		}
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
