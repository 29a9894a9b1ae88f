package scraper

import (
	"regexp"
	"strings"

	"github.com/pfrederiksen/bwf-poster/internal/event"
)

var (
	headingPattern = regexp.MustCompile(`^#{1,4}\s+(.+)$`)
	imagePattern   = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkPattern    = regexp.MustCompile(`\[([^\]]*)\]\(([^)\s]*)[^)]*\)`)
	emphasisRunes  = "*_`>"
)

// textRecord accumulates the lines of one record
type textRecord struct {
	name, dates, level, location, link string
}

func (r *textRecord) hasMeta() bool {
	return r.dates != "" || r.level != "" || r.location != ""
}

// classify assigns a detail line to the first empty field whose shape it matches
func (r *textRecord) classify(line string) {
	switch {
	case r.level == "" && event.IsLevelLike(line):
		r.level = event.FindTier(line)
	case r.dates == "" && event.IsDateLike(line):
		r.dates = line
	case r.location == "" && event.IsLocationLike(line):
		r.location = line
	}
}

// extractText reads the markdown-ish output of the text proxy. A heading, or a line carrying a
// tier token when no record is open or the open one already has a level, starts a record.
// Records without any detail line are page furniture and are dropped.
func extractText(raw string) ([]event.Event, string, error) {
	var (
		events  []event.Event
		current *textRecord
	)

	flush := func() {
		if current != nil && current.name != "" && current.hasMeta() {
			events = append(events, event.New(current.name, current.dates, current.level, current.location, current.link))
		}
		current = nil
	}

	for _, rawLine := range strings.Split(raw, "\n") {
		line, link := plainLine(rawLine)
		if line == "" {
			continue
		}

		if m := headingPattern.FindStringSubmatch(line); m != nil {
			flush()
			current = &textRecord{name: strings.TrimSpace(m[1]), link: link}
			continue
		}

		if event.IsLevelLike(line) && (current == nil || current.level != "") {
			flush()
			current = &textRecord{name: line, level: event.FindTier(line), link: link}
			continue
		}

		if current == nil {
			continue
		}
		if current.link == "" {
			current.link = link
		}
		current.classify(line)
	}
	flush()

	if len(events) == 0 {
		return nil, "", &ParseError{Kind: "text", Reason: "no headed records found"}
	}
	return events, "text-mirror", nil
}

// plainLine strips markdown images, emphasis and links from a line, returning its text and the
// first link target
func plainLine(line string) (string, string) {
	line = imagePattern.ReplaceAllString(line, "")

	link := ""
	if m := linkPattern.FindStringSubmatch(line); m != nil {
		link = m[2]
	}
	line = linkPattern.ReplaceAllString(line, "$1")

	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "#") {
		line = strings.TrimLeft(line, "-+ ")
	}
	line = strings.Map(func(r rune) rune {
		if strings.ContainsRune(emphasisRunes, r) {
			return -1
		}
		return r
	}, line)

	return event.CleanText(line), link
}
