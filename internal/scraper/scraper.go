package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/pfrederiksen/bwf-poster/internal/event"
	"github.com/pfrederiksen/bwf-poster/internal/fetcher"
	"github.com/pfrederiksen/bwf-poster/internal/filter"
	"github.com/pfrederiksen/bwf-poster/internal/logger"
	"github.com/pfrederiksen/bwf-poster/internal/metrics"
)

// MaxEvents is the number of records a poster can hold
const MaxEvents = 8

// Fetcher retrieves the raw body of a source
type Fetcher interface {
	Fetch(ctx context.Context, src fetcher.Source) (string, error)
}

// Outcome is the result of a whole extraction run: events, or the reason there are none
type Outcome struct {
	Events      []event.Event `json:"events"`
	Source      string        `json:"source,omitempty"`
	Pattern     string        `json:"pattern,omitempty"`
	Diagnostics []string      `json:"diagnostics,omitempty"`
	Relaxed     bool          `json:"relaxed,omitempty"`
	FetchedAt   time.Time     `json:"fetched_at"`
}

// Found reports whether the run produced any events
func (o Outcome) Found() bool {
	return len(o.Events) > 0
}

// Scraper walks the candidate sources in order until one yields events
type Scraper struct {
	fetcher Fetcher
	sources []fetcher.Source
	filter  *filter.Filter
	max     int
	now     func() time.Time
}

// New creates a Scraper. A nil filter keeps every event; a non-positive max keeps MaxEvents.
func New(f Fetcher, sources []fetcher.Source, flt *filter.Filter, max int) *Scraper {
	if flt == nil {
		flt = filter.NewFilter()
	}
	if max <= 0 {
		max = MaxEvents
	}
	return &Scraper{
		fetcher: f,
		sources: sources,
		filter:  flt,
		max:     max,
		now:     time.Now,
	}
}

// FetchEvents tries each source in order. The first one whose body extracts to at least one
// event wins and is post-processed: de-duplicated, tier filtered (relaxed when the filter would
// empty the list) and truncated. Every failed attempt leaves a diagnostic line.
func (s *Scraper) FetchEvents(ctx context.Context) Outcome {
	start := time.Now()
	defer func() {
		elapsed := time.Since(start)
		logger.RecordTiming("scrape.total", elapsed)
		metrics.ObservePipeline("scrape", elapsed)
	}()

	out := Outcome{FetchedAt: s.now().UTC()}

	for _, src := range s.sources {
		if err := ctx.Err(); err != nil {
			out.Diagnostics = append(out.Diagnostics, fmt.Sprintf("%s: %v", src.Name, err))
			break
		}

		raw, err := s.fetcher.Fetch(ctx, src)
		if err != nil {
			s.fail(&out, src, "fetch_error", err)
			continue
		}

		events, pattern, err := Extract(raw, src.Kind, src.URL)
		if err != nil {
			s.fail(&out, src, "parse_error", err)
			continue
		}

		events = event.Dedup(events)
		out.Events, out.Relaxed = s.filter.ApplyOrRelax(events, s.max)
		out.Source = src.Name
		out.Pattern = pattern

		metrics.ObserveFetch(src.Name, "ok")
		logger.Info("Extracted events", logger.Fields{
			"source":    src.Name,
			"pattern":   pattern,
			"extracted": len(events),
			"kept":      len(out.Events),
			"relaxed":   out.Relaxed,
		})
		return out
	}

	logger.Warn("No source yielded events", logger.Fields{
		"attempts":    len(s.sources),
		"diagnostics": out.Diagnostics,
	})
	return out
}

func (s *Scraper) fail(out *Outcome, src fetcher.Source, outcome string, err error) {
	out.Diagnostics = append(out.Diagnostics, fmt.Sprintf("%s: %v", src.Name, err))
	metrics.ObserveFetch(src.Name, outcome)
	logger.Debug("Source attempt failed", logger.Fields{
		"source": src.Name,
		"kind":   string(src.Kind),
		"error":  err.Error(),
	})
}
