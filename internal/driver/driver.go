// Package driver runs the poster pipeline behind every externally triggered operation.
//
// Each operation is synchronous and stateless: it calls the scraper, composer, local store
// and notifier in sequence and reports a human-readable Status with an HTTP-like code. Fetch
// and parse failures never fail an operation; an empty calendar still produces the warning
// poster and a degraded status. Only render and delivery failures report 500.
package driver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pfrederiksen/bwf-poster/internal/logger"
	"github.com/pfrederiksen/bwf-poster/internal/metrics"
	"github.com/pfrederiksen/bwf-poster/internal/notifier"
	"github.com/pfrederiksen/bwf-poster/internal/poster"
	"github.com/pfrederiksen/bwf-poster/internal/scraper"
	"github.com/pfrederiksen/bwf-poster/internal/telegram"
)

// Status glyphs
const (
	GlyphSuccess  = "✅"
	GlyphDegraded = "⚠️"
	GlyphFailure  = "❌"
)

// DefaultMessage is sent by SendText when no message is given
const DefaultMessage = "Hello from BadMeet!"

// Status is the outcome of one operation
type Status struct {
	Code int    `json:"code"`
	Text string `json:"text"`
}

// OK reports whether the status is a success code
func (s Status) OK() bool {
	return s.Code >= 200 && s.Code < 300
}

func success(format string, args ...interface{}) Status {
	return Status{Code: http.StatusOK, Text: GlyphSuccess + " " + fmt.Sprintf(format, args...)}
}

func degraded(format string, args ...interface{}) Status {
	return Status{Code: http.StatusOK, Text: GlyphDegraded + " " + fmt.Sprintf(format, args...)}
}

func failure(format string, args ...interface{}) Status {
	return Status{Code: http.StatusInternalServerError, Text: GlyphFailure + " " + fmt.Sprintf(format, args...)}
}

// EventSource produces the extraction outcome for one run
type EventSource interface {
	FetchEvents(ctx context.Context) scraper.Outcome
}

// Renderer turns a job into image bytes
type Renderer interface {
	Render(job poster.Job) ([]byte, error)
}

// Store keeps the last rendered poster on disk
type Store interface {
	WritePoster(name string, data []byte) (string, error)
}

// Options wires a Driver. Notifier and Store may be nil: without a notifier every delivery
// fails with a configuration error, without a store nothing is written locally.
type Options struct {
	Events     EventSource
	Renderer   Renderer
	Notifier   notifier.Notifier
	Store      Store
	OutputName string
	Now        func() time.Time
}

// Driver runs the pipeline operations
type Driver struct {
	events     EventSource
	renderer   Renderer
	notifier   notifier.Notifier
	store      Store
	outputName string
	now        func() time.Time
}

// New creates a Driver
func New(opts Options) *Driver {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Driver{
		events:     opts.Events,
		renderer:   opts.Renderer,
		notifier:   opts.Notifier,
		store:      opts.Store,
		outputName: opts.OutputName,
		now:        opts.Now,
	}
}

// Health reports that the process is up
func (d *Driver) Health() Status {
	return success("BadMeet bot is running")
}

// NotifierConfigured reports whether deliveries can be attempted
func (d *Driver) NotifierConfigured() bool {
	return d.notifier != nil
}

// Events runs extraction only
func (d *Driver) Events(ctx context.Context) scraper.Outcome {
	return d.events.FetchEvents(ctx)
}

// SendText delivers msg, or DefaultMessage when msg is blank
func (d *Driver) SendText(ctx context.Context, msg string) Status {
	if strings.TrimSpace(msg) == "" {
		msg = DefaultMessage
	}

	n, st := d.requireNotifier()
	if n == nil {
		return st
	}

	delivery, err := n.SendText(ctx, msg)
	if err != nil {
		return deliveryFailure("send message", delivery, err)
	}

	logger.IncrCounter("deliveries.text")
	return success("Message sent")
}

// SendDigest fetches the calendar and delivers it as a text list
func (d *Driver) SendDigest(ctx context.Context) Status {
	n, st := d.requireNotifier()
	if n == nil {
		return st
	}

	out := d.events.FetchEvents(ctx)
	delivery, err := n.SendText(ctx, telegram.FormatDigest(out.Events, d.now()))
	if err != nil {
		return deliveryFailure("send digest", delivery, err)
	}

	logger.IncrCounter("deliveries.digest")
	if !out.Found() {
		return degraded("No events found; warning message sent%s", diagnostics(out))
	}
	return success("Digest sent with %d event%s", len(out.Events), plural(len(out.Events)))
}

// RenderPoster fetches and renders without delivering. The poster is also written to the
// local store when one is configured.
func (d *Driver) RenderPoster(ctx context.Context) ([]byte, scraper.Outcome, Status) {
	start := time.Now()
	defer func() { metrics.ObservePipeline("render", time.Since(start)) }()

	out := d.events.FetchEvents(ctx)
	png, err := d.render(out)
	if err != nil {
		return nil, out, failure("Failed to render poster: %v", err)
	}

	if !out.Found() {
		return png, out, degraded("No events found; rendered the warning poster%s", diagnostics(out))
	}
	return png, out, success("Rendered poster with %d event%s", len(out.Events), plural(len(out.Events)))
}

// SendPoster fetches, renders, saves and delivers the poster. An empty calendar still
// delivers the warning poster and reports a degraded success.
func (d *Driver) SendPoster(ctx context.Context) Status {
	start := time.Now()
	defer func() { metrics.ObservePipeline("poster", time.Since(start)) }()

	n, st := d.requireNotifier()
	if n == nil {
		return st
	}

	out := d.events.FetchEvents(ctx)
	png, err := d.render(out)
	if err != nil {
		return failure("Failed to render poster: %v", err)
	}

	delivery, err := n.SendPhoto(ctx, png, telegram.FormatCaption(out))
	if err != nil {
		return deliveryFailure("send poster", delivery, err)
	}

	logger.IncrCounter("deliveries.poster")
	metrics.MarkSuccess("poster")
	logger.Info("Poster delivered", logger.Fields{
		"events":  len(out.Events),
		"source":  out.Source,
		"relaxed": out.Relaxed,
	})

	if !out.Found() {
		return degraded("No events found; warning poster sent%s", diagnostics(out))
	}
	return success("Poster sent with %d event%s from %s", len(out.Events), plural(len(out.Events)), out.Source)
}

// render composes the poster for an outcome and stores a local copy
func (d *Driver) render(out scraper.Outcome) ([]byte, error) {
	generatedAt := out.FetchedAt
	if generatedAt.IsZero() {
		generatedAt = d.now()
	}

	png, err := d.renderer.Render(poster.Job{Events: out.Events, GeneratedAt: generatedAt})
	if err != nil {
		logger.Error("Poster render failed", nil, err)
		return nil, err
	}
	metrics.SetPosterEvents(len(out.Events))

	if d.store != nil {
		path, err := d.store.WritePoster(d.outputName, png)
		if err != nil {
			// A local copy is for inspection only
			logger.Warn("Failed to save poster locally", logger.Fields{"error": err.Error()})
		} else {
			logger.Debug("Saved poster", logger.Fields{"path": path})
		}
	}
	return png, nil
}

func (d *Driver) requireNotifier() (notifier.Notifier, Status) {
	if d.notifier == nil {
		return nil, failure("%v: set BOT_TOKEN and CHAT_ID", telegram.ErrNotConfigured)
	}
	return d.notifier, Status{}
}

func deliveryFailure(action string, delivery *notifier.Delivery, err error) Status {
	logger.Error("Delivery failed", logger.Fields{"action": action}, err)

	if errors.Is(err, telegram.ErrNotConfigured) {
		return failure("%v: %v", telegram.ErrNotConfigured, err)
	}

	st := failure("Failed to %s: %v", action, err)
	if delivery != nil && delivery.RawResponse != "" && !strings.Contains(st.Text, delivery.RawResponse) {
		st.Text += "\n" + delivery.RawResponse
	}
	return st
}

func diagnostics(out scraper.Outcome) string {
	if len(out.Diagnostics) == 0 {
		return ""
	}
	return "\n" + strings.Join(out.Diagnostics, "\n")
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
