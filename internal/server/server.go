// Package server exposes the driver operations over HTTP.
package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/pfrederiksen/bwf-poster/internal/calendar"
	"github.com/pfrederiksen/bwf-poster/internal/driver"
	"github.com/pfrederiksen/bwf-poster/internal/logger"
	"github.com/pfrederiksen/bwf-poster/internal/metrics"
	"github.com/pfrederiksen/bwf-poster/internal/scraper"
)

// Operations is the driver surface the server needs
type Operations interface {
	Health() driver.Status
	NotifierConfigured() bool
	SendText(ctx context.Context, msg string) driver.Status
	SendPoster(ctx context.Context) driver.Status
	SendDigest(ctx context.Context) driver.Status
	RenderPoster(ctx context.Context) ([]byte, scraper.Outcome, driver.Status)
	Events(ctx context.Context) scraper.Outcome
}

// Options holds the HTTP server settings
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Server serves the driver endpoints
type Server struct {
	ops    Operations
	mux    *http.ServeMux
	server *http.Server
	now    func() time.Time
}

// New creates a Server with every route registered
func New(ops Operations, opts Options) *Server {
	s := &Server{
		ops: ops,
		mux: http.NewServeMux(),
		now: time.Now,
	}

	s.route("/", s.handleRoot)
	s.route("/health", s.handleHealth)
	s.route("/send", s.handleSend)
	s.route("/send-poster", s.handleSendPoster)
	s.route("/digest", s.handleDigest)
	s.route("/bwf", s.handlePage)
	s.route("/poster.png", s.handlePoster)
	s.route("/events", s.handleEvents)
	s.mux.Handle("/metrics", metrics.Handler())

	s.server = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.mux,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		IdleTimeout:  opts.IdleTimeout,
	}
	return s
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler { return s.mux }

// Serve listens on the configured address until Shutdown
func (s *Server) Serve() error {
	logger.Info("Listening", logger.Fields{"addr": s.server.Addr})
	return s.server.ListenAndServe()
}

// ServeListener serves on an existing listener
func (s *Server) ServeListener(l net.Listener) error {
	return s.server.Serve(l)
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error { return s.server.Shutdown(ctx) }

func (s *Server) route(pattern string, h http.HandlerFunc) {
	s.mux.Handle(pattern, instrument(pattern, h))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeStatus(w, s.ops.Health())
}

type healthResponse struct {
	OK                 bool                   `json:"ok"`
	Time               string                 `json:"time"`
	TelegramConfigured bool                   `json:"telegram_configured"`
	Metrics            map[string]interface{} `json:"metrics"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		OK:                 true,
		Time:               s.now().UTC().Format(time.RFC3339),
		TelegramConfigured: s.ops.NotifierConfigured(),
		Metrics:            logger.GetMetricsSnapshot(),
	})
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, s.ops.SendText(r.Context(), r.URL.Query().Get("msg")))
}

func (s *Server) handleSendPoster(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, s.ops.SendPoster(r.Context()))
}

func (s *Server) handleDigest(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, s.ops.SendDigest(r.Context()))
}

func (s *Server) handlePoster(w http.ResponseWriter, r *http.Request) {
	png, _, st := s.ops.RenderPoster(r.Context())
	if !st.OK() {
		writeStatus(w, st)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	out := s.ops.Events(r.Context())

	switch r.URL.Query().Get("format") {
	case "", "json":
		writeJSON(w, http.StatusOK, out)
	case "ics":
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="bwf-calendar.ics"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(calendar.GenerateICS(out.Events, s.now())))
	default:
		http.Error(w, "unsupported format", http.StatusBadRequest)
	}
}

var pageTemplate = template.Must(template.New("bwf").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>BWF World Tour Calendar</title>
</head>
<body>
<h1>BWF World Tour Calendar</h1>
{{if .Events}}<ol>
{{range .Events}}<li>{{if .Link}}<a href="{{.Link}}">{{.Name}}</a>{{else}}{{.Name}}{{end}}{{with .Meta}}<br><small>{{range $i, $m := .}}{{if $i}} • {{end}}{{$m}}{{end}}</small>{{end}}</li>
{{end}}</ol>
{{if .Relaxed}}<p>No Super 1000/750/500 events listed; showing other events.</p>{{end}}
<p>Source: {{.Source}}</p>
{{else}}<p>⚠️ No events could be read from the calendar.</p>
{{range .Diagnostics}}<pre>{{.}}</pre>
{{end}}{{end}}{{with .Image}}<img src="{{.}}" alt="poster" width="540">{{end}}
</body>
</html>
`))

type pageData struct {
	scraper.Outcome
	Image template.URL
}

// handlePage lists the events and embeds the poster rendered from the same fetch
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	png, out, st := s.ops.RenderPoster(r.Context())

	data := pageData{Outcome: out}
	if st.OK() && len(png) > 0 {
		data.Image = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
	} else {
		logger.Warn("Page rendered without poster", logger.Fields{"status": st.Text})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := pageTemplate.Execute(w, data); err != nil {
		logger.Error("Failed to render page", nil, err)
	}
}

func writeStatus(w http.ResponseWriter, st driver.Status) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(st.Code)
	_, _ = fmt.Fprintln(w, st.Text)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logger.Error("Failed to encode response", nil, err)
	}
}
