package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pfrederiksen/bwf-poster/internal/calendar"
	"github.com/pfrederiksen/bwf-poster/internal/event"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatJSON  OutputFormat = "json"
	FormatICS   OutputFormat = "ics"
	FormatTable OutputFormat = "table"
)

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt   time.Time     `json:"checked_at"`
	Source      string        `json:"source,omitempty"`
	Pattern     string        `json:"pattern,omitempty"`
	Relaxed     bool          `json:"relaxed,omitempty"`
	Events      []event.Event `json:"events"`
	EventCount  int           `json:"event_count"`
	Diagnostics []string      `json:"diagnostics,omitempty"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	case FormatICS:
		_, err := io.WriteString(w, calendar.GenerateICS(result.Events, result.CheckedAt))
		return err
	case FormatTable:
		return writeTable(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func parseFormat(s string) (OutputFormat, bool) {
	switch format := OutputFormat(strings.ToLower(strings.TrimSpace(s))); format {
	case FormatText, FormatJSON, FormatICS, FormatTable:
		return format, true
	default:
		return "", false
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.EventCount == 0 {
		fmt.Fprintln(w, "No events found.")
		for _, d := range result.Diagnostics {
			fmt.Fprintf(w, "  %s\n", d)
		}
		return nil
	}

	for i, evt := range result.Events {
		fmt.Fprintf(w, "%d. %s\n", i+1, evt.Name)
		if meta := evt.Meta(); len(meta) > 0 {
			fmt.Fprintf(w, "   %s\n", strings.Join(meta, " • "))
		}
		if verbose && evt.Link != "" {
			fmt.Fprintf(w, "   Link: %s\n", evt.Link)
		}
	}

	fmt.Fprintf(w, "\nTotal: %d events from %s\n", result.EventCount, result.Source)
	if result.Relaxed {
		fmt.Fprintln(w, "(no Super 1000/750/500 events listed; showing all levels)")
	}
	if verbose {
		fmt.Fprintf(w, "Pattern: %s\n", result.Pattern)
		for _, d := range result.Diagnostics {
			fmt.Fprintf(w, "Skipped: %s\n", d)
		}
	}

	return nil
}

// writeTable outputs results as a bordered table
func writeTable(w io.Writer, result *OutputResult) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Name", "Level", "Dates", "Location"})

	for i, evt := range result.Events {
		t.AppendRow(table.Row{i + 1, evt.Name, evt.Level, evt.Dates, evt.Location})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d events", result.EventCount)})

	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}
