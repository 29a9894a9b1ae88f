// Package cli implements the command-line interface for bwf-poster.
//
// The cli package provides the Cobra-based CLI: serving the HTTP endpoints, sending a text
// message, rendering and delivering the calendar poster, and listing the extracted events
// (text/JSON/iCalendar/table, sorted by date, name or tier). It loads configuration once and
// wires the fetcher, scraper, composer, storage and notifier into a driver.
package cli
