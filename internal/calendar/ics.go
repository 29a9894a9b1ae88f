// Package calendar exports extracted tournaments as an iCalendar feed.
package calendar

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/bwf-poster/internal/event"
)

const prodID = "-//BadMeet//bwf-poster//EN"

// GenerateICS generates an iCalendar (.ics) document with one all-day VEVENT per event whose
// dates can be parsed. Events with unparseable dates are skipped. stamp is written as DTSTAMP,
// so a fixed stamp gives byte-identical output.
func GenerateICS(events []event.Event, stamp time.Time) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:" + prodID + "\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	writeLine(&ics, "X-WR-CALNAME:"+escapeICS("BWF World Tour"))

	for _, evt := range events {
		start, end := event.ParseDateRange(evt.Dates)
		if start.IsZero() {
			continue
		}

		ics.WriteString("BEGIN:VEVENT\r\n")
		writeLine(&ics, fmt.Sprintf("UID:%s@bwf-poster", uid(evt)))
		ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICSTime(stamp)))

		// All-day events: DTEND is exclusive
		ics.WriteString(fmt.Sprintf("DTSTART;VALUE=DATE:%s\r\n", formatICSDate(start)))
		ics.WriteString(fmt.Sprintf("DTEND;VALUE=DATE:%s\r\n", formatICSDate(end.AddDate(0, 0, 1))))

		summary := evt.Name
		if evt.Level != "" {
			summary = fmt.Sprintf("%s (%s)", evt.Name, evt.Level)
		}
		writeLine(&ics, "SUMMARY:"+escapeICS(summary))

		description := strings.Join(evt.Meta(), " • ")
		if description != "" {
			writeLine(&ics, "DESCRIPTION:"+escapeICS(description))
		}
		if evt.Location != "" {
			writeLine(&ics, "LOCATION:"+escapeICS(evt.Location))
		}
		if evt.Link != "" {
			writeLine(&ics, "URL:"+evt.Link)
		}

		ics.WriteString("STATUS:CONFIRMED\r\n")
		ics.WriteString("TRANSP:TRANSPARENT\r\n")
		ics.WriteString("END:VEVENT\r\n")
	}

	ics.WriteString("END:VCALENDAR\r\n")

	return ics.String()
}

// uid derives a stable identifier from the de-duplication key
func uid(evt event.Event) string {
	k := evt.Key()
	sum := sha1.Sum([]byte(k.Name + "\x00" + k.Dates + "\x00" + k.Level))
	return hex.EncodeToString(sum[:8])
}

// writeLine writes a content line folded at 75 octets, continuation lines starting with a space
func writeLine(b *strings.Builder, line string) {
	limit := 75
	for len(line) > limit {
		cut := limit
		// Never split a UTF-8 sequence
		for cut > 0 && line[cut]&0xC0 == 0x80 {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		limit = 74
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func formatICSDate(t time.Time) string {
	return t.Format("20060102")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
