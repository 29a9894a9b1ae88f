package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/bwf-poster/internal/event"
	"github.com/pfrederiksen/bwf-poster/internal/scraper"
)

// Bot API limits, in characters
const (
	MaxCaptionLength = 1024
	MaxMessageLength = 4096
)

// CaptionTitle heads every poster caption
const CaptionTitle = "BWF World Tour latest schedule (Super 1000/750/500)"

const signature = "Auto-generated · BadMeet"

// FormatCaption builds the caption sent with a poster
func FormatCaption(o scraper.Outcome) string {
	var msg strings.Builder

	msg.WriteString(CaptionTitle)
	msg.WriteString("\n")

	switch {
	case !o.Found():
		msg.WriteString("⚠️ No events could be read from the calendar this time.\n")
	case o.Relaxed:
		msg.WriteString(fmt.Sprintf("ℹ️ No Super 1000/750/500 events listed, showing %d other event%s.\n", len(o.Events), pluralize(len(o.Events))))
	default:
		msg.WriteString(fmt.Sprintf("🏸 %d upcoming event%s\n", len(o.Events), pluralize(len(o.Events))))
	}

	msg.WriteString(signature)
	return truncate(msg.String(), MaxCaptionLength)
}

// FormatDigest formats events as a plain text list message
func FormatDigest(events []event.Event, at time.Time) string {
	if len(events) == 0 {
		return "⚠️ No BWF World Tour events could be read right now. Try again later."
	}

	var msg strings.Builder
	msg.WriteString("🏸 BWF World Tour calendar\n")
	msg.WriteString(fmt.Sprintf("🗓 Updated %s • %d event%s\n\n", at.Format("2006-01-02 15:04"), len(events), pluralize(len(events))))

	for i, evt := range events {
		msg.WriteString(fmt.Sprintf("%d. %s\n", i+1, evt.Name))
		if meta := evt.Meta(); len(meta) > 0 {
			msg.WriteString("   " + strings.Join(meta, " • ") + "\n")
		}
		if evt.Link != "" {
			msg.WriteString("   " + evt.Link + "\n")
		}
	}

	msg.WriteString("\n" + signature)
	return truncate(msg.String(), MaxMessageLength)
}

// truncate cuts s to at most max characters, marking the cut with an ellipsis
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// pluralize returns "s" if count != 1, empty string otherwise
func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
