package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pfrederiksen/bwf-poster/internal/calendar"
	"github.com/pfrederiksen/bwf-poster/internal/event"
	"github.com/pfrederiksen/bwf-poster/internal/poster"
)

func main() {
	// Sample events covering names long enough to wrap
	events := []event.Event{
		event.New("PETRONAS Malaysia Open 2025", "7 - 12 January 2025", "SUPER 1000", "Kuala Lumpur, Malaysia", ""),
		event.New("YONEX-SUNRISE India Open 2025", "14 - 19 January 2025", "Super 750", "New Delhi, India", ""),
		event.New("DAIHATSU Indonesia Masters 2025", "21 - 26 January 2025", "Super 500", "Jakarta, Indonesia", ""),
		event.New("YONEX All England Open Badminton Championships 2025", "11 - 16 March 2025", "Super 1000", "Birmingham, England", ""),
	}
	now := time.Now()

	composer := poster.New(poster.Options{
		BannerPath: "assets/banner.png",
		CornerPath: "assets/qr.png",
		FontPath:   poster.DefaultFontPath,
	})

	png, err := composer.Render(poster.Job{Events: events, GeneratedAt: now})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering poster: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile("sample-poster.png", png, 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile("sample-calendar.ics", []byte(calendar.GenerateICS(events, now)), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	plan := composer.Layout(poster.Job{Events: events, GeneratedAt: now})
	fmt.Printf("✅ Generated sample-poster.png (%d bytes) and sample-calendar.ics\n\n", len(png))
	fmt.Printf("Drawn: %d, dropped: %d, safe area ends at y=%d\n", plan.Drawn, plan.Dropped, plan.SafeTop)
	fmt.Println("Open the PNG to check the layout, or import the .ics into a calendar app.")
}
