package cli

import (
	"fmt"
	"io"

	"github.com/pfrederiksen/bwf-poster/internal/config"
	"github.com/pfrederiksen/bwf-poster/internal/driver"
	"github.com/pfrederiksen/bwf-poster/internal/fetcher"
	"github.com/pfrederiksen/bwf-poster/internal/notifier"
	"github.com/pfrederiksen/bwf-poster/internal/poster"
	"github.com/pfrederiksen/bwf-poster/internal/scraper"
	"github.com/pfrederiksen/bwf-poster/internal/storage"
	"github.com/pfrederiksen/bwf-poster/internal/telegram"
)

// appOptions changes how the driver is wired for one command
type appOptions struct {
	// OutputPath overrides the configured poster file
	OutputPath string
	// DryRun prints deliveries to Out instead of contacting Telegram
	DryRun bool
	Out    io.Writer
}

// newScraper builds the candidate-source scraper from configuration
func newScraper(cfg config.Config) *scraper.Scraper {
	f := fetcher.New(fetcher.Options{
		Timeout:          cfg.Scrape.Timeout,
		UserAgent:        cfg.Scrape.UserAgent,
		ProxyBase:        cfg.Scrape.ProxyPrefix,
		CloudflareBypass: cfg.Scrape.CloudflareBypass != nil && *cfg.Scrape.CloudflareBypass,
	})
	return scraper.New(f, cfg.Scrape.Sources, cfg.TierFilter(), cfg.Scrape.MaxEvents)
}

// newDriver wires every pipeline component from configuration
func newDriver(cfg config.Config, opts appOptions) (*driver.Driver, error) {
	output := cfg.Poster.Output
	if opts.OutputPath != "" {
		output = opts.OutputPath
	}

	store, name, err := storage.ForFile(output)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	composer := poster.New(poster.Options{
		BannerPath: cfg.BannerPath(),
		CornerPath: cfg.CornerPath(),
		FontPath:   cfg.Poster.FontPath,
		Title:      cfg.Poster.Title,
	})

	var n notifier.Notifier
	switch {
	case opts.DryRun:
		// The driver already saves the rendered poster
		n = notifier.NewDryRunNotifier(opts.Out, nil, "")
	case cfg.TelegramConfigured():
		client, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			return nil, fmt.Errorf("initializing telegram: %w", err)
		}
		n = client
	}

	return driver.New(driver.Options{
		Events:     newScraper(cfg),
		Renderer:   composer,
		Notifier:   n,
		Store:      store,
		OutputName: name,
	}), nil
}
