package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/bwf-poster/internal/config"
	"github.com/pfrederiksen/bwf-poster/internal/driver"
	"github.com/pfrederiksen/bwf-poster/internal/event"
	"github.com/pfrederiksen/bwf-poster/internal/logger"
	"github.com/pfrederiksen/bwf-poster/internal/server"
)

const (
	ExitSuccess  = 0
	ExitError    = 1
	ExitDegraded = 2
)

// errDegraded marks a run that completed without any events
var errDegraded = errors.New("no events found")

var (
	flagConfig   string
	flagVerbose  bool
	flagAddr     string
	flagMsg      string
	flagOut      string
	flagNoSend   bool
	flagDryRun   bool
	flagFormat   string
	flagSort     string
	flagHidePast bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bwf-poster",
		Short: "Render the BWF World Tour calendar as a poster and post it to Telegram",
		Long: `A bot that fetches the BWF World Tour calendar, extracts the upcoming
Super 1000/750/500 events, renders them onto a 1080x1350 poster and delivers it
to a Telegram chat. Run "serve" to expose the same operations over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagVerbose {
				logger.SetDefault(logger.New(logger.LevelDebug, cmd.ErrOrStderr()))
			}
		},
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config file (optional)")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(newServeCmd(), newSendCmd(), newDigestCmd(), newPosterCmd(), newEventsCmd())
	return cmd
}

// loadConfig loads configuration and applies its log level unless --verbose is set
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	if !flagVerbose {
		logger.SetDefault(logger.New(cfg.LogLevel(), cmd.ErrOrStderr()))
	}
	return cfg, nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the bot endpoints over HTTP",
		RunE:  runServe,
	}
	cmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default :$PORT)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	d, err := newDriver(cfg, appOptions{Out: cmd.OutOrStdout()})
	if err != nil {
		return err
	}

	addr := cfg.Addr()
	if flagAddr != "" {
		addr = flagAddr
	}
	if !cfg.TelegramConfigured() {
		logger.Warn("BOT_TOKEN or CHAT_ID missing; deliveries will fail", nil)
	}

	srv := server.New(d, server.Options{
		Addr:         addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newSendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a text message to the configured chat",
		RunE:  runSend,
	}
	cmd.Flags().StringVar(&flagMsg, "msg", driver.DefaultMessage, "Message text")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the message without sending")
	return cmd
}

func runSend(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	d, err := newDriver(cfg, appOptions{DryRun: flagDryRun, Out: cmd.OutOrStdout()})
	if err != nil {
		return err
	}
	return report(cmd.OutOrStdout(), d.SendText(cmd.Context(), flagMsg))
}

func newDigestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Send the event list as a text message",
		RunE:  runDigest,
	}
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the message without sending")
	return cmd
}

func runDigest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	d, err := newDriver(cfg, appOptions{DryRun: flagDryRun, Out: cmd.OutOrStdout()})
	if err != nil {
		return err
	}
	return report(cmd.OutOrStdout(), d.SendDigest(cmd.Context()))
}

func newPosterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poster",
		Short: "Render the calendar poster and send it to the configured chat",
		RunE:  runPoster,
	}
	cmd.Flags().StringVar(&flagOut, "out", "", "Poster output file (default from config)")
	cmd.Flags().BoolVar(&flagNoSend, "no-send", false, "Render and save the poster without sending it")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the caption instead of sending")
	return cmd
}

func runPoster(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	d, err := newDriver(cfg, appOptions{OutputPath: flagOut, DryRun: flagDryRun, Out: cmd.OutOrStdout()})
	if err != nil {
		return err
	}

	if flagNoSend {
		_, _, st := d.RenderPoster(cmd.Context())
		return report(cmd.OutOrStdout(), st)
	}
	return report(cmd.OutOrStdout(), d.SendPoster(cmd.Context()))
}

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List the events extracted from the calendar",
		RunE:  runEvents,
	}
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text, json, ics or table")
	cmd.Flags().StringVar(&flagSort, "sort", "source", "Sort order: source, date, name or tier")
	cmd.Flags().BoolVar(&flagHidePast, "hide-past", false, "Hide events that have already finished")
	return cmd
}

func runEvents(cmd *cobra.Command, args []string) error {
	// Validate flags before any network I/O
	format, ok := parseFormat(flagFormat)
	if !ok {
		return fmt.Errorf("invalid format: %s (must be 'text', 'json', 'ics' or 'table')", flagFormat)
	}
	order, ok := parseSortOrder(flagSort)
	if !ok {
		return fmt.Errorf("invalid sort: %s (must be 'source', 'date', 'name' or 'tier')", flagSort)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	out := newScraper(cfg).FetchEvents(cmd.Context())

	events := append([]event.Event(nil), out.Events...)
	if flagHidePast {
		kept := events[:0]
		for _, evt := range events {
			if !evt.IsPast(now) {
				kept = append(kept, evt)
			}
		}
		events = kept
	}
	sortEvents(events, order)

	result := &OutputResult{
		CheckedAt:   now,
		Source:      out.Source,
		Pattern:     out.Pattern,
		Relaxed:     out.Relaxed,
		Events:      events,
		EventCount:  len(events),
		Diagnostics: out.Diagnostics,
	}
	if err := WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if !out.Found() {
		return errDegraded
	}
	return nil
}

// report prints a driver status and maps it onto the exit code convention
func report(w io.Writer, st driver.Status) error {
	fmt.Fprintln(w, st.Text)
	switch {
	case !st.OK():
		return errors.New("operation failed")
	case strings.HasPrefix(st.Text, driver.GlyphDegraded):
		return errDegraded
	}
	return nil
}

// Execute runs the CLI
func Execute() {
	err := NewRootCmd().Execute()
	switch {
	case err == nil:
		os.Exit(ExitSuccess)
	case errors.Is(err, errDegraded):
		os.Exit(ExitDegraded)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
