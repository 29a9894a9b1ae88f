package fetcher

import (
	"context"
	"fmt"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"

	"github.com/pfrederiksen/bwf-poster/internal/logger"
)

const (
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	Timeout   = 30 * time.Second
)

// Options configures a Fetcher. Zero values fall back to the package defaults.
type Options struct {
	Timeout          time.Duration
	UserAgent        string
	ProxyBase        string
	CloudflareBypass bool
}

// Fetcher performs single-shot GET requests against candidate sources
type Fetcher struct {
	client    *resty.Client
	proxyBase string
}

// New creates a new Fetcher
func New(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = Timeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = UserAgent
	}
	if opts.ProxyBase == "" {
		opts.ProxyBase = DefaultProxyBase
	}

	client := resty.New()
	client.SetTimeout(opts.Timeout)
	client.SetRetryCount(0)
	client.SetHeader("User-Agent", opts.UserAgent)
	client.SetHeader("Accept-Language", "en-US,en;q=0.9")
	client.SetLogger(restyLogger{})
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	return &Fetcher{
		client:    client,
		proxyBase: opts.ProxyBase,
	}
}

// Fetch retrieves the raw body of a source. Any transport failure or non-2xx status
// is returned as a *FetchError; callers should move on to the next source.
func (f *Fetcher) Fetch(ctx context.Context, src Source) (string, error) {
	target := src.TargetURL()
	if src.ViaProxy {
		target = ProxyURL(f.proxyBase, target)
	}

	start := time.Now()
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", accept(src.Kind)).
		Get(target)
	logger.RecordTiming("fetch."+src.Name, time.Since(start))
	if err != nil {
		return "", &FetchError{URL: target, Err: err}
	}

	if !resp.IsSuccess() {
		return "", &FetchError{URL: target, StatusCode: resp.StatusCode()}
	}

	logger.Debug("Fetched source", logger.Fields{
		"source": src.Name,
		"url":    target,
		"status": resp.StatusCode(),
		"bytes":  len(resp.Body()),
	})

	return string(resp.Body()), nil
}

func accept(kind Kind) string {
	switch kind {
	case KindJSON:
		return "application/json"
	case KindText:
		return "text/plain, text/markdown;q=0.9, */*;q=0.5"
	default:
		return "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8"
	}
}

// restyLogger routes resty's internal messages into the structured logger
type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...interface{}) {
	logger.Debug("resty error", logger.Fields{"detail": fmt.Sprintf(format, v...)})
}

func (restyLogger) Warnf(format string, v ...interface{}) {
	logger.Debug("resty warning", logger.Fields{"detail": fmt.Sprintf(format, v...)})
}

func (restyLogger) Debugf(format string, v ...interface{}) {
	logger.Debug("resty debug", logger.Fields{"detail": fmt.Sprintf(format, v...)})
}
