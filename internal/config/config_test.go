package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/bwf-poster/internal/fetcher"
	"github.com/pfrederiksen/bwf-poster/internal/logger"
)

var envKeys = []string{
	"BOT_TOKEN", "CHAT_ID", "SESSION_SECRET", "PORT",
	"BWF_ASSETS_DIR", "BWF_FONT_PATH", "BWF_OUTPUT", "BWF_YEAR",
	"BWF_PROXY_PREFIX", "BWF_FILTER", "BWF_CLOUDFLARE_BYPASS", "LOG_LEVEL",
}

// cleanEnv isolates a test from the process environment and any .env in the repo
func cleanEnv(t *testing.T) {
	t.Helper()
	chdir(t, t.TempDir())
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("BWF_DOTENV", "off")
}

func TestLoad_Defaults(t *testing.T) {
	cleanEnv(t)

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c.Addr() != ":8080" {
		t.Errorf("Addr() = %q, want :8080", c.Addr())
	}
	if c.Scrape.Year != time.Now().Year() {
		t.Errorf("Year = %d, want current year", c.Scrape.Year)
	}
	if c.Scrape.MaxEvents != 8 {
		t.Errorf("MaxEvents = %d, want 8", c.Scrape.MaxEvents)
	}
	if c.Scrape.ProxyPrefix != fetcher.DefaultProxyBase {
		t.Errorf("ProxyPrefix = %q", c.Scrape.ProxyPrefix)
	}
	if c.Scrape.CloudflareBypass == nil || !*c.Scrape.CloudflareBypass {
		t.Error("CloudflareBypass should default to on")
	}
	if len(c.Scrape.Sources) != 4 {
		t.Errorf("Sources = %d, want the 4 default sources", len(c.Scrape.Sources))
	}
	if c.Poster.Output != "out_bwf.png" {
		t.Errorf("Output = %q", c.Poster.Output)
	}
	if c.BannerPath() != filepath.Join("assets", "banner.png") || c.CornerPath() != filepath.Join("assets", "qr.png") {
		t.Errorf("asset paths = %q, %q", c.BannerPath(), c.CornerPath())
	}
	if c.TelegramConfigured() {
		t.Error("TelegramConfigured() = true with no credentials")
	}
	if c.LogLevel() != logger.LevelInfo {
		t.Errorf("LogLevel() = %s", c.LogLevel())
	}
	if got := c.TierFilter().Tiers; len(got) != 3 {
		t.Errorf("TierFilter().Tiers = %v, want the default tiers", got)
	}
}

func TestLoad_Env(t *testing.T) {
	cleanEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("CHAT_ID", "-100200")
	t.Setenv("PORT", "9000")
	t.Setenv("BWF_YEAR", "2026")
	t.Setenv("BWF_ASSETS_DIR", "/srv/assets")
	t.Setenv("BWF_CLOUDFLARE_BYPASS", "false")
	t.Setenv("BWF_FILTER", "tier:1000")
	t.Setenv("LOG_LEVEL", "debug")

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !c.TelegramConfigured() {
		t.Error("TelegramConfigured() = false")
	}
	if c.Addr() != ":9000" {
		t.Errorf("Addr() = %q", c.Addr())
	}
	if c.Scrape.Year != 2026 {
		t.Errorf("Year = %d", c.Scrape.Year)
	}
	if q := c.Scrape.Sources[0].Query["cyear"]; q != "2026" {
		t.Errorf("default sources use cyear=%q, want 2026", q)
	}
	if c.BannerPath() != "/srv/assets/banner.png" {
		t.Errorf("BannerPath() = %q", c.BannerPath())
	}
	if *c.Scrape.CloudflareBypass {
		t.Error("CloudflareBypass = true, want false")
	}
	if got := c.TierFilter().Tiers; len(got) != 1 || got[0] != "1000" {
		t.Errorf("TierFilter().Tiers = %v", got)
	}
	if c.LogLevel() != logger.LevelDebug {
		t.Errorf("LogLevel() = %s", c.LogLevel())
	}
}

func TestLoad_YAMLWithEnvOverride(t *testing.T) {
	cleanEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `telegram:
  bot_token: file-token
  chat_id: file-chat
server:
  port: "7000"
poster:
  title: Test Poster
scrape:
  max_events: 5
  timeout: 5s
  sources:
    - name: local
      url: http://localhost:8000/calendar
      kind: html
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CHAT_ID", "env-chat")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c.Telegram.BotToken != "file-token" {
		t.Errorf("BotToken = %q, want file value", c.Telegram.BotToken)
	}
	if c.Telegram.ChatID != "env-chat" {
		t.Errorf("ChatID = %q, want env override", c.Telegram.ChatID)
	}
	if c.Addr() != ":7000" || c.Poster.Title != "Test Poster" {
		t.Errorf("Addr/Title = %q/%q", c.Addr(), c.Poster.Title)
	}
	if c.Scrape.MaxEvents != 5 || c.Scrape.Timeout != 5*time.Second {
		t.Errorf("MaxEvents/Timeout = %d/%s", c.Scrape.MaxEvents, c.Scrape.Timeout)
	}
	if len(c.Scrape.Sources) != 1 || c.Scrape.Sources[0].Kind != fetcher.KindHTML {
		t.Errorf("Sources = %+v", c.Scrape.Sources)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	cleanEnv(t)
	t.Setenv("BWF_DOTENV", "")
	t.Setenv("BOT_TOKEN", "already-set")

	env := "BOT_TOKEN=from-dotenv\nCHAT_ID=from-dotenv\n"
	if err := os.WriteFile(".env", []byte(env), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Telegram.BotToken != "already-set" {
		t.Errorf("BotToken = %q, .env must not override the environment", c.Telegram.BotToken)
	}
	if c.Telegram.ChatID != "from-dotenv" {
		t.Errorf("ChatID = %q, want value from .env", c.Telegram.ChatID)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		yaml    string
		wantErr string
	}{
		{name: "bad year", env: map[string]string{"BWF_YEAR": "soon"}, wantErr: "BWF_YEAR"},
		{name: "year out of range", env: map[string]string{"BWF_YEAR": "1900"}, wantErr: "invalid year"},
		{name: "bad port", env: map[string]string{"PORT": "http"}, wantErr: "invalid port"},
		{name: "bad level", env: map[string]string{"LOG_LEVEL": "loud"}, wantErr: "unknown log level"},
		{name: "bad filter", env: map[string]string{"BWF_FILTER": "colour:red"}, wantErr: "invalid filter"},
		{name: "bad bypass", env: map[string]string{"BWF_CLOUDFLARE_BYPASS": "maybe"}, wantErr: "BWF_CLOUDFLARE_BYPASS"},
		{name: "bad yaml", yaml: "server: [", wantErr: "parse yaml"},
		{name: "bad source kind", yaml: "scrape:\n  sources:\n    - {name: x, url: http://x, kind: xml}\n", wantErr: "unknown kind"},
		{name: "negative max", yaml: "scrape:\n  max_events: -1\n", wantErr: "max_events"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.yaml != "" {
				path = filepath.Join(t.TempDir(), "config.yaml")
				if err := os.WriteFile(path, []byte(tt.yaml), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cleanEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() with a missing file should fail")
	}
}

// chdir changes the working directory for the test and restores it on cleanup
// (equivalent of testing.T.Chdir, which needs Go 1.24)
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir(%q) error = %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("Chdir(%q) error = %v", prev, err)
		}
	})
}
