// Package config loads process-wide configuration once at startup.
//
// Values come from, in increasing precedence: built-in defaults, an optional YAML file, and
// environment variables. Before reading the environment, .env.local and .env in the working
// directory are loaded with godotenv; they never override variables that are already set.
// The resulting Config is passed by value to constructors and never mutated afterwards.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/bwf-poster/internal/fetcher"
	"github.com/pfrederiksen/bwf-poster/internal/filter"
	"github.com/pfrederiksen/bwf-poster/internal/logger"
	"github.com/pfrederiksen/bwf-poster/internal/storage"
)

// Asset file names inside the assets directory
const (
	BannerFile = "banner.png"
	CornerFile = "qr.png"
)

type Telegram struct {
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

type Server struct {
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

type Poster struct {
	AssetsDir string `yaml:"assets_dir"`
	FontPath  string `yaml:"font_path"`
	Output    string `yaml:"output"`
	Title     string `yaml:"title"`
}

type Scrape struct {
	Year             int              `yaml:"year"`
	ProxyPrefix      string           `yaml:"proxy_prefix"`
	Timeout          time.Duration    `yaml:"timeout"`
	UserAgent        string           `yaml:"user_agent"`
	CloudflareBypass *bool            `yaml:"cloudflare_bypass"`
	MaxEvents        int              `yaml:"max_events"`
	Filter           string           `yaml:"filter"`
	Sources          []fetcher.Source `yaml:"sources"`
}

type Log struct {
	Level string `yaml:"level"`
}

// Config is the full process configuration
type Config struct {
	Telegram      Telegram `yaml:"telegram"`
	SessionSecret string   `yaml:"session_secret"`
	Server        Server   `yaml:"server"`
	Poster        Poster   `yaml:"poster"`
	Scrape        Scrape   `yaml:"scrape"`
	Log           Log      `yaml:"log"`
}

// Load builds the configuration. path names an optional YAML file; an empty path skips it,
// but a named file that does not exist is an error.
func Load(path string) (Config, error) {
	loadDotEnv()

	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return Config{}, fmt.Errorf("parse yaml: %w", err)
		}
	}

	if err := c.applyEnv(); err != nil {
		return Config{}, err
	}
	c.applyDefaults(time.Now())

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// loadDotEnv loads .env.local then .env from the working directory unless BWF_DOTENV is off
func loadDotEnv() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("BWF_DOTENV"))) {
	case "0", "false", "off", "no":
		return
	}

	for _, p := range []string{".env.local", ".env"} {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			logger.Warn("Failed to load env file", logger.Fields{"path": p, "error": err.Error()})
		} else {
			logger.Debug("Loaded env file", logger.Fields{"path": p})
		}
	}
}

func (c *Config) applyEnv() error {
	setString(&c.Telegram.BotToken, "BOT_TOKEN")
	setString(&c.Telegram.ChatID, "CHAT_ID")
	setString(&c.SessionSecret, "SESSION_SECRET")
	setString(&c.Server.Port, "PORT")
	setString(&c.Poster.AssetsDir, "BWF_ASSETS_DIR")
	setString(&c.Poster.FontPath, "BWF_FONT_PATH")
	setString(&c.Poster.Output, "BWF_OUTPUT")
	setString(&c.Scrape.ProxyPrefix, "BWF_PROXY_PREFIX")
	setString(&c.Scrape.Filter, "BWF_FILTER")
	setString(&c.Log.Level, "LOG_LEVEL")

	if v := strings.TrimSpace(os.Getenv("BWF_YEAR")); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse BWF_YEAR: %w", err)
		}
		c.Scrape.Year = year
	}
	if v := strings.TrimSpace(os.Getenv("BWF_CLOUDFLARE_BYPASS")); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse BWF_CLOUDFLARE_BYPASS: %w", err)
		}
		c.Scrape.CloudflareBypass = &on
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = strings.TrimSpace(v)
	}
}

func (c *Config) applyDefaults(now time.Time) {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		// Poster requests fetch, render and upload in one go
		c.Server.WriteTimeout = 3 * time.Minute
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Poster.AssetsDir == "" {
		c.Poster.AssetsDir = "assets"
	}
	if c.Poster.FontPath == "" {
		c.Poster.FontPath = "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"
	}
	if c.Poster.Output == "" {
		c.Poster.Output = storage.DefaultPosterName
	}
	if c.Scrape.Year == 0 {
		c.Scrape.Year = now.Year()
	}
	if c.Scrape.ProxyPrefix == "" {
		c.Scrape.ProxyPrefix = fetcher.DefaultProxyBase
	}
	if c.Scrape.Timeout == 0 {
		c.Scrape.Timeout = fetcher.Timeout
	}
	if c.Scrape.UserAgent == "" {
		c.Scrape.UserAgent = fetcher.UserAgent
	}
	if c.Scrape.CloudflareBypass == nil {
		on := true
		c.Scrape.CloudflareBypass = &on
	}
	if c.Scrape.MaxEvents == 0 {
		c.Scrape.MaxEvents = 8
	}
	if len(c.Scrape.Sources) == 0 {
		c.Scrape.Sources = fetcher.DefaultSources(c.Scrape.Year)
	}
	if c.Log.Level == "" {
		c.Log.Level = string(logger.LevelInfo)
	}
}

// Validate checks values that would otherwise fail deep inside a request
func (c Config) Validate() error {
	if c.Scrape.Year < 2000 || c.Scrape.Year > 2100 {
		return fmt.Errorf("invalid year %d", c.Scrape.Year)
	}
	if c.Scrape.MaxEvents < 1 {
		return fmt.Errorf("max_events must be positive, got %d", c.Scrape.MaxEvents)
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid port %q", c.Server.Port)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := filter.Parse(c.Scrape.Filter); err != nil {
		return fmt.Errorf("invalid filter: %w", err)
	}
	for i, src := range c.Scrape.Sources {
		if src.Name == "" || src.URL == "" {
			return fmt.Errorf("source %d: name and url are required", i)
		}
		switch src.Kind {
		case fetcher.KindHTML, fetcher.KindJSON, fetcher.KindText:
		default:
			return fmt.Errorf("source %s: unknown kind %q", src.Name, src.Kind)
		}
	}
	return nil
}

// Addr returns the listen address for the HTTP server
func (c Config) Addr() string {
	return ":" + c.Server.Port
}

// BannerPath returns the path of the top banner asset
func (c Config) BannerPath() string {
	return filepath.Join(c.Poster.AssetsDir, BannerFile)
}

// CornerPath returns the path of the bottom-right code asset
func (c Config) CornerPath() string {
	return filepath.Join(c.Poster.AssetsDir, CornerFile)
}

// TierFilter returns the parsed event filter
func (c Config) TierFilter() *filter.Filter {
	f, err := filter.Parse(c.Scrape.Filter)
	if err != nil {
		// unreachable for configs returned by Load
		return filter.Default()
	}
	return f
}

// LogLevel returns the parsed log level
func (c Config) LogLevel() logger.Level {
	level, _ := logger.ParseLevel(c.Log.Level)
	return level
}

// TelegramConfigured reports whether both chat credentials are present
func (c Config) TelegramConfigured() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
