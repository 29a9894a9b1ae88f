package poster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/webp"

	"github.com/pfrederiksen/bwf-poster/internal/event"
	"github.com/pfrederiksen/bwf-poster/internal/logger"
)

// Canvas size of every poster
const (
	Width  = 1080
	Height = 1350
)

const (
	DefaultTitle      = "BWF World Tour Calendar"
	DefaultFontPath   = "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"
	DefaultCornerSize = 260
)

// Job is one render request
type Job struct {
	Events      []event.Event
	GeneratedAt time.Time
}

// Options configures a Composer. Zero values take the defaults.
type Options struct {
	BannerPath string
	CornerPath string
	FontPath   string
	Title      string
	CornerSize int
	TitleSize  int
	SubSize    int
	BodySize   int
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.CornerSize <= 0 {
		o.CornerSize = DefaultCornerSize
	}
	if o.TitleSize <= 0 {
		o.TitleSize = 56
	}
	if o.SubSize <= 0 {
		o.SubSize = 30
	}
	if o.BodySize <= 0 {
		o.BodySize = 34
	}
	return o
}

// Composer lays out and renders posters. Assets are loaded once in New; a Composer is safe
// for concurrent use because font faces are created per render.
type Composer struct {
	opts   Options
	banner image.Image
	corner image.Image
	font   *opentype.Font
}

// New creates a Composer and loads its assets. Missing files are skipped silently; files that
// exist but cannot be decoded are logged and skipped.
func New(opts Options) *Composer {
	opts = opts.withDefaults()
	c := &Composer{opts: opts}

	c.banner = loadAsset("banner", opts.BannerPath)
	c.corner = loadAsset("corner", opts.CornerPath)

	if opts.FontPath != "" {
		f, err := loadFont(opts.FontPath)
		switch {
		case err == nil:
			c.font = f
		case errors.Is(err, fs.ErrNotExist):
			logger.Debug("Font not found, using built-in face", logger.Fields{"path": opts.FontPath})
		default:
			logger.Warn("Font unusable, using built-in face", logger.Fields{"error": err.Error()})
		}
	}

	return c
}

// HasBanner reports whether a banner asset was loaded
func (c *Composer) HasBanner() bool { return c.banner != nil }

// HasCorner reports whether a corner asset was loaded
func (c *Composer) HasCorner() bool { return c.corner != nil }

// HasFont reports whether the truetype font was loaded
func (c *Composer) HasFont() bool { return c.font != nil }

func loadAsset(name, path string) image.Image {
	if path == "" {
		return nil
	}

	img, err := decodeImage(path)
	if err == nil {
		return img
	}

	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("Asset not found, skipping", logger.Fields{"asset": name, "path": path})
		return nil
	}

	rerr := &RenderError{Op: name, Path: path, Err: err}
	logger.Warn("Asset unusable, skipping", logger.Fields{"asset": name, "error": rerr.Error()})
	return nil
}

// decodeImage reads a PNG, JPEG or WebP file
func decodeImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err == nil {
		return img, nil
	}
	if errors.Is(err, image.ErrFormat) {
		if wimg, werr := webp.Decode(bytes.NewReader(data)); werr == nil {
			return wimg, nil
		}
	}
	return nil, fmt.Errorf("decoding image: %w", err)
}

func loadFont(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &RenderError{Op: "font", Path: path, Err: err}
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, &RenderError{Op: "font", Path: path, Err: err}
	}
	return f, nil
}

// faces holds one face per text role
type faces struct {
	title, sub, body font.Face
}

func (f faces) forRole(r Role) font.Face {
	switch r {
	case RoleTitle:
		return f.title
	case RoleBody, RoleWarning:
		return f.body
	default:
		return f.sub
	}
}

func (f faces) close() {
	for _, face := range []font.Face{f.title, f.sub, f.body} {
		if face != nil && face != basicfont.Face7x13 {
			_ = face.Close()
		}
	}
}

// newFaces builds the sized faces for one render. Any failure falls back to the built-in
// face for every role so metrics stay consistent within a poster.
func (c *Composer) newFaces() faces {
	fallback := faces{title: basicfont.Face7x13, sub: basicfont.Face7x13, body: basicfont.Face7x13}
	if c.font == nil {
		return fallback
	}

	var out faces
	for _, role := range []struct {
		size int
		dst  *font.Face
	}{
		{c.opts.TitleSize, &out.title},
		{c.opts.SubSize, &out.sub},
		{c.opts.BodySize, &out.body},
	} {
		face, err := opentype.NewFace(c.font, &opentype.FaceOptions{
			Size:    float64(role.size),
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			logger.Warn("Font face unusable, using built-in face", logger.Fields{
				"size":  role.size,
				"error": err.Error(),
			})
			out.close()
			return fallback
		}
		*role.dst = face
	}
	return out
}
