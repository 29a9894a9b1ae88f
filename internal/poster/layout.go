package poster

import (
	"image"
	"image/color"
	"strings"

	"github.com/pfrederiksen/bwf-poster/internal/event"
)

// Role selects the face and colour of a text line
type Role int

const (
	RoleTitle Role = iota
	RoleSub
	RoleBody
	RoleMeta
	RoleWarning
	RoleHint
)

const (
	margin       = 36
	cornerMargin = 32
	cornerGap    = 24
	noBannerTop  = 40
	bannerGap    = 24
	reservedTail = 340
	titleAdvance = 66
	headerGap    = 44
	lineGap      = 16
	blockGap     = 26
	nameWidth    = 28
	titleWidth   = 26
	warningWidth = 40
	metaSep      = " • "
)

var (
	colorBackground = color.RGBA{18, 20, 24, 255}
	colorBar        = color.RGBA{75, 150, 255, 255}
	roleColors      = map[Role]color.RGBA{
		RoleTitle:   {255, 255, 255, 255},
		RoleSub:     {160, 170, 180, 255},
		RoleBody:    {240, 240, 240, 255},
		RoleMeta:    {180, 190, 200, 255},
		RoleWarning: {240, 200, 80, 255},
		RoleHint:    {180, 180, 180, 255},
	}
)

// Warning text drawn when there are no events
const (
	WarningText = "No BWF World Tour events could be read from the calendar right now."
	RetryHint   = "The site may be blocking requests. Try again in a few minutes."
)

// TextLine is one line of text positioned by its top edge
type TextLine struct {
	Text string
	X, Y int
	Size int
	Role Role
}

// Bottom returns the lower bound of the line's nominal box
func (l TextLine) Bottom() int {
	return l.Y + l.Size
}

// Plan is the full placement of a poster
type Plan struct {
	Banner  image.Rectangle
	Corner  image.Rectangle
	SafeTop int
	Header  []TextLine
	Bars    []image.Rectangle
	Lines   []TextLine
	Drawn   int
	Dropped int
}

// Layout places every element of the poster for job. It is pure: the same job and
// assets always produce the same Plan.
func (c *Composer) Layout(job Job) Plan {
	var p Plan

	right := Width - margin
	p.SafeTop = Height - reservedTail
	if c.corner != nil {
		size := c.opts.CornerSize
		x := Width - size - cornerMargin
		y := Height - size - cornerMargin
		p.Corner = image.Rect(x, y, x+size, y+size)
		p.SafeTop = min(p.SafeTop, y)
		right = min(right, x-cornerGap)
	}

	title := Wrap(c.opts.Title, titleWidth)

	top := noBannerTop
	if c.banner != nil {
		// The header and the full warning must always fit between the banner and the safe area
		maxHeight := p.SafeTop - bannerGap - len(title)*titleAdvance - headerGap - c.warningHeight()
		p.Banner = bannerRect(c.banner.Bounds(), maxHeight)
		if !p.Banner.Empty() {
			top = p.Banner.Max.Y + bannerGap
		}
	}

	y := top
	for _, line := range title {
		p.Header = append(p.Header, TextLine{Text: line, X: margin, Y: y, Size: c.opts.TitleSize, Role: RoleTitle})
		y += titleAdvance
	}
	p.Header = append(p.Header, TextLine{
		Text: "Updated: " + job.GeneratedAt.Format("2006-01-02 15:04"),
		X:    margin,
		Y:    y,
		Size: c.opts.SubSize,
		Role: RoleSub,
	})
	cursor := y + headerGap

	if len(job.Events) == 0 {
		c.layoutWarning(&p, cursor)
		return p
	}

	for i, evt := range job.Events {
		block := c.block(evt, cursor)
		end := cursor + c.blockHeight(block)
		if end > p.SafeTop {
			p.Dropped = len(job.Events) - i
			break
		}

		p.Bars = append(p.Bars, image.Rect(margin, cursor-8, right, cursor-4))
		p.Lines = append(p.Lines, block...)
		p.Drawn++
		cursor = end
	}

	return p
}

// bannerRect scales a banner to the full canvas width. A banner taller than maxHeight is
// shrunk to that height, keeping its aspect ratio, and centred horizontally.
func bannerRect(b image.Rectangle, maxHeight int) image.Rectangle {
	if b.Dx() <= 0 || b.Dy() <= 0 || maxHeight <= 0 {
		return image.Rectangle{}
	}

	h := b.Dy() * Width / b.Dx()
	if h <= maxHeight {
		return image.Rect(0, 0, Width, h)
	}

	w := b.Dx() * maxHeight / b.Dy()
	x := (Width - w) / 2
	return image.Rect(x, 0, x+w, maxHeight)
}

// block positions the name and meta lines of one event starting at top
func (c *Composer) block(evt event.Event, top int) []TextLine {
	var lines []TextLine
	y := top
	for _, ln := range Wrap(evt.Name, nameWidth) {
		lines = append(lines, TextLine{Text: ln, X: margin, Y: y, Size: c.opts.BodySize, Role: RoleBody})
		y += c.opts.BodySize + lineGap
	}
	lines = append(lines, TextLine{
		Text: strings.Join(evt.Meta(), metaSep),
		X:    margin,
		Y:    y,
		Size: c.opts.SubSize,
		Role: RoleMeta,
	})
	return lines
}

func (c *Composer) blockHeight(lines []TextLine) int {
	names := len(lines) - 1
	return names*(c.opts.BodySize+lineGap) + c.opts.SubSize + blockGap
}

// warningHeight is the vertical space layoutWarning needs to draw every line
func (c *Composer) warningHeight() int {
	warn := len(Wrap(WarningText, warningWidth))
	hint := len(Wrap(RetryHint, warningWidth+8))
	return warn*(c.opts.BodySize+lineGap) + blockGap + (hint-1)*(c.opts.SubSize+lineGap) + c.opts.SubSize
}

func (c *Composer) layoutWarning(p *Plan, cursor int) {
	add := func(text string, size int, role Role) {
		if cursor+size > p.SafeTop {
			return
		}
		p.Lines = append(p.Lines, TextLine{Text: text, X: margin, Y: cursor, Size: size, Role: role})
		cursor += size + lineGap
	}

	for _, ln := range Wrap(WarningText, warningWidth) {
		add(ln, c.opts.BodySize, RoleWarning)
	}
	cursor += blockGap
	for _, ln := range Wrap(RetryHint, warningWidth+8) {
		add(ln, c.opts.SubSize, RoleHint)
	}
}
