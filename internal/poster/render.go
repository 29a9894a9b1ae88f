package poster

import (
	"bytes"
	"image"
	"image/png"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/pfrederiksen/bwf-poster/internal/logger"
)

// Render lays out job and encodes the poster as PNG. Identical jobs and assets produce
// identical bytes.
func (c *Composer) Render(job Job) ([]byte, error) {
	start := time.Now()
	defer func() {
		logger.RecordTiming("poster.render", time.Since(start))
	}()

	plan := c.Layout(job)
	img := c.Paint(plan)

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, &RenderError{Op: "encode", Err: err}
	}

	logger.Debug("Rendered poster", logger.Fields{
		"events":  plan.Drawn,
		"dropped": plan.Dropped,
		"bytes":   buf.Len(),
	})
	return buf.Bytes(), nil
}

// Paint draws a plan onto a fresh canvas
func (c *Composer) Paint(plan Plan) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(colorBackground), image.Point{}, draw.Src)

	if c.banner != nil && !plan.Banner.Empty() {
		draw.CatmullRom.Scale(canvas, plan.Banner, c.banner, c.banner.Bounds(), draw.Over, nil)
	}
	if c.corner != nil && !plan.Corner.Empty() {
		draw.CatmullRom.Scale(canvas, plan.Corner, c.corner, c.corner.Bounds(), draw.Over, nil)
	}

	bar := image.NewUniform(colorBar)
	for _, r := range plan.Bars {
		draw.Draw(canvas, r, bar, image.Point{}, draw.Src)
	}

	faces := c.newFaces()
	defer faces.close()

	for _, line := range plan.Header {
		drawText(canvas, faces.forRole(line.Role), line)
	}
	for _, line := range plan.Lines {
		drawText(canvas, faces.forRole(line.Role), line)
	}

	return canvas
}

func drawText(dst draw.Image, face font.Face, line TextLine) {
	if line.Text == "" {
		return
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(roleColors[line.Role]),
		Face: face,
		Dot:  fixed.P(line.X, line.Y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(line.Text)
}
