package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/tsawler/regiongdp/model"
)

// captionHeight is the strip added below a PNG chart.
const captionHeight = 22

// Caption returns the attribution line drawn under PNG charts.
func Caption(src model.Source) string {
	return fmt.Sprintf("Source: Wikipedia, %s figures. %s", src, Unit)
}

// writeCaptioned decodes the PNG in r, appends a caption strip and encodes
// the result to w.
func writeCaptioned(w io.Writer, r io.Reader, text string) error {
	img, err := png.Decode(r)
	if err != nil {
		return fmt.Errorf("decoding chart: %w", err)
	}
	if err := png.Encode(w, drawCaption(img, text)); err != nil {
		return fmt.Errorf("encoding chart: %w", err)
	}
	return nil
}

// drawCaption returns a copy of img extended by a white strip holding text.
func drawCaption(img image.Image, text string) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}

	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()+captionHeight))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(0, 0, b.Dx(), b.Dy()), img, b.Min, draw.Src)

	// Thin rule between chart and caption
	rule := image.Rect(0, b.Dy(), b.Dx(), b.Dy()+1)
	draw.Draw(out, rule, image.NewUniform(color.RGBA{R: 200, G: 200, B: 200, A: 255}), image.Point{}, draw.Over)

	face := basicfont.Face7x13
	dr := &font.Drawer{
		Dst:  out,
		Src:  image.NewUniform(color.RGBA{R: 60, G: 60, B: 60, A: 255}),
		Face: face,
	}
	x := 8
	if tw := dr.MeasureString(text).Ceil(); tw+16 < b.Dx() {
		x = (b.Dx() - tw) / 2
	}
	y := b.Dy() + (captionHeight+face.Metrics().Ascent.Ceil())/2
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)

	return out
}
