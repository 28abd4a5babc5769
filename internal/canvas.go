package internal

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/disintegration/imaging"
)

// Compositor letterboxes images onto a fixed-size canvas.
type Compositor struct {
	Width      int
	Height     int
	Background color.Color
	Filter     imaging.ResampleFilter
}

// Result is a finished canvas.
type Result struct {
	Image *image.NRGBA
	// Format is the lower-cased name of the source format, e.g. "jpeg".
	Format string
	Left   int
	Top    int
	Scaled image.Point
}

// Fit returns the size of a sw x sh image scaled uniformly so that it fits
// inside the canvas with at least one axis touching the edge.
func (c Compositor) Fit(sw, sh int) (int, int) {
	scale := math.Min(float64(c.Width)/float64(sw), float64(c.Height)/float64(sh))
	w := clamp(int(math.Round(float64(sw)*scale)), 1, c.Width)
	h := clamp(int(math.Round(float64(sh)*scale)), 1, c.Height)
	return w, h
}

// Composite scales img to fit and centers it on a background-filled canvas.
func (c Compositor) Composite(img image.Image, format string) (*Result, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: source is %dx%d", ErrInvalidImage, b.Dx(), b.Dy())
	}

	w, h := c.Fit(b.Dx(), b.Dy())
	if w != b.Dx() || h != b.Dy() {
		img = imaging.Resize(img, w, h, c.Filter)
	}

	left := (c.Width - w) / 2
	top := (c.Height - h) / 2

	canvas := imaging.New(c.Width, c.Height, c.Background)
	canvas = imaging.Paste(canvas, img, image.Pt(left, top))

	return &Result{
		Image:  canvas,
		Format: strings.ToLower(format),
		Left:   left,
		Top:    top,
		Scaled: image.Pt(w, h),
	}, nil
}

// Rotate turns img by degrees clockwise. Right angles are exact; any other
// angle leaves corners filled with bg.
func Rotate(img image.Image, degrees int, bg color.Color) image.Image {
	switch ((degrees % 360) + 360) % 360 {
	case 0:
		return img
	case 90:
		return imaging.Rotate270(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate90(img)
	}
	// imaging rotates counter-clockwise.
	return imaging.Rotate(img, -float64(degrees), bg)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
