package render

import (
	"fmt"
	"image"
	"image/draw"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/jbeda/geom"
	"golang.org/x/image/vector"

	"github.com/ironsheep/kolam-tools-mcp/internal/pattern"
)

// Canvas size limits in pixels.
const (
	MinCanvasSize = 16
	MaxCanvasSize = 4096
)

func checkSize(size int) error {
	if size < MinCanvasSize || size > MaxCanvasSize {
		return fmt.Errorf("%w: canvas size %d must be between %d and %d",
			ErrInvalidStyle, size, MinCanvasSize, MaxCanvasSize)
	}
	return nil
}

// Raster draws scene onto a new size×size RGBA canvas.
//
// Every stroke is converted to filled polygons (one quad per segment plus a
// round cap at each vertex) and accumulated in a single anti-aliasing
// rasterizer, which is then composited once in the line color. Dots use a
// second rasterizer painted on top.
func Raster(scene *pattern.Scene, style Style, size int) (*image.RGBA, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(opaque(style.Background)), image.Point{}, draw.Src)

	vp := fit(scene.Bounds(), size, size, margin(size, style))
	strokes := vector.NewRasterizer(size, size)
	dots := vector.NewRasterizer(size, size)
	halfWidth := style.LineWidth / 2

	for _, c := range Commands(scene, style.ShowDots) {
		if c.Op == OpDot {
			addDisc(dots, vp.project(c.Center), style.DotRadius)
			continue
		}
		strokePolyline(strokes, pixelPath(vp, c), halfWidth)
	}

	strokes.Draw(img, img.Bounds(), image.NewUniform(opaque(style.Line)), image.Point{})
	if style.ShowDots {
		dots.Draw(img, img.Bounds(), image.NewUniform(opaque(style.Dot)), image.Point{})
	}
	return img, nil
}

// WritePNG renders scene and encodes it to w as PNG.
func WritePNG(w io.Writer, scene *pattern.Scene, style Style, size int) error {
	img, err := Raster(scene, style, size)
	if err != nil {
		return err
	}
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return fmt.Errorf("failed to encode pattern image: %w", err)
	}
	return nil
}

// pixelPath flattens a stroke command into a pixel-space polyline.
func pixelPath(vp viewport, c Command) []geom.Coord {
	switch c.Op {
	case OpLine:
		return []geom.Coord{vp.project(c.Points[0]), vp.project(c.Points[1])}
	case OpPolygon:
		pts := make([]geom.Coord, 0, len(c.Points)+1)
		for _, p := range c.Points {
			pts = append(pts, vp.project(p))
		}
		return append(pts, pts[0])
	case OpArc:
		return arcPoints(vp.project(c.Center), vp.length(c.Radius), c.Start, c.End)
	case OpCircle:
		return arcPoints(vp.project(c.Center), vp.length(c.Radius), 0, 360)
	}
	return nil
}

// arcPoints samples a counter-clockwise design-plane arc in pixel space,
// where Y points down. Sampling density follows the pixel radius.
func arcPoints(center geom.Coord, r, start, end float64) []geom.Coord {
	perTurn := int(2 * math.Pi * r / 3)
	if perTurn < 24 {
		perTurn = 24
	}
	if perTurn > 360 {
		perTurn = 360
	}
	steps := int(math.Ceil(math.Abs(end-start) / 360 * float64(perTurn)))
	if steps < 1 {
		steps = 1
	}

	pts := make([]geom.Coord, steps+1)
	for i := 0; i <= steps; i++ {
		rad := (start + (end-start)*float64(i)/float64(steps)) * math.Pi / 180
		pts[i] = geom.Coord{X: center.X + r*math.Cos(rad), Y: center.Y - r*math.Sin(rad)}
	}
	return pts
}

// strokePolyline adds a stroke of the given half width along pts. Quads and
// caps are all wound the same way so overlapping coverage saturates instead
// of cancelling.
func strokePolyline(r *vector.Rasterizer, pts []geom.Coord, halfWidth float64) {
	for i := 0; i+1 < len(pts); i++ {
		p, q := pts[i], pts[i+1]
		d := q.Minus(p)
		if d.Magnitude() < 1e-9 {
			continue
		}
		u := d.Unit()
		n := geom.Coord{X: -u.Y, Y: u.X}.Times(halfWidth)
		addQuad(r, p.Plus(n), q.Plus(n), q.Minus(n), p.Minus(n))
	}
	for _, p := range pts {
		addDisc(r, p, halfWidth)
	}
}

func addQuad(r *vector.Rasterizer, a, b, c, d geom.Coord) {
	r.MoveTo(float32(a.X), float32(a.Y))
	r.LineTo(float32(b.X), float32(b.Y))
	r.LineTo(float32(c.X), float32(c.Y))
	r.LineTo(float32(d.X), float32(d.Y))
	r.ClosePath()
}

// addDisc adds a filled circle, traced with decreasing angle to match the
// winding of addQuad.
func addDisc(r *vector.Rasterizer, c geom.Coord, radius float64) {
	const segments = 24
	r.MoveTo(float32(c.X+radius), float32(c.Y))
	for i := 1; i < segments; i++ {
		t := -2 * math.Pi * float64(i) / segments
		r.LineTo(float32(c.X+radius*math.Cos(t)), float32(c.Y+radius*math.Sin(t)))
	}
	r.ClosePath()
}
