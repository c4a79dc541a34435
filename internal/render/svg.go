package render

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/jbeda/geom"

	"github.com/ironsheep/kolam-tools-mcp/internal/pattern"
)

// WriteSVG renders scene as a size×size SVG document.
//
// Strokes are emitted inside one group carrying the line style; dots follow
// in a second group. SVG coordinates are integers, so positions are rounded
// to the nearest pixel.
func WriteSVG(w io.Writer, scene *pattern.Scene, style Style, size int) error {
	if err := checkSize(size); err != nil {
		return err
	}

	ew := &errWriter{w: w}
	vp := fit(scene.Bounds(), size, size, margin(size, style))
	cmds := Commands(scene, style.ShowDots)

	canvas := svg.New(ew)
	canvas.Start(size, size)
	canvas.Rect(0, 0, size, size, "fill:"+style.Background.Hex())

	canvas.Gstyle(fmt.Sprintf(
		"fill:none;stroke:%s;stroke-width:%.2f;stroke-linecap:round;stroke-linejoin:round",
		style.Line.Hex(), style.LineWidth))
	for _, c := range cmds {
		switch c.Op {
		case OpLine:
			x1, y1 := pixel(vp, c.Points[0])
			x2, y2 := pixel(vp, c.Points[1])
			canvas.Line(x1, y1, x2, y2)
		case OpPolygon:
			xs := make([]int, len(c.Points))
			ys := make([]int, len(c.Points))
			for i, p := range c.Points {
				xs[i], ys[i] = pixel(vp, p)
			}
			canvas.Polygon(xs, ys)
		case OpArc:
			writeArc(canvas, vp, c)
		case OpCircle:
			x, y := pixel(vp, c.Center)
			canvas.Circle(x, y, round(vp.length(c.Radius)))
		}
	}
	canvas.Gend()

	if style.ShowDots {
		canvas.Gstyle("fill:" + style.Dot.Hex() + ";stroke:none")
		r := round(style.DotRadius)
		for _, c := range cmds {
			if c.Op == OpDot {
				x, y := pixel(vp, c.Center)
				canvas.Circle(x, y, r)
			}
		}
		canvas.Gend()
	}

	canvas.End()
	if ew.err != nil {
		return fmt.Errorf("failed to write svg: %w", ew.err)
	}
	return nil
}

// writeArc emits a counter-clockwise design-plane arc. The Y flip turns it
// into a negative-angle (sweep flag 0) arc in SVG space.
func writeArc(canvas *svg.SVG, vp viewport, c Command) {
	sweep := c.End - c.Start
	r := round(vp.length(c.Radius))
	if math.Abs(sweep) >= 360 {
		x, y := pixel(vp, c.Center)
		canvas.Circle(x, y, r)
		return
	}
	at := func(deg float64) geom.Coord {
		rad := deg * math.Pi / 180
		return c.Center.Plus(geom.Coord{X: math.Cos(rad), Y: math.Sin(rad)}.Times(c.Radius))
	}
	sx, sy := pixel(vp, at(c.Start))
	ex, ey := pixel(vp, at(c.End))
	canvas.Arc(sx, sy, r, r, 0, math.Abs(sweep) > 180, sweep < 0, ex, ey)
}

func pixel(vp viewport, c geom.Coord) (int, int) {
	p := vp.project(c)
	return round(p.X), round(p.Y)
}

func round(v float64) int {
	return int(math.Round(v))
}

// errWriter remembers the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
