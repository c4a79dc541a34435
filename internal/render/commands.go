package render

import (
	"github.com/jbeda/geom"

	"github.com/ironsheep/kolam-tools-mcp/internal/pattern"
)

// Op is a draw command opcode.
type Op int

const (
	// OpLine strokes the segment Points[0]-Points[1].
	OpLine Op = iota
	// OpPolygon strokes the closed outline through Points.
	OpPolygon
	// OpArc strokes a counter-clockwise arc from Start to End degrees.
	OpArc
	// OpCircle strokes a full circle.
	OpCircle
	// OpDot fills a lattice dot at Center using the style's dot radius.
	OpDot
)

func (o Op) String() string {
	switch o {
	case OpLine:
		return "line"
	case OpPolygon:
		return "polygon"
	case OpArc:
		return "arc"
	case OpCircle:
		return "circle"
	case OpDot:
		return "dot"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (o Op) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Command is one backend-independent drawing step in design-plane coordinates.
type Command struct {
	Op     Op           `json:"op"`
	Points []geom.Coord `json:"points,omitempty"`
	Center geom.Coord   `json:"center"`
	Radius float64      `json:"radius,omitempty"`
	Start  float64      `json:"start,omitempty"`
	End    float64      `json:"end,omitempty"`
}

// Commands flattens a scene into an ordered list of draw commands. Strokes
// come first in motif order, then the dots when showDots is set, so dots are
// painted on top.
func Commands(scene *pattern.Scene, showDots bool) []Command {
	cmds := make([]Command, 0, len(scene.Motifs)+scene.Grid.Len())
	for _, m := range scene.Motifs {
		switch m.Kind {
		case pattern.MotifLine:
			cmds = append(cmds, Command{Op: OpLine, Points: []geom.Coord{m.From, m.To}})
		case pattern.MotifDiamond:
			v := m.Vertices()
			cmds = append(cmds, Command{Op: OpPolygon, Points: v[:], Center: m.Center})
		case pattern.MotifArc:
			cmds = append(cmds, Command{Op: OpArc, Center: m.Center, Radius: m.Size, Start: m.Start, End: m.End})
		case pattern.MotifLoop:
			cmds = append(cmds, Command{Op: OpCircle, Center: m.Center, Radius: m.Size})
		}
	}
	if showDots {
		for _, p := range scene.Grid.Points {
			cmds = append(cmds, Command{Op: OpDot, Center: p})
		}
	}
	return cmds
}

// viewport maps design-plane coordinates onto a pixel canvas with Y pointing
// down, preserving aspect ratio and centring the content.
type viewport struct {
	center        geom.Coord
	scale         float64
	width, height int
}

func fit(bounds geom.Rect, width, height int, margin float64) viewport {
	extent := bounds.Width()
	if bounds.Height() > extent {
		extent = bounds.Height()
	}
	if extent <= 0 {
		extent = 1
	}

	avail := float64(width)
	if h := float64(height); h < avail {
		avail = h
	}
	avail -= 2 * margin
	if avail < 1 {
		avail = 1
	}

	return viewport{
		center: bounds.Min.Plus(bounds.Max).Times(0.5),
		scale:  avail / extent,
		width:  width,
		height: height,
	}
}

// project returns the pixel position of c.
func (v viewport) project(c geom.Coord) geom.Coord {
	d := c.Minus(v.center).Times(v.scale)
	return geom.Coord{
		X: float64(v.width)/2 + d.X,
		Y: float64(v.height)/2 - d.Y,
	}
}

// length converts a design-plane distance to pixels.
func (v viewport) length(d float64) float64 {
	return d * v.scale
}

// margin leaves room around the content for strokes and dots that extend
// past the scene bounds.
func margin(size int, style Style) float64 {
	return 0.06*float64(size) + style.LineWidth + style.DotRadius
}
