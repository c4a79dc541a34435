package pattern

import (
	"math"

	"github.com/jbeda/geom"
)

// MotifKind identifies the drawable primitive a Motif describes.
type MotifKind int

const (
	MotifDiamond MotifKind = iota
	MotifArc
	MotifLoop
	MotifLine
)

// String returns the lowercase name used in JSON output.
func (k MotifKind) String() string {
	switch k {
	case MotifDiamond:
		return "diamond"
	case MotifArc:
		return "arc"
	case MotifLoop:
		return "loop"
	case MotifLine:
		return "line"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k MotifKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Motif is one geometric primitive placed on the design plane.
//
// Which fields are meaningful depends on Kind:
//   - Diamond: Center, Size (half-diagonal); vertices at N/E/S/W of Center
//   - Arc: Center, Size (radius), Start and End in degrees, counter-clockwise
//   - Loop: Center, Size (radius)
//   - Line: From, To
type Motif struct {
	Kind   MotifKind  `json:"kind"`
	Center geom.Coord `json:"center"`
	Size   float64    `json:"size,omitempty"`
	Start  float64    `json:"start,omitempty"`
	End    float64    `json:"end,omitempty"`
	From   geom.Coord `json:"from"`
	To     geom.Coord `json:"to"`
}

// Diamond returns an axis-aligned diamond centred on c.
func Diamond(c geom.Coord, halfDiagonal float64) Motif {
	return Motif{Kind: MotifDiamond, Center: c, Size: halfDiagonal}
}

// Arc returns a circular arc from start to end degrees, counter-clockwise.
func Arc(c geom.Coord, radius, start, end float64) Motif {
	return Motif{Kind: MotifArc, Center: c, Size: radius, Start: start, End: end}
}

// Loop returns a full circle.
func Loop(c geom.Coord, radius float64) Motif {
	return Motif{Kind: MotifLoop, Center: c, Size: radius}
}

// Line returns a straight segment.
func Line(from, to geom.Coord) Motif {
	return Motif{Kind: MotifLine, From: from, To: to}
}

// Vertices returns the N, E, S, W corners of a diamond motif.
func (m Motif) Vertices() [4]geom.Coord {
	c, s := m.Center, m.Size
	return [4]geom.Coord{
		{X: c.X, Y: c.Y + s},
		{X: c.X + s, Y: c.Y},
		{X: c.X, Y: c.Y - s},
		{X: c.X - s, Y: c.Y},
	}
}

// pointAt returns the point on the motif's circle at deg degrees.
func (m Motif) pointAt(deg float64) geom.Coord {
	rad := deg * math.Pi / 180
	return geom.Coord{
		X: m.Center.X + m.Size*math.Cos(rad),
		Y: m.Center.Y + m.Size*math.Sin(rad),
	}
}

// Endpoints returns where the stroke of an open motif starts and ends. Closed
// motifs (diamonds, loops) start and end at the same point.
func (m Motif) Endpoints() (geom.Coord, geom.Coord) {
	switch m.Kind {
	case MotifLine:
		return m.From, m.To
	case MotifArc:
		return m.pointAt(m.Start), m.pointAt(m.End)
	case MotifDiamond:
		v := m.Vertices()
		return v[0], v[0]
	default:
		p := m.pointAt(0)
		return p, p
	}
}

// Sweep returns the angular extent of an arc in degrees.
func (m Motif) Sweep() float64 {
	return m.End - m.Start
}

// Polyline flattens the motif into a sequence of points. Curves are sampled
// with the given number of segments per full turn (minimum 8). Closed motifs
// repeat their first point at the end.
func (m Motif) Polyline(segmentsPerTurn int) []geom.Coord {
	if segmentsPerTurn < 8 {
		segmentsPerTurn = 8
	}

	switch m.Kind {
	case MotifLine:
		return []geom.Coord{m.From, m.To}
	case MotifDiamond:
		v := m.Vertices()
		return []geom.Coord{v[0], v[1], v[2], v[3], v[0]}
	case MotifLoop:
		return m.sample(0, 360, segmentsPerTurn)
	case MotifArc:
		return m.sample(m.Start, m.End, segmentsPerTurn)
	}
	return nil
}

func (m Motif) sample(start, end float64, segmentsPerTurn int) []geom.Coord {
	steps := int(math.Ceil(math.Abs(end-start) / 360 * float64(segmentsPerTurn)))
	if steps < 1 {
		steps = 1
	}
	pts := make([]geom.Coord, steps+1)
	for i := 0; i <= steps; i++ {
		pts[i] = m.pointAt(start + (end-start)*float64(i)/float64(steps))
	}
	return pts
}

// Bounds returns the axis-aligned box enclosing the motif's stroke centreline.
func (m Motif) Bounds() geom.Rect {
	switch m.Kind {
	case MotifLine:
		r := geom.Rect{Min: m.From, Max: m.From}
		r.ExpandToContainCoord(m.To)
		return r
	case MotifDiamond, MotifLoop:
		return geom.Rect{
			Min: geom.Coord{X: m.Center.X - m.Size, Y: m.Center.Y - m.Size},
			Max: geom.Coord{X: m.Center.X + m.Size, Y: m.Center.Y + m.Size},
		}
	}
	pts := m.Polyline(72)
	r := geom.Rect{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r.ExpandToContainCoord(p)
	}
	return r
}
