package pattern

import (
	"fmt"
	"strings"

	"github.com/jbeda/geom"
)

// Type selects which motifs are placed on the lattice.
type Type string

const (
	StraightLines     Type = "straight-lines"
	ConnectedDiamonds Type = "connected-diamonds"
	DiamondArcs       Type = "diamond-arcs"
	Loops             Type = "loops"
	Mixed             Type = "mixed"
	DiamondLattice    Type = "diamond-lattice"
)

// Types lists every supported pattern type in presentation order.
func Types() []Type {
	return []Type{StraightLines, ConnectedDiamonds, DiamondArcs, Loops, Mixed, DiamondLattice}
}

// ParseType resolves a pattern name. Matching ignores case and accepts spaces
// or underscores in place of hyphens, so "Connected Diamonds" is accepted.
func ParseType(name string) (Type, error) {
	norm := strings.ToLower(strings.TrimSpace(name))
	norm = strings.NewReplacer(" ", "-", "_", "-").Replace(norm)
	for _, t := range Types() {
		if string(t) == norm {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown pattern type %q", ErrInvalidParameter, name)
}

// loopRadiusRatio sizes loops relative to the dot spacing so that loops on
// neighbouring dots stay clear of each other.
const loopRadiusRatio = 1 / 2.2

// Params describes one pattern generation request.
type Params struct {
	// Type selects the motif family.
	Type Type

	// GridSize is the number of dots per side for the square patterns.
	GridSize int

	// MaxWidth is the widest row of the diamond-lattice pattern.
	MaxWidth int

	// Spacing is the distance between neighbouring dots. Must be positive.
	Spacing float64

	// Clamp coerces out-of-range GridSize and MaxWidth values instead of
	// rejecting them.
	Clamp bool
}

// Scene is the complete geometry of a generated pattern.
type Scene struct {
	Type        Type         `json:"type"`
	Grid        *DotGrid     `json:"grid"`
	Border      []int        `json:"border,omitempty"`
	Connections []Connection `json:"connections,omitempty"`
	Motifs      []Motif      `json:"motifs"`
}

// Bounds returns the box enclosing every dot and every motif centreline.
func (s *Scene) Bounds() geom.Rect {
	var r geom.Rect
	first := true
	add := func(b geom.Rect) {
		if first {
			r = b
			first = false
			return
		}
		r.ExpandToContainRect(b)
	}
	for _, p := range s.Grid.Points {
		add(geom.Rect{Min: p, Max: p})
	}
	for _, m := range s.Motifs {
		add(m.Bounds())
	}
	return r
}

// CountKind returns how many motifs of kind k the scene holds.
func (s *Scene) CountKind(k MotifKind) int {
	n := 0
	for _, m := range s.Motifs {
		if m.Kind == k {
			n++
		}
	}
	return n
}

// Generate validates p and builds the scene for the requested pattern.
func Generate(p Params) (*Scene, error) {
	if !(p.Spacing > 0) {
		return nil, fmt.Errorf("%w: spacing %v must be positive", ErrInvalidParameter, p.Spacing)
	}

	if p.Type == DiamondLattice {
		width := p.MaxWidth
		if p.Clamp {
			width = ClampMaxWidth(width)
		}
		grid, err := DiamondLayout(width, p.Spacing)
		if err != nil {
			return nil, err
		}
		return diamondLatticeScene(grid), nil
	}

	n := p.GridSize
	if p.Clamp {
		n = ClampGridSize(n)
	}
	grid, err := SquareLayout(n, p.Spacing)
	if err != nil {
		return nil, err
	}

	scene := &Scene{Type: p.Type, Grid: grid}
	switch p.Type {
	case StraightLines:
		scene.Motifs = straightLines(n, p.Spacing)
	case ConnectedDiamonds:
		scene.Motifs = cellDiamonds(n, p.Spacing)
	case DiamondArcs:
		scene.Motifs = append(cellDiamonds(n, p.Spacing), borderArcs(n, p.Spacing)...)
	case Loops:
		scene.Motifs = dotLoops(grid)
	case Mixed:
		scene.Motifs = checkerboard(n, p.Spacing)
	default:
		return nil, fmt.Errorf("%w: unknown pattern type %q", ErrInvalidParameter, p.Type)
	}
	return scene, nil
}

// diamondLatticeScene places a diamond on every interior dot and a stroke
// between every diagonally adjacent pair, border dots included.
func diamondLatticeScene(grid *DotGrid) *Scene {
	border := FindBorder(grid.Points)
	conns := DiagonalConnections(grid.Points, grid.Spacing)

	motifs := make([]Motif, 0, len(grid.Points)+len(conns))
	for idx, p := range grid.Points {
		if border.Contains(idx) {
			continue
		}
		motifs = append(motifs, Diamond(p, grid.Spacing/2))
	}
	for _, c := range conns {
		motifs = append(motifs, Line(grid.Points[c.A], grid.Points[c.B]))
	}

	return &Scene{
		Type:        DiamondLattice,
		Grid:        grid,
		Border:      border.Indices(),
		Connections: conns,
		Motifs:      motifs,
	}
}

func straightLines(n int, s float64) []Motif {
	far := float64(n-1) * s
	motifs := make([]Motif, 0, 2*n)
	for i := 0; i < n; i++ {
		at := float64(i) * s
		motifs = append(motifs,
			Line(geom.Coord{X: 0, Y: at}, geom.Coord{X: far, Y: at}),
			Line(geom.Coord{X: at, Y: 0}, geom.Coord{X: at, Y: far}),
		)
	}
	return motifs
}

func cellCentre(i, j int, s float64) geom.Coord {
	return geom.Coord{X: (float64(i) + 0.5) * s, Y: (float64(j) + 0.5) * s}
}

func cellDiamonds(n int, s float64) []Motif {
	motifs := make([]Motif, 0, (n-1)*(n-1))
	for i := 0; i < n-1; i++ {
		for j := 0; j < n-1; j++ {
			motifs = append(motifs, Diamond(cellCentre(i, j, s), s/2))
		}
	}
	return motifs
}

func dotLoops(grid *DotGrid) []Motif {
	motifs := make([]Motif, 0, grid.Len())
	for _, p := range grid.Points {
		motifs = append(motifs, Loop(p, grid.Spacing*loopRadiusRatio))
	}
	return motifs
}

func checkerboard(n int, s float64) []Motif {
	motifs := make([]Motif, 0, (n-1)*(n-1))
	for i := 0; i < n-1; i++ {
		for j := 0; j < n-1; j++ {
			c := cellCentre(i, j, s)
			if (i+j)%2 == 0 {
				motifs = append(motifs, Diamond(c, s/2))
			} else {
				motifs = append(motifs, Loop(c, s*loopRadiusRatio))
			}
		}
	}
	return motifs
}

// borderArcs closes a field of cell diamonds. The cell diamonds along each
// edge touch the border line at points half a spacing either side of every
// border dot, so an outward arc of radius s/2 centred on the dot meets both.
// Edge dots get half circles; corner dots get three-quarter arcs joining the
// two diamond corners next to them.
func borderArcs(n int, s float64) []Motif {
	far := float64(n-1) * s
	r := s / 2
	motifs := make([]Motif, 0, 4*(n-1))

	for i := 1; i < n-1; i++ {
		at := float64(i) * s
		motifs = append(motifs,
			Arc(geom.Coord{X: at, Y: far}, r, 0, 180),  // top, bulging up
			Arc(geom.Coord{X: at, Y: 0}, r, 180, 360),  // bottom, bulging down
			Arc(geom.Coord{X: 0, Y: at}, r, 90, 270),   // left, bulging left
			Arc(geom.Coord{X: far, Y: at}, r, -90, 90), // right, bulging right
		)
	}

	motifs = append(motifs,
		Arc(geom.Coord{X: 0, Y: 0}, r, 90, 360),
		Arc(geom.Coord{X: far, Y: 0}, r, 180, 450),
		Arc(geom.Coord{X: far, Y: far}, r, -90, 180),
		Arc(geom.Coord{X: 0, Y: far}, r, 0, 270),
	)
	return motifs
}
